package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/salonflow/salonflow/libs/db"
	"github.com/salonflow/salonflow/services/availability-service/internal/availability"
)

// ScheduleRepository is the local read model of schedule state. It is
// populated by consuming schedule events, never written by HTTP
// handlers, and queried to assemble the rule snapshot the engine runs
// against.
type ScheduleRepository struct {
	pool *db.Pool
}

func NewScheduleRepository(pool *db.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

// Snapshot assembles the full rule state for one staff member. Returns
// pgx.ErrNoRows when the staff member is unknown or inactive, so
// callers can distinguish a missing staff from an empty schedule.
func (r *ScheduleRepository) Snapshot(ctx context.Context, businessID, staffID string) (availability.ScheduleSnapshot, error) {
	var snap availability.ScheduleSnapshot

	var timezone string
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(b.timezone, 'UTC')
		FROM staff_members s
		LEFT JOIN business_profiles b ON b.business_id = s.business_id
		WHERE s.id = $1 AND s.business_id = $2 AND s.active
	`, staffID, businessID).Scan(&timezone)
	if err != nil {
		return snap, err
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	snap.Location = loc

	snap.Weekly, err = r.weeklyRules(ctx, staffID)
	if err != nil {
		return snap, err
	}
	snap.Blackouts, err = r.blackouts(ctx, staffID)
	if err != nil {
		return snap, err
	}
	snap.Exceptions, err = r.exceptions(ctx, staffID)
	if err != nil {
		return snap, err
	}
	snap.Rules, err = r.ruleSet(ctx, staffID)
	if err != nil {
		return snap, err
	}
	return snap, nil
}

func (r *ScheduleRepository) weeklyRules(ctx context.Context, staffID string) (map[time.Weekday]availability.WorkingHoursRule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT weekday, is_working, start_minute, end_minute
		FROM staff_working_hours
		WHERE staff_id = $1
	`, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weekly := make(map[time.Weekday]availability.WorkingHoursRule)
	for rows.Next() {
		var rule availability.WorkingHoursRule
		var weekday int
		if err := rows.Scan(&weekday, &rule.IsWorking, &rule.StartMinute, &rule.EndMinute); err != nil {
			return nil, err
		}
		rule.Weekday = time.Weekday(weekday)
		weekly[rule.Weekday] = rule
	}
	return weekly, rows.Err()
}

func (r *ScheduleRepository) blackouts(ctx context.Context, staffID string) (map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT blackout_date::text
		FROM staff_blackout_dates
		WHERE staff_id = $1
	`, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := make(map[string]struct{})
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates[d] = struct{}{}
	}
	return dates, rows.Err()
}

func (r *ScheduleRepository) exceptions(ctx context.Context, staffID string) ([]availability.ScheduleException, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT start_date::text, end_date::text, closed, start_minute, end_minute
		FROM schedule_exceptions
		WHERE staff_id = $1
		ORDER BY start_date
	`, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exceptions []availability.ScheduleException
	for rows.Next() {
		var ex availability.ScheduleException
		if err := rows.Scan(&ex.StartDate, &ex.EndDate, &ex.Closed, &ex.StartMinute, &ex.EndMinute); err != nil {
			return nil, err
		}
		exceptions = append(exceptions, ex)
	}
	return exceptions, rows.Err()
}

func (r *ScheduleRepository) ruleSet(ctx context.Context, staffID string) (availability.RuleSet, error) {
	var rules availability.RuleSet
	err := r.pool.QueryRow(ctx, `
		SELECT min_notice_minutes, max_advance_days, slot_step_minutes
		FROM staff_rule_sets
		WHERE staff_id = $1
	`, staffID).Scan(&rules.MinNoticeMinutes, &rules.MaxAdvanceDays, &rules.SlotStepMinutes)
	if err == pgx.ErrNoRows {
		return availability.RuleSet{}, nil
	}
	return rules, err
}

// The methods below apply replicated schedule events. Each is an
// idempotent upsert or delete so redelivered events converge.

func (r *ScheduleRepository) UpsertBusiness(ctx context.Context, businessID, timezone string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO business_profiles (business_id, timezone)
		VALUES ($1, $2)
		ON CONFLICT (business_id) DO UPDATE SET timezone = EXCLUDED.timezone, updated_at = now()
	`, businessID, timezone)
	return err
}

func (r *ScheduleRepository) UpsertStaff(ctx context.Context, staffID, businessID, displayName string, active bool) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO staff_members (id, business_id, display_name, active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET display_name = EXCLUDED.display_name, active = EXCLUDED.active, updated_at = now()
	`, staffID, businessID, displayName, active)
	return err
}

// ReplaceWorkingHours swaps the full weekly rule set in one
// transaction so a half-applied update is never visible.
func (r *ScheduleRepository) ReplaceWorkingHours(ctx context.Context, staffID, businessID string, rules []availability.WorkingHoursRule) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM staff_working_hours WHERE staff_id = $1`, staffID); err != nil {
		return err
	}
	for _, rule := range rules {
		_, err := tx.Exec(ctx, `
			INSERT INTO staff_working_hours (staff_id, business_id, weekday, is_working, start_minute, end_minute)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, staffID, businessID, int(rule.Weekday), rule.IsWorking, rule.StartMinute, rule.EndMinute)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *ScheduleRepository) SetBlackout(ctx context.Context, staffID, businessID, date string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO staff_blackout_dates (staff_id, business_id, blackout_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (staff_id, blackout_date) DO NOTHING
	`, staffID, businessID, date)
	return err
}

func (r *ScheduleRepository) RemoveBlackout(ctx context.Context, staffID, date string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM staff_blackout_dates WHERE staff_id = $1 AND blackout_date = $2
	`, staffID, date)
	return err
}

func (r *ScheduleRepository) UpsertException(ctx context.Context, exceptionID, staffID, businessID string, ex availability.ScheduleException) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO schedule_exceptions (id, staff_id, business_id, start_date, end_date, closed, start_minute, end_minute)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			closed = EXCLUDED.closed,
			start_minute = EXCLUDED.start_minute,
			end_minute = EXCLUDED.end_minute,
			updated_at = now()
	`, exceptionID, staffID, businessID, ex.StartDate, ex.EndDate, ex.Closed, ex.StartMinute, ex.EndMinute)
	return err
}

func (r *ScheduleRepository) RemoveException(ctx context.Context, exceptionID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM schedule_exceptions WHERE id = $1`, exceptionID)
	return err
}

func (r *ScheduleRepository) UpsertRuleSet(ctx context.Context, staffID, businessID string, rules availability.RuleSet) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO staff_rule_sets (staff_id, business_id, min_notice_minutes, max_advance_days, slot_step_minutes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (staff_id) DO UPDATE SET
			min_notice_minutes = EXCLUDED.min_notice_minutes,
			max_advance_days = EXCLUDED.max_advance_days,
			slot_step_minutes = EXCLUDED.slot_step_minutes,
			updated_at = now()
	`, staffID, businessID, rules.MinNoticeMinutes, rules.MaxAdvanceDays, rules.SlotStepMinutes)
	return err
}

func (r *ScheduleRepository) UpsertService(ctx context.Context, serviceID, businessID, name string, durationMinutes int, price string, active bool) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO service_catalog (id, business_id, name, duration_minutes, price, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			duration_minutes = EXCLUDED.duration_minutes,
			price = EXCLUDED.price,
			active = EXCLUDED.active,
			updated_at = now()
	`, serviceID, businessID, name, durationMinutes, price, active)
	return err
}
