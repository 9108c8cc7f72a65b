package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/salonflow/salonflow/libs/db"
)

// Repository owns the authoritative schedule tables. Mutations take a
// transaction so callers can write the matching outbox event
// atomically; reads go straight to the pool.
type Repository struct {
	pool *db.Pool
}

func NewRepository(pool *db.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func IsNotFound(err error) bool {
	return err == pgx.ErrNoRows
}

type BusinessProfile struct {
	BusinessID string
	Name       string
	Timezone   string
}

func (r *Repository) GetOrCreateProfile(ctx context.Context, businessID string) (BusinessProfile, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO business_profiles (business_id)
		VALUES ($1)
		ON CONFLICT (business_id) DO NOTHING
	`, businessID)
	if err != nil {
		return BusinessProfile{}, err
	}

	var p BusinessProfile
	err = r.pool.QueryRow(ctx, `
		SELECT business_id::text, name, timezone
		FROM business_profiles
		WHERE business_id = $1
	`, businessID).Scan(&p.BusinessID, &p.Name, &p.Timezone)
	return p, err
}

func (r *Repository) UpdateProfile(ctx context.Context, tx pgx.Tx, businessID, name, timezone string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO business_profiles (business_id, name, timezone)
		VALUES ($1, $2, $3)
		ON CONFLICT (business_id) DO UPDATE
		SET name = EXCLUDED.name,
			timezone = EXCLUDED.timezone,
			updated_at = now()
	`, businessID, name, timezone)
	return err
}

type Staff struct {
	ID         string
	BusinessID string
	Name       string
	IsActive   bool
}

func (r *Repository) CreateStaff(ctx context.Context, tx pgx.Tx, businessID, name string, isActive bool) (string, error) {
	var id string
	err := tx.QueryRow(ctx, `
		INSERT INTO staff (business_id, name, is_active)
		VALUES ($1, $2, $3)
		RETURNING id::text
	`, businessID, name, isActive).Scan(&id)
	return id, err
}

func (r *Repository) UpdateStaff(ctx context.Context, tx pgx.Tx, businessID, staffID, name string, isActive bool) error {
	tag, err := tx.Exec(ctx, `
		UPDATE staff
		SET name = $3, is_active = $4, updated_at = now()
		WHERE id = $1 AND business_id = $2
	`, staffID, businessID, name, isActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) ListStaff(ctx context.Context, businessID string, limit int) ([]Staff, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, business_id::text, name, is_active
		FROM staff
		WHERE business_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, businessID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Staff
	for rows.Next() {
		var s Staff
		if err := rows.Scan(&s.ID, &s.BusinessID, &s.Name, &s.IsActive); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// StaffOwned verifies the staff member belongs to the business inside
// the caller's transaction.
func (r *Repository) StaffOwned(ctx context.Context, tx pgx.Tx, businessID, staffID string) error {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM staff WHERE id = $1 AND business_id = $2)
	`, staffID, businessID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return pgx.ErrNoRows
	}
	return nil
}

type WorkingHours struct {
	Weekday     int  `json:"weekday"`
	IsWorking   bool `json:"is_working"`
	StartMinute int  `json:"start_minute"`
	EndMinute   int  `json:"end_minute"`
}

func (r *Repository) ListWorkingHours(ctx context.Context, businessID, staffID string) ([]WorkingHours, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT h.weekday, h.is_working, h.start_minute, h.end_minute
		FROM staff_working_hours h
		JOIN staff s ON s.id = h.staff_id
		WHERE s.business_id = $1 AND h.staff_id = $2
		ORDER BY h.weekday ASC
	`, businessID, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WorkingHours
	for rows.Next() {
		var wh WorkingHours
		if err := rows.Scan(&wh.Weekday, &wh.IsWorking, &wh.StartMinute, &wh.EndMinute); err != nil {
			return nil, err
		}
		out = append(out, wh)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// ReplaceWorkingHours swaps the full weekly set so listeners always see
// a coherent week.
func (r *Repository) ReplaceWorkingHours(ctx context.Context, tx pgx.Tx, staffID string, rules []WorkingHours) error {
	if _, err := tx.Exec(ctx, `DELETE FROM staff_working_hours WHERE staff_id = $1`, staffID); err != nil {
		return err
	}
	for _, rule := range rules {
		_, err := tx.Exec(ctx, `
			INSERT INTO staff_working_hours (staff_id, weekday, is_working, start_minute, end_minute)
			VALUES ($1, $2, $3, $4, $5)
		`, staffID, rule.Weekday, rule.IsWorking, rule.StartMinute, rule.EndMinute)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) ListBlackouts(ctx context.Context, businessID, staffID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.blackout_date::text
		FROM staff_blackout_dates b
		JOIN staff s ON s.id = b.staff_id
		WHERE s.business_id = $1 AND b.staff_id = $2
		ORDER BY b.blackout_date ASC
	`, businessID, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (r *Repository) AddBlackout(ctx context.Context, tx pgx.Tx, staffID, date string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO staff_blackout_dates (staff_id, blackout_date)
		VALUES ($1, $2)
		ON CONFLICT (staff_id, blackout_date) DO NOTHING
	`, staffID, date)
	return err
}

func (r *Repository) RemoveBlackout(ctx context.Context, tx pgx.Tx, staffID, date string) error {
	tag, err := tx.Exec(ctx, `
		DELETE FROM staff_blackout_dates WHERE staff_id = $1 AND blackout_date = $2
	`, staffID, date)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type Exception struct {
	ID          string `json:"id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Closed      bool   `json:"closed"`
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute"`
}

func (r *Repository) ListExceptions(ctx context.Context, businessID, staffID string) ([]Exception, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e.id::text, e.start_date::text, e.end_date::text, e.closed, e.start_minute, e.end_minute
		FROM schedule_exceptions e
		JOIN staff s ON s.id = e.staff_id
		WHERE s.business_id = $1 AND e.staff_id = $2
		ORDER BY e.start_date ASC
	`, businessID, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Exception
	for rows.Next() {
		var ex Exception
		if err := rows.Scan(&ex.ID, &ex.StartDate, &ex.EndDate, &ex.Closed, &ex.StartMinute, &ex.EndMinute); err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

func (r *Repository) CreateException(ctx context.Context, tx pgx.Tx, staffID string, ex Exception) (string, error) {
	id := uuid.NewString()
	_, err := tx.Exec(ctx, `
		INSERT INTO schedule_exceptions (id, staff_id, start_date, end_date, closed, start_minute, end_minute)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, staffID, ex.StartDate, ex.EndDate, ex.Closed, ex.StartMinute, ex.EndMinute)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repository) DeleteException(ctx context.Context, tx pgx.Tx, businessID, exceptionID string) error {
	tag, err := tx.Exec(ctx, `
		DELETE FROM schedule_exceptions e
		USING staff s
		WHERE e.staff_id = s.id
		  AND s.business_id = $1
		  AND e.id = $2
	`, businessID, exceptionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type RuleSet struct {
	MinNoticeMinutes int `json:"min_notice_minutes"`
	MaxAdvanceDays   int `json:"max_advance_days"`
	SlotStepMinutes  int `json:"slot_step_minutes"`
}

func (r *Repository) GetRuleSet(ctx context.Context, businessID, staffID string) (RuleSet, error) {
	var rs RuleSet
	err := r.pool.QueryRow(ctx, `
		SELECT t.min_notice_minutes, t.max_advance_days, t.slot_step_minutes
		FROM staff_rule_sets t
		JOIN staff s ON s.id = t.staff_id
		WHERE s.business_id = $1 AND t.staff_id = $2
	`, businessID, staffID).Scan(&rs.MinNoticeMinutes, &rs.MaxAdvanceDays, &rs.SlotStepMinutes)
	if err == pgx.ErrNoRows {
		return RuleSet{}, nil
	}
	return rs, err
}

func (r *Repository) UpsertRuleSet(ctx context.Context, tx pgx.Tx, staffID string, rs RuleSet) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO staff_rule_sets (staff_id, min_notice_minutes, max_advance_days, slot_step_minutes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (staff_id) DO UPDATE
		SET min_notice_minutes = EXCLUDED.min_notice_minutes,
			max_advance_days = EXCLUDED.max_advance_days,
			slot_step_minutes = EXCLUDED.slot_step_minutes,
			updated_at = now()
	`, staffID, rs.MinNoticeMinutes, rs.MaxAdvanceDays, rs.SlotStepMinutes)
	return err
}

type Service struct {
	ID           string
	BusinessID   string
	Name         string
	DurationMins int
	Price        string
	Description  string
	IsActive     bool
	CreatedAt    time.Time
}

func (r *Repository) CreateService(ctx context.Context, tx pgx.Tx, businessID, name string, durationMinutes int, price, description string) (string, error) {
	id := uuid.NewString()
	_, err := tx.Exec(ctx, `
		INSERT INTO services (id, business_id, name, duration_minutes, price, description, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, true)
	`, id, businessID, name, durationMinutes, price, description)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repository) UpdateService(ctx context.Context, tx pgx.Tx, businessID, serviceID, name string, durationMinutes int, price, description string, isActive bool) error {
	tag, err := tx.Exec(ctx, `
		UPDATE services
		SET name = $3, duration_minutes = $4, price = $5, description = $6, is_active = $7, updated_at = now()
		WHERE id = $1 AND business_id = $2
	`, serviceID, businessID, name, durationMinutes, price, description, isActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) GetService(ctx context.Context, businessID, serviceID string) (Service, error) {
	var s Service
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, business_id::text, name, duration_minutes, price::text, description, is_active, created_at
		FROM services
		WHERE business_id = $1 AND id = $2
	`, businessID, serviceID).Scan(&s.ID, &s.BusinessID, &s.Name, &s.DurationMins, &s.Price, &s.Description, &s.IsActive, &s.CreatedAt)
	return s, err
}

func (r *Repository) ListServices(ctx context.Context, businessID string, limit int) ([]Service, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, business_id::text, name, duration_minutes, price::text, description, is_active, created_at
		FROM services
		WHERE business_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, businessID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Service
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.BusinessID, &s.Name, &s.DurationMins, &s.Price, &s.Description, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}
