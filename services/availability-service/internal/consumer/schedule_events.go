package consumer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/salonflow/salonflow/services/availability-service/internal/availability"
	"github.com/salonflow/salonflow/services/availability-service/internal/storage"
	"github.com/segmentio/kafka-go"
)

// ScheduleTopics lists every event the read model replicates. One
// consumer group runs per topic.
var ScheduleTopics = []string{
	"schedule.business.updated.v1",
	"schedule.staff.updated.v1",
	"schedule.working_hours.replaced.v1",
	"schedule.blackout.set.v1",
	"schedule.blackout.removed.v1",
	"schedule.exception.set.v1",
	"schedule.exception.removed.v1",
	"schedule.rules.updated.v1",
	"schedule.service.updated.v1",
}

// NewScheduleApplier returns the handler that folds schedule events
// into the local read model. Malformed payloads are logged and dropped
// rather than retried: redelivery cannot fix a bad message.
func NewScheduleApplier(logger *slog.Logger, schedules *storage.ScheduleRepository) Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		switch msg.Topic {
		case "schedule.business.updated.v1":
			var p struct {
				BusinessID string `json:"business_id"`
				Timezone   string `json:"timezone"`
			}
			if !decode(logger, msg, &p) || p.BusinessID == "" {
				return nil
			}
			if p.Timezone == "" {
				p.Timezone = "UTC"
			}
			return schedules.UpsertBusiness(ctx, p.BusinessID, p.Timezone)

		case "schedule.staff.updated.v1":
			var p struct {
				StaffID     string `json:"staff_id"`
				BusinessID  string `json:"business_id"`
				DisplayName string `json:"display_name"`
				Active      bool   `json:"active"`
			}
			if !decode(logger, msg, &p) || p.StaffID == "" || p.BusinessID == "" {
				return nil
			}
			return schedules.UpsertStaff(ctx, p.StaffID, p.BusinessID, p.DisplayName, p.Active)

		case "schedule.working_hours.replaced.v1":
			var p struct {
				StaffID    string `json:"staff_id"`
				BusinessID string `json:"business_id"`
				Rules      []struct {
					Weekday     int  `json:"weekday"`
					IsWorking   bool `json:"is_working"`
					StartMinute int  `json:"start_minute"`
					EndMinute   int  `json:"end_minute"`
				} `json:"rules"`
			}
			if !decode(logger, msg, &p) || p.StaffID == "" {
				return nil
			}
			rules := make([]availability.WorkingHoursRule, 0, len(p.Rules))
			for _, r := range p.Rules {
				rules = append(rules, availability.WorkingHoursRule{
					Weekday:     time.Weekday(r.Weekday),
					IsWorking:   r.IsWorking,
					StartMinute: r.StartMinute,
					EndMinute:   r.EndMinute,
				})
			}
			return schedules.ReplaceWorkingHours(ctx, p.StaffID, p.BusinessID, rules)

		case "schedule.blackout.set.v1", "schedule.blackout.removed.v1":
			var p struct {
				StaffID    string `json:"staff_id"`
				BusinessID string `json:"business_id"`
				Date       string `json:"date"`
			}
			if !decode(logger, msg, &p) || p.StaffID == "" || p.Date == "" {
				return nil
			}
			if msg.Topic == "schedule.blackout.removed.v1" {
				return schedules.RemoveBlackout(ctx, p.StaffID, p.Date)
			}
			return schedules.SetBlackout(ctx, p.StaffID, p.BusinessID, p.Date)

		case "schedule.exception.set.v1":
			var p struct {
				ExceptionID string `json:"exception_id"`
				StaffID     string `json:"staff_id"`
				BusinessID  string `json:"business_id"`
				StartDate   string `json:"start_date"`
				EndDate     string `json:"end_date"`
				Closed      bool   `json:"closed"`
				StartMinute int    `json:"start_minute"`
				EndMinute   int    `json:"end_minute"`
			}
			if !decode(logger, msg, &p) || p.ExceptionID == "" || p.StaffID == "" {
				return nil
			}
			return schedules.UpsertException(ctx, p.ExceptionID, p.StaffID, p.BusinessID, availability.ScheduleException{
				StartDate:   p.StartDate,
				EndDate:     p.EndDate,
				Closed:      p.Closed,
				StartMinute: p.StartMinute,
				EndMinute:   p.EndMinute,
			})

		case "schedule.exception.removed.v1":
			var p struct {
				ExceptionID string `json:"exception_id"`
			}
			if !decode(logger, msg, &p) || p.ExceptionID == "" {
				return nil
			}
			return schedules.RemoveException(ctx, p.ExceptionID)

		case "schedule.rules.updated.v1":
			var p struct {
				StaffID          string `json:"staff_id"`
				BusinessID       string `json:"business_id"`
				MinNoticeMinutes int    `json:"min_notice_minutes"`
				MaxAdvanceDays   int    `json:"max_advance_days"`
				SlotStepMinutes  int    `json:"slot_step_minutes"`
			}
			if !decode(logger, msg, &p) || p.StaffID == "" {
				return nil
			}
			return schedules.UpsertRuleSet(ctx, p.StaffID, p.BusinessID, availability.RuleSet{
				MinNoticeMinutes: p.MinNoticeMinutes,
				MaxAdvanceDays:   p.MaxAdvanceDays,
				SlotStepMinutes:  p.SlotStepMinutes,
			})

		case "schedule.service.updated.v1":
			var p struct {
				ServiceID       string `json:"service_id"`
				BusinessID      string `json:"business_id"`
				Name            string `json:"name"`
				DurationMinutes int    `json:"duration_minutes"`
				Price           string `json:"price"`
				Active          bool   `json:"active"`
			}
			if !decode(logger, msg, &p) || p.ServiceID == "" || p.BusinessID == "" {
				return nil
			}
			return schedules.UpsertService(ctx, p.ServiceID, p.BusinessID, p.Name, p.DurationMinutes, p.Price, p.Active)

		default:
			logger.Warn("unhandled schedule topic", "topic", msg.Topic)
			return nil
		}
	}
}

func decode(logger *slog.Logger, msg kafka.Message, v any) bool {
	if err := json.Unmarshal(msg.Value, v); err != nil {
		logger.Error("invalid event payload", "err", err, "topic", msg.Topic)
		return false
	}
	return true
}
