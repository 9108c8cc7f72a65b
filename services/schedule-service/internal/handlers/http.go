package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/salonflow/salonflow/services/schedule-service/internal/outbox"
	"github.com/salonflow/salonflow/services/schedule-service/internal/storage"
)

type Handler struct {
	repo       *storage.Repository
	outboxRepo *outbox.Repository
	logger     *slog.Logger
}

func New(repo *storage.Repository, outboxRepo *outbox.Repository, logger *slog.Logger) *Handler {
	return &Handler{repo: repo, outboxRepo: outboxRepo, logger: logger}
}

func businessIDFromHeader(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Business-Id"))
}

const dateLayout = "2006-01-02"

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// validateWeeklyRules checks a full weekly working-hours set: every
// weekday 0-6 exactly once, sane minute windows on working days.
func validateWeeklyRules(rules []storage.WorkingHours) error {
	if len(rules) != 7 {
		return fmt.Errorf("expected 7 weekday rules, got %d", len(rules))
	}
	seen := make(map[int]bool, 7)
	for _, rule := range rules {
		if rule.Weekday < 0 || rule.Weekday > 6 {
			return fmt.Errorf("weekday %d out of range", rule.Weekday)
		}
		if seen[rule.Weekday] {
			return fmt.Errorf("weekday %d appears twice", rule.Weekday)
		}
		seen[rule.Weekday] = true
		if !rule.IsWorking {
			continue
		}
		if rule.StartMinute < 0 || rule.StartMinute >= 1440 ||
			rule.EndMinute <= 0 || rule.EndMinute > 1440 ||
			rule.StartMinute >= rule.EndMinute {
			return fmt.Errorf("invalid window for weekday %d", rule.Weekday)
		}
	}
	return nil
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFromHeader(r)
	if businessID == "" {
		http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
		return
	}

	p, err := h.repo.GetOrCreateProfile(r.Context(), businessID)
	if err != nil {
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"business_id": p.BusinessID,
		"name":        p.Name,
		"timezone":    p.Timezone,
	})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFromHeader(r)
	if businessID == "" {
		http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
		return
	}

	var req struct {
		Name     string `json:"name"`
		Timezone string `json:"timezone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Timezone = strings.TrimSpace(req.Timezone)
	if req.Timezone == "" {
		req.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		http.Error(w, "invalid timezone", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	err := h.inTx(ctx, w, func(tx pgx.Tx) error {
		if err := h.repo.UpdateProfile(ctx, tx, businessID, req.Name, req.Timezone); err != nil {
			return err
		}
		return h.emit(ctx, tx, "business", businessID, outbox.EventBusinessUpdated, map[string]any{
			"business_id": businessID,
			"name":        req.Name,
			"timezone":    req.Timezone,
		})
	})
	if err != nil {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFromHeader(r)
	if businessID == "" {
		http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
		return
	}

	var req struct {
		Name     string `json:"name"`
		IsActive *bool  `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	// New staff start with a Mon-Fri 09:00-17:00 week.
	defaults := make([]storage.WorkingHours, 0, 7)
	for wd := 0; wd <= 6; wd++ {
		working := wd >= 1 && wd <= 5
		rule := storage.WorkingHours{Weekday: wd, IsWorking: working}
		if working {
			rule.StartMinute = 540
			rule.EndMinute = 1020
		}
		defaults = append(defaults, rule)
	}

	ctx := r.Context()
	var id string
	err := h.inTx(ctx, w, func(tx pgx.Tx) error {
		var err error
		id, err = h.repo.CreateStaff(ctx, tx, businessID, req.Name, isActive)
		if err != nil {
			return err
		}
		if err := h.repo.ReplaceWorkingHours(ctx, tx, id, defaults); err != nil {
			return err
		}
		if err := h.emit(ctx, tx, "staff", id, outbox.EventStaffUpdated, map[string]any{
			"staff_id":     id,
			"business_id":  businessID,
			"display_name": req.Name,
			"active":       isActive,
		}); err != nil {
			return err
		}
		return h.emit(ctx, tx, "staff", id, outbox.EventWorkingHoursReplaced, map[string]any{
			"staff_id":    id,
			"business_id": businessID,
			"rules":       defaults,
		})
	})
	if err != nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": id})
}

func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFromHeader(r)
	if businessID == "" {
		http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
		return
	}
	staffID := strings.TrimSpace(r.URL.Query().Get("staff_id"))
	if staffID == "" {
		http.Error(w, "staff_id is required", http.StatusBadRequest)
		return
	}

	var req struct {
		Name     string `json:"name"`
		IsActive *bool  `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	ctx := r.Context()
	err := h.inTx(ctx, w, func(tx pgx.Tx) error {
		if err := h.repo.UpdateStaff(ctx, tx, businessID, staffID, req.Name, isActive); err != nil {
			return err
		}
		return h.emit(ctx, tx, "staff", staffID, outbox.EventStaffUpdated, map[string]any{
			"staff_id":     staffID,
			"business_id":  businessID,
			"display_name": req.Name,
			"active":       isActive,
		})
	})
	if err != nil {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFromHeader(r)
	if businessID == "" {
		http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
		return
	}

	limit := 100
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	staff, err := h.repo.ListStaff(r.Context(), businessID, limit)
	if err != nil {
		http.Error(w, "failed to list staff", http.StatusInternalServerError)
		return
	}
	writeJSON(w, staff)
}

func (h *Handler) ListWorkingHours(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFromHeader(r)
	if businessID == "" {
		http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
		return
	}
	staffID := strings.TrimSpace(r.URL.Query().Get("staff_id"))
	if staffID == "" {
		http.Error(w, "staff_id is required", http.StatusBadRequest)
		return
	}

	wh, err := h.repo.ListWorkingHours(r.Context(), businessID, staffID)
	if err != nil {
		http.Error(w, "failed to list working hours", http.StatusInternalServerError)
		return
	}
	writeJSON(w, wh)
}

// ReplaceWorkingHours takes the full week in one request so the
// schedule is never observable half-updated.
func (h *Handler) ReplaceWorkingHours(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFromHeader(r)
	if businessID == "" {
		http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
		return
	}
	staffID := strings.TrimSpace(r.URL.Query().Get("staff_id"))
	if staffID == "" {
		http.Error(w, "staff_id is required", http.StatusBadRequest)
		return
	}

	var req struct {
		Rules []storage.WorkingHours `json:"rules"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if err := validateWeeklyRules(req.Rules); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for i, rule := range req.Rules {
		if !rule.IsWorking {
			req.Rules[i].StartMinute = 0
			req.Rules[i].EndMinute = 0
		}
	}

	ctx := r.Context()
	err := h.inTx(ctx, w, func(tx pgx.Tx) error {
		if err := h.repo.StaffOwned(ctx, tx, businessID, staffID); err != nil {
			return err
		}
		if err := h.repo.ReplaceWorkingHours(ctx, tx, staffID, req.Rules); err != nil {
			return err
		}
		return h.emit(ctx, tx, "staff", staffID, outbox.EventWorkingHoursReplaced, map[string]any{
			"staff_id":    staffID,
			"business_id": businessID,
			"rules":       req.Rules,
		})
	})
	if err != nil {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListBlackouts(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFromHeader(r)
	if businessID == "" {
		http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
		return
	}
	staffID := strings.TrimSpace(r.URL.Query().Get("staff_id"))
	if staffID == "" {
		http.Error(w, "staff_id is required", http.StatusBadRequest)
		return
	}

	dates, err := h.repo.ListBlackouts(r.Context(), businessID, staffID)
	if err != nil {
		http.Error(w, "failed to list blackout dates", http.StatusInternalServerError)
		return
	}
	if dates == nil {
		dates = []string{}
	}
	writeJSON(w, dates)
}

func (h *Handler) AddBlackout(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFromHeader(r)
	if businessID == "" {
		http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
		return
	}
	staffID := strings.TrimSpace(r.URL.Query().Get("staff_id"))
	if staffID == "" {
		http.Error(w, "staff_id is required", http.StatusBadRequest)
		return
	}

	var req struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Date = strings.TrimSpace(req.Date)
	if !validDate(req.Date) {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	err := h.inTx(ctx, w, func(tx pgx.Tx) error {
		if err := h.repo.StaffOwned(ctx, tx, businessID, staffID); err != nil {
			return err
		}
		if err := h.repo.AddBlackout(ctx, tx, staffID, req.Date); err != nil {
			return err
		}
		return h.emit(ctx, tx, "staff", staffID, outbox.EventBlackoutSet, map[string]any{
			"staff_id":    staffID,
			"business_id": businessID,
			"date":        req.Date,
		})
	})
	if err != nil {
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) RemoveBlackout(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFromHeader(r)
	if businessID == "" {
		http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
		return
	}
	staffID := strings.TrimSpace(r.URL.Query().Get("staff_id"))
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if staffID == "" || !validDate(date) {
		http.Error(w, "staff_id and date are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	err := h.inTx(ctx, w, func(tx pgx.Tx) error {
		if err := h.repo.StaffOwned(ctx, tx, businessID, staffID); err != nil {
			return err
		}
		if err := h.repo.RemoveBlackout(ctx, tx, staffID, date); err != nil {
			return err
		}
		return h.emit(ctx, tx, "staff", staffID, outbox.EventBlackoutRemoved, map[string]any{
			"staff_id":    staffID,
			"business_id": businessID,
			"date":        date,
		})
	})
	if err != nil {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListExceptions(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFromHeader(r)
	if businessID == "" {
		http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
		return
	}
	staffID := strings.TrimSpace(r.URL.Query().Get("staff_id"))
	if staffID == "" {
		http.Error(w, "staff_id is required", http.StatusBadRequest)
		return
	}

	items, err := h.repo.ListExceptions(r.Context(), businessID, staffID)
	if err != nil {
		http.Error(w, "failed to list exceptions", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []storage.Exception{}
	}
	writeJSON(w, items)
}

func (h *Handler) CreateException(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFromHeader(r)
	if businessID == "" {
		http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
		return
	}
	staffID := strings.TrimSpace(r.URL.Query().Get("staff_id"))
	if staffID == "" {
		http.Error(w, "staff_id is required", http.StatusBadRequest)
		return
	}

	var req storage.Exception
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.StartDate = strings.TrimSpace(req.StartDate)
	req.EndDate = strings.TrimSpace(req.EndDate)
	if !validDate(req.StartDate) || !validDate(req.EndDate) || req.EndDate < req.StartDate {
		http.Error(w, "start_date and end_date must be YYYY-MM-DD with end_date >= start_date", http.StatusBadRequest)
		return
	}
	if req.Closed {
		req.StartMinute = 0
		req.EndMinute = 0
	} else if req.StartMinute < 0 || req.StartMinute >= 1440 || req.EndMinute <= 0 || req.EndMinute > 1440 || req.StartMinute >= req.EndMinute {
		http.Error(w, "invalid start_minute/end_minute", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	var id string
	err := h.inTx(ctx, w, func(tx pgx.Tx) error {
		if err := h.repo.StaffOwned(ctx, tx, businessID, staffID); err != nil {
			return err
		}
		var err error
		id, err = h.repo.CreateException(ctx, tx, staffID, req)
		if err != nil {
			return err
		}
		return h.emit(ctx, tx, "staff", staffID, outbox.EventExceptionSet, map[string]any{
			"exception_id": id,
			"staff_id":     staffID,
			"business_id":  businessID,
			"start_date":   req.StartDate,
			"end_date":     req.EndDate,
			"closed":       req.Closed,
			"start_minute": req.StartMinute,
			"end_minute":   req.EndMinute,
		})
	})
	if err != nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": id})
}

func (h *Handler) DeleteException(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFromHeader(r)
	if businessID == "" {
		http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
		return
	}
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	err := h.inTx(ctx, w, func(tx pgx.Tx) error {
		if err := h.repo.DeleteException(ctx, tx, businessID, id); err != nil {
			return err
		}
		return h.emit(ctx, tx, "staff", id, outbox.EventExceptionRemoved, map[string]any{
			"exception_id": id,
			"business_id":  businessID,
		})
	})
	if err != nil {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFromHeader(r)
	if businessID == "" {
		http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
		return
	}
	staffID := strings.TrimSpace(r.URL.Query().Get("staff_id"))
	if staffID == "" {
		http.Error(w, "staff_id is required", http.StatusBadRequest)
		return
	}

	rules, err := h.repo.GetRuleSet(r.Context(), businessID, staffID)
	if err != nil {
		http.Error(w, "failed to load rules", http.StatusInternalServerError)
		return
	}
	writeJSON(w, rules)
}

func (h *Handler) UpdateRules(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFromHeader(r)
	if businessID == "" {
		http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
		return
	}
	staffID := strings.TrimSpace(r.URL.Query().Get("staff_id"))
	if staffID == "" {
		http.Error(w, "staff_id is required", http.StatusBadRequest)
		return
	}

	var req storage.RuleSet
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if req.MinNoticeMinutes < 0 || req.MinNoticeMinutes > 30*24*60 {
		http.Error(w, "invalid min_notice_minutes", http.StatusBadRequest)
		return
	}
	if req.MaxAdvanceDays < 0 || req.MaxAdvanceDays > 365 {
		http.Error(w, "invalid max_advance_days", http.StatusBadRequest)
		return
	}
	if req.SlotStepMinutes < 0 || req.SlotStepMinutes > 8*60 {
		http.Error(w, "invalid slot_step_minutes", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	err := h.inTx(ctx, w, func(tx pgx.Tx) error {
		if err := h.repo.StaffOwned(ctx, tx, businessID, staffID); err != nil {
			return err
		}
		if err := h.repo.UpsertRuleSet(ctx, tx, staffID, req); err != nil {
			return err
		}
		return h.emit(ctx, tx, "staff", staffID, outbox.EventRulesUpdated, map[string]any{
			"staff_id":           staffID,
			"business_id":        businessID,
			"min_notice_minutes": req.MinNoticeMinutes,
			"max_advance_days":   req.MaxAdvanceDays,
			"slot_step_minutes":  req.SlotStepMinutes,
		})
	})
	if err != nil {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFromHeader(r)
	if businessID == "" {
		http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
		return
	}

	var req struct {
		Name         string  `json:"name"`
		DurationMins int     `json:"duration_minutes"`
		Price        float64 `json:"price"`
		Description  string  `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if req.Name == "" || req.DurationMins <= 0 {
		http.Error(w, "name and duration_minutes required", http.StatusBadRequest)
		return
	}
	price := strconv.FormatFloat(req.Price, 'f', 2, 64)

	ctx := r.Context()
	var id string
	err := h.inTx(ctx, w, func(tx pgx.Tx) error {
		var err error
		id, err = h.repo.CreateService(ctx, tx, businessID, req.Name, req.DurationMins, price, req.Description)
		if err != nil {
			return err
		}
		return h.emit(ctx, tx, "service", id, outbox.EventServiceUpdated, map[string]any{
			"service_id":       id,
			"business_id":      businessID,
			"name":             req.Name,
			"duration_minutes": req.DurationMins,
			"price":            price,
			"active":           true,
		})
	})
	if err != nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": id})
}

func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFromHeader(r)
	if businessID == "" {
		http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
		return
	}
	serviceID := strings.TrimSpace(r.URL.Query().Get("id"))
	if serviceID == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	var req struct {
		Name         string  `json:"name"`
		DurationMins int     `json:"duration_minutes"`
		Price        float64 `json:"price"`
		Description  string  `json:"description"`
		IsActive     *bool   `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if req.Name == "" || req.DurationMins <= 0 {
		http.Error(w, "name and duration_minutes required", http.StatusBadRequest)
		return
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	price := strconv.FormatFloat(req.Price, 'f', 2, 64)

	ctx := r.Context()
	err := h.inTx(ctx, w, func(tx pgx.Tx) error {
		if err := h.repo.UpdateService(ctx, tx, businessID, serviceID, req.Name, req.DurationMins, price, req.Description, isActive); err != nil {
			return err
		}
		return h.emit(ctx, tx, "service", serviceID, outbox.EventServiceUpdated, map[string]any{
			"service_id":       serviceID,
			"business_id":      businessID,
			"name":             req.Name,
			"duration_minutes": req.DurationMins,
			"price":            price,
			"active":           isActive,
		})
	})
	if err != nil {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	businessID := businessIDFromHeader(r)
	if businessID == "" {
		http.Error(w, "missing X-Business-Id", http.StatusBadRequest)
		return
	}

	services, err := h.repo.ListServices(r.Context(), businessID, 100)
	if err != nil {
		http.Error(w, "failed to list services", http.StatusInternalServerError)
		return
	}
	writeJSON(w, services)
}

// inTx runs fn in a transaction and writes the HTTP error on failure.
// Returns nil only when the transaction committed.
func (h *Handler) inTx(ctx context.Context, w http.ResponseWriter, fn func(tx pgx.Tx) error) error {
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "not found", http.StatusNotFound)
			return err
		}
		h.logger.Error("schedule mutation failed", "err", err)
		http.Error(w, "request failed", http.StatusInternalServerError)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return err
	}
	return nil
}

func (h *Handler) emit(ctx context.Context, tx pgx.Tx, aggregateType, aggregateID, eventType string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       body,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
