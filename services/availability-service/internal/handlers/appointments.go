package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/salonflow/salonflow/services/availability-service/internal/availability"
	"github.com/salonflow/salonflow/services/availability-service/internal/catalog"
	"github.com/salonflow/salonflow/services/availability-service/internal/model"
	"github.com/salonflow/salonflow/services/availability-service/internal/outbox"
	"github.com/salonflow/salonflow/services/availability-service/internal/storage"
)

type AppointmentHandler struct {
	repo       *storage.AppointmentRepository
	schedules  ScheduleSource
	catalog    catalog.Provider
	outboxRepo *outbox.Repository
	logger     *slog.Logger
	now        func() time.Time
}

func NewAppointmentHandler(repo *storage.AppointmentRepository, schedules ScheduleSource, catalogProvider catalog.Provider, outboxRepo *outbox.Repository, logger *slog.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		repo:       repo,
		schedules:  schedules,
		catalog:    catalogProvider,
		outboxRepo: outboxRepo,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

type bookRequest struct {
	BusinessID    string `json:"business_id"`
	ServiceID     string `json:"service_id"`
	StaffID       string `json:"staff_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

type bookResponse struct {
	AppointmentID string `json:"appointment_id"`
}

type bookRejection struct {
	Error       string     `json:"error"`
	Suggestions []slotItem `json:"suggestions,omitempty"`
}

type cancelRequest struct {
	BusinessID    string `json:"business_id"`
	AppointmentID string `json:"appointment_id"`
	Reason        string `json:"reason"`
}

type cancelResponse struct {
	AppointmentID string `json:"appointment_id"`
	Status        string `json:"status"`
	CancelledAt   string `json:"cancelled_at"`
}

type appointmentItem struct {
	AppointmentID string `json:"appointment_id"`
	StaffID       string `json:"staff_id"`
	ServiceID     string `json:"service_id"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Status        string `json:"status"`
	CancelledAt   string `json:"cancelled_at,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// Book validates the interval against the schedule rules, then inserts
// under the exclusion constraint. Validation and insert are not atomic
// with respect to other writers; the constraint is the arbiter when two
// requests race for one slot, and the loser gets 409.
func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	req.BusinessID = strings.TrimSpace(req.BusinessID)
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	req.StaffID = strings.TrimSpace(req.StaffID)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	if req.BusinessID == "" || req.ServiceID == "" || req.StaffID == "" || req.CustomerName == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		http.Error(w, "invalid start_time", http.StatusBadRequest)
		return
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		http.Error(w, "invalid end_time", http.StatusBadRequest)
		return
	}
	if !endTime.After(startTime) {
		http.Error(w, "end_time must be after start_time", http.StatusBadRequest)
		return
	}

	appt := &model.Appointment{
		BusinessID:    req.BusinessID,
		ServiceID:     req.ServiceID,
		StaffID:       req.StaffID,
		CustomerName:  req.CustomerName,
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		StartTime:     startTime,
		EndTime:       endTime,
		Status:        model.StatusBooked,
	}

	ctx := r.Context()
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if idempotencyKey != "" {
		rec, exists, err := h.repo.LockIdempotencyKey(ctx, tx, appt.BusinessID, idempotencyKey)
		if err != nil {
			http.Error(w, "failed to lock idempotency key", http.StatusInternalServerError)
			return
		}
		if exists && rec.StatusCode > 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(rec.StatusCode)
			if len(rec.ResponsePayload) > 0 {
				_, _ = w.Write(rec.ResponsePayload)
				return
			}
			_ = json.NewEncoder(w).Encode(bookResponse{AppointmentID: rec.AppointmentID})
			return
		}
	}

	res, ok := h.validateAgainstSchedule(ctx, w, appt)
	if !ok {
		return
	}
	if !res.Valid {
		body, err := json.Marshal(bookRejection{Error: res.Reason, Suggestions: slotItems(res.Suggestions)})
		if err != nil {
			http.Error(w, "failed to build response", http.StatusInternalServerError)
			return
		}
		status := http.StatusUnprocessableEntity
		if res.Reason == availability.ReasonConflict {
			status = http.StatusConflict
		}
		if idempotencyKey != "" {
			if err := h.repo.FinalizeIdempotency(ctx, tx, appt.BusinessID, idempotencyKey, "", status, body); err == nil {
				_ = tx.Commit(ctx)
			} else {
				h.logger.Error("failed to finalize idempotency (rejection)", "err", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
		return
	}

	id, err := h.repo.Create(ctx, tx, appt)
	if err != nil {
		if storage.IsConflict(err) {
			http.Error(w, "time slot already booked", http.StatusConflict)
			return
		}
		http.Error(w, "failed to create appointment", http.StatusInternalServerError)
		return
	}

	evtPayload, err := json.Marshal(map[string]any{
		"appointment_id": id,
		"business_id":    appt.BusinessID,
		"staff_id":       appt.StaffID,
		"service_id":     appt.ServiceID,
		"customer_email": appt.CustomerEmail,
		"customer_phone": appt.CustomerPhone,
		"start_time":     appt.StartTime.UTC().Format(time.RFC3339),
		"end_time":       appt.EndTime.UTC().Format(time.RFC3339),
	})
	if err != nil {
		http.Error(w, "failed to build event payload", http.StatusInternalServerError)
		return
	}
	if err := h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   id,
		EventType:     outbox.EventAppointmentBooked,
		Payload:       evtPayload,
	}); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}

	respBody, err := json.Marshal(bookResponse{AppointmentID: id})
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	if idempotencyKey != "" {
		if err := h.repo.FinalizeIdempotency(ctx, tx, appt.BusinessID, idempotencyKey, id, http.StatusCreated, respBody); err != nil {
			http.Error(w, "failed to finalize idempotency key", http.StatusInternalServerError)
			return
		}
	}

	if err := tx.Commit(ctx); err != nil {
		if storage.IsConflict(err) {
			http.Error(w, "time slot already booked", http.StatusConflict)
			return
		}
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(respBody)
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.BusinessID = strings.TrimSpace(req.BusinessID)
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	req.Reason = strings.TrimSpace(req.Reason)
	if req.BusinessID == "" || req.AppointmentID == "" {
		http.Error(w, "business_id and appointment_id required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	appt, err := h.repo.GetForUpdate(ctx, tx, req.BusinessID, req.AppointmentID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load appointment", http.StatusInternalServerError)
		return
	}

	// Cancelling twice is a no-op, not an error.
	if appt.Status == model.StatusCancelled && appt.CancelledAt != nil {
		h.writeCancelResponse(w, appt.ID, appt.CancelledAt.UTC())
		return
	}
	if appt.Status != model.StatusBooked {
		http.Error(w, "appointment cannot be cancelled", http.StatusConflict)
		return
	}

	cancelledAt, err := h.repo.Cancel(ctx, tx, req.BusinessID, appt.ID, req.Reason)
	if err != nil {
		http.Error(w, "failed to cancel appointment", http.StatusInternalServerError)
		return
	}

	cancelPayload, err := json.Marshal(map[string]any{
		"appointment_id": appt.ID,
		"business_id":    appt.BusinessID,
		"staff_id":       appt.StaffID,
		"service_id":     appt.ServiceID,
		"start_time":     appt.StartTime.UTC().Format(time.RFC3339),
		"end_time":       appt.EndTime.UTC().Format(time.RFC3339),
		"cancelled_at":   cancelledAt.UTC().Format(time.RFC3339),
		"reason":         req.Reason,
	})
	if err != nil {
		http.Error(w, "failed to build cancellation event", http.StatusInternalServerError)
		return
	}
	if err := h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     outbox.EventAppointmentCancelled,
		Payload:       cancelPayload,
	}); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}
	h.writeCancelResponse(w, appt.ID, cancelledAt.UTC())
}

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	businessID := strings.TrimSpace(r.Header.Get("X-Business-Id"))
	if businessID == "" {
		businessID = strings.TrimSpace(r.URL.Query().Get("business_id"))
	}
	if businessID == "" {
		http.Error(w, "business_id required", http.StatusBadRequest)
		return
	}

	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	appts, err := h.repo.ListByBusiness(r.Context(), businessID, limit)
	if err != nil {
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}

	items := make([]appointmentItem, 0, len(appts))
	for _, appt := range appts {
		item := appointmentItem{
			AppointmentID: appt.ID,
			StaffID:       appt.StaffID,
			ServiceID:     appt.ServiceID,
			StartTime:     appt.StartTime.UTC().Format(time.RFC3339),
			EndTime:       appt.EndTime.UTC().Format(time.RFC3339),
			Status:        appt.Status,
			CreatedAt:     appt.CreatedAt.UTC().Format(time.RFC3339),
		}
		if appt.CancelledAt != nil {
			item.CancelledAt = appt.CancelledAt.UTC().Format(time.RFC3339)
		}
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *AppointmentHandler) validateAgainstSchedule(ctx context.Context, w http.ResponseWriter, appt *model.Appointment) (availability.ValidationResult, bool) {
	snap, err := h.schedules.Snapshot(ctx, appt.BusinessID, appt.StaffID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "staff not found", http.StatusNotFound)
			return availability.ValidationResult{}, false
		}
		http.Error(w, "failed to load schedule", http.StatusInternalServerError)
		return availability.ValidationResult{}, false
	}

	opts := availability.SlotOptions{Now: h.now()}
	if info, found, err := h.catalog.GetService(ctx, appt.BusinessID, appt.ServiceID); err == nil && found {
		if info.DurationMinutes > 0 {
			opts.Duration = time.Duration(info.DurationMinutes) * time.Minute
		}
		opts.Price = info.Price
	} else if err != nil {
		h.logger.Warn("service lookup failed during booking", "err", err, "service_id", appt.ServiceID)
	}

	loc := snapshotLocation(snap)
	dayFrom := startOfDay(appt.StartTime, loc)
	appts, err := h.repo.ListBlocking(ctx, appt.BusinessID, appt.StaffID, dayFrom, dayFrom.AddDate(0, 0, 4))
	if err != nil {
		http.Error(w, "failed to load appointments", http.StatusInternalServerError)
		return availability.ValidationResult{}, false
	}
	booked := make([]availability.Booking, 0, len(appts))
	for _, a := range appts {
		booked = append(booked, availability.Booking{ID: a.ID, ServiceID: a.ServiceID, Start: a.StartTime, End: a.EndTime})
	}

	return availability.ValidateBooking(snap, availability.BookingRequest{
		Start: appt.StartTime,
		End:   appt.EndTime,
	}, opts, booked), true
}

func (h *AppointmentHandler) writeCancelResponse(w http.ResponseWriter, appointmentID string, cancelledAt time.Time) {
	writeJSON(w, http.StatusOK, cancelResponse{
		AppointmentID: appointmentID,
		Status:        model.StatusCancelled,
		CancelledAt:   cancelledAt.Format(time.RFC3339),
	})
}
