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
	"github.com/salonflow/salonflow/services/availability-service/internal/storage"
)

const (
	dateLayout = "2006-01-02"
	// Day-range queries are capped to keep responses bounded.
	maxRangeDays = 62
)

// ScheduleSource provides the rule snapshot the engine runs against.
type ScheduleSource interface {
	Snapshot(ctx context.Context, businessID, staffID string) (availability.ScheduleSnapshot, error)
}

// AppointmentSource provides the blocking appointments for a staff
// member over a time range.
type AppointmentSource interface {
	ListBlocking(ctx context.Context, businessID, staffID string, start, end time.Time) ([]model.Appointment, error)
}

type AvailabilityHandler struct {
	schedules ScheduleSource
	appts     AppointmentSource
	catalog   catalog.Provider
	logger    *slog.Logger
	now       func() time.Time
}

func NewAvailabilityHandler(schedules ScheduleSource, appts AppointmentSource, catalogProvider catalog.Provider, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		schedules: schedules,
		appts:     appts,
		catalog:   catalogProvider,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type slotItem struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
	Price     string `json:"price,omitempty"`
}

type dayItem struct {
	Date           string `json:"date"`
	Status         string `json:"status"`
	TotalSlots     int    `json:"total_slots"`
	AvailableSlots int    `json:"available_slots"`
}

type validateRequest struct {
	BusinessID    string `json:"business_id"`
	StaffID       string `json:"staff_id"`
	ServiceID     string `json:"service_id"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	AppointmentID string `json:"appointment_id"` // set when re-validating an edit
}

type conflictItem struct {
	AppointmentID string `json:"appointment_id"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

type validateResponse struct {
	Valid       bool           `json:"valid"`
	Reason      string         `json:"reason,omitempty"`
	Conflicts   []conflictItem `json:"conflicts,omitempty"`
	Suggestions []slotItem     `json:"suggestions,omitempty"`
}

type slotsResponse struct {
	Date           string     `json:"date"`
	TotalSlots     int        `json:"total_slots"`
	AvailableSlots int        `json:"available_slots"`
	Slots          []slotItem `json:"slots"`
}

type daySummaryResponse struct {
	Date           string                 `json:"date"`
	Status         string                 `json:"status"`
	Working        bool                   `json:"working"`
	TotalSlots     int                    `json:"total_slots"`
	AvailableSlots int                    `json:"available_slots"`
	UtilizationPct int                    `json:"utilization_pct"`
	NextAvailable  *nextAvailableResponse `json:"next_available,omitempty"`
}

type nextAvailableResponse struct {
	Available bool      `json:"available"`
	Slot      *slotItem `json:"slot,omitempty"`
	Date      string    `json:"date,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// Slots returns every slot for one staff member and date, booked ones
// included and flagged, so calendar UIs can grey them out.
func (h *AvailabilityHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	businessID := strings.TrimSpace(q.Get("business_id"))
	staffID := strings.TrimSpace(q.Get("staff_id"))
	dateStr := strings.TrimSpace(q.Get("date"))
	if businessID == "" || staffID == "" || dateStr == "" {
		http.Error(w, "business_id, staff_id, and date are required", http.StatusBadRequest)
		return
	}

	snap, ok := h.loadSnapshot(w, r, businessID, staffID)
	if !ok {
		return
	}
	loc := snapshotLocation(snap)

	date, err := time.ParseInLocation(dateLayout, dateStr, loc)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	opts, ok := h.slotOptions(w, r, businessID, strings.TrimSpace(q.Get("service_id")))
	if !ok {
		return
	}

	booked, ok := h.loadBooked(w, r, businessID, staffID, date, date.AddDate(0, 0, 1))
	if !ok {
		return
	}

	slots := availability.GenerateSlots(snap, date, opts, booked)
	available := 0
	for _, s := range slots {
		if s.Available {
			available++
		}
	}
	writeJSON(w, http.StatusOK, slotsResponse{
		Date:           dateStr,
		TotalSlots:     len(slots),
		AvailableSlots: available,
		Slots:          slotItems(slots),
	})
}

// Days summarizes availability per day over an inclusive date range.
func (h *AvailabilityHandler) Days(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	businessID := strings.TrimSpace(q.Get("business_id"))
	staffID := strings.TrimSpace(q.Get("staff_id"))
	fromStr := strings.TrimSpace(q.Get("from"))
	toStr := strings.TrimSpace(q.Get("to"))
	if businessID == "" || staffID == "" || fromStr == "" || toStr == "" {
		http.Error(w, "business_id, staff_id, from, and to are required", http.StatusBadRequest)
		return
	}

	snap, ok := h.loadSnapshot(w, r, businessID, staffID)
	if !ok {
		return
	}
	loc := snapshotLocation(snap)

	from, err := time.ParseInLocation(dateLayout, fromStr, loc)
	if err != nil {
		http.Error(w, "invalid from date", http.StatusBadRequest)
		return
	}
	to, err := time.ParseInLocation(dateLayout, toStr, loc)
	if err != nil {
		http.Error(w, "invalid to date", http.StatusBadRequest)
		return
	}
	if to.Before(from) {
		http.Error(w, "to must not precede from", http.StatusBadRequest)
		return
	}
	if to.Sub(from) > maxRangeDays*24*time.Hour {
		http.Error(w, "date range too large", http.StatusBadRequest)
		return
	}

	opts, ok := h.slotOptions(w, r, businessID, strings.TrimSpace(q.Get("service_id")))
	if !ok {
		return
	}

	booked, ok := h.loadBooked(w, r, businessID, staffID, from, to.AddDate(0, 0, 1))
	if !ok {
		return
	}

	days := availability.AggregateDays(snap, from, to, opts, booked)
	items := make([]dayItem, 0, len(days))
	for _, d := range days {
		items = append(items, dayItem{
			Date:           d.Date,
			Status:         string(d.Status),
			TotalSlots:     d.TotalSlots,
			AvailableSlots: d.AvailableSlots,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

// Summary is the single-day variant of Days.
func (h *AvailabilityHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	businessID := strings.TrimSpace(q.Get("business_id"))
	staffID := strings.TrimSpace(q.Get("staff_id"))
	if businessID == "" || staffID == "" {
		http.Error(w, "business_id and staff_id are required", http.StatusBadRequest)
		return
	}

	snap, ok := h.loadSnapshot(w, r, businessID, staffID)
	if !ok {
		return
	}
	loc := snapshotLocation(snap)

	date := startOfDay(h.now(), loc)
	if dateStr := strings.TrimSpace(q.Get("date")); dateStr != "" {
		parsed, err := time.ParseInLocation(dateLayout, dateStr, loc)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		date = parsed
	}

	opts, ok := h.slotOptions(w, r, businessID, strings.TrimSpace(q.Get("service_id")))
	if !ok {
		return
	}

	// The next-available probe scans forward from the summary date, so
	// fetch bookings for the whole horizon in one query.
	booked, ok := h.loadBooked(w, r, businessID, staffID, date, date.AddDate(0, 0, availability.DefaultHorizonDays))
	if !ok {
		return
	}

	d := availability.AggregateDays(snap, date, date, opts, booked)[0]
	resp := daySummaryResponse{
		Date:           d.Date,
		Status:         string(d.Status),
		Working:        d.Status != availability.DayUnavailable,
		TotalSlots:     d.TotalSlots,
		AvailableSlots: d.AvailableSlots,
	}
	if d.TotalSlots > 0 {
		resp.UtilizationPct = (d.TotalSlots - d.AvailableSlots) * 100 / d.TotalSlots
	}
	if next := availability.FindNextAvailable(snap, date, availability.DefaultHorizonDays, opts, booked); next.Available {
		resp.NextAvailable = &nextAvailableResponse{
			Available: true,
			Slot:      slotItemPtr(*next.Slot),
			Date:      next.Date,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Validate checks a proposed interval without writing anything. The
// result is advisory: the booking write path re-checks under the
// database exclusion constraint.
func (h *AvailabilityHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.BusinessID = strings.TrimSpace(req.BusinessID)
	req.StaffID = strings.TrimSpace(req.StaffID)
	if req.BusinessID == "" || req.StaffID == "" {
		http.Error(w, "business_id and staff_id are required", http.StatusBadRequest)
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		http.Error(w, "invalid start_time", http.StatusBadRequest)
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		http.Error(w, "invalid end_time", http.StatusBadRequest)
		return
	}
	if !end.After(start) {
		http.Error(w, "end_time must be after start_time", http.StatusBadRequest)
		return
	}

	snap, ok := h.loadSnapshot(w, r, req.BusinessID, req.StaffID)
	if !ok {
		return
	}

	opts, ok := h.slotOptions(w, r, req.BusinessID, strings.TrimSpace(req.ServiceID))
	if !ok {
		return
	}

	// Fetch far enough ahead for conflict suggestions to spill into
	// the following days.
	loc := snapshotLocation(snap)
	dayFrom := startOfDay(start, loc)
	booked, ok := h.loadBooked(w, r, req.BusinessID, req.StaffID, dayFrom, dayFrom.AddDate(0, 0, 4))
	if !ok {
		return
	}

	res := availability.ValidateBooking(snap, availability.BookingRequest{
		Start:     start,
		End:       end,
		ExcludeID: strings.TrimSpace(req.AppointmentID),
	}, opts, booked)

	resp := validateResponse{Valid: res.Valid, Reason: res.Reason}
	for _, c := range res.Conflicts {
		resp.Conflicts = append(resp.Conflicts, conflictItem{
			AppointmentID: c.ID,
			StartTime:     c.Start.UTC().Format(time.RFC3339),
			EndTime:       c.End.UTC().Format(time.RFC3339),
		})
	}
	if len(res.Suggestions) > 0 {
		resp.Suggestions = slotItems(res.Suggestions)
	}
	writeJSON(w, http.StatusOK, resp)
}

// NextAvailable scans forward for the first open slot.
func (h *AvailabilityHandler) NextAvailable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	businessID := strings.TrimSpace(q.Get("business_id"))
	staffID := strings.TrimSpace(q.Get("staff_id"))
	if businessID == "" || staffID == "" {
		http.Error(w, "business_id and staff_id are required", http.StatusBadRequest)
		return
	}

	from := h.now()
	if raw := strings.TrimSpace(q.Get("from")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "invalid from", http.StatusBadRequest)
			return
		}
		from = parsed
	}

	horizonDays := availability.DefaultHorizonDays
	if raw := strings.TrimSpace(q.Get("horizon_days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 90 {
			http.Error(w, "invalid horizon_days", http.StatusBadRequest)
			return
		}
		horizonDays = n
	}

	snap, ok := h.loadSnapshot(w, r, businessID, staffID)
	if !ok {
		return
	}

	opts, ok := h.slotOptions(w, r, businessID, strings.TrimSpace(q.Get("service_id")))
	if !ok {
		return
	}

	loc := snapshotLocation(snap)
	dayFrom := startOfDay(from, loc)
	booked, ok := h.loadBooked(w, r, businessID, staffID, dayFrom, dayFrom.AddDate(0, 0, horizonDays))
	if !ok {
		return
	}

	res := availability.FindNextAvailable(snap, from, horizonDays, opts, booked)
	resp := nextAvailableResponse{
		Available: res.Available,
		Date:      res.Date,
		Reason:    res.Reason,
	}
	if res.Slot != nil {
		item := slotItem{
			StartTime: res.Slot.Start.UTC().Format(time.RFC3339),
			EndTime:   res.Slot.End.UTC().Format(time.RFC3339),
			Available: res.Slot.Available,
			Price:     res.Slot.Price,
		}
		resp.Slot = &item
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AvailabilityHandler) loadSnapshot(w http.ResponseWriter, r *http.Request, businessID, staffID string) (availability.ScheduleSnapshot, bool) {
	snap, err := h.schedules.Snapshot(r.Context(), businessID, staffID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "staff not found", http.StatusNotFound)
			return snap, false
		}
		h.logger.Error("schedule snapshot failed", "err", err, "staff_id", staffID)
		http.Error(w, "failed to load schedule", http.StatusInternalServerError)
		return snap, false
	}
	return snap, true
}

// slotOptions builds the engine options from the optional service_id
// and duration_minutes query parameters. An explicit duration override
// beats the catalog duration.
func (h *AvailabilityHandler) slotOptions(w http.ResponseWriter, r *http.Request, businessID, serviceID string) (availability.SlotOptions, bool) {
	opts := availability.SlotOptions{Now: h.now()}

	if serviceID != "" {
		info, found, err := h.catalog.GetService(r.Context(), businessID, serviceID)
		if err != nil {
			h.logger.Error("service lookup failed", "err", err, "service_id", serviceID)
			http.Error(w, "failed to load service", http.StatusInternalServerError)
			return opts, false
		}
		if !found {
			http.Error(w, "service not found", http.StatusNotFound)
			return opts, false
		}
		if info.DurationMinutes > 0 {
			opts.Duration = time.Duration(info.DurationMinutes) * time.Minute
		}
		opts.Price = info.Price
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("duration_minutes")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 || minutes > 480 {
			http.Error(w, "invalid duration_minutes", http.StatusBadRequest)
			return opts, false
		}
		opts.Duration = time.Duration(minutes) * time.Minute
	}
	return opts, true
}

func (h *AvailabilityHandler) loadBooked(w http.ResponseWriter, r *http.Request, businessID, staffID string, start, end time.Time) ([]availability.Booking, bool) {
	appts, err := h.appts.ListBlocking(r.Context(), businessID, staffID, start, end)
	if err != nil {
		h.logger.Error("blocking appointments fetch failed", "err", err, "staff_id", staffID)
		http.Error(w, "failed to load appointments", http.StatusInternalServerError)
		return nil, false
	}
	booked := make([]availability.Booking, 0, len(appts))
	for _, a := range appts {
		booked = append(booked, availability.Booking{
			ID:        a.ID,
			ServiceID: a.ServiceID,
			Start:     a.StartTime,
			End:       a.EndTime,
		})
	}
	return booked, true
}

func slotItems(slots []availability.TimeSlot) []slotItem {
	items := make([]slotItem, 0, len(slots))
	for _, s := range slots {
		items = append(items, slotItem{
			StartTime: s.Start.UTC().Format(time.RFC3339),
			EndTime:   s.End.UTC().Format(time.RFC3339),
			Available: s.Available,
			Price:     s.Price,
		})
	}
	return items
}

func slotItemPtr(s availability.TimeSlot) *slotItem {
	item := slotItems([]availability.TimeSlot{s})[0]
	return &item
}

func snapshotLocation(snap availability.ScheduleSnapshot) *time.Location {
	if snap.Location != nil {
		return snap.Location
	}
	return time.UTC
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
