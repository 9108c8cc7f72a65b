package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/salonflow/salonflow/services/availability-service/internal/availability"
	"github.com/salonflow/salonflow/services/availability-service/internal/catalog"
	"github.com/salonflow/salonflow/services/availability-service/internal/model"
)

type stubSchedules struct {
	snap availability.ScheduleSnapshot
	err  error
}

func (s stubSchedules) Snapshot(_ context.Context, _, _ string) (availability.ScheduleSnapshot, error) {
	return s.snap, s.err
}

type stubAppointments struct {
	appts []model.Appointment
}

func (s stubAppointments) ListBlocking(_ context.Context, _, _ string, _, _ time.Time) ([]model.Appointment, error) {
	return s.appts, nil
}

type stubCatalog struct {
	info  catalog.ServiceInfo
	found bool
}

func (s stubCatalog) GetService(_ context.Context, _, _ string) (catalog.ServiceInfo, bool, error) {
	return s.info, s.found, nil
}

func testSnapshot() availability.ScheduleSnapshot {
	weekly := make(map[time.Weekday]availability.WorkingHoursRule)
	for wd := time.Monday; wd <= time.Friday; wd++ {
		weekly[wd] = availability.WorkingHoursRule{Weekday: wd, IsWorking: true, StartMinute: 9 * 60, EndMinute: 17 * 60}
	}
	return availability.ScheduleSnapshot{Weekly: weekly, Blackouts: map[string]struct{}{}}
}

func newTestHandler(schedules ScheduleSource, appts AppointmentSource, cat catalog.Provider) *AvailabilityHandler {
	h := NewAvailabilityHandler(schedules, appts, cat, slog.New(slog.NewTextHandler(io.Discard, nil)))
	// Pin the clock well before the fixture dates so notice rules
	// never interfere.
	h.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	return h
}

func TestSlotsEndpoint(t *testing.T) {
	booked := []model.Appointment{{
		ID:        "a1",
		StartTime: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 1, 5, 10, 30, 0, 0, time.UTC),
		Status:    model.StatusBooked,
	}}
	h := newTestHandler(
		stubSchedules{snap: testSnapshot()},
		stubAppointments{appts: booked},
		stubCatalog{info: catalog.ServiceInfo{DurationMinutes: 30, Price: "25.00"}, found: true},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/slots?business_id=b1&staff_id=s1&service_id=svc1&date=2026-01-05", nil)
	rec := httptest.NewRecorder()
	h.Slots(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp slotsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if resp.Date != "2026-01-05" {
		t.Errorf("date = %q, want 2026-01-05", resp.Date)
	}
	if len(resp.Slots) != 16 {
		t.Fatalf("got %d slots, want 16", len(resp.Slots))
	}
	available := 0
	for _, it := range resp.Slots {
		if it.Price != "25.00" {
			t.Fatalf("slot price = %q", it.Price)
		}
		if it.Available {
			available++
		}
	}
	if available != 15 {
		t.Errorf("available = %d, want 15", available)
	}
	if resp.TotalSlots != 16 || resp.AvailableSlots != 15 {
		t.Errorf("summary counts = %d/%d, want 15/16", resp.AvailableSlots, resp.TotalSlots)
	}
}

func TestSlotsEndpoint_StaffNotFound(t *testing.T) {
	h := newTestHandler(stubSchedules{err: pgx.ErrNoRows}, stubAppointments{}, stubCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/slots?business_id=b1&staff_id=nope&date=2026-01-05", nil)
	rec := httptest.NewRecorder()
	h.Slots(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSlotsEndpoint_MissingParams(t *testing.T) {
	h := newTestHandler(stubSchedules{snap: testSnapshot()}, stubAppointments{}, stubCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/slots?business_id=b1", nil)
	rec := httptest.NewRecorder()
	h.Slots(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDaysEndpoint(t *testing.T) {
	snap := testSnapshot()
	snap.Blackouts["2026-01-06"] = struct{}{}
	h := newTestHandler(stubSchedules{snap: snap}, stubAppointments{}, stubCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/availability?business_id=b1&staff_id=s1&from=2026-01-05&to=2026-01-07", nil)
	rec := httptest.NewRecorder()
	h.Days(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var items []dayItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d days, want 3", len(items))
	}
	if items[0].Status != "working" || items[1].Status != "unavailable" || items[2].Status != "working" {
		t.Errorf("statuses = %s/%s/%s", items[0].Status, items[1].Status, items[2].Status)
	}
}

func TestDaysEndpoint_ReversedRange(t *testing.T) {
	h := newTestHandler(stubSchedules{snap: testSnapshot()}, stubAppointments{}, stubCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/availability?business_id=b1&staff_id=s1&from=2026-01-07&to=2026-01-05", nil)
	rec := httptest.NewRecorder()
	h.Days(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestValidateEndpoint_Conflict(t *testing.T) {
	booked := []model.Appointment{{
		ID:        "a1",
		StartTime: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 1, 5, 11, 0, 0, 0, time.UTC),
		Status:    model.StatusBooked,
	}}
	h := newTestHandler(stubSchedules{snap: testSnapshot()}, stubAppointments{appts: booked}, stubCatalog{})

	body := `{"business_id":"b1","staff_id":"s1","start_time":"2026-01-05T10:30:00Z","end_time":"2026-01-05T11:30:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/validate-booking", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Validate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp validateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if resp.Valid {
		t.Fatal("expected invalid")
	}
	if len(resp.Conflicts) != 1 || resp.Conflicts[0].AppointmentID != "a1" {
		t.Errorf("conflicts = %+v", resp.Conflicts)
	}
	if len(resp.Suggestions) == 0 {
		t.Error("expected suggestions alongside the conflict")
	}
}

func TestValidateEndpoint_Valid(t *testing.T) {
	h := newTestHandler(stubSchedules{snap: testSnapshot()}, stubAppointments{}, stubCatalog{})

	body := `{"business_id":"b1","staff_id":"s1","start_time":"2026-01-05T14:00:00Z","end_time":"2026-01-05T15:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/validate-booking", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Validate(rec, req)

	var resp validateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if !resp.Valid {
		t.Fatalf("expected valid, reason = %q", resp.Reason)
	}
}

func TestNextAvailableEndpoint(t *testing.T) {
	h := newTestHandler(stubSchedules{snap: testSnapshot()}, stubAppointments{}, stubCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/next-available?business_id=b1&staff_id=s1&from=2026-01-03T00:00:00Z", nil)
	rec := httptest.NewRecorder()
	h.NextAvailable(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp nextAvailableResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if !resp.Available {
		t.Fatalf("expected a slot, reason = %q", resp.Reason)
	}
	// Saturday the 3rd is off; Monday the 5th opens at 09:00.
	if resp.Date != "2026-01-05" {
		t.Errorf("date = %s, want 2026-01-05", resp.Date)
	}
	if resp.Slot == nil || resp.Slot.StartTime != "2026-01-05T09:00:00Z" {
		t.Errorf("slot = %+v", resp.Slot)
	}
}

func TestSlotsEndpoint_DurationOverride(t *testing.T) {
	h := newTestHandler(stubSchedules{snap: testSnapshot()}, stubAppointments{}, stubCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/slots?business_id=b1&staff_id=s1&date=2026-01-05&duration_minutes=60", nil)
	rec := httptest.NewRecorder()
	h.Slots(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp slotsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if len(resp.Slots) != 8 {
		t.Fatalf("got %d one-hour slots, want 8", len(resp.Slots))
	}

	reqBad := httptest.NewRequest(http.MethodGet, "/api/v1/public/slots?business_id=b1&staff_id=s1&date=2026-01-05&duration_minutes=0", nil)
	recBad := httptest.NewRecorder()
	h.Slots(recBad, reqBad)
	if recBad.Code != http.StatusBadRequest {
		t.Errorf("zero duration status = %d, want 400", recBad.Code)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	booked := []model.Appointment{{
		ID:        "a1",
		StartTime: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC),
		Status:    model.StatusBooked,
	}}
	h := newTestHandler(stubSchedules{snap: testSnapshot()}, stubAppointments{appts: booked}, stubCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/summary?business_id=b1&staff_id=s1&date=2026-01-05", nil)
	rec := httptest.NewRecorder()
	h.Summary(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp daySummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if !resp.Working || resp.Status != "working" {
		t.Errorf("working = %v, status = %q", resp.Working, resp.Status)
	}
	if resp.TotalSlots != 16 || resp.AvailableSlots != 15 {
		t.Errorf("slots = %d/%d, want 15/16", resp.AvailableSlots, resp.TotalSlots)
	}
	if resp.UtilizationPct != 6 {
		t.Errorf("utilization_pct = %d, want 6", resp.UtilizationPct)
	}
	if resp.NextAvailable == nil || resp.NextAvailable.Slot == nil {
		t.Fatal("expected a next-available pointer")
	}
	if got := resp.NextAvailable.Slot.StartTime; got != "2026-01-05T09:30:00Z" {
		t.Errorf("next available start = %q", got)
	}
	if resp.NextAvailable.Date != "2026-01-05" {
		t.Errorf("next available date = %q", resp.NextAvailable.Date)
	}
}

func TestSummaryEndpoint_DateDefaultsToToday(t *testing.T) {
	h := newTestHandler(stubSchedules{snap: testSnapshot()}, stubAppointments{}, stubCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/summary?business_id=b1&staff_id=s1", nil)
	rec := httptest.NewRecorder()
	h.Summary(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp daySummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	// The pinned clock is 2026-01-01, a Thursday.
	if resp.Date != "2026-01-01" {
		t.Errorf("date = %q, want the pinned today", resp.Date)
	}
	if resp.Status != "working" {
		t.Errorf("status = %q", resp.Status)
	}
}
