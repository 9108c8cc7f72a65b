package availability

import (
	"testing"
	"time"
)

// weekdaySnapshot covers Mon-Fri 09:00-17:00 in UTC with no exceptions.
func weekdaySnapshot() ScheduleSnapshot {
	weekly := make(map[time.Weekday]WorkingHoursRule)
	for wd := time.Monday; wd <= time.Friday; wd++ {
		weekly[wd] = WorkingHoursRule{Weekday: wd, IsWorking: true, StartMinute: 9 * 60, EndMinute: 17 * 60}
	}
	return ScheduleSnapshot{
		Weekly:    weekly,
		Blackouts: map[string]struct{}{},
	}
}

// 2026-01-05 is a Monday.
func day(dayOfMonth int) time.Time {
	return time.Date(2026, 1, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func TestResolveWorkingWindow_WeeklyRule(t *testing.T) {
	snap := weekdaySnapshot()

	window := snap.ResolveWorkingWindow(day(5))
	if window == nil {
		t.Fatal("Monday should have a working window")
	}
	if !window.Start.Equal(at(9, 0)) || !window.End.Equal(at(17, 0)) {
		t.Fatalf("window = %v, want 09:00-17:00", *window)
	}

	if snap.ResolveWorkingWindow(day(4)) != nil {
		t.Error("Sunday has no rule and must resolve to nil")
	}
}

func TestResolveWorkingWindow_NonWorkingRule(t *testing.T) {
	snap := weekdaySnapshot()
	snap.Weekly[time.Saturday] = WorkingHoursRule{Weekday: time.Saturday, IsWorking: false}

	if snap.ResolveWorkingWindow(day(10)) != nil {
		t.Error("IsWorking=false must resolve to nil")
	}
}

func TestResolveWorkingWindow_BlackoutWins(t *testing.T) {
	snap := weekdaySnapshot()
	snap.Blackouts["2026-01-05"] = struct{}{}
	// Even an exception on the same date loses to the blackout.
	snap.Exceptions = []ScheduleException{
		{StartDate: "2026-01-05", EndDate: "2026-01-05", StartMinute: 10 * 60, EndMinute: 12 * 60},
	}

	if snap.ResolveWorkingWindow(day(5)) != nil {
		t.Error("blackout date must resolve to nil regardless of other layers")
	}
	if snap.ResolveWorkingWindow(day(6)) == nil {
		t.Error("blackout on Monday must not affect Tuesday")
	}
}

func TestResolveWorkingWindow_Exceptions(t *testing.T) {
	snap := weekdaySnapshot()
	snap.Exceptions = []ScheduleException{
		{StartDate: "2026-01-05", EndDate: "2026-01-06", StartMinute: 10 * 60, EndMinute: 14 * 60},
		{StartDate: "2026-01-07", EndDate: "2026-01-07", Closed: true},
		// Opens an otherwise-off Sunday.
		{StartDate: "2026-01-11", EndDate: "2026-01-11", StartMinute: 12 * 60, EndMinute: 15 * 60},
	}

	window := snap.ResolveWorkingWindow(day(5))
	if window == nil || !window.Start.Equal(at(10, 0)) || !window.End.Equal(at(14, 0)) {
		t.Fatalf("exception must replace the weekly window, got %v", window)
	}

	if snap.ResolveWorkingWindow(day(7)) != nil {
		t.Error("closed exception must resolve to nil")
	}

	sunday := snap.ResolveWorkingWindow(day(11))
	if sunday == nil {
		t.Fatal("exception must be able to open a day the weekly rule closes")
	}
	if sunday.End.Sub(sunday.Start) != 3*time.Hour {
		t.Errorf("Sunday window = %v, want 3h", sunday.End.Sub(sunday.Start))
	}

	if snap.ResolveWorkingWindow(day(8)) == nil {
		t.Error("dates outside every exception range fall back to the weekly rule")
	}
}

func TestResolveWorkingWindow_DegenerateWindow(t *testing.T) {
	snap := weekdaySnapshot()
	snap.Weekly[time.Monday] = WorkingHoursRule{Weekday: time.Monday, IsWorking: true, StartMinute: 9 * 60, EndMinute: 9 * 60}

	if snap.ResolveWorkingWindow(day(5)) != nil {
		t.Error("zero-length window must resolve to nil")
	}
}

func TestResolveWorkingWindow_Location(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	snap := weekdaySnapshot()
	snap.Location = loc

	// 2026-01-05 22:00 UTC is already Tuesday 03:00 in UTC+5.
	window := snap.ResolveWorkingWindow(time.Date(2026, 1, 5, 22, 0, 0, 0, time.UTC))
	if window == nil {
		t.Fatal("expected Tuesday window in snapshot location")
	}
	if got := window.Start.In(loc); got.Day() != 6 || got.Hour() != 9 {
		t.Errorf("window start = %v, want Jan 6 09:00 in %v", got, loc)
	}
}
