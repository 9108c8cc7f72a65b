package availability

import (
	"strings"
	"testing"
	"time"
)

func TestFindNextAvailable_SameDay(t *testing.T) {
	snap := weekdaySnapshot()
	booked := []Booking{{ID: "b1", Start: at(9, 0), End: at(10, 0)}}

	res := FindNextAvailable(snap, day(5), 30, SlotOptions{Duration: time.Hour}, booked)
	if !res.Available {
		t.Fatalf("expected a slot, got reason %q", res.Reason)
	}
	if res.Date != "2026-01-05" {
		t.Errorf("date = %s, want 2026-01-05", res.Date)
	}
	if res.Slot == nil || !res.Slot.Start.Equal(at(10, 0)) {
		t.Errorf("slot = %+v, want start 10:00", res.Slot)
	}
}

func TestFindNextAvailable_SkipsFullDays(t *testing.T) {
	snap := weekdaySnapshot()
	// Monday and Tuesday fully booked, Wednesday blacked out.
	var booked []Booking
	for _, d := range []time.Time{day(5), day(6)} {
		for h := 9; h < 17; h++ {
			booked = append(booked, Booking{Start: d.Add(time.Duration(h) * time.Hour), End: d.Add(time.Duration(h+1) * time.Hour)})
		}
	}
	snap.Blackouts["2026-01-07"] = struct{}{}

	res := FindNextAvailable(snap, day(5), 30, SlotOptions{Duration: time.Hour}, booked)
	if !res.Available {
		t.Fatalf("expected a slot, got reason %q", res.Reason)
	}
	if res.Date != "2026-01-08" {
		t.Errorf("date = %s, want 2026-01-08", res.Date)
	}
	if res.Slot == nil || !res.Slot.Start.Equal(day(8).Add(9*time.Hour)) {
		t.Errorf("slot = %+v, want Thursday 09:00", res.Slot)
	}
}

func TestFindNextAvailable_HorizonExhausted(t *testing.T) {
	snap := ScheduleSnapshot{Weekly: map[time.Weekday]WorkingHoursRule{}}

	res := FindNextAvailable(snap, day(5), 30, SlotOptions{}, nil)
	if res.Available {
		t.Fatal("no working days configured, nothing should be found")
	}
	if res.Slot != nil || res.Date != "" {
		t.Errorf("exhausted result must carry no slot or date: %+v", res)
	}
	if !strings.Contains(res.Reason, "30 days") {
		t.Errorf("reason = %q, want mention of the 30 day horizon", res.Reason)
	}
}

func TestFindNextAvailable_HorizonIsExclusiveUpperBound(t *testing.T) {
	snap := weekdaySnapshot()
	// Only the Monday two weeks out is open.
	snap.Exceptions = []ScheduleException{{StartDate: "2026-01-05", EndDate: "2026-01-18", Closed: true}}

	if res := FindNextAvailable(snap, day(5), 14, SlotOptions{Duration: time.Hour}, nil); res.Available {
		t.Errorf("day 14 lies outside a 14-day horizon starting at day 0, got %s", res.Date)
	}
	if res := FindNextAvailable(snap, day(5), 15, SlotOptions{Duration: time.Hour}, nil); !res.Available || res.Date != "2026-01-19" {
		t.Errorf("15-day horizon must reach 2026-01-19, got %+v", res)
	}
}

func TestFindNextAvailable_DefaultHorizon(t *testing.T) {
	snap := ScheduleSnapshot{Weekly: map[time.Weekday]WorkingHoursRule{}}
	res := FindNextAvailable(snap, day(5), 0, SlotOptions{}, nil)
	if !strings.Contains(res.Reason, "30 days") {
		t.Errorf("zero horizon must fall back to the default, reason = %q", res.Reason)
	}
}
