package availability

import (
	"testing"
	"time"
)

func TestAggregateDays_Week(t *testing.T) {
	snap := weekdaySnapshot()
	snap.Blackouts["2026-01-07"] = struct{}{}

	// Every Tuesday slot is taken.
	var booked []Booking
	for h := 9; h < 17; h++ {
		booked = append(booked,
			Booking{Start: day(6).Add(time.Duration(h) * time.Hour), End: day(6).Add(time.Duration(h) * time.Hour).Add(time.Hour)})
	}

	days := AggregateDays(snap, day(5), day(11), SlotOptions{Duration: 30 * time.Minute}, booked)
	if len(days) != 7 {
		t.Fatalf("got %d days, want 7 for an inclusive Mon-Sun range", len(days))
	}

	want := []struct {
		date      string
		status    DayStatus
		total     int
		available int
	}{
		{"2026-01-05", DayWorking, 16, 16},
		{"2026-01-06", DayFullyBooked, 16, 0},
		{"2026-01-07", DayUnavailable, 0, 0},
		{"2026-01-08", DayWorking, 16, 16},
		{"2026-01-09", DayWorking, 16, 16},
		{"2026-01-10", DayUnavailable, 0, 0},
		{"2026-01-11", DayUnavailable, 0, 0},
	}
	for i, w := range want {
		got := days[i]
		if got.Date != w.date || got.Status != w.status || got.TotalSlots != w.total || got.AvailableSlots != w.available {
			t.Errorf("day %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestAggregateDays_SingleDay(t *testing.T) {
	snap := weekdaySnapshot()
	days := AggregateDays(snap, day(5), day(5), SlotOptions{Duration: time.Hour}, nil)
	if len(days) != 1 {
		t.Fatalf("from==to must yield exactly one day, got %d", len(days))
	}
	if days[0].TotalSlots != 8 {
		t.Errorf("TotalSlots = %d, want 8", days[0].TotalSlots)
	}
}

func TestAggregateDays_WorkingButNothingBookable(t *testing.T) {
	// A 20-minute window fits no 30-minute slot. The day is still a
	// working day, reported fully booked, not unavailable.
	snap := weekdaySnapshot()
	snap.Weekly[time.Monday] = WorkingHoursRule{Weekday: time.Monday, IsWorking: true, StartMinute: 9 * 60, EndMinute: 9*60 + 20}

	days := AggregateDays(snap, day(5), day(5), SlotOptions{Duration: 30 * time.Minute}, nil)
	if days[0].Status != DayFullyBooked {
		t.Errorf("status = %s, want %s", days[0].Status, DayFullyBooked)
	}
	if days[0].TotalSlots != 0 {
		t.Errorf("TotalSlots = %d, want 0", days[0].TotalSlots)
	}
}
