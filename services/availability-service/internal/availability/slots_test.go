package availability

import (
	"reflect"
	"testing"
	"time"
)

func TestGenerateSlots_FullDay(t *testing.T) {
	snap := weekdaySnapshot()
	booked := []Booking{{ID: "b1", Start: at(10, 0), End: at(10, 30)}}

	slots := GenerateSlots(snap, day(5), SlotOptions{Duration: 30 * time.Minute}, booked)

	// 09:00-17:00 at 30 minutes is exactly 16 slots.
	if len(slots) != 16 {
		t.Fatalf("got %d slots, want 16", len(slots))
	}

	available := 0
	for i, s := range slots {
		if s.End.Sub(s.Start) != 30*time.Minute {
			t.Errorf("slot %d duration = %v", i, s.End.Sub(s.Start))
		}
		if i > 0 && slots[i-1].End.After(s.Start) {
			t.Errorf("slot %d overlaps its predecessor", i)
		}
		if s.Available {
			available++
		}
	}
	if available != 15 {
		t.Errorf("got %d available slots, want 15", available)
	}
	if slots[2].Available {
		t.Error("the 10:00 slot overlaps the booking and must be unavailable")
	}
	if !slots[1].Available || !slots[3].Available {
		t.Error("slots adjacent to the booking must stay available")
	}
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	snap := weekdaySnapshot()
	booked := []Booking{{ID: "b1", Start: at(11, 0), End: at(12, 0)}}
	opts := SlotOptions{Duration: 30 * time.Minute}

	first := GenerateSlots(snap, day(5), opts, booked)
	second := GenerateSlots(snap, day(5), opts, booked)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs must produce identical slots")
	}
}

func TestGenerateSlots_NoWindow(t *testing.T) {
	snap := weekdaySnapshot()
	if got := GenerateSlots(snap, day(4), SlotOptions{}, nil); got != nil {
		t.Errorf("Sunday must yield no slots, got %d", len(got))
	}
}

func TestGenerateSlots_TrailingRemainderDiscarded(t *testing.T) {
	snap := weekdaySnapshot()
	// 09:00-10:50 fits two 45-minute slots with a 20-minute remainder.
	snap.Weekly[time.Monday] = WorkingHoursRule{Weekday: time.Monday, IsWorking: true, StartMinute: 9 * 60, EndMinute: 10*60 + 50}

	slots := GenerateSlots(snap, day(5), SlotOptions{Duration: 45 * time.Minute}, nil)
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2", len(slots))
	}
	if !slots[1].End.Equal(at(10, 30)) {
		t.Errorf("last slot ends at %v, want 10:30", slots[1].End)
	}
}

func TestGenerateSlots_DurationFallback(t *testing.T) {
	snap := weekdaySnapshot()
	snap.Rules.SlotStepMinutes = 60

	slots := GenerateSlots(snap, day(5), SlotOptions{}, nil)
	if len(slots) != 8 {
		t.Fatalf("rule-set step of 60m over 8h should give 8 slots, got %d", len(slots))
	}

	snap.Rules.SlotStepMinutes = 0
	slots = GenerateSlots(snap, day(5), SlotOptions{}, nil)
	if len(slots) != 16 {
		t.Fatalf("default 30m step over 8h should give 16 slots, got %d", len(slots))
	}
}

func TestGenerateSlots_MinNotice(t *testing.T) {
	snap := weekdaySnapshot()
	snap.Rules.MinNoticeMinutes = 120

	// Now is 09:10 on the queried day: slots before 11:10 are too soon.
	slots := GenerateSlots(snap, day(5), SlotOptions{Duration: 30 * time.Minute, Now: at(9, 10)}, nil)
	if len(slots) != 16 {
		t.Fatalf("minimum notice must not remove slots, got %d", len(slots))
	}
	for _, s := range slots {
		tooSoon := s.Start.Before(at(11, 10))
		if s.Available == tooSoon {
			t.Errorf("slot at %v: available=%v with 2h notice from 09:10", s.Start, s.Available)
		}
	}
}

func TestGenerateSlots_AdvanceHorizon(t *testing.T) {
	snap := weekdaySnapshot()
	snap.Rules.MaxAdvanceDays = 7

	// Day 19 is two weeks past now, beyond the 7-day horizon.
	slots := GenerateSlots(snap, day(19), SlotOptions{Duration: 30 * time.Minute, Now: at(9, 0)}, nil)
	if len(slots) != 16 {
		t.Fatalf("advance horizon must not remove slots, got %d", len(slots))
	}
	for _, s := range slots {
		if s.Available {
			t.Fatalf("slot at %v beyond the advance horizon must be unavailable", s.Start)
		}
	}
}

func TestGenerateSlots_ZeroNowSkipsNoticeAndHorizon(t *testing.T) {
	snap := weekdaySnapshot()
	snap.Rules.MinNoticeMinutes = 120
	snap.Rules.MaxAdvanceDays = 7

	// Without a clock there is nothing to anchor notice or advance
	// rules to, so neither may mark slots unavailable.
	slots := GenerateSlots(snap, day(19), SlotOptions{Duration: 30 * time.Minute}, nil)
	if len(slots) != 16 {
		t.Fatalf("got %d slots, want 16", len(slots))
	}
	for _, s := range slots {
		if !s.Available {
			t.Fatalf("slot at %v must be available with a zero clock", s.Start)
		}
	}
}

func TestGenerateSlots_Price(t *testing.T) {
	snap := weekdaySnapshot()
	slots := GenerateSlots(snap, day(5), SlotOptions{Duration: time.Hour, Price: "45.00"}, nil)
	if len(slots) == 0 {
		t.Fatal("expected slots")
	}
	for _, s := range slots {
		if s.Price != "45.00" {
			t.Fatalf("slot price = %q, want 45.00", s.Price)
		}
	}
}
