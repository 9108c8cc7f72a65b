package availability

import (
	"testing"
	"time"
)

func TestValidateBooking_Valid(t *testing.T) {
	snap := weekdaySnapshot()
	booked := []Booking{{ID: "b1", Start: at(10, 0), End: at(11, 0)}}

	res := ValidateBooking(snap, BookingRequest{Start: at(14, 0), End: at(15, 0)}, SlotOptions{}, booked)
	if !res.Valid {
		t.Fatalf("expected valid, got reason %q", res.Reason)
	}
	if res.Reason != "" || len(res.Conflicts) != 0 || len(res.Suggestions) != 0 {
		t.Errorf("valid result must carry no reason, conflicts, or suggestions: %+v", res)
	}
}

func TestValidateBooking_BackToBack(t *testing.T) {
	snap := weekdaySnapshot()
	booked := []Booking{{ID: "b1", Start: at(10, 0), End: at(11, 0)}}

	// Starting exactly when the existing booking ends is allowed, and
	// so is ending exactly when it starts.
	for _, req := range []BookingRequest{
		{Start: at(11, 0), End: at(12, 0)},
		{Start: at(9, 0), End: at(10, 0)},
	} {
		if res := ValidateBooking(snap, req, SlotOptions{}, booked); !res.Valid {
			t.Errorf("back-to-back %v-%v rejected: %q", req.Start, req.End, res.Reason)
		}
	}
}

func TestValidateBooking_OutsideWorkingHours(t *testing.T) {
	snap := weekdaySnapshot()
	booked := []Booking{{ID: "b1", Start: at(10, 0), End: at(11, 0)}}

	cases := []struct {
		name string
		req  BookingRequest
	}{
		{"before opening", BookingRequest{Start: at(7, 0), End: at(8, 0)}},
		{"crosses closing", BookingRequest{Start: at(16, 30), End: at(17, 30)}},
		{"day off", BookingRequest{Start: day(4).Add(10 * time.Hour), End: day(4).Add(11 * time.Hour)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ValidateBooking(snap, tc.req, SlotOptions{}, booked)
			if res.Valid {
				t.Fatal("expected invalid")
			}
			if res.Reason != ReasonOutsideWorkingHours {
				t.Errorf("reason = %q, want %q", res.Reason, ReasonOutsideWorkingHours)
			}
			// Out-of-window requests report no conflicts even when
			// bookings happen to overlap the interval.
			if len(res.Conflicts) != 0 {
				t.Errorf("conflicts = %v, want none", res.Conflicts)
			}
		})
	}
}

func TestValidateBooking_Conflict(t *testing.T) {
	snap := weekdaySnapshot()
	booked := []Booking{
		{ID: "b1", Start: at(10, 0), End: at(11, 0)},
		{ID: "b2", Start: at(10, 30), End: at(11, 30)},
		{ID: "b3", Start: at(15, 0), End: at(16, 0)},
	}

	res := ValidateBooking(snap, BookingRequest{Start: at(10, 45), End: at(11, 45)}, SlotOptions{Duration: time.Hour}, booked)
	if res.Valid {
		t.Fatal("expected conflict")
	}
	if res.Reason != ReasonConflict {
		t.Errorf("reason = %q, want %q", res.Reason, ReasonConflict)
	}
	if len(res.Conflicts) != 2 {
		t.Fatalf("got %d conflicts, want 2: %v", len(res.Conflicts), res.Conflicts)
	}
	for _, c := range res.Conflicts {
		if c.ID == "b3" {
			t.Error("non-overlapping booking reported as conflict")
		}
	}
	if len(res.Suggestions) == 0 {
		t.Error("conflict result should offer alternatives")
	}
}

func TestValidateBooking_ExcludeID(t *testing.T) {
	snap := weekdaySnapshot()
	booked := []Booking{{ID: "b1", Start: at(10, 0), End: at(11, 0)}}

	req := BookingRequest{Start: at(10, 0), End: at(11, 0), ExcludeID: "b1"}
	if res := ValidateBooking(snap, req, SlotOptions{}, booked); !res.Valid {
		t.Errorf("rescheduling over itself must validate, got %q", res.Reason)
	}
}

func TestSuggestions_OrderedByDistance(t *testing.T) {
	snap := weekdaySnapshot()
	// One-hour slots; 12:00 and its neighbors 11:00 and 13:00 are taken.
	booked := []Booking{
		{ID: "b1", Start: at(11, 0), End: at(12, 0)},
		{ID: "b2", Start: at(12, 0), End: at(13, 0)},
		{ID: "b3", Start: at(13, 0), End: at(14, 0)},
	}

	res := ValidateBooking(snap, BookingRequest{Start: at(12, 0), End: at(13, 0)}, SlotOptions{Duration: time.Hour}, booked)
	if res.Valid {
		t.Fatal("expected conflict")
	}
	if len(res.Suggestions) != 3 {
		t.Fatalf("got %d suggestions, want 3", len(res.Suggestions))
	}
	// 10:00 and 14:00 tie at two hours; the later one wins. 09:00 and
	// 15:00 tie at three; again later first.
	want := []time.Time{at(14, 0), at(10, 0), at(15, 0)}
	for i, s := range res.Suggestions {
		if !s.Start.Equal(want[i]) {
			t.Errorf("suggestion %d starts at %v, want %v", i, s.Start, want[i])
		}
	}
}

func TestSuggestions_SpillToFollowingDays(t *testing.T) {
	snap := weekdaySnapshot()
	// Monday is solidly booked 09:00-17:00.
	var booked []Booking
	for h := 9; h < 17; h++ {
		booked = append(booked, Booking{Start: at(h, 0), End: at(h+1, 0)})
	}

	res := ValidateBooking(snap, BookingRequest{Start: at(10, 0), End: at(11, 0)}, SlotOptions{Duration: time.Hour}, booked)
	if res.Valid {
		t.Fatal("expected conflict")
	}
	if len(res.Suggestions) != 3 {
		t.Fatalf("got %d suggestions, want 3", len(res.Suggestions))
	}
	// Tuesday's earliest slots, in order.
	tuesday := day(6)
	for i, s := range res.Suggestions {
		want := tuesday.Add(time.Duration(9+i) * time.Hour)
		if !s.Start.Equal(want) {
			t.Errorf("suggestion %d starts at %v, want %v", i, s.Start, want)
		}
	}
}

func TestSuggestions_NoneWithinSpan(t *testing.T) {
	snap := weekdaySnapshot()
	for _, d := range []string{"2026-01-05", "2026-01-06", "2026-01-07", "2026-01-08", "2026-01-09"} {
		snap.Exceptions = append(snap.Exceptions, ScheduleException{StartDate: d, EndDate: d, StartMinute: 10 * 60, EndMinute: 11 * 60})
	}
	booked := []Booking{
		{ID: "b1", Start: at(10, 0), End: at(11, 0)},
		{ID: "b2", Start: day(6).Add(10 * time.Hour), End: day(6).Add(11 * time.Hour)},
		{ID: "b3", Start: day(7).Add(10 * time.Hour), End: day(7).Add(11 * time.Hour)},
		{ID: "b4", Start: day(8).Add(10 * time.Hour), End: day(8).Add(11 * time.Hour)},
	}

	res := ValidateBooking(snap, BookingRequest{Start: at(10, 0), End: at(11, 0)}, SlotOptions{Duration: time.Hour}, booked)
	if res.Valid {
		t.Fatal("expected conflict")
	}
	// Friday the 9th is open but lies past the three-day spill window.
	if len(res.Suggestions) != 0 {
		t.Errorf("got %d suggestions, want none: %v", len(res.Suggestions), res.Suggestions)
	}
}

func TestValidate_SlotRoundTrip(t *testing.T) {
	// Every available generated slot must validate; every unavailable
	// one must not.
	snap := weekdaySnapshot()
	booked := []Booking{
		{ID: "b1", Start: at(9, 30), End: at(10, 30)},
		{ID: "b2", Start: at(13, 0), End: at(14, 0)},
	}
	opts := SlotOptions{Duration: 30 * time.Minute}

	for _, s := range GenerateSlots(snap, day(5), opts, booked) {
		res := ValidateBooking(snap, BookingRequest{Start: s.Start, End: s.End}, opts, booked)
		if res.Valid != s.Available {
			t.Errorf("slot at %v: generated available=%v but validation said %v (%s)",
				s.Start, s.Available, res.Valid, res.Reason)
		}
	}
}
