package availability

import (
	"sort"
	"time"
)

const (
	// ReasonOutsideWorkingHours is returned when the requested interval
	// is not fully contained in the day's working window.
	ReasonOutsideWorkingHours = "outside working hours"
	// ReasonConflict is returned when existing appointments occupy part
	// of the requested interval.
	ReasonConflict = "conflicts with existing appointments"

	maxSuggestions     = 3
	suggestionSpanDays = 3
)

// BookingRequest is a proposed appointment interval to validate.
// ExcludeID lets an edit to an existing appointment re-validate without
// conflicting with itself.
type BookingRequest struct {
	Start     time.Time
	End       time.Time
	ExcludeID string
}

// ValidationResult is a normal result in all cases; conflicts and
// closed days are modeled outcomes, not errors.
type ValidationResult struct {
	Valid       bool
	Reason      string
	Conflicts   []Booking
	Suggestions []TimeSlot
}

// ValidateBooking checks the proposed interval against the resolved
// working window and the supplied non-cancelled bookings. It never
// writes or locks anything: two concurrent validations can both see the
// same slot as free, and the write path's exclusion constraint settles
// the race at commit time.
//
// booked should cover the requested day plus the following
// suggestionSpanDays so that conflict suggestions can spill forward.
func ValidateBooking(snap ScheduleSnapshot, req BookingRequest, opts SlotOptions, booked []Booking) ValidationResult {
	window := snap.ResolveWorkingWindow(req.Start)
	requested := Interval{Start: req.Start, End: req.End}
	if window == nil || !window.Contains(requested) {
		return ValidationResult{Valid: false, Reason: ReasonOutsideWorkingHours}
	}

	relevant := make([]Booking, 0, len(booked))
	for _, b := range booked {
		if req.ExcludeID != "" && b.ID == req.ExcludeID {
			continue
		}
		relevant = append(relevant, b)
	}

	var conflicts []Booking
	for _, b := range relevant {
		if requested.Overlaps(b.interval()) {
			conflicts = append(conflicts, b)
		}
	}
	if len(conflicts) == 0 {
		return ValidationResult{Valid: true}
	}

	return ValidationResult{
		Valid:       false,
		Reason:      ReasonConflict,
		Conflicts:   conflicts,
		Suggestions: suggestAlternatives(snap, req.Start, opts, relevant),
	}
}

// suggestAlternatives returns up to maxSuggestions free slots near the
// requested start: same-day slots ordered by distance to the requested
// time (later slot wins a distance tie), then subsequent days
// earliest-first.
func suggestAlternatives(snap ScheduleSnapshot, requestedStart time.Time, opts SlotOptions, booked []Booking) []TimeSlot {
	var sameDay []TimeSlot
	for _, s := range GenerateSlots(snap, requestedStart, opts, booked) {
		if s.Available {
			sameDay = append(sameDay, s)
		}
	}
	sort.SliceStable(sameDay, func(i, j int) bool {
		di := absDuration(sameDay[i].Start.Sub(requestedStart))
		dj := absDuration(sameDay[j].Start.Sub(requestedStart))
		if di != dj {
			return di < dj
		}
		return sameDay[i].Start.After(sameDay[j].Start)
	})

	suggestions := sameDay
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	for offset := 1; len(suggestions) < maxSuggestions && offset <= suggestionSpanDays; offset++ {
		day := requestedStart.AddDate(0, 0, offset)
		for _, s := range GenerateSlots(snap, day, opts, booked) {
			if !s.Available {
				continue
			}
			suggestions = append(suggestions, s)
			if len(suggestions) == maxSuggestions {
				break
			}
		}
	}
	return suggestions
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
