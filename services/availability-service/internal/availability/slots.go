package availability

import "time"

// DefaultSlotMinutes is used when neither the caller, the service
// catalog, nor the staff rule set supplies a duration.
const DefaultSlotMinutes = 30

// Booking is an appointment that occupies time. Callers pass only
// non-cancelled appointments; cancelled ones never block.
type Booking struct {
	ID        string
	ServiceID string
	Start     time.Time
	End       time.Time
}

func (b Booking) interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}

// TimeSlot is one bookable unit offered to customers. Slots are a view
// computed at query time, never persisted.
type TimeSlot struct {
	Start     time.Time
	End       time.Time
	Available bool
	Price     string // empty when no service was supplied
}

// SlotOptions carries the per-request generation inputs.
type SlotOptions struct {
	Duration time.Duration // <=0 selects the rule-set step, then DefaultSlotMinutes
	Price    string        // attached to every slot when non-empty
	Now      time.Time     // basis for minimum-notice and advance-horizon checks
}

func (o SlotOptions) duration(rules RuleSet) time.Duration {
	if o.Duration > 0 {
		return o.Duration
	}
	if rules.SlotStepMinutes > 0 {
		return time.Duration(rules.SlotStepMinutes) * time.Minute
	}
	return DefaultSlotMinutes * time.Minute
}

// GenerateSlots slices the resolved working window for date into slots
// of exactly the requested duration, in ascending order, never mutually
// overlapping. A trailing remainder shorter than the duration is
// discarded. A slot is unavailable when it overlaps a booking, starts
// before now plus the minimum notice, or lies beyond the advance
// horizon. Returns nil when the day has no working window.
func GenerateSlots(snap ScheduleSnapshot, date time.Time, opts SlotOptions, booked []Booking) []TimeSlot {
	window := snap.ResolveWorkingWindow(date)
	if window == nil {
		return nil
	}

	duration := opts.duration(snap.Rules)
	notBefore := opts.Now
	if snap.Rules.MinNoticeMinutes > 0 {
		notBefore = notBefore.Add(time.Duration(snap.Rules.MinNoticeMinutes) * time.Minute)
	}
	var notAfter time.Time
	if !opts.Now.IsZero() && snap.Rules.MaxAdvanceDays > 0 {
		notAfter = opts.Now.AddDate(0, 0, snap.Rules.MaxAdvanceDays)
	}

	var slots []TimeSlot
	for start := window.Start; !start.Add(duration).After(window.End); start = start.Add(duration) {
		slot := Interval{Start: start, End: start.Add(duration)}

		available := true
		if !opts.Now.IsZero() && start.Before(notBefore) {
			available = false
		}
		if available && !notAfter.IsZero() && start.After(notAfter) {
			available = false
		}
		if available {
			for _, b := range booked {
				if slot.Overlaps(b.interval()) {
					available = false
					break
				}
			}
		}

		slots = append(slots, TimeSlot{
			Start:     slot.Start,
			End:       slot.End,
			Available: available,
			Price:     opts.Price,
		})
	}
	return slots
}
