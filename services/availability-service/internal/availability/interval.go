// Package availability implements the scheduling engine: interval
// arithmetic, working-window resolution, slot generation, booking
// validation, and next-available search.
//
// Everything in this package is pure computation. Rules, appointments,
// and the current time are injected by the caller; no I/O happens here.
// All times within one call are expected to share a location.
package availability

import (
	"sort"
	"time"
)

// Interval is a half-open time interval [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the two half-open intervals intersect.
// Touching endpoints do not overlap, which is what allows back-to-back
// bookings.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Contains reports whether o lies entirely within i.
func (i Interval) Contains(o Interval) bool {
	return !o.Start.Before(i.Start) && !o.End.After(i.End)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i Interval) valid() bool {
	return i.End.After(i.Start)
}

// Subtract removes the busy intervals from window and returns the
// remaining free sub-intervals in ascending order. Busy intervals may
// partially overlap the window edges, be fully contained, or cover the
// window entirely (empty result).
func Subtract(window Interval, busy []Interval) []Interval {
	if !window.valid() {
		return nil
	}

	clipped := make([]Interval, 0, len(busy))
	for _, b := range busy {
		if !b.Overlaps(window) {
			continue
		}
		if b.Start.Before(window.Start) {
			b.Start = window.Start
		}
		if b.End.After(window.End) {
			b.End = window.End
		}
		if b.valid() {
			clipped = append(clipped, b)
		}
	}
	if len(clipped) == 0 {
		return []Interval{window}
	}

	sort.Slice(clipped, func(i, j int) bool {
		if !clipped[i].Start.Equal(clipped[j].Start) {
			return clipped[i].Start.Before(clipped[j].Start)
		}
		return clipped[i].End.Before(clipped[j].End)
	})

	merged := clipped[:1]
	for _, cur := range clipped[1:] {
		last := &merged[len(merged)-1]
		if cur.Start.After(last.End) {
			merged = append(merged, cur)
			continue
		}
		if cur.End.After(last.End) {
			last.End = cur.End
		}
	}

	var free []Interval
	cursor := window.Start
	for _, m := range merged {
		if m.Start.After(cursor) {
			free = append(free, Interval{Start: cursor, End: m.Start})
		}
		if m.End.After(cursor) {
			cursor = m.End
		}
	}
	if window.End.After(cursor) {
		free = append(free, Interval{Start: cursor, End: window.End})
	}
	return free
}
