package availability

import (
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2026, 1, 5, h, m, 0, 0, time.UTC)
}

func iv(startH, startM, endH, endM int) Interval {
	return Interval{Start: at(startH, startM), End: at(endH, endM)}
}

func TestOverlaps_HalfOpen(t *testing.T) {
	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", iv(9, 0, 10, 0), iv(11, 0, 12, 0), false},
		{"partial", iv(9, 0, 10, 0), iv(9, 30, 10, 30), true},
		{"contained", iv(9, 0, 12, 0), iv(10, 0, 11, 0), true},
		{"identical", iv(9, 0, 10, 0), iv(9, 0, 10, 0), true},
		// Touching endpoints must not conflict: this is what allows
		// back-to-back bookings.
		{"touching", iv(9, 0, 10, 0), iv(10, 0, 11, 0), false},
		{"touching reversed", iv(10, 0, 11, 0), iv(9, 0, 10, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Fatalf("Overlaps must be symmetric for %s", tc.name)
			}
		})
	}
}

func TestContains(t *testing.T) {
	window := iv(9, 0, 17, 0)
	if !window.Contains(iv(9, 0, 9, 30)) {
		t.Error("interval at window start must be contained")
	}
	if !window.Contains(iv(16, 30, 17, 0)) {
		t.Error("interval at window end must be contained")
	}
	if window.Contains(iv(8, 30, 9, 30)) {
		t.Error("interval crossing window start must not be contained")
	}
	if window.Contains(iv(16, 30, 17, 30)) {
		t.Error("interval crossing window end must not be contained")
	}
}

func TestSubtract(t *testing.T) {
	window := iv(9, 0, 17, 0)

	cases := []struct {
		name string
		busy []Interval
		want []Interval
	}{
		{"no busy", nil, []Interval{window}},
		{"middle", []Interval{iv(12, 0, 13, 0)}, []Interval{iv(9, 0, 12, 0), iv(13, 0, 17, 0)}},
		{"clips leading edge", []Interval{iv(8, 0, 10, 0)}, []Interval{iv(10, 0, 17, 0)}},
		{"clips trailing edge", []Interval{iv(16, 0, 18, 0)}, []Interval{iv(9, 0, 16, 0)}},
		{"covers window", []Interval{iv(8, 0, 18, 0)}, nil},
		{"outside window", []Interval{iv(7, 0, 8, 0)}, []Interval{window}},
		{
			"merges overlapping busy",
			[]Interval{iv(10, 0, 11, 30), iv(11, 0, 12, 0), iv(14, 0, 15, 0)},
			[]Interval{iv(9, 0, 10, 0), iv(12, 0, 14, 0), iv(15, 0, 17, 0)},
		},
		{
			"unsorted input",
			[]Interval{iv(14, 0, 15, 0), iv(10, 0, 11, 0)},
			[]Interval{iv(9, 0, 10, 0), iv(11, 0, 14, 0), iv(15, 0, 17, 0)},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Subtract(window, tc.busy)
			if len(got) != len(tc.want) {
				t.Fatalf("Subtract returned %d intervals, want %d: %v", len(got), len(tc.want), got)
			}
			for i := range got {
				if !got[i].Start.Equal(tc.want[i].Start) || !got[i].End.Equal(tc.want[i].End) {
					t.Fatalf("interval %d = %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}
