package availability

import (
	"fmt"
	"time"
)

// DefaultHorizonDays bounds the forward scan for the next open slot.
const DefaultHorizonDays = 30

// NextAvailable is the result of a forward search. Reason is set only
// when Available is false.
type NextAvailable struct {
	Available bool
	Slot      *TimeSlot
	Date      string // YYYY-MM-DD of the found slot
	Reason    string
}

// FindNextAvailable scans day by day, starting at from, for the first
// free slot within horizonDays. The scan is deliberately linear:
// availability is not monotonic over time (a nearer day can be fully
// booked while a farther one is open), so days cannot be skipped.
// booked must cover the whole horizon.
func FindNextAvailable(snap ScheduleSnapshot, from time.Time, horizonDays int, opts SlotOptions, booked []Booking) NextAvailable {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	loc := snap.location()
	start := dayStart(from, loc)
	for offset := 0; offset < horizonDays; offset++ {
		day := start.AddDate(0, 0, offset)
		for _, s := range GenerateSlots(snap, day, opts, booked) {
			if !s.Available {
				continue
			}
			found := s
			return NextAvailable{
				Available: true,
				Slot:      &found,
				Date:      day.Format(dateLayout),
			}
		}
	}

	return NextAvailable{
		Available: false,
		Reason:    fmt.Sprintf("No available slots found in the next %d days", horizonDays),
	}
}
