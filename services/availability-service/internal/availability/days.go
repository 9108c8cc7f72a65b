package availability

import "time"

type DayStatus string

const (
	DayWorking     DayStatus = "working"
	DayUnavailable DayStatus = "unavailable"
	DayFullyBooked DayStatus = "fully_booked"
)

// DayAvailability is the per-day summary for a date-range query.
type DayAvailability struct {
	Date           string // YYYY-MM-DD in the snapshot's location
	Status         DayStatus
	TotalSlots     int
	AvailableSlots int
}

// AggregateDays produces one DayAvailability per calendar day in
// [from, to] inclusive. The caller guarantees to >= from and supplies
// bookings covering the whole range; each day only counts the bookings
// that actually overlap it via the slot overlap test.
func AggregateDays(snap ScheduleSnapshot, from, to time.Time, opts SlotOptions, booked []Booking) []DayAvailability {
	loc := snap.location()
	start := dayStart(from, loc)
	end := dayStart(to, loc)

	var days []DayAvailability
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, summarizeDay(snap, d, opts, booked))
	}
	return days
}

func summarizeDay(snap ScheduleSnapshot, date time.Time, opts SlotOptions, booked []Booking) DayAvailability {
	day := DayAvailability{
		Date:   date.In(snap.location()).Format(dateLayout),
		Status: DayUnavailable,
	}

	if snap.ResolveWorkingWindow(date) == nil {
		return day
	}

	slots := GenerateSlots(snap, date, opts, booked)
	day.TotalSlots = len(slots)
	for _, s := range slots {
		if s.Available {
			day.AvailableSlots++
		}
	}
	if day.AvailableSlots == 0 {
		day.Status = DayFullyBooked
	} else {
		day.Status = DayWorking
	}
	return day
}

func dayStart(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}
