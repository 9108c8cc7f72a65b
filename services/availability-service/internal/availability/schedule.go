package availability

import "time"

const dateLayout = "2006-01-02"

// WorkingHoursRule is one weekday's standing schedule. Start and end are
// wall-clock minutes since midnight; a rule with IsWorking=false (or an
// absent rule) means a day off. Windows never cross midnight.
type WorkingHoursRule struct {
	Weekday     time.Weekday
	IsWorking   bool
	StartMinute int
	EndMinute   int
}

// ScheduleException overrides the weekly rule for a date range. Closed
// nullifies the day entirely; otherwise StartMinute/EndMinute replace
// the weekly window (they may narrow or widen it).
type ScheduleException struct {
	StartDate   string // inclusive, YYYY-MM-DD
	EndDate     string // inclusive
	Closed      bool
	StartMinute int
	EndMinute   int
}

// RuleSet carries the per-staff booking policy knobs.
type RuleSet struct {
	MinNoticeMinutes int
	MaxAdvanceDays   int
	SlotStepMinutes  int // default slot duration when neither caller nor service supplies one
}

// ScheduleSnapshot is the read-only rule state for one staff member,
// assembled by the caller at query time.
type ScheduleSnapshot struct {
	Weekly     map[time.Weekday]WorkingHoursRule
	Blackouts  map[string]struct{} // dates fully unavailable, YYYY-MM-DD
	Exceptions []ScheduleException
	Rules      RuleSet
	Location   *time.Location
}

func (s ScheduleSnapshot) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

// ResolveWorkingWindow returns the bookable window for the given date, or
// nil when the staff member is unavailable that day. Nil is a normal
// outcome, not an error. Precedence: blackout date, then a schedule
// exception covering the date, then the weekly rule.
func (s ScheduleSnapshot) ResolveWorkingWindow(date time.Time) *Interval {
	loc := s.location()
	dateStr := date.In(loc).Format(dateLayout)

	if _, ok := s.Blackouts[dateStr]; ok {
		return nil
	}

	// ISO dates compare correctly as strings.
	for _, ex := range s.Exceptions {
		if dateStr < ex.StartDate || dateStr > ex.EndDate {
			continue
		}
		if ex.Closed {
			return nil
		}
		return windowOnDate(date, loc, ex.StartMinute, ex.EndMinute)
	}

	rule, ok := s.Weekly[date.In(loc).Weekday()]
	if !ok || !rule.IsWorking {
		return nil
	}
	return windowOnDate(date, loc, rule.StartMinute, rule.EndMinute)
}

func windowOnDate(date time.Time, loc *time.Location, startMin, endMin int) *Interval {
	if endMin <= startMin {
		return nil
	}
	d := date.In(loc)
	midnight := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return &Interval{
		Start: midnight.Add(time.Duration(startMin) * time.Minute),
		End:   midnight.Add(time.Duration(endMin) * time.Minute),
	}
}
