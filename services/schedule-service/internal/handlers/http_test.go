package handlers

import (
	"testing"

	"github.com/salonflow/salonflow/services/schedule-service/internal/storage"
)

func fullWeek() []storage.WorkingHours {
	rules := make([]storage.WorkingHours, 0, 7)
	for wd := 0; wd <= 6; wd++ {
		working := wd >= 1 && wd <= 5
		rule := storage.WorkingHours{Weekday: wd, IsWorking: working}
		if working {
			rule.StartMinute = 540
			rule.EndMinute = 1020
		}
		rules = append(rules, rule)
	}
	return rules
}

func TestValidateWeeklyRules(t *testing.T) {
	if err := validateWeeklyRules(fullWeek()); err != nil {
		t.Fatalf("valid week rejected: %v", err)
	}

	short := fullWeek()[:6]
	if err := validateWeeklyRules(short); err == nil {
		t.Error("six rules must be rejected")
	}

	dup := fullWeek()
	dup[6].Weekday = 0
	if err := validateWeeklyRules(dup); err == nil {
		t.Error("duplicate weekday must be rejected")
	}

	inverted := fullWeek()
	inverted[1].StartMinute = 1020
	inverted[1].EndMinute = 540
	if err := validateWeeklyRules(inverted); err == nil {
		t.Error("inverted window must be rejected")
	}

	outOfRange := fullWeek()
	outOfRange[2].EndMinute = 1500
	if err := validateWeeklyRules(outOfRange); err == nil {
		t.Error("end_minute past midnight must be rejected")
	}

	// Off days carry no window and need none.
	offDayJunk := fullWeek()
	offDayJunk[0].StartMinute = -5
	if err := validateWeeklyRules(offDayJunk); err != nil {
		t.Errorf("non-working day minutes must be ignored: %v", err)
	}
}
