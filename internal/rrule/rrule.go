package rrule

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

var weekdayCodes = map[time.Weekday]string{
	time.Sunday:    "SU",
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
}

// ParseRRule parses an RFC 5545 RRULE string anchored at dtstart.
// dtstart keeps its own location so occurrences are computed in that zone.
func ParseRRule(ruleStr string, dtstart time.Time) (*rrule.RRule, error) {
	// Handle RRULE: prefix if present
	ruleStr = strings.TrimPrefix(ruleStr, "RRULE:")

	opt, err := rrule.StrToROption(ruleStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RRULE: %w", err)
	}
	opt.Dtstart = dtstart
	return rrule.NewRRule(*opt)
}

// NextOccurrenceStrict returns the first occurrence strictly after the given time.
// Returns nil if the rule has no more occurrences.
func NextOccurrenceStrict(ruleStr string, dtstart time.Time, after time.Time) (*time.Time, error) {
	rule, err := ParseRRule(ruleStr, dtstart)
	if err != nil {
		return nil, err
	}

	next := rule.After(after, false)
	if next.IsZero() {
		return nil, nil
	}
	return &next, nil
}

// WeeklyRule builds the RRULE for "every <weekday>".
func WeeklyRule(day time.Weekday) string {
	return "FREQ=WEEKLY;BYDAY=" + weekdayCodes[day]
}

// NextWeekday returns midnight of the next day falling on the given weekday.
// Today never qualifies, so the result is always 1 to 7 days ahead.
func NextWeekday(now time.Time, day time.Weekday) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	next, err := NextOccurrenceStrict(WeeklyRule(day), today, today)
	if err == nil && next != nil {
		return *next
	}

	// the rule above is static, this only guards a broken rrule build
	offset := (int(day) - int(today.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return today.AddDate(0, 0, offset)
}
