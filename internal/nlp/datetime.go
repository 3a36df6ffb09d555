// Package nlp extracts schedule details from Korean free text.
package nlp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hray3182/secretary/internal/models"
	"github.com/hray3182/secretary/internal/rrule"
)

const (
	DefaultTime  = "09:00"
	DefaultTitle = "새 일정"
)

type meridiem int

const (
	noMeridiem meridiem = iota
	am
	pm
)

type timePattern struct {
	re       *regexp.Regexp
	meridiem meridiem
}

// Marked patterns come first, otherwise the bare "H시" form would swallow "오후 3시".
var timePatterns = []timePattern{
	{regexp.MustCompile(`오전\s*(\d{1,2})시(?:\s*(\d{1,2})분)?(?:에|부터)?`), am},
	{regexp.MustCompile(`오후\s*(\d{1,2})시(?:\s*(\d{1,2})분)?(?:에|부터)?`), pm},
	{regexp.MustCompile(`(\d{1,2})시(?:\s*(\d{1,2})분)?(?:에|부터)?`), noMeridiem},
	{regexp.MustCompile(`(\d{1,2}):(\d{2})(?:에|부터)?`), noMeridiem},
}

type dateKind int

const (
	dateToday dateKind = iota
	dateTomorrow
	dateDayAfterTomorrow
	dateMonthDay
	dateWeekday
)

type datePattern struct {
	re   *regexp.Regexp
	kind dateKind
}

var datePatterns = []datePattern{
	{regexp.MustCompile(`오늘(?:에)?`), dateToday},
	{regexp.MustCompile(`내일(?:에)?`), dateTomorrow},
	{regexp.MustCompile(`모레(?:에)?`), dateDayAfterTomorrow},
	{regexp.MustCompile(`(\d{1,2})월\s*(\d{1,2})일(?:에)?`), dateMonthDay},
	{regexp.MustCompile(`(\d{1,2})/(\d{1,2})(?:에)?`), dateMonthDay},
	{regexp.MustCompile(`(월|화|수|목|금|토|일)요일(?:에)?`), dateWeekday},
}

var koreanWeekdays = map[string]time.Weekday{
	"일": time.Sunday,
	"월": time.Monday,
	"화": time.Tuesday,
	"수": time.Wednesday,
	"목": time.Thursday,
	"금": time.Friday,
	"토": time.Saturday,
}

// The trigger verb is only stripped at the end, so "추가 근무" keeps its noun.
var titleNoise = []*regexp.Regexp{
	regexp.MustCompile(`(?:등록|추가|저장)(?:\s*좀)?(?:\s*해\s*(?:줘|주세요|줄래)|해|하기)?\s*[.?!]*\s*$`),
	regexp.MustCompile(`일정(?:을|를)?`),
	regexp.MustCompile(`[.?!]+\s*$`),
}

var spaces = regexp.MustCompile(`\s+`)

// ParseSchedule pulls a time of day and a calendar date out of text and returns
// what is left as the title. It never fails: missing parts fall back to today,
// DefaultTime and DefaultTitle. Dates are resolved in now's location.
func ParseSchedule(text string, now time.Time) models.ScheduleDraft {
	title := text

	clock, matched, ok := ExtractTime(text)
	if ok {
		title = strings.Replace(title, matched, " ", 1)
	} else {
		clock = DefaultTime
	}

	date, matched, ok := ExtractDate(text, now)
	if ok {
		title = strings.Replace(title, matched, " ", 1)
	} else {
		date = now.Format(models.DateLayout)
	}

	for _, re := range titleNoise {
		title = re.ReplaceAllString(title, " ")
	}
	title = strings.TrimSpace(spaces.ReplaceAllString(title, " "))
	if title == "" {
		title = DefaultTitle
	}

	return models.ScheduleDraft{
		Title:       title,
		Description: "",
		Date:        date,
		Time:        clock,
	}
}

// ExtractTime returns the first time of day found in text as "HH:MM" together
// with the matched substring.
func ExtractTime(text string) (clock, matched string, ok bool) {
	for _, p := range timePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}

		switch p.meridiem {
		case am:
			if hour == 12 {
				hour = 0
			}
		case pm:
			if hour != 12 {
				hour += 12
			}
		}

		if hour > 23 || minute > 59 {
			continue
		}
		return fmt.Sprintf("%02d:%02d", hour, minute), m[0], true
	}
	return "", "", false
}

// ExtractDate returns the first calendar date found in text as "YYYY-MM-DD"
// together with the matched substring.
func ExtractDate(text string, now time.Time) (date, matched string, ok bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		var target time.Time
		switch p.kind {
		case dateToday:
			target = today
		case dateTomorrow:
			target = today.AddDate(0, 0, 1)
		case dateDayAfterTomorrow:
			target = today.AddDate(0, 0, 2)
		case dateMonthDay:
			month, _ := strconv.Atoi(m[1])
			day, _ := strconv.Atoi(m[2])
			if month < 1 || month > 12 || day < 1 || day > 31 {
				continue
			}
			target = ResolveMonthDay(today, time.Month(month), day)
		case dateWeekday:
			target = rrule.NextWeekday(today, koreanWeekdays[m[1]])
		}
		return target.Format(models.DateLayout), m[0], true
	}
	return "", "", false
}

// ResolveMonthDay places month/day in the current year, or the next one if that
// date has already passed.
func ResolveMonthDay(today time.Time, month time.Month, day int) time.Time {
	target := time.Date(today.Year(), month, day, 0, 0, 0, 0, today.Location())
	if target.Before(today) {
		target = time.Date(today.Year()+1, month, day, 0, 0, 0, 0, today.Location())
	}
	return target
}
