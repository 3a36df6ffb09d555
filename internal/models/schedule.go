package models

import "time"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Schedule struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Time        string    `json:"time"` // HH:MM, 24-hour
	CreatedAt   time.Time `json:"createdAt"`
}

// ScheduleDraft is a schedule that has not been persisted yet.
type ScheduleDraft struct {
	Title       string
	Description string
	Date        string
	Time        string
}

// ScheduleUpdate holds the fields of a partial update. Nil fields are left as is.
type ScheduleUpdate struct {
	Title       *string
	Description *string
	Date        *string
	Time        *string
}

// StartsAt combines Date and Time in loc. Malformed values yield ok=false.
func (s *Schedule) StartsAt(loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, s.Date+" "+s.Time, loc)
	if err != nil {
		d, derr := time.ParseInLocation(DateLayout, s.Date, loc)
		if derr != nil {
			return time.Time{}, false
		}
		return d, true
	}
	return t, true
}

// Apply copies the non-nil fields of u onto s.
func (s *Schedule) Apply(u ScheduleUpdate) {
	if u.Title != nil {
		s.Title = *u.Title
	}
	if u.Description != nil {
		s.Description = *u.Description
	}
	if u.Date != nil {
		s.Date = *u.Date
	}
	if u.Time != nil {
		s.Time = *u.Time
	}
}
