package repository

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hray3182/secretary/internal/models"
	"github.com/hray3182/secretary/internal/storage"
)

type ScheduleRepository struct {
	items collection[*models.Schedule]
	now   func() time.Time
}

func NewScheduleRepository(backend storage.Backend) *ScheduleRepository {
	return &ScheduleRepository{
		items: newCollection[*models.Schedule](backend, SchedulesKey),
		now:   time.Now,
	}
}

func (r *ScheduleRepository) List(ctx context.Context) []*models.Schedule {
	return r.items.load(ctx)
}

// Create assigns an ID and, if unset, a creation time, then appends the schedule.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	schedule.ID = uuid.NewString()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = r.now()
	}

	return r.items.modify(ctx, func(schedules []*models.Schedule) ([]*models.Schedule, error) {
		return append(schedules, schedule), nil
	})
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id string) (*models.Schedule, error) {
	for _, s := range r.items.load(ctx) {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, ErrNotFound
}

func (r *ScheduleRepository) Update(ctx context.Context, id string, update models.ScheduleUpdate) (*models.Schedule, error) {
	var updated *models.Schedule
	err := r.items.modify(ctx, func(schedules []*models.Schedule) ([]*models.Schedule, error) {
		for _, s := range schedules {
			if s.ID == id {
				s.Apply(update)
				updated = s
				return schedules, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete reports whether a schedule with that id existed.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) (bool, error) {
	found := false
	err := r.items.modify(ctx, func(schedules []*models.Schedule) ([]*models.Schedule, error) {
		kept := schedules[:0]
		for _, s := range schedules {
			if s.ID != id {
				kept = append(kept, s)
			}
		}
		if len(kept) == len(schedules) {
			return nil, errUnchanged
		}
		found = true
		return kept, nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// Today returns schedules whose date is now's calendar date, in stored order.
func (r *ScheduleRepository) Today(ctx context.Context, now time.Time) []*models.Schedule {
	today := now.Format(models.DateLayout)

	var out []*models.Schedule
	for _, s := range r.items.load(ctx) {
		if s.Date == today {
			out = append(out, s)
		}
	}
	return out
}

// Upcoming returns schedules dated within [today, today+days], ordered by date
// and time.
func (r *ScheduleRepository) Upcoming(ctx context.Context, now time.Time, days int) []*models.Schedule {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	last := today.AddDate(0, 0, days)

	var out []*models.Schedule
	for _, s := range r.items.load(ctx) {
		d, err := time.ParseInLocation(models.DateLayout, s.Date, loc)
		if err != nil {
			continue
		}
		if d.Before(today) || d.After(last) {
			continue
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, _ := out[i].StartsAt(loc)
		b, _ := out[j].StartsAt(loc)
		return a.Before(b)
	})
	return out
}

// Sorted returns every schedule ordered by date and time.
func (r *ScheduleRepository) Sorted(ctx context.Context, loc *time.Location) []*models.Schedule {
	schedules := r.items.load(ctx)
	sort.SliceStable(schedules, func(i, j int) bool {
		a, _ := schedules[i].StartsAt(loc)
		b, _ := schedules[j].StartsAt(loc)
		return a.Before(b)
	})
	return schedules
}
