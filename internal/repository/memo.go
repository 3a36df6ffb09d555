package repository

import (
	"context"
	"encoding/base64"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hray3182/secretary/internal/models"
	"github.com/hray3182/secretary/internal/storage"
)

type MemoRepository struct {
	items collection[*models.VoiceMemo]
	now   func() time.Time
}

func NewMemoRepository(backend storage.Backend) *MemoRepository {
	return &MemoRepository{
		items: newCollection[*models.VoiceMemo](backend, MemosKey),
		now:   time.Now,
	}
}

func (r *MemoRepository) List(ctx context.Context) []*models.VoiceMemo {
	return r.items.load(ctx)
}

func (r *MemoRepository) Create(ctx context.Context, memo *models.VoiceMemo) error {
	memo.ID = uuid.NewString()
	if memo.CreatedAt.IsZero() {
		memo.CreatedAt = r.now()
	}

	return r.items.modify(ctx, func(memos []*models.VoiceMemo) ([]*models.VoiceMemo, error) {
		return append(memos, memo), nil
	})
}

func (r *MemoRepository) GetByID(ctx context.Context, id string) (*models.VoiceMemo, error) {
	for _, m := range r.items.load(ctx) {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoRepository) Update(ctx context.Context, id string, update models.MemoUpdate) (*models.VoiceMemo, error) {
	var updated *models.VoiceMemo
	err := r.items.modify(ctx, func(memos []*models.VoiceMemo) ([]*models.VoiceMemo, error) {
		for _, m := range memos {
			if m.ID == id {
				m.Apply(update)
				updated = m
				return memos, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *MemoRepository) Delete(ctx context.Context, id string) (bool, error) {
	found := false
	err := r.items.modify(ctx, func(memos []*models.VoiceMemo) ([]*models.VoiceMemo, error) {
		kept := memos[:0]
		for _, m := range memos {
			if m.ID != id {
				kept = append(kept, m)
			}
		}
		if len(kept) == len(memos) {
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

// Search matches query against title and content, case-insensitively, newest first.
func (r *MemoRepository) Search(ctx context.Context, query string) []*models.VoiceMemo {
	q := strings.ToLower(query)

	var out []*models.VoiceMemo
	for _, m := range r.items.load(ctx) {
		if strings.Contains(strings.ToLower(m.Title), q) || strings.Contains(strings.ToLower(m.Content), q) {
			out = append(out, m)
		}
	}
	sortNewestFirst(out)
	return out
}

// Recent returns at most count memos, newest first.
func (r *MemoRepository) Recent(ctx context.Context, count int) []*models.VoiceMemo {
	memos := r.items.load(ctx)
	sortNewestFirst(memos)
	if count >= 0 && len(memos) > count {
		memos = memos[:count]
	}
	return memos
}

// AttachAudio stores the clip as a data URL on the memo.
func (r *MemoRepository) AttachAudio(ctx context.Context, id, mimeType string, audio []byte) (*models.VoiceMemo, error) {
	url := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(audio)
	return r.Update(ctx, id, models.MemoUpdate{AudioURL: &url})
}

func sortNewestFirst(memos []*models.VoiceMemo) {
	sort.SliceStable(memos, func(i, j int) bool {
		return memos[i].CreatedAt.After(memos[j].CreatedAt)
	})
}
