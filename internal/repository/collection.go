package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hray3182/secretary/internal/storage"
)

const (
	SchedulesKey = "secretary_schedules"
	MemosKey     = "secretary_voice_memos"
)

var ErrNotFound = errors.New("record not found")

// errUnchanged tells modify to skip the write.
var errUnchanged = errors.New("collection unchanged")

// collection reads and writes a whole JSON array under one key. Writers in
// this process are serialized through mu; other processes are not.
type collection[T any] struct {
	backend storage.Backend
	key     string
	mu      *sync.Mutex
}

func newCollection[T any](backend storage.Backend, key string) collection[T] {
	return collection[T]{backend: backend, key: key, mu: &sync.Mutex{}}
}

// modify runs one load, change, save cycle while holding the write lock.
func (c collection[T]) modify(ctx context.Context, change func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := change(c.load(ctx))
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}
	return c.save(ctx, items)
}

// load never fails: a missing key, a backend error or broken JSON all yield an
// empty slice, the latter two with a log line.
func (c collection[T]) load(ctx context.Context) []T {
	data, ok, err := c.backend.Get(ctx, c.key)
	if err != nil {
		slog.Error("Failed to load collection", "key", c.key, "err", err)
		return nil
	}
	if !ok || len(data) == 0 {
		return nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		slog.Error("Failed to parse collection", "key", c.key, "err", err)
		return nil
	}
	return items
}

func (c collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.key, err)
	}
	if err := c.backend.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", c.key, err)
	}
	return nil
}
