package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/MKhiriev/go-vault-sync/internal/store"
)

// AtomicVersionCounter is a process-wide VersionCounter safe for concurrent
// use.
type AtomicVersionCounter struct {
	value atomic.Int64
}

// NewAtomicVersionCounter returns a counter starting at seed.
func NewAtomicVersionCounter(seed int64) *AtomicVersionCounter {
	c := &AtomicVersionCounter{}
	c.value.Store(seed)
	return c
}

// SeedVersionCounter restores the counter from the highest marker recorded
// in the sync history.
func SeedVersionCounter(ctx context.Context, history store.SyncHistoryRepository) (*AtomicVersionCounter, error) {
	latest, err := history.LatestServerVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading latest server version: %w", err)
	}
	return NewAtomicVersionCounter(latest), nil
}

func (c *AtomicVersionCounter) Current() int64 {
	return c.value.Load()
}

// Advance increments the counter and returns the new value.
func (c *AtomicVersionCounter) Advance() int64 {
	return c.value.Add(1)
}
