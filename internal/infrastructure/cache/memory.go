package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryLocker serializes aggregations of the same meeting within a single
// process. Leases expire after ttl so a crashed holder cannot wedge a meeting.
type MemoryLocker struct {
	mu    sync.Mutex
	items map[string]*lease
	ttl   time.Duration
	wait  time.Duration
	now   func() time.Time
}

type lease struct {
	token      string
	expireTime time.Time
}

// NewMemoryLocker creates a new in-memory locker
func NewMemoryLocker(ttl, wait time.Duration) *MemoryLocker {
	return &MemoryLocker{
		items: make(map[string]*lease),
		ttl:   ttl,
		wait:  wait,
		now:   time.Now,
	}
}

// Lock implements repositories.MeetingLocker
func (ml *MemoryLocker) Lock(ctx context.Context, meetingID string) (func(), error) {
	key := lockKey(meetingID)
	token := uuid.NewString()

	err := acquire(ctx, meetingID, ml.wait, func() (bool, error) {
		return ml.setIfAbsent(key, token), nil
	})
	if err != nil {
		return nil, err
	}

	return func() { ml.release(key, token) }, nil
}

func (ml *MemoryLocker) setIfAbsent(key, token string) bool {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := ml.now()
	if item, exists := ml.items[key]; exists && now.Before(item.expireTime) {
		return false
	}

	ml.items[key] = &lease{token: token, expireTime: now.Add(ml.ttl)}
	return true
}

// release deletes the lease only if it still belongs to token
func (ml *MemoryLocker) release(key, token string) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	if item, exists := ml.items[key]; exists && item.token == token {
		delete(ml.items, key)
	}
}
