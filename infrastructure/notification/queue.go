// Package notification holds a bounded-lifetime queue of user-visible toast
// events. Entries carry their creation time and are evicted by a background
// sweep once they exceed the TTL, keeping notification lifecycle out of the
// presentation layer.
package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 6 * time.Second

// Entry is one queued notification.
type Entry struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// Queue implements repository.INotifier with TTL-based eviction.
type Queue struct {
	mu      sync.Mutex
	entries []Entry
	ttl     time.Duration
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
}

// NewQueue creates a queue with the given TTL (DefaultTTL when zero).
func NewQueue(ttl time.Duration) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{
		ttl:  ttl,
		now:  time.Now,
		done: make(chan struct{}),
	}
}

// Notify enqueues a notification.
func (q *Queue) Notify(message, severity string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, Entry{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: q.now(),
	})
}

// Active returns the entries younger than the TTL, oldest first.
func (q *Queue) Active() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.evictLocked()
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

// StartSweeper runs periodic eviction until Stop is called.
func (q *Queue) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				q.mu.Lock()
				q.evictLocked()
				q.mu.Unlock()
			case <-q.done:
				return
			}
		}
	}()
}

// Stop terminates the sweeper goroutine.
func (q *Queue) Stop() {
	q.once.Do(func() { close(q.done) })
}

func (q *Queue) evictLocked() {
	cutoff := q.now().Add(-q.ttl)
	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.CreatedAt.After(cutoff) {
			kept = append(kept, e)
		}
	}
	q.entries = kept
}
