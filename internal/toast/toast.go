// Package toast queues short-lived notifications.
package toast

import (
	"fmt"
	"sync"
	"time"
)

// Kind classifies a notification for presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindError   Kind = "error"
)

// Lifetime is how long an entry stays in the queue before it expires on its
// own.
const Lifetime = 3 * time.Second

// Entry is a queued notification.
type Entry struct {
	ID      string
	Message string
	Kind    Kind
}

// Queue holds active notifications in arrival order. Each entry expires
// independently after Lifetime; entries can also be dismissed early by id.
type Queue struct {
	clock func() time.Time
	after func(d time.Duration, fn func()) *time.Timer

	mu      sync.Mutex
	seq     int
	entries []Entry
	timers  map[string]*time.Timer
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{
		clock:  time.Now,
		after:  time.AfterFunc,
		timers: make(map[string]*time.Timer),
	}
}

// Success queues a success notification.
func (q *Queue) Success(message string) string { return q.push(message, KindSuccess) }

// Info queues an informational notification.
func (q *Queue) Info(message string) string { return q.push(message, KindInfo) }

// Error queues an error notification.
func (q *Queue) Error(message string) string { return q.push(message, KindError) }

// push appends an entry and arms its expiry timer. Returns the entry id.
func (q *Queue) push(message string, kind Kind) string {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	entry := Entry{
		ID:      fmt.Sprintf("%d-%d", q.clock().UnixMilli(), q.seq),
		Message: message,
		Kind:    kind,
	}
	q.entries = append(q.entries, entry)
	q.timers[entry.ID] = q.after(Lifetime, func() {
		q.Dismiss(entry.ID)
	})
	return entry.ID
}

// Dismiss removes an entry by id. Unknown ids are ignored, so an expiry
// firing after a manual dismissal is harmless.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if timer, ok := q.timers[id]; ok {
		timer.Stop()
		delete(q.timers, id)
	}
	for i, entry := range q.entries {
		if entry.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return
		}
	}
}

// Active returns the queued entries in arrival order.
func (q *Queue) Active() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Entry(nil), q.entries...)
}
