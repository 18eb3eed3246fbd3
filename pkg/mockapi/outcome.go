package mockapi

import (
	"sync"
	"time"

	"github.com/proxymock/proxymock/internal/id"
	"github.com/proxymock/proxymock/pkg/config"
)

// Outcome categorizes a produced response.
type Outcome string

// Outcome categories.
const (
	// OutcomeMocked means the engine synthesized the intended response,
	// including deliberate 404s.
	OutcomeMocked Outcome = "mocked"
	// OutcomeFailed means the request hit an error and was answered 500.
	OutcomeFailed Outcome = "failed"
)

// Entry is one recorded outcome.
type Entry struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Method  string    `json:"method"`
	URL     string    `json:"url"`
	Op      config.Op `json:"op"`
	Status  int       `json:"status"`
	Outcome Outcome   `json:"outcome"`
	Error   string    `json:"error,omitempty"`
}

// OutcomeLog is an in-memory FIFO ring of outcome entries.
type OutcomeLog struct {
	mu      sync.RWMutex
	entries []*Entry
	max     int
}

// DefaultOutcomeCapacity bounds the outcome log when no capacity is given.
const DefaultOutcomeCapacity = 1000

// NewOutcomeLog creates an outcome log holding at most max entries.
func NewOutcomeLog(max int) *OutcomeLog {
	if max <= 0 {
		max = DefaultOutcomeCapacity
	}
	return &OutcomeLog{
		entries: make([]*Entry, 0, max),
		max:     max,
	}
}

// Add records an entry, evicting the oldest when at capacity. Missing id
// and timestamp fields are filled in.
func (l *OutcomeLog) Add(entry *Entry) {
	if entry == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.ID == "" {
		entry.ID = "out-" + id.Short()
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}
	if len(l.entries) >= l.max {
		l.entries = l.entries[1:]
	}
	l.entries = append(l.entries, entry)
}

// List returns the recorded entries, newest first.
func (l *OutcomeLog) List() []*Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*Entry, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		result = append(result, l.entries[i])
	}
	return result
}

// Count returns the number of recorded entries.
func (l *OutcomeLog) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear drops all recorded entries.
func (l *OutcomeLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}
