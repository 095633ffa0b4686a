// Package history keeps a small in-memory record of recent tailoring
// runs so the structured resume can be re-rendered without another
// model call.
package history

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "resumeforge/internal/errors"
	"resumeforge/internal/types"
)

const previewLen = 120

// Entry is one stored tailoring result.
type Entry struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"createdAt"`
	JobLabel  string             `json:"jobLabel"`
	Score     int                `json:"score"`
	Degraded  bool               `json:"degraded"`
	Result    types.TailorResult `json:"result"`
}

// Summary is the listing view of an entry, without the payload.
type Summary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	JobLabel  string    `json:"jobLabel"`
	Score     int       `json:"score"`
	Degraded  bool      `json:"degraded"`
}

// Store holds the most recent results up to a fixed capacity. The
// oldest entry is evicted when the capacity is reached. Entries whose
// encoded size exceeds maxEntryBytes keep their structured data but
// drop the rendered documents, which dominate entry size.
type Store struct {
	mu            sync.RWMutex
	entries       []Entry // newest first
	capacity      int
	maxEntryBytes int64
}

// NewStore creates a history store. Capacity must be positive;
// maxEntryBytes of zero or less disables size-based degradation.
func NewStore(capacity int, maxEntryBytes int64) *Store {
	if capacity <= 0 {
		capacity = 5
	}
	return &Store{
		capacity:      capacity,
		maxEntryBytes: maxEntryBytes,
	}
}

// Add stores a result and returns the created entry.
func (s *Store) Add(jobDescription string, result types.TailorResult) Entry {
	entry := Entry{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		JobLabel:  label(jobDescription),
		Score:     result.Match.Score,
		Result:    result,
	}

	if s.maxEntryBytes > 0 {
		if encoded, err := json.Marshal(entry); err == nil && int64(len(encoded)) > s.maxEntryBytes {
			entry.Result.Documents = types.DocumentBundle{}
			entry.Degraded = true
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append([]Entry{entry}, s.entries...)
	if len(s.entries) > s.capacity {
		s.entries = s.entries[:s.capacity]
	}
	return entry
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, entry := range s.entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return Entry{}, apperrors.NewValidationError(
		apperrors.ErrCodeHistoryNotFound,
		"no stored result with that id",
		nil,
	).WithContext("id", id)
}

// List returns summaries of all stored entries, newest first.
func (s *Store) List() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, Summary{
			ID:        entry.ID,
			CreatedAt: entry.CreatedAt,
			JobLabel:  entry.JobLabel,
			Score:     entry.Score,
			Degraded:  entry.Degraded,
		})
	}
	return out
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// label derives a short one-line label from the job description.
func label(jobDescription string) string {
	line := strings.Join(strings.Fields(jobDescription), " ")
	if len(line) > previewLen {
		line = line[:previewLen]
	}
	return line
}
