package cache

import (
	"sync"
	"time"

	"github.com/msharif/salat-cli-go/internal/core"
	"github.com/msharif/salat-cli-go/internal/prayer"
)

// MemoryStore is an in-memory Store for testing.
type MemoryStore struct {
	slots map[Key]*MonthlyRecord
	mu    sync.RWMutex

	// SaveErr, when set, is returned by every Save (for exercising the
	// storage-failure path).
	SaveErr error
	// Saves counts successful Save calls.
	Saves int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[Key]*MonthlyRecord)}
}

// Path returns a dummy path for the given key.
func (s *MemoryStore) Path(key Key) string {
	return core.FormatDate(time.Date(key.Year, key.Month, 1, 0, 0, 0, 0, time.UTC)) + ".json"
}

// Load returns the slot for the key or nil if absent.
func (s *MemoryStore) Load(key Key) (*MonthlyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if record, ok := s.slots[key]; ok {
		return cloneRecord(record), nil
	}
	return nil, nil
}

// LoadLatest returns the most recently fetched slot or nil when empty.
func (s *MemoryStore) LoadLatest() (*MonthlyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *MonthlyRecord
	for _, record := range s.slots {
		if latest == nil || record.FetchedAt.After(latest.FetchedAt) {
			latest = record
		}
	}
	if latest == nil {
		return nil, nil
	}
	return cloneRecord(latest), nil
}

// Save stores a copy of the record under its own key.
func (s *MemoryStore) Save(record *MonthlyRecord) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[KeyOf(record)] = cloneRecord(record)
	s.Saves++
	return nil
}

// Reset clears all slots (for testing).
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = make(map[Key]*MonthlyRecord)
	s.Saves = 0
}

// Seed adds records directly (for testing).
func (s *MemoryStore) Seed(records ...*MonthlyRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range records {
		s.slots[KeyOf(record)] = cloneRecord(record)
	}
}

// cloneRecord deep-copies a record so stored state cannot be mutated
// through returned pointers.
func cloneRecord(r *MonthlyRecord) *MonthlyRecord {
	out := *r
	out.Days = make([]prayer.DailyRecord, len(r.Days))
	for i := range r.Days {
		day := r.Days[i]
		times := make(map[prayer.Event]time.Time, len(day.Times))
		for event, t := range day.Times {
			times[event] = t
		}
		day.Times = times
		out.Days[i] = day
	}
	return &out
}
