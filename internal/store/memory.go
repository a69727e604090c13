package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Compile-time check that MemoryStore implements ScheduleRepository.
var _ ScheduleRepository = (*MemoryStore)(nil)

// MemoryStore is an in-memory ScheduleRepository for tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]ScheduleEntry
	order   []string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]ScheduleEntry)}
}

func (s *MemoryStore) List(ctx context.Context) ([]ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]ScheduleEntry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, s.entries[id])
	}
	return entries, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &entry, nil
}

func (s *MemoryStore) Create(ctx context.Context, entry *ScheduleEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	s.entries[entry.ID] = *entry
	s.order = append(s.order, entry.ID)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, entry *ScheduleEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.entries[entry.ID]
	if !ok {
		return ErrNotFound
	}

	existing.Name = entry.Name
	existing.RunTime = entry.RunTime
	existing.DaysOfWeek = entry.DaysOfWeek
	existing.IsActive = entry.IsActive
	existing.UpdatedAt = time.Now().UTC()
	s.entries[entry.ID] = existing
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}
	delete(s.entries, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) UpdateLastRun(ctx context.Context, id string, lastRun time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return ErrNotFound
	}
	entry.LastRun = &lastRun
	entry.UpdatedAt = time.Now().UTC()
	s.entries[id] = entry
	return nil
}
