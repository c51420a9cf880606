package settings_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/adminconsole/admin-console/internal/db/models"
)

var errStoreDown = errors.New("store down")

// memoryStore is a Store counting every call.
type memoryStore struct {
	mu      sync.Mutex
	nextID  uint64
	records map[uint64]models.Setting

	lists, creates, updates, deletes int
	created                          []models.Setting

	failList   bool
	failCreate func(models.Setting) bool
	failUpdate bool
	failDelete bool
}

func newMemoryStore(records ...models.Setting) *memoryStore {
	s := &memoryStore{records: make(map[uint64]models.Setting)}

	for _, rec := range records {
		s.nextID++
		rec.ID = s.nextID
		s.records[rec.ID] = rec
	}

	return s
}

func (s *memoryStore) List(_ context.Context, categories ...string) ([]models.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists++

	if s.failList {
		return nil, errStoreDown
	}

	want := make(map[string]bool, len(categories))
	for _, c := range categories {
		want[c] = true
	}

	out := make([]models.Setting, 0, len(s.records))

	for _, rec := range s.records {
		if len(categories) == 0 || want[rec.Category] {
			out = append(out, rec)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (s *memoryStore) Create(_ context.Context, record models.Setting) (*models.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creates++

	if s.failCreate != nil && s.failCreate(record) {
		return nil, errStoreDown
	}

	for _, rec := range s.records {
		if rec.Category == record.Category && rec.Key == record.Key {
			return nil, errors.New("duplicate key")
		}
	}

	s.nextID++
	record.ID = s.nextID
	s.records[record.ID] = record
	s.created = append(s.created, record)

	return &record, nil
}

func (s *memoryStore) Update(_ context.Context, id uint64, value string) (*models.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updates++

	if s.failUpdate {
		return nil, errStoreDown
	}

	rec, ok := s.records[id]
	if !ok {
		return nil, errors.New("not found")
	}

	rec.Value = value
	s.records[id] = rec

	return &rec, nil
}

func (s *memoryStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deletes++

	if s.failDelete {
		return errStoreDown
	}

	if _, ok := s.records[id]; !ok {
		return errors.New("not found")
	}

	delete(s.records, id)

	return nil
}

// writes returns the number of mutating calls.
func (s *memoryStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.creates + s.updates + s.deletes
}

func (s *memoryStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lists + s.creates + s.updates + s.deletes
}

func (s *memoryStore) resetCounters() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists, s.creates, s.updates, s.deletes = 0, 0, 0, 0
	s.created = nil
}

func (s *memoryStore) value(category, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.records {
		if rec.Category == category && rec.Key == key {
			return rec.Value, true
		}
	}

	return "", false
}

// recorderFunc adapts a function to settings.Recorder.
type recorderFunc func(ctx context.Context, action models.ActionType, title, description string, details any)

func (f recorderFunc) Dispatch(ctx context.Context, action models.ActionType, title, description string, details any) {
	f(ctx, action, title, description, details)
}
