package storage

import (
	"context"
	"sync"

	"github.com/Freeeeeet/booking_calendar/internal/model"
)

// MemoryStore хранилище в памяти: для тестов и локального запуска без
// Redis/Postgres. Семантика версий та же, что у настоящих хранилищ.
type MemoryStore struct {
	mu       sync.Mutex
	docs     map[string]model.BookingSet
	versions map[string]int64
	configs  map[string]*model.InstanceConfig
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:     make(map[string]model.BookingSet),
		versions: make(map[string]int64),
		configs:  make(map[string]*model.InstanceConfig),
	}
}

func (s *MemoryStore) GetBookings(_ context.Context, slug string) (model.BookingSet, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.docs[slug]
	if !ok {
		return model.BookingSet{}, 0, nil
	}
	return set.Clone(), s.versions[slug], nil
}

func (s *MemoryStore) PutBookings(_ context.Context, slug string, set model.BookingSet, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.versions[slug] != expectedVersion {
		return ErrVersionConflict
	}
	s.docs[slug] = set.Clone()
	s.versions[slug] = expectedVersion + 1
	return nil
}

func (s *MemoryStore) GetConfig(_ context.Context, slug string) (*model.InstanceConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configs[slug], nil
}

// SetConfig задаёт конфигурацию инстанса (нужно тестам)
func (s *MemoryStore) SetConfig(slug string, cfg *model.InstanceConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[slug] = cfg
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
