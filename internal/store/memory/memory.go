package memory

import (
	"sync"

	"go.uber.org/zap"
	"ntf/internal/model"
)

// Store keeps notifications in insertion order. Every operation holds mu
// for its whole duration. nextID only ever grows, so deleted ids are never
// handed out again.
type Store struct {
	mu      sync.Mutex
	nextID  uint64
	records map[uint64]model.Notification
	order   []uint64
	log     *zap.Logger
}

// New returns an empty store whose first id is 1.
func New(logger *zap.Logger) *Store {
	return &Store{
		nextID:  1,
		records: make(map[uint64]model.Notification),
		log:     logger,
	}
}

// Len returns the number of stored notifications.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
