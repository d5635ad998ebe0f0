package memory

import (
	"context"
	"slices"

	"go.uber.org/zap"
	"ntf/internal/domain"
	"ntf/internal/model"
)

func (s *Store) CreateNotification(_ context.Context, message string) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	notification := model.Notification{
		ID:      s.nextID,
		Message: message,
	}
	s.nextID++
	s.records[notification.ID] = notification
	s.order = append(s.order, notification.ID)
	return notification, nil
}

func (s *Store) ListNotifications(_ context.Context) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]model.Notification, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.records[id])
	}
	return result, nil
}

func (s *Store) GetNotification(_ context.Context, id uint64) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	notification, ok := s.records[id]
	if !ok {
		return model.Notification{}, &domain.NotFoundError{ID: id}
	}
	return notification, nil
}

func (s *Store) AcknowledgeNotification(_ context.Context, id uint64) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	notification, ok := s.records[id]
	if !ok {
		return model.Notification{}, &domain.NotFoundError{ID: id}
	}
	notification.Ack = true
	s.records[id] = notification
	return notification, nil
}

func (s *Store) DeleteNotification(_ context.Context, id uint64) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	notification, ok := s.records[id]
	if !ok {
		return model.Notification{}, &domain.NotFoundError{ID: id}
	}
	delete(s.records, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if len(s.order) != len(s.records) {
		// order and records diverged; rebuild order from the map.
		s.log.Error("notification order out of sync, rebuilding",
			zap.Int("order", len(s.order)),
			zap.Int("records", len(s.records)),
		)
		s.rebuildOrderLocked()
	}
	return notification, nil
}

// rebuildOrderLocked derives order from records. Ids are allocated in
// creation order, so sorting them restores the insertion sequence.
func (s *Store) rebuildOrderLocked() {
	order := make([]uint64, 0, len(s.records))
	for id := range s.records {
		order = append(order, id)
	}
	slices.Sort(order)
	s.order = order
}
