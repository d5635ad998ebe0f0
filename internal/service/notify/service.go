package notify

import (
	"context"
	"encoding/json"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"ntf/internal/config"
	"ntf/internal/domain"
	"ntf/internal/metrics"
	"ntf/internal/model"
	"ntf/internal/queue"
	"ntf/internal/repository"
	"ntf/internal/sse"
	"ntf/internal/telemetry"
)

// Service runs each notification operation as exactly one store call and
// fans the resulting lifecycle event out to stream clients and the broker.
type Service struct {
	cfg    *config.Config
	store  repository.NotificationRepository
	hub    *sse.Hub
	events queue.Publisher
	log    *zap.Logger
}

// NewService seeds the stored-notifications gauge from store when it can
// report its size.
func NewService(cfg *config.Config, store repository.NotificationRepository, hub *sse.Hub, events queue.Publisher, logger *zap.Logger) *Service {
	if sized, ok := store.(interface{ Len() int }); ok {
		metrics.StoredNotifications.Set(float64(sized.Len()))
	}
	return &Service{cfg: cfg, store: store, hub: hub, events: events, log: logger}
}

func (s *Service) Create(ctx context.Context, message string) (model.Notification, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "notify.create")
	defer span.End()

	if err := domain.ValidateMessage(message, s.cfg.MaxMessageLength); err != nil {
		span.SetStatus(codes.Error, "invalid message")
		return model.Notification{}, err
	}
	created, err := s.store.CreateNotification(ctx, message)
	observe("create", span, err)
	if err != nil {
		s.log.Error("store create notification failed", zap.Int("message_length", len(message)), zap.Error(err))
		return model.Notification{}, err
	}
	span.SetAttributes(attribute.Int64("notification.id", int64(created.ID)))
	metrics.StoredNotifications.Inc()
	s.publish(ctx, domain.EventCreated, created)
	return created, nil
}

func (s *Service) List(ctx context.Context) ([]model.Notification, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "notify.list")
	defer span.End()

	notifications, err := s.store.ListNotifications(ctx)
	observe("list", span, err)
	if err != nil {
		s.log.Error("store list notifications failed", zap.Error(err))
		return nil, err
	}
	span.SetAttributes(attribute.Int("notification.count", len(notifications)))
	return notifications, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (model.Notification, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "notify.get", trace.WithAttributes(attribute.Int64("notification.id", int64(id))))
	defer span.End()

	notification, err := s.store.GetNotification(ctx, id)
	observe("get", span, err)
	if err != nil {
		s.logFailure("store get notification failed", id, err)
		return model.Notification{}, err
	}
	return notification, nil
}

func (s *Service) Acknowledge(ctx context.Context, id uint64) (model.Notification, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "notify.acknowledge", trace.WithAttributes(attribute.Int64("notification.id", int64(id))))
	defer span.End()

	notification, err := s.store.AcknowledgeNotification(ctx, id)
	observe("acknowledge", span, err)
	if err != nil {
		s.logFailure("store acknowledge notification failed", id, err)
		return model.Notification{}, err
	}
	s.publish(ctx, domain.EventAcknowledged, notification)
	return notification, nil
}

func (s *Service) Delete(ctx context.Context, id uint64) (model.Notification, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "notify.delete", trace.WithAttributes(attribute.Int64("notification.id", int64(id))))
	defer span.End()

	notification, err := s.store.DeleteNotification(ctx, id)
	observe("delete", span, err)
	if err != nil {
		s.logFailure("store delete notification failed", id, err)
		return model.Notification{}, err
	}
	metrics.StoredNotifications.Dec()
	s.publish(ctx, domain.EventDeleted, notification)
	return notification, nil
}

// publish never fails the operation: the store change has already happened.
func (s *Service) publish(ctx context.Context, eventType string, notification model.Notification) {
	if !domain.IsValidEventType(eventType) {
		s.log.Error("refusing to publish unknown event type", zap.String("type", eventType), zap.Uint64("id", notification.ID))
		return
	}
	event := model.Event{Type: eventType, Notification: notification}
	s.hub.Broadcast(event)

	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Error("event payload marshal failed", zap.String("type", eventType), zap.Error(err))
		return
	}
	routingKey := s.cfg.RabbitEventPrefix + "." + eventType
	if err := s.events.Publish(context.WithoutCancel(ctx), payload, routingKey); err != nil {
		s.log.Warn("publish notification event failed",
			zap.String("type", eventType),
			zap.Uint64("id", notification.ID),
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}

func (s *Service) logFailure(msg string, id uint64, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		s.log.Debug(msg, zap.Uint64("id", id), zap.Error(err))
		return
	}
	s.log.Error(msg, zap.Uint64("id", id), zap.Error(err))
}

func observe(operation string, span trace.Span, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		result = "not_found"
	default:
		result = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, operation+" failed")
	}
	metrics.StoreOperations.WithLabelValues(operation, result).Inc()
}
