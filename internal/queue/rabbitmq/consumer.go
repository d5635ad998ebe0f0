package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"ntf/internal/config"
	"ntf/internal/domain"
	"ntf/internal/queue"
	"ntf/internal/service/notify"
	"ntf/internal/telemetry"
)

type noopConsumer struct{}

func (n *noopConsumer) Start(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// Consumer turns create commands from the broker into notifications.
type Consumer struct {
	url         string
	svc         *notify.Service
	logger      *zap.Logger
	exchange    string
	queue       string
	routingKey  string
	consumerTag string
}

func NewConsumer(cfg *config.Config, svc *notify.Service, logger *zap.Logger) queue.Consumer {
	if cfg.RabbitMQURL == "" {
		return &noopConsumer{}
	}
	return &Consumer{
		url:         cfg.RabbitMQURL,
		svc:         svc,
		logger:      logger,
		exchange:    cfg.RabbitExchange,
		queue:       cfg.RabbitQueue,
		routingKey:  cfg.RabbitCommandKey,
		consumerTag: cfg.RabbitConsumerTag,
	}
}

func (r *Consumer) Start(ctx context.Context) error {
	ctx, span := telemetry.Tracer().Start(ctx, "rabbitmq.consume_loop")
	span.SetAttributes(r.attributes(r.routingKey)...)
	defer span.End()

	fail := func(msg string, err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, msg)
		return err
	}

	conn, err := amqp.Dial(r.url)
	if err != nil {
		return fail("dial failed", fmt.Errorf("rabbitmq dial: %w", err))
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fail("channel failed", fmt.Errorf("rabbitmq channel: %w", err))
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		return fail("qos failed", fmt.Errorf("rabbitmq qos: %w", err))
	}
	if err := declareExchange(ch, r.exchange); err != nil {
		return fail("exchange declare failed", err)
	}

	queueInfo, err := ch.QueueDeclare(
		r.queue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fail("queue declare failed", fmt.Errorf("rabbitmq queue declare: %w", err))
	}

	if err := ch.QueueBind(
		queueInfo.Name,
		r.routingKey,
		r.exchange,
		false,
		nil,
	); err != nil {
		return fail("queue bind failed", fmt.Errorf("rabbitmq queue bind: %w", err))
	}

	deliveries, err := ch.Consume(
		queueInfo.Name,
		r.consumerTag,
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fail("consume failed", fmt.Errorf("rabbitmq consume: %w", err))
	}

	r.logger.Info("RabbitMQ consumer started",
		zap.String("exchange", r.exchange),
		zap.String("queue", queueInfo.Name),
		zap.String("routing_key", r.routingKey),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-deliveries:
			if !ok {
				return fail("deliveries closed", errors.New("rabbitmq deliveries closed"))
			}
			if err := r.handleMessage(ctx, msg); err != nil {
				span.RecordError(err)
				return err
			}
		}
	}
}

func (r *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery) error {
	ctx = otel.GetTextMapPropagator().Extract(ctx, amqpHeaderCarrier(msg.Headers))
	ctx, span := telemetry.Tracer().Start(ctx, "rabbitmq.handle_message")
	span.SetAttributes(r.attributes(msg.RoutingKey)...)
	defer span.End()

	var cmd queue.CreateCommand
	if err := json.Unmarshal(msg.Body, &cmd); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid json")
		r.logger.Error("rabbitmq invalid json", zap.Error(err))
		return msg.Ack(false)
	}
	if err := binding.Validator.ValidateStruct(&cmd); err != nil {
		span.SetStatus(codes.Error, "missing required fields")
		r.logger.Warn("rabbitmq missing required fields", zap.Error(err))
		return msg.Ack(false)
	}

	createCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	created, err := r.svc.Create(createCtx, *cmd.Message)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrMessageTooLong) {
			span.SetStatus(codes.Error, "invalid message")
			r.logger.Warn("rabbitmq invalid message", zap.Error(err))
			return msg.Ack(false)
		}
		span.SetStatus(codes.Error, "create notification failed")
		r.logger.Error("rabbitmq create notification failed", zap.Error(err))
		if nackErr := msg.Nack(false, true); nackErr != nil {
			r.logger.Error("rabbitmq nack failed", zap.Error(nackErr))
		}
		return nil
	}

	span.SetAttributes(attribute.Int64("notification.id", int64(created.ID)))
	return msg.Ack(false)
}

func (r *Consumer) attributes(routingKey string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("messaging.system", "rabbitmq"),
		attribute.String("messaging.destination", r.exchange),
		attribute.String("messaging.destination_kind", "exchange"),
		attribute.String("messaging.rabbitmq.routing_key", routingKey),
	}
}
