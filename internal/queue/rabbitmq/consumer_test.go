package rabbitmq

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"ntf/internal/config"
	"ntf/internal/model"
	"ntf/internal/service/notify"
	"ntf/internal/sse"
)

type repoMock struct {
	mock.Mock
}

func (m *repoMock) CreateNotification(ctx context.Context, message string) (model.Notification, error) {
	args := m.Called(ctx, message)
	return args.Get(0).(model.Notification), args.Error(1)
}

func (m *repoMock) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *repoMock) GetNotification(ctx context.Context, id uint64) (model.Notification, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Notification), args.Error(1)
}

func (m *repoMock) AcknowledgeNotification(ctx context.Context, id uint64) (model.Notification, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Notification), args.Error(1)
}

func (m *repoMock) DeleteNotification(ctx context.Context, id uint64) (model.Notification, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Notification), args.Error(1)
}

type ackMock struct {
	acked   int
	nacked  int
	requeue bool
}

func (a *ackMock) Ack(_ uint64, _ bool) error {
	a.acked++
	return nil
}

func (a *ackMock) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *ackMock) Reject(_ uint64, _ bool) error {
	return nil
}

func newTestConsumer(repo *repoMock, cfg *config.Config) *Consumer {
	svc := notify.NewService(cfg, repo, sse.NewHub(), &noopPublisher{}, zap.NewNop())
	return &Consumer{svc: svc, logger: zap.NewNop()}
}

func TestConsumerHandleMessage(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		repo := &repoMock{}
		consumer := newTestConsumer(repo, &config.Config{})
		ack := &ackMock{}

		err := consumer.handleMessage(context.Background(), amqp.Delivery{
			Body:         []byte("{bad json"),
			Acknowledger: ack,
		})
		require.NoError(t, err)
		require.Equal(t, 1, ack.acked)
		require.Equal(t, 0, ack.nacked)
		repo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
	})

	t.Run("missing message", func(t *testing.T) {
		repo := &repoMock{}
		consumer := newTestConsumer(repo, &config.Config{})
		ack := &ackMock{}

		err := consumer.handleMessage(context.Background(), amqp.Delivery{
			Body:         []byte(`{"text":"hi"}`),
			Acknowledger: ack,
		})
		require.NoError(t, err)
		require.Equal(t, 1, ack.acked)
		repo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
	})

	t.Run("message too long", func(t *testing.T) {
		repo := &repoMock{}
		consumer := newTestConsumer(repo, &config.Config{MaxMessageLength: 2})
		ack := &ackMock{}

		err := consumer.handleMessage(context.Background(), amqp.Delivery{
			Body:         []byte(`{"message":"too long"}`),
			Acknowledger: ack,
		})
		require.NoError(t, err)
		require.Equal(t, 1, ack.acked)
		require.Equal(t, 0, ack.nacked)
		repo.AssertNotCalled(t, "CreateNotification", mock.Anything, mock.Anything)
	})

	t.Run("store error -> nack", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("CreateNotification", mock.Anything, "hi").Return(model.Notification{}, errors.New("store failed")).Once()
		consumer := newTestConsumer(repo, &config.Config{})
		ack := &ackMock{}

		err := consumer.handleMessage(context.Background(), amqp.Delivery{
			Body:         []byte(`{"message":"hi"}`),
			Acknowledger: ack,
		})
		require.NoError(t, err)
		require.Equal(t, 0, ack.acked)
		require.Equal(t, 1, ack.nacked)
		require.True(t, ack.requeue)
		repo.AssertExpectations(t)
	})

	t.Run("empty message -> ack", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("CreateNotification", mock.Anything, "").Return(model.Notification{ID: 1}, nil).Once()
		consumer := newTestConsumer(repo, &config.Config{})
		ack := &ackMock{}

		err := consumer.handleMessage(context.Background(), amqp.Delivery{
			Body:         []byte(`{"message":""}`),
			Acknowledger: ack,
		})
		require.NoError(t, err)
		require.Equal(t, 1, ack.acked)
		repo.AssertExpectations(t)
	})

	t.Run("success -> ack", func(t *testing.T) {
		repo := &repoMock{}
		repo.On("CreateNotification", mock.Anything, "hi").Return(model.Notification{ID: 1, Message: "hi"}, nil).Once()
		consumer := newTestConsumer(repo, &config.Config{})
		ack := &ackMock{}

		err := consumer.handleMessage(context.Background(), amqp.Delivery{
			Body:         []byte(`{"message":"hi"}`),
			Acknowledger: ack,
		})
		require.NoError(t, err)
		require.Equal(t, 1, ack.acked)
		require.Equal(t, 0, ack.nacked)
		repo.AssertExpectations(t)
	})
}

func TestNoopImplementations(t *testing.T) {
	cfg := &config.Config{}
	publisher := NewPublisher(cfg, zap.NewNop())
	require.NoError(t, publisher.Publish(context.Background(), []byte("{}"), "key"))

	consumer := NewConsumer(cfg, nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, consumer.Start(ctx), context.Canceled)
}
