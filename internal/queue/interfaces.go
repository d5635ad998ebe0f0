package queue

import "context"

type Consumer interface {
	Start(ctx context.Context) error
}

type Publisher interface {
	Publish(ctx context.Context, payload []byte, routingKey string) error
}

// CreateCommand is the broker payload asking for a notification to be created.
type CreateCommand struct {
	Message *string `json:"message" binding:"required"`
}
