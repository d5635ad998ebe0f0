package sse

import (
	"context"

	"ntf/internal/metrics"
	"ntf/internal/model"
)

type Client struct {
	Ch chan model.Event
}

func NewClient(buffer int) *Client {
	return &Client{Ch: make(chan model.Event, buffer)}
}

// Hub fans lifecycle events out to stream clients. The client set is owned
// by the Run goroutine and only reached through channels.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan model.Event
	clients    map[*Client]struct{}
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan model.Event, 64),
		clients:    make(map[*Client]struct{}),
		done:       make(chan struct{}),
	}
}

// Register and Unregister are no-ops once Run has returned.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Done is closed when Run returns.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Broadcast queues an event without blocking. Events are dropped when the
// hub is not keeping up.
func (h *Hub) Broadcast(event model.Event) {
	select {
	case h.broadcast <- event:
	default:
		metrics.DroppedEvents.Inc()
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	defer func() {
		metrics.SSEClients.Sub(float64(len(h.clients)))
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.clients[client] = struct{}{}
			metrics.SSEClients.Inc()
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				metrics.SSEClients.Dec()
			}
		case event := <-h.broadcast:
			h.fanOut(event)
		}
	}
}

func (h *Hub) fanOut(event model.Event) {
	for client := range h.clients {
		select {
		case client.Ch <- event:
		default:
			// Drop if the client is too slow.
			metrics.DroppedEvents.Inc()
		}
	}
}
