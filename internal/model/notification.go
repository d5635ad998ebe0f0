package model

type Notification struct {
	ID      uint64 `json:"id"`
	Message string `json:"message"`
	Ack     bool   `json:"ack"`
}

// Event is a lifecycle change of a single notification.
type Event struct {
	Type         string       `json:"type"`
	Notification Notification `json:"notification"`
}
