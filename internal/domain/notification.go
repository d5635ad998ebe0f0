package domain

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	EventCreated      = "created"
	EventAcknowledged = "acknowledged"
	EventDeleted      = "deleted"
)

var (
	ErrNotFound       = errors.New("notification not found")
	ErrMessageTooLong = errors.New("message too long")
)

// NotFoundError reports an operation on an id that is not in the store.
type NotFoundError struct {
	ID uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func IsValidEventType(value string) bool {
	switch value {
	case EventCreated, EventAcknowledged, EventDeleted:
		return true
	default:
		return false
	}
}

// ValidateMessage enforces the configured length limit. A non-positive
// limit disables the check.
func ValidateMessage(message string, maxLength int) error {
	if maxLength <= 0 {
		return nil
	}
	if n := utf8.RuneCountInString(message); n > maxLength {
		return fmt.Errorf("%w: %d characters, limit is %d", ErrMessageTooLong, n, maxLength)
	}
	return nil
}
