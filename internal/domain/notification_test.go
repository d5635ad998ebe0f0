package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidEventType(t *testing.T) {
	t.Run("valid types", func(t *testing.T) {
		valid := []string{
			EventCreated,
			EventAcknowledged,
			EventDeleted,
		}
		for _, v := range valid {
			require.True(t, IsValidEventType(v), "expected valid type: %s", v)
		}
	})

	t.Run("invalid types", func(t *testing.T) {
		invalid := []string{"", "create", "acked", "deleted1"}
		for _, v := range invalid {
			require.False(t, IsValidEventType(v), "expected invalid type: %s", v)
		}
	})
}

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("get: %w", &NotFoundError{ID: 7})

	require.ErrorIs(t, err, ErrNotFound)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	require.Equal(t, uint64(7), nf.ID)
	require.Equal(t, "resource 7 not found", nf.Error())
}

func TestValidateMessage(t *testing.T) {
	t.Run("unlimited", func(t *testing.T) {
		require.NoError(t, ValidateMessage("anything at all", 0))
		require.NoError(t, ValidateMessage("", -1))
	})

	t.Run("within limit", func(t *testing.T) {
		require.NoError(t, ValidateMessage("héllo", 5))
	})

	t.Run("over limit", func(t *testing.T) {
		err := ValidateMessage("hello!", 5)
		require.ErrorIs(t, err, ErrMessageTooLong)
	})
}
