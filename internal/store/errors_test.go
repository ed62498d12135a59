package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityErrors(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFoundError(ErrTaskNotFound))
	assert.True(t, IsNotFoundError(ErrUserNotFound))
	assert.False(t, IsNotFoundError(ErrEmailExists))
	assert.True(t, IsDuplicateError(ErrEmailExists))
	assert.False(t, IsDuplicateError(ErrTaskNotFound))
	assert.Equal(t, "entity not found: task", ErrTaskNotFound.Error())
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")

	t.Run("with wrapped error", func(t *testing.T) {
		err := NewStoreError("task", "create", "insert failed", cause)

		assert.Equal(t, "create operation on task failed: insert failed: connection reset", err.Error())
		assert.ErrorIs(t, err, cause)

		var storeErr *StoreError
		assert.True(t, errors.As(error(err), &storeErr))
		assert.Equal(t, "task", storeErr.Entity)
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := NewStoreError("chat_message", "delete", "nothing to do", nil)

		assert.Equal(t, "delete operation on chat_message failed: nothing to do", err.Error())
		assert.Nil(t, err.Unwrap())
	})
}
