package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode_SeesThroughWrapping(t *testing.T) {
	err := NewOrderConsumedError("abc")
	wrapped := fmt.Errorf("confirm failed: %w", err)

	assert.True(t, HasCode(wrapped, ErrCodeOrderConsumed))
	assert.False(t, HasCode(wrapped, ErrCodeOrderNotFound))
	assert.False(t, HasCode(fmt.Errorf("plain"), ErrCodeOrderConsumed))
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewCacheError("get profile", cause)

	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeCache, appErr.Code)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIsInternal(t *testing.T) {
	assert.True(t, NewCacheError("op", nil).IsInternal())
	assert.True(t, New(ErrCodeInternal, "boom").IsInternal())
	assert.False(t, NewInsufficientBalanceError(1, 0.5).IsInternal())
	assert.False(t, NewOrderConsumedError("x").IsInternal())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, NewOrderNotFoundError("x").IsNotFound())
	assert.True(t, NewAccountNotFoundError("0xA").IsNotFound())
	assert.False(t, NewOrderConsumedError("x").IsNotFound())
}
