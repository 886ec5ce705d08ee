package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransient(t *testing.T) {
	assert.Nil(t, Transient(nil))

	base := errors.New("connection reset")
	wrapped := Transient(base)

	require.Error(t, wrapped)
	assert.True(t, IsTransient(wrapped))
	assert.ErrorIs(t, wrapped, base)
	assert.Contains(t, wrapped.Error(), "connection reset")
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(errors.New("plain")))
	assert.False(t, IsTransient(ErrNotFound))

	// The marker survives further wrapping.
	err := fmt.Errorf("embed batch: %w", Transient(errors.New("429")))
	assert.True(t, IsTransient(err))

	err = fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", Transient(ErrUnavailable)))
	assert.True(t, IsTransient(err))
	assert.ErrorIs(t, err, ErrUnavailable)
}
