package chflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceive(t *testing.T) {
	t.Run("receives a buffered value", func(t *testing.T) {
		ch := make(chan int, 1)
		ch <- 42

		v, ok := Receive(t.Context(), ch)

		require.True(t, ok)
		assert.Equal(t, 42, v)
	})

	t.Run("closed channel reports not ok", func(t *testing.T) {
		ch := make(chan int)
		close(ch)

		v, ok := Receive(t.Context(), ch)

		assert.False(t, ok)
		assert.Zero(t, v)
	})

	t.Run("canceled context unblocks the receive", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, ok := Receive(ctx, make(chan int))

		assert.False(t, ok)
	})
}

func TestSend(t *testing.T) {
	t.Run("sends into a ready channel", func(t *testing.T) {
		ch := make(chan string, 1)

		ok := Send(t.Context(), ch, "hello")

		require.True(t, ok)
		assert.Equal(t, "hello", <-ch)
	})

	t.Run("canceled context unblocks the send", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		ok := Send(ctx, make(chan string), "hello")

		assert.False(t, ok)
	})
}
