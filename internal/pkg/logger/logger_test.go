package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Run("error with invalid level", func(t *testing.T) {
		err := Init(WithLevel("invalid"))
		assert.Error(t, err)
	})

	t.Run("successful initialization with valid level", func(t *testing.T) {
		err := Init(WithLevel("debug"))
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("init only once", func(t *testing.T) {
		require.NoError(t, Init(WithLevel("debug")))
		first := logger

		require.NoError(t, Init(WithLevel("error")))
		assert.Equal(t, first, logger, "Init should only initialize once")
	})

	t.Run("defaults to info when no options are provided", func(t *testing.T) {
		err := Init()
		assert.NoError(t, err)
	})
}

func TestLevels(t *testing.T) {
	require.NoError(t, Init(WithLevel("debug")))

	t.Run("level helpers do not panic", func(t *testing.T) {
		ctx := t.Context()

		assert.NotPanics(t, func() {
			Debug(ctx, "debug message", "key", "value")
			Info(ctx, "info message", "key", "value")
			Warn(ctx, "warn message", "key", "value")
			Error(ctx, "error message", "key", "value")
		})
	})

	t.Run("panic level panics", func(t *testing.T) {
		assert.Panics(t, func() {
			Panic(t.Context(), "panic message")
		})
	})

	t.Run("odd number of key-value pairs does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			Info(t.Context(), "message", "key1", "value1", "key2")
		})
	})
}

func TestSync(t *testing.T) {
	t.Run("sync after init does not panic", func(t *testing.T) {
		require.NoError(t, Init(WithLevel("info")))

		assert.NotPanics(t, func() {
			_ = Sync()
		})
	})
}
