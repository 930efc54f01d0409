package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute(t *testing.T) {
	t.Run("succeeds on first attempt", func(t *testing.T) {
		r := New(WithDelay(time.Millisecond))

		var calls int
		err := r.Execute(t.Context(), func() error {
			calls++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries until the operation succeeds", func(t *testing.T) {
		r := New(WithAttempts(5), WithDelay(time.Millisecond))

		var calls int
		err := r.Execute(t.Context(), func() error {
			calls++
			if calls < 3 {
				return errors.New("temporary failure")
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops after the configured number of attempts", func(t *testing.T) {
		r := New(WithAttempts(4), WithDelay(time.Millisecond))

		opErr := errors.New("persistent failure")
		var calls int
		err := r.Execute(t.Context(), func() error {
			calls++
			return opErr
		})

		require.ErrorIs(t, err, opErr)
		assert.Equal(t, 4, calls)
	})

	t.Run("last error only returns the final attempt's error", func(t *testing.T) {
		r := New(WithAttempts(3), WithDelay(time.Millisecond), WithLastErrorOnly(true))

		var calls int
		err := r.Execute(t.Context(), func() error {
			calls++
			if calls == 3 {
				return errors.New("final failure")
			}
			return errors.New("earlier failure")
		})

		require.Error(t, err)
		assert.Equal(t, "final failure", err.Error())
	})

	t.Run("canceled context stops retrying", func(t *testing.T) {
		r := New(WithAttempts(100), WithDelay(50*time.Millisecond))

		ctx, cancel := context.WithCancel(t.Context())

		var calls int
		err := r.Execute(ctx, func() error {
			calls++
			cancel()
			return errors.New("failure")
		})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestDelayPolicies(t *testing.T) {
	t.Run("fixed delay keeps attempts evenly spaced", func(t *testing.T) {
		r := New(
			WithAttempts(3),
			WithDelay(10*time.Millisecond),
			WithDelayPolicy(DelayPolicyFixed),
		)

		start := time.Now()
		err := r.Execute(t.Context(), func() error {
			return errors.New("failure")
		})
		elapsed := time.Since(start)

		require.Error(t, err)
		assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
	})

	t.Run("linear delay grows with the attempt number", func(t *testing.T) {
		r := New(
			WithAttempts(3),
			WithDelay(10*time.Millisecond),
			WithDelayPolicy(DelayPolicyLinear),
		)

		// Retry waits are 1x and 2x the base delay: 30ms total.
		start := time.Now()
		err := r.Execute(t.Context(), func() error {
			return errors.New("failure")
		})
		elapsed := time.Since(start)

		require.Error(t, err)
		assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
	})

	t.Run("max delay caps the growth", func(t *testing.T) {
		r := New(
			WithAttempts(4),
			WithDelay(5*time.Millisecond),
			WithMaxDelay(5*time.Millisecond),
			WithDelayPolicy(DelayPolicyLinear),
		)

		start := time.Now()
		err := r.Execute(t.Context(), func() error {
			return errors.New("failure")
		})
		elapsed := time.Since(start)

		require.Error(t, err)
		assert.Less(t, elapsed, 100*time.Millisecond)
	})
}
