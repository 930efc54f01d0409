// Package retry provides a configurable retry mechanism for operations that
// may fail temporarily. It wraps the retry-go package from Avast and exposes
// a small interface with functional options for customizing retry behavior.
//
// Three delay policies are available: exponential backoff (the default),
// fixed delay, and linear delay. Linear delay makes the n-th retry wait
// n times the base delay, which suits polling an indexer that is known to
// catch up over time rather than recover from a fault.
//
// Basic usage:
//
//	r := retry.New()
//	err := r.Execute(context.Background(), func() error {
//	    return someOperation()
//	})
//
// With custom options:
//
//	r := retry.New(
//	    retry.WithAttempts(5),
//	    retry.WithDelay(2*time.Second),
//	    retry.WithDelayPolicy(retry.DelayPolicyLinear),
//	)
package retry

import (
	"context"
	"time"

	retry "github.com/avast/retry-go/v4"
)

// DelayPolicy selects how the delay between attempts grows.
type DelayPolicy int

const (
	// DelayPolicyExponential doubles the delay after each failed attempt.
	DelayPolicyExponential DelayPolicy = iota

	// DelayPolicyFixed waits the base delay between every attempt.
	DelayPolicyFixed

	// DelayPolicyLinear waits attempt-number times the base delay, so the
	// first retry waits 1×delay, the second 2×delay, and so on.
	DelayPolicyLinear
)

// Retry defines the interface for retry operations. Implementations execute
// an operation with automatic retry logic in case of failures.
type Retry interface {
	// Execute runs the given function with the configured retry logic.
	//
	// The context allows for cancellation and timeout control. If the context
	// is canceled or times out, the operation stops retrying and returns the
	// context error. The operation function should be idempotent.
	//
	// Execute returns nil if the operation succeeds within the configured
	// number of attempts, or an error if all attempts fail.
	Execute(ctx context.Context, operation func() error) error
}

// config holds internal settings for the retry mechanism.
type config struct {
	attempts    uint          // maximum number of attempts (including the first)
	delay       time.Duration // base delay between retry attempts
	maxDelay    time.Duration // maximum delay between retry attempts
	delayPolicy DelayPolicy   // how the delay grows between attempts
	lastErrOnly bool          // whether to return only the last error
}

// Option defines a functional option for configuring the retry mechanism.
type Option func(*config)

// retrier implements the Retry interface using the retry-go package.
type retrier struct {
	cfg config
}

var _ Retry = (*retrier)(nil)

// New creates and returns a Retry implementation configured with the provided
// options. If no options are given, default values are used:
//
//   - attempts:    3 (1 initial attempt + 2 retries)
//   - delay:       1 second
//   - maxDelay:    30 seconds
//   - delayPolicy: exponential backoff
//   - lastErrOnly: true
func New(opts ...Option) Retry {
	cfg := config{
		attempts:    3,
		delay:       1 * time.Second,
		maxDelay:    30 * time.Second,
		delayPolicy: DelayPolicyExponential,
		lastErrOnly: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &retrier{
		cfg: cfg,
	}
}

// delayType translates the configured DelayPolicy into a retry-go delay
// function. retry-go caps whatever the function returns at the configured
// maximum delay.
func (r *retrier) delayType() retry.DelayTypeFunc {
	switch r.cfg.delayPolicy {
	case DelayPolicyFixed:
		return retry.FixedDelay
	case DelayPolicyLinear:
		base := r.cfg.delay
		return func(n uint, _ error, _ *retry.Config) time.Duration {
			return time.Duration(n+1) * base
		}
	default:
		return retry.BackOffDelay
	}
}

// Execute implements the Retry interface. The operation is first attempted
// immediately; on failure it is retried with delays governed by the
// configured policy, up to the configured maximum number of attempts.
func (r *retrier) Execute(ctx context.Context, operation func() error) error {
	options := []retry.Option{
		retry.Attempts(r.cfg.attempts),
		retry.Delay(r.cfg.delay),
		retry.MaxDelay(r.cfg.maxDelay),
		retry.DelayType(r.delayType()),
		retry.LastErrorOnly(r.cfg.lastErrOnly),
		retry.Context(ctx),
	}

	return retry.Do(operation, options...)
}

// WithAttempts sets the maximum number of attempts (including the initial attempt).
// Default: 3.
func WithAttempts(n uint) Option {
	return func(c *config) {
		c.attempts = n
	}
}

// WithDelay sets the base delay between retry attempts. Default: 1 second.
func WithDelay(d time.Duration) Option {
	return func(c *config) {
		c.delay = d
	}
}

// WithMaxDelay sets the maximum delay between retry attempts, capping the
// growth of exponential and linear policies. Default: 30 seconds.
func WithMaxDelay(d time.Duration) Option {
	return func(c *config) {
		c.maxDelay = d
	}
}

// WithDelayPolicy sets how the delay grows between attempts.
// Default: DelayPolicyExponential.
func WithDelayPolicy(p DelayPolicy) Option {
	return func(c *config) {
		c.delayPolicy = p
	}
}

// WithLastErrorOnly sets whether to return only the error from the final
// attempt rather than all attempt errors combined. Default: true.
func WithLastErrorOnly(b bool) Option {
	return func(c *config) {
		c.lastErrOnly = b
	}
}
