// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/navwar/hubsync/pkg/store"
)

const (
	DefaultMaxAttempts     = 5
	DefaultInitialInterval = 500 * time.Millisecond
	DefaultMaxInterval     = 30 * time.Second
)

// Policy configures exponential backoff around backend calls.
type Policy struct {
	// MaxAttempts is the maximum number of calls.  Zero or less means no limit besides MaxElapsedTime.
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	// Logger receives a message before every retry.
	Logger store.Logger
}

// Permanent returns true if the error cannot be fixed by retrying.
func Permanent(err error) bool {
	return store.IsNotFound(err) ||
		store.IsAuth(err) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func (p *Policy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	if p.MaxElapsedTime > 0 {
		b.MaxElapsedTime = p.MaxElapsedTime
	}
	var bo backoff.BackOff = b
	if p.MaxAttempts > 0 {
		bo = backoff.WithMaxRetries(bo, uint64(p.MaxAttempts-1))
	}
	return backoff.WithContext(bo, ctx)
}

func (p *Policy) notify(op string) backoff.Notify {
	return func(err error, d time.Duration) {
		if p.Logger != nil {
			_ = p.Logger.Log("Retrying", map[string]interface{}{
				"op":   op,
				"wait": d.String(),
				"err":  err.Error(),
			})
		}
	}
}

// Do calls fn until it succeeds, returns a permanent error, or the policy is exhausted.
func Do[T any](ctx context.Context, p *Policy, op string, fn func() (T, error)) (T, error) {
	if p == nil {
		return fn()
	}
	return backoff.RetryNotifyWithData(func() (T, error) {
		v, err := fn()
		if err != nil && Permanent(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, p.backOff(ctx), p.notify(op))
}

func NewDefaultPolicy(logger store.Logger) *Policy {
	return &Policy{
		MaxAttempts:     DefaultMaxAttempts,
		InitialInterval: DefaultInitialInterval,
		MaxInterval:     DefaultMaxInterval,
		Logger:          logger,
	}
}
