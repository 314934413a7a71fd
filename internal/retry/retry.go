// Package retry runs a single outbound call under a bounded attempt policy.
//
// There is no backoff and no circuit breaker: a failed attempt is followed
// immediately by the next one until the attempt budget is spent.
package retry

import (
	"context"
	"errors"
)

// DefaultMaxAttempts is one call plus one retry.
const DefaultMaxAttempts = 2

type Policy struct {
	// MaxAttempts is the total number of calls, including the first one.
	// Values below 1 are treated as 1.
	MaxAttempts int

	// OnRetry is called before every attempt after the first one.
	OnRetry func(attempt int, err error)
}

func DefaultPolicy() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts}
}

func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p Policy) retryable(err error) bool {
	var perm *permanentError
	return !errors.As(err, &perm)
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err so that Do returns it without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do calls op until it succeeds, returns a non-retryable error, the context is
// done, or the policy's attempts are used up. The last error is returned with
// any Permanent marker removed.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	_, err := DoValue(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// DoValue is Do for operations that produce a value.
func DoValue[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	attempts := p.attempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := ctx.Err(); err != nil {
				return zero, errors.Join(unwrapPermanent(lastErr), err)
			}
			if p.OnRetry != nil {
				p.OnRetry(attempt, lastErr)
			}
		}

		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if !p.retryable(err) {
			break
		}
	}
	return zero, unwrapPermanent(lastErr)
}

func unwrapPermanent(err error) error {
	if perm, ok := err.(*permanentError); ok {
		return perm.err
	}
	return err
}
