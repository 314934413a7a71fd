package retry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo(t *testing.T) {
	boom := errors.New("boom")

	tests := map[string]struct {
		policy    Policy
		failures  int
		failWith  error
		wantCalls int
		wantErr   error
	}{
		"succeeds first time": {
			policy:    DefaultPolicy(),
			wantCalls: 1,
		},
		"fails once then succeeds": {
			policy:    DefaultPolicy(),
			failures:  1,
			failWith:  boom,
			wantCalls: 2,
		},
		"fails twice surfaces last error": {
			policy:    DefaultPolicy(),
			failures:  5,
			failWith:  boom,
			wantCalls: 2,
			wantErr:   boom,
		},
		"permanent error is not retried": {
			policy:    DefaultPolicy(),
			failures:  5,
			failWith:  Permanent(boom),
			wantCalls: 1,
			wantErr:   boom,
		},
		"zero attempts still calls once": {
			policy:    Policy{},
			failures:  5,
			failWith:  boom,
			wantCalls: 1,
			wantErr:   boom,
		},
		"three attempts": {
			policy:    Policy{MaxAttempts: 3},
			failures:  2,
			failWith:  boom,
			wantCalls: 3,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			calls := 0
			err := Do(context.Background(), tt.policy, func(context.Context) error {
				calls++
				if calls <= tt.failures {
					return tt.failWith
				}
				return nil
			})

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			var perm *permanentError
			assert.False(t, errors.As(err, &perm), "permanent marker must not leak")
		})
	}
}

func TestDoValueReturnsValueOfSuccessfulAttempt(t *testing.T) {
	calls := 0
	v, err := DoValue(context.Background(), DefaultPolicy(), func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return -1, errors.New("transient")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 2, calls)
}

func TestDoStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	boom := errors.New("boom")

	calls := 0
	err := Do(ctx, Policy{MaxAttempts: 5}, func(context.Context) error {
		calls++
		cancel()
		return boom
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOnRetryHook(t *testing.T) {
	var seen []int
	p := Policy{
		MaxAttempts: 3,
		OnRetry:     func(attempt int, err error) { seen = append(seen, attempt) },
	}

	_ = Do(context.Background(), p, func(context.Context) error { return errors.New("x") })

	assert.Equal(t, []int{2, 3}, seen)
}

func TestPermanentNil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}
