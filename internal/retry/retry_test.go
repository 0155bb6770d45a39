package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastOpts(attempts int) []Option {
	return []Option{
		WithAttempts(attempts),
		WithInitialDelay(time.Millisecond),
		WithMaxDelay(5 * time.Millisecond),
	}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	t.Parallel()
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return nil
	}, fastOpts(3)...)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	t.Parallel()
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, fastOpts(5)...)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	t.Parallel()
	boom := errors.New("still down")
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return boom
	}, fastOpts(3)...)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestDo_FatalHaltsAndUnwraps(t *testing.T) {
	t.Parallel()
	boom := errors.New("bad request")
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return Fatal(boom)
	}, fastOpts(5)...)
	assert.Equal(t, 1, calls)
	// The caller sees the original error, not the fatal wrapper.
	assert.Equal(t, boom, err)
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, func() error { return errors.New("transient") },
		WithAttempts(3), WithInitialDelay(time.Minute))
	require.ErrorIs(t, err, context.Canceled)
}

func TestFatal_NilStaysNil(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Fatal(nil))
	assert.False(t, IsFatal(errors.New("plain")))
	assert.True(t, IsFatal(Fatal(errors.New("x"))))
}
