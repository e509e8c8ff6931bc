package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct{ transient bool }

func (s stubClassifier) IsTransient(error) bool { return s.transient }

func fastBackoff(attempts int) *ExponentialBackoff {
	return NewExponentialBackoff(attempts,
		WithInitialDelay(time.Millisecond),
		WithMaxDelay(time.Millisecond),
		WithJitterFunc(func() float64 { return 0.5 }),
	)
}

func TestExecutor_SuccessFirstAttempt(t *testing.T) {
	e := NewExecutor(stubClassifier{transient: true}, fastBackoff(3))

	calls := 0
	err := e.Execute(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecutor_FatalErrorNotRetried(t *testing.T) {
	e := NewExecutor(stubClassifier{transient: false}, fastBackoff(3))

	calls := 0
	fatal := errors.New("permission denied")
	err := e.Execute(context.Background(), func(context.Context) error {
		calls++
		return fatal
	})

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
}

func TestExecutor_TransientRetriedUntilSuccess(t *testing.T) {
	e := NewExecutor(stubClassifier{transient: true}, fastBackoff(5))

	calls := 0
	err := e.Execute(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecutor_AttemptBudgetExhausted(t *testing.T) {
	e := NewExecutor(stubClassifier{transient: true}, fastBackoff(2))

	calls := 0
	transient := errors.New("connection refused")
	err := e.Execute(context.Background(), func(context.Context) error {
		calls++
		return transient
	})

	assert.ErrorIs(t, err, transient)
	// Initial attempt plus two retries.
	assert.Equal(t, 3, calls)
}

func TestExecutor_ContextCancelledDuringBackoff(t *testing.T) {
	e := NewExecutor(stubClassifier{transient: true},
		NewExponentialBackoff(3, WithInitialDelay(time.Hour)))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := e.Execute(ctx, func(context.Context) error {
		return errors.New("connection refused")
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecutor_OnRetryCallback(t *testing.T) {
	var attempts []int
	e := NewExecutor(stubClassifier{transient: true}, fastBackoff(2)).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			attempts = append(attempts, attempt)
		})

	_ = e.Execute(context.Background(), func(context.Context) error {
		return errors.New("connection refused")
	})

	assert.Equal(t, []int{0, 1}, attempts)
}

func TestNewExecutor_PanicsOnNilDeps(t *testing.T) {
	assert.Panics(t, func() { NewExecutor(nil, fastBackoff(1)) })
	assert.Panics(t, func() { NewExecutor(stubClassifier{}, nil) })
}
