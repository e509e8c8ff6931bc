package retry

import (
	"context"
	"time"
)

// Executor orchestrates retry attempts with backoff and error classification.
// Safe for concurrent Execute() calls.
type Executor struct {
	classifier Classifier
	backoff    Backoff
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor creates a retry executor.
// Panics if classifier or backoff is nil: these are programmer errors that
// should fail loudly at startup, not as nil dereferences mid-run.
func NewExecutor(classifier Classifier, backoff Backoff) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if backoff == nil {
		panic("backoff cannot be nil")
	}
	return &Executor{classifier: classifier, backoff: backoff}
}

// WithOnRetry returns a new Executor that invokes callback before each retry.
// The receiver is not modified.
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// Execute runs the operation, retrying transient failures up to the backoff's
// attempt budget. Returns the result of the last attempt.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	lastErr := operation(ctx)
	if lastErr == nil || !e.classifier.IsTransient(lastErr) {
		return lastErr
	}

	for attempt := 0; attempt < e.backoff.MaxAttempts(); attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		delay := e.backoff.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, lastErr, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		lastErr = operation(ctx)
		if lastErr == nil || !e.classifier.IsTransient(lastErr) {
			return lastErr
		}
	}

	return lastErr
}
