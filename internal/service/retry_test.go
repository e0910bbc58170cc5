package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func recordingSleep(waits *[]time.Duration) func(time.Duration) {
	return func(d time.Duration) { *waits = append(*waits, d) }
}

func TestRetryPolicy_BackoffSchedule(t *testing.T) {
	var waits []time.Duration
	policy := RetryPolicy{MaxAttempts: 3, BackoffUnit: time.Second, Sleep: recordingSleep(&waits)}
	calls := 0

	attempts, err := policy.Run(context.Background(), func(int) error {
		calls++
		return errors.New("boom")
	}, nil)

	assert.EqualError(t, err, "boom")
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, waits)
}

func TestRetryPolicy_StopsOnSuccess(t *testing.T) {
	var waits []time.Duration
	var failures []int
	policy := RetryPolicy{MaxAttempts: 3, BackoffUnit: time.Millisecond, Sleep: recordingSleep(&waits)}

	attempts, err := policy.Run(context.Background(), func(attempt int) error {
		if attempt < 2 {
			return errors.New("transient")
		}
		return nil
	}, func(attempt int, _ error) { failures = append(failures, attempt) })

	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, []int{1}, failures)
	assert.Equal(t, []time.Duration{2 * time.Millisecond}, waits)
}

func TestRetryPolicy_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := RetryPolicy{MaxAttempts: 3, BackoffUnit: time.Millisecond, Sleep: func(time.Duration) { cancel() }}

	attempts, err := policy.Run(ctx, func(int) error { return errors.New("boom") }, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}
