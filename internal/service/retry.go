package service

import (
	"context"
	"time"
)

// RetryPolicy bounds how often a whole pipeline run is attempted. After failed
// attempt n the policy waits n × 2 × BackoffUnit; there is no wait after the
// last attempt.
type RetryPolicy struct {
	MaxAttempts int
	BackoffUnit time.Duration
	Sleep       func(time.Duration)
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BackoffUnit: time.Second, Sleep: time.Sleep}
}

func (p RetryPolicy) Backoff(attempt int) time.Duration {
	return time.Duration(attempt*2) * p.BackoffUnit
}

// Run calls fn until it succeeds or the attempts are used up. It returns the
// number of attempts made and the last error.
func (p RetryPolicy) Run(ctx context.Context, fn func(attempt int) error, onFailure func(attempt int, err error)) (int, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return attempt - 1, ctxErr
		}
		if err = fn(attempt); err == nil {
			return attempt, nil
		}
		if onFailure != nil {
			onFailure(attempt, err)
		}
		if attempt < attempts {
			sleep(p.Backoff(attempt))
		}
	}
	return attempts, err
}
