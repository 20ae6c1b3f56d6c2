package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/domain"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/ports/driven"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/logger"
)

// DefaultMaxRetries is the default number of attempts per request.
const DefaultMaxRetries = 5

// RetryPolicy controls how many attempts are made and how long to wait
// between them.
type RetryPolicy struct {
	MaxAttempts int
	Delay       func(attempt int) time.Duration
}

// ExponentialBackoff returns 2^attempt seconds: 1s, 2s, 4s, 8s, 16s.
// No jitter; the sequence is deterministic.
func ExponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

// DefaultRetryPolicy returns the standard policy: maxAttempts attempts with
// exponential backoff. Non-positive maxAttempts falls back to DefaultMaxRetries.
func DefaultRetryPolicy(maxAttempts int) RetryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxRetries
	}
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		Delay:       ExponentialBackoff,
	}
}

// Ensure RetryExecutor can stand in wherever a plain executor is expected.
var _ driven.GraphQLExecutor = (*RetryExecutor)(nil)

// RetryExecutor wraps a GraphQLExecutor with bounded retry. Transport
// failures on the final attempt surface as a terminal error; non-success
// statuses are logged and retried until the budget is exhausted.
type RetryExecutor struct {
	executor driven.GraphQLExecutor
	policy   RetryPolicy
	sleep    func(time.Duration)
}

// NewRetryExecutor creates a retrying wrapper around executor.
func NewRetryExecutor(executor driven.GraphQLExecutor, policy RetryPolicy) *RetryExecutor {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultMaxRetries
	}
	if policy.Delay == nil {
		policy.Delay = ExponentialBackoff
	}
	return &RetryExecutor{
		executor: executor,
		policy:   policy,
		sleep:    time.Sleep,
	}
}

// Execute runs one request through the wrapped executor, retrying with the
// configured backoff. A success response returns immediately.
func (e *RetryExecutor) Execute(
	ctx context.Context, query string, variables map[string]any,
) (*driven.GraphQLResponse, error) {
	for attempt := 0; attempt < e.policy.MaxAttempts; attempt++ {
		resp, err := e.executor.Execute(ctx, query, variables)
		switch {
		case err != nil:
			if attempt == e.policy.MaxAttempts-1 {
				logger.Error("Final retry attempt failed: %v", err)
				return nil, fmt.Errorf("execute request: %w", err)
			}
			logger.Warn("Request failed with error: %v, attempt %d of %d",
				err, attempt+1, e.policy.MaxAttempts)

		case resp.OK():
			return resp, nil

		default:
			logger.Warn("Request failed with status %d, attempt %d of %d",
				resp.StatusCode, attempt+1, e.policy.MaxAttempts)
		}

		delay := e.policy.Delay(attempt)
		logger.Info("Waiting %s before retrying...", delay)
		e.sleep(delay)
	}

	return nil, fmt.Errorf("%w after %d attempts", domain.ErrRetriesExhausted, e.policy.MaxAttempts)
}
