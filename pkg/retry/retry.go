package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "ttscraper/pkg/errors"
	"ttscraper/pkg/logger"
)

// Operation is a function that performs an operation that might need retrying
type Operation func() error

// OperationWithResult is a function that returns a result and might need retrying
type OperationWithResult[T any] func() (T, error)

// Config holds retry configuration
type Config struct {
	// MaxRetries is the number of additional attempts after the first failure
	MaxRetries int
	// KindLimit caps cumulative empty / rate-limit failures before escalation
	KindLimit int
	// Backoff strategy to use between attempts
	Backoff BackoffStrategy
	// OnRetry is called before each retry attempt
	OnRetry func(attempt int, err error, delay time.Duration)
	// Context for cancellation of backoff waits
	Context context.Context
	// Logger for retry attempts
	Logger logger.Logger
}

// DefaultConfig returns the retry policy used for TikTok page fetches:
// up to 5 retries beyond the first attempt, with empty and rate-limit
// failures escalating to a terminal error after their 3rd occurrence.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries: 5,
		KindLimit:  3,
		Backoff:    DefaultExponentialBackoff(),
		Context:    context.Background(),
		Logger:     logger.GetLogger(),
	}
}

// classify extracts the failure kind from an error. Unclassified errors are
// treated as transient.
func classify(err error) *errs.Error {
	var apiErr *errs.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &errs.Error{
		Type:    errs.ErrorTypeTransient,
		Message: err.Error(),
	}
}

// Do executes an operation under the retry policy.
//
// NotFound failures bail immediately without retrying. Empty and rate-limit
// failures are retried, but once KindLimit occurrences of a kind accumulate
// the loop stops and returns a terminal error carrying that kind's
// caller-facing hint. Transient failures consume the full MaxRetries budget.
func Do(op Operation, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	counts := make(map[errs.ErrorType]int)
	var lastErr error

	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil {
			if attempt > 1 && cfg.Logger != nil {
				cfg.Logger.DebugWithFields("operation succeeded after retry", map[string]interface{}{
					"attempt": attempt,
				})
			}
			return nil
		}
		lastErr = err

		apiErr := classify(err)
		if apiErr.Type == errs.ErrorTypeNotFound {
			if cfg.Logger != nil {
				cfg.Logger.DebugWithFields("error is not retryable, bailing", map[string]interface{}{
					"error": err.Error(),
				})
			}
			return err
		}

		counts[apiErr.Type]++
		if kindLimited(apiErr.Type) && counts[apiErr.Type] >= cfg.KindLimit {
			if cfg.Logger != nil {
				cfg.Logger.ErrorWithFields("failure kind limit reached", map[string]interface{}{
					"kind":        string(apiErr.Type),
					"occurrences": counts[apiErr.Type],
				})
			}
			return &errs.Error{
				Type:    apiErr.Type,
				Message: errs.HintFor(apiErr.Type),
				Code:    apiErr.Code,
			}
		}

		if attempt > cfg.MaxRetries {
			if cfg.Logger != nil {
				cfg.Logger.ErrorWithFields("max retry attempts exceeded", map[string]interface{}{
					"attempts":   attempt,
					"last_error": lastErr.Error(),
				})
			}
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxRetries, lastErr)
		}

		delay := time.Duration(0)
		if cfg.Backoff != nil {
			delay = cfg.Backoff.NextDelay(attempt)
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, delay)
		}

		if cfg.Logger != nil {
			cfg.Logger.WarnWithFields("retrying operation", map[string]interface{}{
				"attempt":  attempt,
				"kind":     string(apiErr.Type),
				"error":    err.Error(),
				"delay_ms": delay.Milliseconds(),
			})
		}

		if err := Wait(ctx, delay); err != nil {
			return fmt.Errorf("retry cancelled: %w", err)
		}
	}
}

// kindLimited reports whether a failure kind is subject to the cumulative
// KindLimit cap rather than the full retry budget.
func kindLimited(t errs.ErrorType) bool {
	return t == errs.ErrorTypeEmpty || t == errs.ErrorTypeRateLimit
}

// DoWithResult executes an operation that returns a result with retry logic
func DoWithResult[T any](op OperationWithResult[T], cfg *Config) (T, error) {
	var result T

	err := Do(func() error {
		var opErr error
		result, opErr = op()
		return opErr
	}, cfg)

	return result, err
}
