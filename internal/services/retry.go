package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	DefaultOracleMaxTries   = 3
	DefaultOracleTimeout    = 60 * time.Second
	defaultInitialBackoff   = 500 * time.Millisecond
	defaultMaxBackoff       = 8 * time.Second
	defaultMaxRetryDuration = 3 * time.Minute
)

// RetryOracle retries transient oracle failures with exponential backoff.
// Each attempt gets its own timeout. Permanent provider errors fail at once.
type RetryOracle struct {
	next       Oracle
	maxTries   uint
	timeout    time.Duration
	newBackOff func() backoff.BackOff
	logger     *slog.Logger
}

// Ensure RetryOracle implements Oracle
var _ Oracle = (*RetryOracle)(nil)

// NewRetryOracle wraps next. Zero values select the defaults.
func NewRetryOracle(next Oracle, maxTries uint, timeout time.Duration, logger *slog.Logger) *RetryOracle {
	if maxTries == 0 {
		maxTries = DefaultOracleMaxTries
	}
	if timeout <= 0 {
		timeout = DefaultOracleTimeout
	}
	return &RetryOracle{
		next:     next,
		maxTries: maxTries,
		timeout:  timeout,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = defaultInitialBackoff
			b.MaxInterval = defaultMaxBackoff
			return b
		},
		logger: logger,
	}
}

// WithBackOff replaces the backoff schedule; tests use a constant zero delay.
func (r *RetryOracle) WithBackOff(newBackOff func() backoff.BackOff) *RetryOracle {
	r.newBackOff = newBackOff
	return r
}

func (r *RetryOracle) Generate(ctx context.Context, prompt string) (string, error) {
	attempt := 0
	operation := func() (string, error) {
		attempt++
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		text, err := r.next.Generate(callCtx, prompt)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", backoff.Permanent(ctx.Err())
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Temporary() {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	text, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(r.newBackOff()),
		backoff.WithMaxTries(r.maxTries),
		backoff.WithMaxElapsedTime(defaultMaxRetryDuration),
		backoff.WithNotify(func(err error, next time.Duration) {
			r.logger.Warn("Oracle call failed, retrying",
				"error", err,
				"attempt", attempt,
				"retry_in", next)
		}),
	)
	if err != nil {
		r.logger.Error("Oracle call failed", "error", err, "attempts", attempt)
		return "", err
	}
	return text, nil
}
