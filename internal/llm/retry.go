package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryProvider is a decorator that retries failed generations within a
// fixed attempt budget. Attempts are strictly sequential.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	logger *zap.Logger
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.MaxAttempts = min(max(cfg.MaxAttempts, 1), MaxAttempts)
	return &RetryProvider{inner: p, config: cfg, logger: logger}
}

// Generate calls the inner provider until a response passes validation or
// the attempt budget is spent. A successful, valid response is returned
// immediately and never retried. When every attempt fails the result is
// an *ErrGenerationFailed wrapping the last error.
func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error

	for attempt := range r.config.MaxAttempts {
		resp, err := r.inner.Generate(WithAttempt(ctx, attempt+1), req)
		if err == nil && req.Validate != nil {
			if verr := req.Validate(resp.Content); verr != nil {
				err = &ErrInvalidResponse{Content: resp.Content, Err: verr}
			}
		}
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return nil, err
		}

		r.logger.Warn("llm attempt failed",
			zap.String("purpose", PurposeFrom(ctx)),
			zap.String("request_id", RequestIDFrom(ctx)),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", r.config.MaxAttempts),
			zap.Error(err))

		// Last attempt: fail without sleeping.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, &ErrGenerationFailed{Attempts: r.config.MaxAttempts, Err: lastErr}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// shouldRetry reports whether an error may succeed on another attempt.
// Network failures, error statuses, safety blocks, abnormal finishes and
// malformed output all count against the same budget; only cancellation
// stops the loop early.
func shouldRetry(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// backoff computes the wait duration for the given attempt.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	// Respect RetryAfter for rate limits.
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return min(rl.RetryAfter, r.config.MaxWait)
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
