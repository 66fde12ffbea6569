package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that is empty,
// not parseable as JSON, or does not conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down, unreachable or
// answered with a non-success status.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrSafetyBlocked indicates the prompt or the candidate was blocked by
// the provider's safety filters.
type ErrSafetyBlocked struct {
	Reason  string
	Message string
}

func (e *ErrSafetyBlocked) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("LLM response blocked (%s): %s", e.Reason, e.Message)
	}
	return fmt.Sprintf("LLM response blocked (%s)", e.Reason)
}

// ErrAbnormalFinish indicates generation stopped for a reason other than
// a normal stop, e.g. MAX_TOKENS or RECITATION.
type ErrAbnormalFinish struct {
	Reason  string
	Content json.RawMessage
}

func (e *ErrAbnormalFinish) Error() string {
	return fmt.Sprintf("LLM generation finished abnormally: %s", e.Reason)
}

// ErrGenerationFailed is returned once every attempt in the retry budget
// has failed. Err is the error of the last attempt.
type ErrGenerationFailed struct {
	Attempts int
	Err      error
}

func (e *ErrGenerationFailed) Error() string {
	return fmt.Sprintf("generation failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ErrGenerationFailed) Unwrap() error { return e.Err }

// Reason classifies the last failure: "rate_limit", "unavailable",
// "safety", "abnormal_finish", "invalid_response" or "error".
func (e *ErrGenerationFailed) Reason() string {
	var (
		rl      *ErrRateLimit
		unavail *ErrProviderUnavailable
		safety  *ErrSafetyBlocked
		finish  *ErrAbnormalFinish
		inv     *ErrInvalidResponse
	)
	switch {
	case errors.As(e.Err, &rl):
		return "rate_limit"
	case errors.As(e.Err, &unavail):
		return "unavailable"
	case errors.As(e.Err, &safety):
		return "safety"
	case errors.As(e.Err, &finish):
		return "abnormal_finish"
	case errors.As(e.Err, &inv):
		return "invalid_response"
	default:
		return "error"
	}
}

// LastMessage returns the message of the last underlying failure.
func (e *ErrGenerationFailed) LastMessage() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}
