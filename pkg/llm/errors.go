package llm

import (
	"fmt"
	"strings"
)

// Error wraps an advisor call failure with a retryability classification.
type Error struct {
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable implements the retry.RetryableError interface.
// This allows the retry package to check retryability without importing llm.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// classifyError wraps a provider error, marking rate limits, timeouts, and
// server-side failures as retryable.
func classifyError(err error) *Error {
	if err == nil {
		return nil
	}

	lower := strings.ToLower(err.Error())
	retryable := false
	for _, pattern := range []string{
		"429", "500", "502", "503", "504",
		"rate limit", "too many requests",
		"timeout", "timed out", "deadline exceeded",
		"connection refused", "connection reset",
	} {
		if strings.Contains(lower, pattern) {
			retryable = true
			break
		}
	}

	return &Error{
		Message:   "advisor request failed",
		Retryable: retryable,
		Cause:     err,
	}
}
