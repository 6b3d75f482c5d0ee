// Package provider adapts text-generation backends to a single Generate call.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrRateLimited marks a provider failure caused by the backend throttling the caller.
var ErrRateLimited = errors.New("provider rate limit exceeded")

// Generator produces text for a prompt. Implementations pin sampling to the lowest-variance mode.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
	ModelName() string
}

// APIError carries a backend failure message.
type APIError struct {
	Provider   string
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "no error message"
	}
	if e.Code != "" {
		return fmt.Sprintf("%s status %d (%s): %s", e.Provider, e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("%s status %d: %s", e.Provider, e.StatusCode, msg)
}

func (e *APIError) Is(target error) bool {
	return target == ErrRateLimited && e.RateLimited()
}

// RateLimited reports whether the backend refused the call because of quota or throttling.
func (e *APIError) RateLimited() bool {
	if e == nil {
		return false
	}
	if e.StatusCode == 429 {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(e.Code)) {
	case "rate_limit_exceeded", "resource_exhausted":
		return true
	}
	return false
}

// Transient reports whether retrying the same call may succeed.
func Transient(err error) bool {
	if err == nil || errors.Is(err, ErrRateLimited) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	// Transport failures carry no status.
	return true
}
