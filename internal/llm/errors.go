package llm

import (
	"errors"
	"net/http"
)

var (
	// ErrAuthentication reports a missing or rejected API key.
	ErrAuthentication = errors.New("authentication failed")
	// ErrRateLimited reports provider throttling.
	ErrRateLimited = errors.New("rate limited by provider")
	// ErrNetwork reports a transport failure before any provider verdict.
	ErrNetwork = errors.New("network failure")
	// ErrGeneration reports any other provider failure, including empty
	// or unusable output.
	ErrGeneration = errors.New("generation failed")
)

// ErrFromStatus maps a provider HTTP status onto the taxonomy.
func ErrFromStatus(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthentication
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrGeneration
	}
}
