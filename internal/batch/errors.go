package batch

import "fmt"

// The three failure families surfaced by the controller. None of them is
// fatal: every error becomes a transient status message and the controller
// stays usable.

// ConfigError blocks an action because the controller is not configured.
// It is never retried automatically.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "config: " + e.Reason
}

// ValidationError blocks an action locally because the operator input is
// invalid; the operator must correct the input and retry.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// TransportError reports a failed HTTP exchange: a non-2xx response, a
// timeout/abort, or a network failure. There is no automatic retry and no
// partial application; the backend applies a batch atomically or not at all.
type TransportError struct {
	Status string // "500 Internal Server Error", empty when the request never completed
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != "" {
		return "HTTP " + e.Status
	}
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
