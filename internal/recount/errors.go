package recount

import "fmt"

// ValidationError reports why a tool definition was rejected. Registration
// is all-or-nothing: a single ValidationError aborts the whole batch.
type ValidationError struct {
	Key    string
	Reason string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid recount tool set: %s", e.Reason)
	}
	return fmt.Sprintf("invalid recount tool %q: %s", e.Key, e.Reason)
}
