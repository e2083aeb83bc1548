package plugin

import (
	"fmt"
	"strings"
)

// UnknownPluginError is returned when a requested id resolves to nothing.
type UnknownPluginError struct {
	ID string
}

func (e *UnknownPluginError) Error() string {
	return fmt.Sprintf("unknown plugin %q", e.ID)
}

// CannotRunError is returned when a backend's capability probe fails and it
// names no fallback.
type CannotRunError struct {
	ID     string
	Reason string
}

func (e *CannotRunError) Error() string {
	return fmt.Sprintf("plugin %q cannot run: %s", e.ID, e.Reason)
}

// CircularFallbackError is returned when a fallback chain revisits an id
// already probed for the same request.
type CircularFallbackError struct {
	Chain []string
}

func (e *CircularFallbackError) Error() string {
	return fmt.Sprintf("circular plugin fallback: %s", strings.Join(e.Chain, " -> "))
}
