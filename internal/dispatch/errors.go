package dispatch

import "fmt"

// UnknownStrategyError reports an explicit strategy name outside the
// recognized set.
type UnknownStrategyError struct {
	Name string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("dispatch: unknown strategy %q", e.Name)
}

// BackendUnavailableError reports an explicitly requested kernel whose
// backend failed to initialize. Only explicit requests surface it; auto
// always falls back instead.
type BackendUnavailableError struct {
	Backend string
	Err     error
}

func (e *BackendUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dispatch: backend %s unavailable: %v", e.Backend, e.Err)
	}
	return fmt.Sprintf("dispatch: backend %s unavailable", e.Backend)
}

func (e *BackendUnavailableError) Unwrap() error { return e.Err }
