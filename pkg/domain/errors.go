package domain

import "fmt"

// NetworkError reports a transport failure (including timeout) while
// talking to the feed or the persistence sink.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error for %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RenderError reports a navigation, timeout or DOM-read failure for one
// article. It carries the offending URL so batch callers can log and
// continue with the remaining items.
type RenderError struct {
	URL string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render error for %s: %v", e.URL, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// ValidationError reports missing or malformed request input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// SinkError reports a non-success result from the persistence sink.
// Already-computed events are still returned to the caller when this
// occurs; only the saved count is lost.
type SinkError struct {
	Backend string
	Err     error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("%s sink error: %v", e.Backend, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }
