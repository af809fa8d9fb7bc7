package refs

import "fmt"

// StaleError is returned by ValidateRef when the requested version is not
// the current one.
type StaleError struct {
	RequestedVersion uint32
	CurrentVersion   uint32
}

func (e *StaleError) Error() string {
	return fmt.Sprintf("stale ref: requested version %d, current version %d", e.RequestedVersion, e.CurrentVersion)
}

// NotFoundError is returned when a ref does not resolve within its
// (otherwise valid) snapshot version.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("ref %q not found in its snapshot", e.Ref)
}
