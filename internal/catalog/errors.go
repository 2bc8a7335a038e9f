package catalog

import (
	"errors"
	"fmt"
)

// ErrAuthRequired is returned when an operation needs a valid session and
// none is available, or the service rejected the token.
var ErrAuthRequired = errors.New("authentication required")

// FetchError reports a failed catalog request. Already-loaded state is
// never cleared because of one; callers display the message and retry.
type FetchError struct {
	Operation string
	Status    int
	Err       error
}

func (e *FetchError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Operation, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
