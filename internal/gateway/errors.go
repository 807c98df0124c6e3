package gateway

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that the target id does not exist remotely.
var ErrNotFound = errors.New("not found")

// RemoteError reports a transport failure or a server response with no
// more specific mapping. Status is 0 when the request never completed.
type RemoteError struct {
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote: %v", e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("remote: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("remote: status %d", e.Status)
}

func (e *RemoteError) Unwrap() error { return e.Err }
