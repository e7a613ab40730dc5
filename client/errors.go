package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned by operations that require an
	// authenticated session.
	ErrNotAuthenticated = errors.New("client: not authenticated")

	// ErrTransient wraps network and timeout failures. The caller may
	// retry; the session store treats it as session loss.
	ErrTransient = errors.New("client: transient failure")
)

// APIError carries a server-reported failure. Message is the server's
// message verbatim, suitable for surfacing directly to the user.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}
