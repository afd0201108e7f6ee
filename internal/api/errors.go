package api

import "fmt"

// genericDetail is shown when a non-2xx response carries no parseable body.
const genericDetail = "unknown server error"

// RemoteError is returned when the service answered with a non-success
// status. Message holds the server's "detail" field when one was parseable.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// TransportError is returned when a request failed before any status code
// was obtained, or when a success body could not be decoded.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
