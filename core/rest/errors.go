package rest

import (
	"errors"
	"fmt"
	"net/http"
)

// RemoteError is a failed call to an external system.
type RemoteError struct {
	System   string
	Method   string
	Endpoint string
	// Status is the HTTP status, 0 if the request never got a response.
	Status int
	Body   string
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s %s: %v", e.System, e.Method, e.Endpoint, e.Err)
	}
	body := e.Body
	if len(body) > 300 {
		body = body[:300] + "..."
	}
	return fmt.Sprintf("%s: %s %s: status %d: %s", e.System, e.Method, e.Endpoint, e.Status, body)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a RemoteError with status 404.
func IsNotFound(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Status == http.StatusNotFound
}
