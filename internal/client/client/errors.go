package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable wraps transport failures: the call could not complete.
	ErrUnavailable = errors.New("backup service unavailable")
	// ErrMalformedResponse marks a success response that lacks the expected shape.
	ErrMalformedResponse = errors.New("malformed response from backup service")
)

// RemoteError is a completed call with a non-success status. Message is the
// service-supplied "error" field and may be empty.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backup service returned %d %s", e.Status, http.StatusText(e.Status))
}

// RemoteMessage returns the service-supplied message carried by err, if any.
func RemoteMessage(err error) (string, bool) {
	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message, true
	}
	return "", false
}
