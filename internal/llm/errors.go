package llm

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// TransientError indicates a failure worth retrying: rate limiting, server
// errors, network trouble.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient generation error: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError indicates a request the service will never accept, such as
// an invalid credential or a malformed request.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent generation error: %v", e.Err)
}

func (e *PermanentError) Unwrap() error { return e.Err }

// classifyError sorts a generation failure into the transient/permanent
// taxonomy. Anything unrecognized counts as transient; the retry budget is
// spent identically either way.
func classifyError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == http.StatusTooManyRequests || gerr.Code >= 500:
			return &TransientError{Err: err}
		case gerr.Code == http.StatusBadRequest,
			gerr.Code == http.StatusUnauthorized,
			gerr.Code == http.StatusForbidden:
			return &PermanentError{Err: err}
		}
	}
	return &TransientError{Err: err}
}
