package llm

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrMissingCredential = errors.New("missing upstream credential")
	ErrNoContent         = errors.New("no content from model")
)

// UpstreamError is returned when the model API answers with a non-success status.
// Body holds the raw response text.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream error %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("upstream error %d: %s", e.StatusCode, e.Body)
}
