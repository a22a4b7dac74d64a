package querycache

import (
	"fmt"
	"io"
	"net/http"
)

// StatusError reports a non-success HTTP status from a cached fetch.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Code, e.URL)
}

func readAll(resp *http.Response) ([]byte, error) {
	return io.ReadAll(resp.Body)
}
