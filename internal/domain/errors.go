package domain

import "fmt"

// RemoteAPIError reports a response whose status field was not "OK". It is
// fatal: the run aborts and no document is written.
type RemoteAPIError struct {
	URL    string
	Status string
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("unexpected API status %q from %s", e.Status, e.URL)
}

// TransportError reports a network-level failure or a non-2xx HTTP response.
// StatusCode is zero when the request never got a response.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("request to %s failed: HTTP %d", e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
