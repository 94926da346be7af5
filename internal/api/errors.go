package api

import "fmt"

// TransportError reports an unreachable backend or a non-2xx status. Status
// is zero when the request never produced a response.
type TransportError struct {
	URL    string
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api: %s: status %d: %s", e.URL, e.Status, e.Body)
	}
	return fmt.Sprintf("api: %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a 2xx response whose body could not be parsed.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("api: %s: decoding response: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
