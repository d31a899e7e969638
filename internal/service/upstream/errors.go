package upstream

import "fmt"

// StatusError is a non-2xx HTTP response from the prediction service. The
// raw body is kept so exhaustion can pass the upstream's own error through.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Code, e.Body)
}

// TransportError is a network-level failure that never produced an HTTP
// response: refused or reset connection, timeout, DNS failure. Kept
// distinct from StatusError so exhaustion maps it to 503, not 500.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UnavailableError means the retry budget was exhausted. It wraps the last
// underlying failure, which may itself be a *StatusError or a
// *TransportError.
type UnavailableError struct {
	Attempts int
	Last     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("upstream unavailable after %d attempts: %v", e.Attempts, e.Last)
}

func (e *UnavailableError) Unwrap() error {
	return e.Last
}
