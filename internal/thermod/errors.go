package thermod

import (
	"errors"
	"fmt"
)

// TransportError indicates the daemon could not be reached or did not answer
// in time. Callers retry after a backoff; it is never fatal.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("thermod: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DataError indicates the daemon answered with something the monitor cannot
// use (malformed body, unknown mode, unexpected status code).
type DataError struct {
	Op  string
	Err error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("thermod: %s: %v", e.Op, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsData reports whether err is a DataError.
func IsData(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}
