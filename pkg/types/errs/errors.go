package errs

import "errors"

var (
	// ErrObjectNotFound is returned by storage when the object or its bucket does not exist.
	ErrObjectNotFound = errors.New("object not found")
	// ErrMalformedImage marks input that no codec can decode; the same bytes fail the same way every time.
	ErrMalformedImage = errors.New("malformed image")
	ErrRecordNotFound = errors.New("record not found")
	ErrUnknownBackend = errors.New("unknown notification backend")
)
