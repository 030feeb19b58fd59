package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAttribute = errors.New("hotel attribute missing")
	ErrMalformedRow     = errors.New("malformed row")
	ErrInvalidFilter    = errors.New("invalid filter")
)

// FaultError aborts a whole listing call. It records which hotel and which
// evaluation stage failed.
type FaultError struct {
	Hotel int64
	Stage string
	Err   error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("hotel %d: %s: %v", e.Hotel, e.Stage, e.Err)
}

func (e *FaultError) Unwrap() error { return e.Err }
