package registry

import (
	"errors"
	"fmt"
)

// ErrLookup wraps every failure to resolve something against the registry,
// as opposed to failures to parse text.
var ErrLookup = errors.New("registry lookup error")

// UnknownCodeError reports that an authority has no entry under a code. It
// unwraps to ErrLookup.
type UnknownCodeError struct {
	Authority string
	Code      string
}

func (e *UnknownCodeError) Error() string {
	if e.Authority == "" {
		return fmt.Sprintf("no authority has code %q", e.Code)
	}
	return fmt.Sprintf("unknown code %s:%s", e.Authority, e.Code)
}

func (e *UnknownCodeError) Unwrap() error { return ErrLookup }
