package projstring

import "errors"

var (
	// ErrParse wraps every failure to read an operation string.
	ErrParse = errors.New("parse error")
	// ErrFormat wraps every failure to express a pipeline under the active
	// convention.
	ErrFormat = errors.New("format error")
)
