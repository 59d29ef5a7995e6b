package wkt

import "errors"

var (
	// ErrParse wraps every failure to read bracketed text.
	ErrParse = errors.New("parse error")
	// ErrFormat wraps every failure to express a construct under the
	// active convention.
	ErrFormat = errors.New("format error")
)
