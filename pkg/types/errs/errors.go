package errs

import "errors"

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrUnknownRole      = errors.New("unknown role")
	ErrUnknownOperation = errors.New("unknown operation")
)
