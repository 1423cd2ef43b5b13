package domain

import "errors"

var (
	// ErrInvalidIdentity is returned for malformed public keys.
	ErrInvalidIdentity = errors.New("invalid identity")
	// ErrMathOverflow is returned when an amount or counter leaves the uint64 domain.
	ErrMathOverflow = errors.New("math overflow")
	// ErrRecordExists is returned by repositories when the derived slot is taken.
	ErrRecordExists = errors.New("record already exists")
)
