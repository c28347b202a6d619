package store

import "errors"

// Membership and space operation errors. ErrAlreadyMember is benign: callers
// must treat it as a no-op, not a failure.
var (
	ErrNotFound      = errors.New("space not found")
	ErrSpaceClosed   = errors.New("space is no longer accepting members")
	ErrSpaceFull     = errors.New("space is full")
	ErrAlreadyMember = errors.New("user already joined this space")
	ErrUnauthorized  = errors.New("only the host may perform this operation")
	ErrValidation    = errors.New("invalid input")
)
