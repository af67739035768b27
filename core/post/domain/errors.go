package domain

import "errors"

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrInvalidData     = errors.New("invalid data provided for post operations")
	ErrInvalidCursor   = errors.New("invalid or expired cursor")
	ErrForbidden       = errors.New("operation not permitted for the caller")
	ErrPrecondition    = errors.New("post was modified concurrently")
	ErrUnhandled       = errors.New("unexpected error")
)
