package domain

import "errors"

var (
	ErrRoleNotFound = errors.New("role not found")
	ErrInvalidData  = errors.New("invalid data provided for role operations")
	ErrUnhandled    = errors.New("unexpected error")
)
