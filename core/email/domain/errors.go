package domain

import "errors"

var (
	ErrConfirmationNotFound = errors.New("email confirmation not found")
	ErrConfirmationExpired  = errors.New("email confirmation token expired")
	ErrInvalidData          = errors.New("invalid data provided for email operations")
	ErrQueueClosed          = errors.New("mail queue closed")
	ErrQueueFull            = errors.New("mail queue full")
	ErrUnhandled            = errors.New("unexpected error")
)
