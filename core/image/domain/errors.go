package domain

import "errors"

var (
	ErrImageNotFound   = errors.New("image not found")
	ErrInvalidData     = errors.New("invalid data provided for image operations")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrImageTooLarge   = errors.New("image exceeds the size limit")
	ErrUnhandled       = errors.New("unexpected error")
)
