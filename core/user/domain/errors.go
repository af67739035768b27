package domain

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrDuplicateUser         = errors.New("user with the requested username or email already exists")
	ErrInvalidData           = errors.New("invalid data provided for user operations")
	ErrForbidden             = errors.New("operation not permitted for the caller")
	ErrBadCredentials        = errors.New("bad credentials")
	ErrEmailNotConfirmed     = errors.New("email not confirmed")
	ErrEmailAlreadyConfirmed = errors.New("email already confirmed")
	ErrAvatarNotFound        = errors.New("avatar not found")
	ErrPrecondition          = errors.New("user was modified concurrently")
	ErrUnhandled             = errors.New("unexpected error")
)

