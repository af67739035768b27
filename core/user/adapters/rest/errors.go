package rest

import (
	"errors"

	emaildomain "photogram/core/email/domain"
	imagerest "photogram/core/image/adapters/rest"
	imagedomain "photogram/core/image/domain"
	"photogram/core/user/domain"
	"photogram/modules/auth"
	"photogram/modules/middleware/problem"
	"photogram/modules/validate"
)

func ProblemFromDomainError(err error) *problem.Problem {
	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		opts := make([]problem.Option, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			opts = append(opts, problem.WithInvalidParam(f.Field, f.Reason))
		}
		return problem.BadRequest("validation failed", opts...)
	case errors.Is(err, domain.ErrInvalidData):
		return problem.BadRequest("invalid user data")
	case errors.Is(err, auth.ErrUnauthenticated):
		return problem.Unauthorized("authentication required")
	case errors.Is(err, domain.ErrBadCredentials):
		return problem.Unauthorized("bad credentials")
	case errors.Is(err, domain.ErrEmailNotConfirmed):
		return problem.Forbidden("email not confirmed")
	case errors.Is(err, domain.ErrForbidden):
		return problem.Forbidden("not allowed to modify this user")
	case errors.Is(err, domain.ErrUserNotFound):
		return problem.NotFound("user not found")
	case errors.Is(err, domain.ErrAvatarNotFound):
		return problem.NotFound("avatar not found")
	case errors.Is(err, domain.ErrDuplicateUser):
		return problem.Conflict("username or email already taken")
	case errors.Is(err, domain.ErrEmailAlreadyConfirmed):
		return problem.Conflict("email already confirmed")
	case errors.Is(err, domain.ErrPrecondition):
		return problem.PreconditionFailed("user was modified concurrently")
	case errors.Is(err, emaildomain.ErrInvalidData):
		return problem.BadRequest("invalid token", problem.WithInvalidParam("token", "invalid value"))
	case errors.Is(err, emaildomain.ErrConfirmationExpired):
		return problem.BadRequest("confirmation expired", problem.WithInvalidParam("token", "expired"))
	case errors.Is(err, emaildomain.ErrConfirmationNotFound):
		return problem.NotFound("confirmation not found")
	case errors.Is(err, imagedomain.ErrInvalidData),
		errors.Is(err, imagedomain.ErrUnsupportedType),
		errors.Is(err, imagedomain.ErrImageTooLarge):
		return imagerest.ProblemFromDomainError(err)
	default:
		return problem.Internal("server error")
	}
}
