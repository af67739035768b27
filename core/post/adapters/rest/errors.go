package rest

import (
	"context"
	"errors"
	"log/slog"

	"photogram/core/post/domain"
	userdomain "photogram/core/user/domain"
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
	case errors.Is(err, domain.ErrInvalidCursor):
		return problem.BadRequest("invalid cursor", problem.WithInvalidParam("cursor", "invalid or expired"))
	case errors.Is(err, domain.ErrInvalidData):
		return problem.BadRequest("invalid post data")
	case errors.Is(err, auth.ErrUnauthenticated):
		return problem.Unauthorized("authentication required")
	case errors.Is(err, domain.ErrForbidden):
		return problem.Forbidden("not allowed to modify this post")
	case errors.Is(err, domain.ErrPostNotFound):
		return problem.NotFound("post not found")
	case errors.Is(err, domain.ErrCommentNotFound):
		return problem.NotFound("comment not found")
	case errors.Is(err, domain.ErrPrecondition):
		return problem.PreconditionFailed("post was modified concurrently")
	default:
		return problem.Internal("server error")
	}
}

// mappingProblem reports a failed DTO -> entity conversion. A missing
// referenced user is a 404; anything else is a mapper defect.
func mappingProblem(ctx context.Context, err error) *problem.Problem {
	if errors.Is(err, userdomain.ErrUserNotFound) {
		return problem.NotFound("user not found")
	}
	slog.ErrorContext(ctx, "mapping failed", slog.Any("error", err))
	return problem.Internal("server error")
}

func invalidID(name string) *problem.Problem {
	return problem.BadRequest("invalid "+name, problem.WithInvalidParam(name, "invalid value"))
}
