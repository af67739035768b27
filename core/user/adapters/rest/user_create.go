package rest

import (
	"fmt"
	"log/slog"
	"net/http"

	"photogram/core/user/domain"
	"photogram/modules/api/serde"
	"photogram/modules/mapper"
	"photogram/modules/middleware/problem"
)

func (a *UserAPI) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body CreateUserDto
	if err := serde.ParseJsonBody(r.Body, &body); err != nil {
		problem.Write(w, problem.BadRequest("invalid body"))
		return
	}

	ctx := r.Context()
	draft, err := mapper.To[domain.User](ctx, a.mappers, UserDto{
		Username:  body.Username,
		Firstname: body.Firstname,
		Email:     body.Email,
		Bio:       body.Bio,
	})
	if err != nil {
		slog.ErrorContext(ctx, "mapping failed", slog.Any("error", err))
		problem.Write(w, problem.Internal("server error"))
		return
	}

	// the password never travels through UserDto
	u, err := a.app.CreateUser(ctx, domain.NewUser{
		Username:  draft.Username,
		Firstname: draft.Firstname,
		Email:     draft.Email,
		Password:  body.Password,
		Bio:       draft.Bio,
	})
	if err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/users/%d", u.ID))
	a.writeUser(w, r, http.StatusCreated, u)
}
