package rest

import (
	"log/slog"
	"net/http"
	"strings"

	"photogram/core/user/domain"
	"photogram/modules/api/serde"
	"photogram/modules/entity"
	"photogram/modules/etag"
	"photogram/modules/mapper"
	"photogram/modules/middleware/problem"
)

func (a *UserAPI) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	users, err := a.app.ListUsers(ctx)
	if err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}

	dtos, err := mapper.ToSlice[UserDto](ctx, a.mappers, users)
	if err != nil {
		slog.ErrorContext(ctx, "mapping failed", slog.Any("error", err))
		problem.Write(w, problem.Internal("server error"))
		return
	}
	serde.WriteJSON(w, http.StatusOK, dtos)
}

func (a *UserAPI) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := serde.PathID(r, "id")
	if err != nil {
		problem.Write(w, invalidID())
		return
	}

	u, err := a.app.GetUserByID(r.Context(), id)
	if err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}
	a.writeUser(w, r, http.StatusOK, u)
}

// FindUser looks a user up by the first of id, username or email present in the query.
func (a *UserAPI) FindUser(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := domain.FindCriteria{
		Username: strings.TrimSpace(q.Get("username")),
		Email:    strings.TrimSpace(q.Get("email")),
	}
	if raw := q.Get("id"); raw != "" {
		id, err := entity.ParseID(raw)
		if err != nil {
			problem.Write(w, invalidID())
			return
		}
		criteria.ID = id
	}

	u, err := a.app.FindUser(r.Context(), criteria)
	if err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}
	a.writeUser(w, r, http.StatusOK, u)
}

func (a *UserAPI) writeUser(w http.ResponseWriter, r *http.Request, status int, u *domain.User) {
	ctx := r.Context()
	dto, err := mapper.To[UserDto](ctx, a.mappers, *u)
	if err != nil {
		slog.ErrorContext(ctx, "mapping failed", slog.Any("error", err))
		problem.Write(w, problem.Internal("server error"))
		return
	}
	w.Header().Set("ETag", etag.ETag(u))
	serde.WriteJSON(w, status, dto)
}

func invalidID() *problem.Problem {
	return problem.BadRequest("invalid id", problem.WithInvalidParam("id", "invalid value"))
}
