package rest

import (
	"log/slog"
	"net/http"

	"photogram/modules/api/serde"
	"photogram/modules/auth"
	"photogram/modules/middleware/problem"
)

// Login answers 204 with the bearer token in the Authorization header.
func (a *UserAPI) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body LoginDto
	if err := serde.ParseJsonBody(r.Body, &body); err != nil {
		problem.Write(w, problem.BadRequest("invalid body"))
		return
	}

	u, err := a.app.Authenticate(ctx, body.Username, body.Password)
	if err != nil {
		slog.DebugContext(ctx, "login refused", slog.String("username", body.Username), slog.Any("error", err))
		problem.Write(w, ProblemFromDomainError(err))
		return
	}

	token, err := a.tokens.Issue(auth.Principal{UserID: u.ID, Username: u.Username, Roles: u.RoleNames()})
	if err != nil {
		slog.ErrorContext(ctx, "token not issued", slog.Any("error", err))
		problem.Write(w, problem.Internal("server error"))
		return
	}

	w.Header().Set(auth.HeaderName, auth.TokenPrefix+token)
	w.WriteHeader(http.StatusNoContent)
}
