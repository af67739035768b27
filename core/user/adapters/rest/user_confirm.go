package rest

import (
	"net/http"

	"photogram/modules/api/serde"
	"photogram/modules/middleware/problem"
)

type ConfirmationDto struct {
	UserID    int64 `json:"userId"`
	Confirmed bool  `json:"confirmed"`
}

func (a *UserAPI) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		problem.Write(w, problem.BadRequest("missing token", problem.WithInvalidParam("token", "token is required")))
		return
	}

	c, err := a.app.ConfirmEmail(r.Context(), token)
	if err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}
	serde.WriteJSON(w, http.StatusOK, ConfirmationDto{UserID: int64(c.UserID), Confirmed: c.Confirmed})
}

// ResendConfirmation needs no caller: the mail only ever goes to the address
// on record.
func (a *UserAPI) ResendConfirmation(w http.ResponseWriter, r *http.Request) {
	id, err := serde.PathID(r, "id")
	if err != nil {
		problem.Write(w, invalidID())
		return
	}

	if err := a.app.ResendConfirmation(r.Context(), id); err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetPassword always answers 204 for a well-formed address so the endpoint
// cannot be used to probe for accounts.
func (a *UserAPI) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body PasswordResetDto
	if err := serde.ParseJsonBody(r.Body, &body); err != nil {
		problem.Write(w, problem.BadRequest("invalid body"))
		return
	}

	if err := a.app.ResetPassword(r.Context(), string(body.Email)); err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
