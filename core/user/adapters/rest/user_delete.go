package rest

import (
	"net/http"

	"photogram/modules/api/serde"
	"photogram/modules/auth"
	"photogram/modules/middleware/problem"
)

type DeletedDto struct {
	ID int64 `json:"id"`
}

func (a *UserAPI) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, err := auth.Require(ctx)
	if err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}

	id, err := serde.PathID(r, "id")
	if err != nil {
		problem.Write(w, invalidID())
		return
	}

	if err := a.app.DeleteUser(ctx, actor, id); err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}
	serde.WriteJSON(w, http.StatusOK, DeletedDto{ID: int64(id)})
}
