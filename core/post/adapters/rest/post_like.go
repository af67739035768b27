package rest

import (
	"context"
	"net/http"

	"photogram/core/post/domain"
	"photogram/modules/api/serde"
	"photogram/modules/auth"
	"photogram/modules/entity"
	"photogram/modules/middleware/problem"
)

func (a *PostAPI) LikePost(w http.ResponseWriter, r *http.Request) {
	a.like(w, r, a.app.LikePost)
}

func (a *PostAPI) UnlikePost(w http.ResponseWriter, r *http.Request) {
	a.like(w, r, a.app.UnlikePost)
}

func (a *PostAPI) like(
	w http.ResponseWriter,
	r *http.Request,
	apply func(context.Context, auth.Principal, entity.ID) (*domain.Post, error),
) {
	ctx := r.Context()
	actor, err := auth.Require(ctx)
	if err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}

	id, err := serde.PathID(r, "id")
	if err != nil {
		problem.Write(w, invalidID("id"))
		return
	}

	p, err := apply(ctx, actor, id)
	if err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}
	a.writePost(w, r, http.StatusOK, p)
}
