package rest

import (
	"errors"
	"fmt"
	"net/http"

	"photogram/core/post/domain"
	"photogram/modules/api/serde"
	"photogram/modules/auth"
	"photogram/modules/etag"
	"photogram/modules/mapper"
	"photogram/modules/middleware/problem"

	"github.com/oapi-codegen/nullable"
)

func (a *PostAPI) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, err := auth.Require(ctx)
	if err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}

	var body CreatePostDto
	if err := serde.ParseJsonBody(r.Body, &body); err != nil {
		problem.Write(w, problem.BadRequest("invalid body"))
		return
	}

	// the author reference is resolved by the post mapper
	draft, err := mapper.To[domain.Post](ctx, a.mappers, PostDto{
		UserID:     int64(actor.UserID),
		Caption:    body.Caption,
		Location:   body.Location,
		ImageID:    body.ImageID,
		Visibility: body.Visibility,
	})
	if err != nil {
		problem.Write(w, mappingProblem(ctx, err))
		return
	}

	p, err := a.app.CreatePost(ctx, actor, domain.NewPost{
		Caption:    draft.Caption,
		Location:   draft.Location,
		ImageID:    draft.ImageID,
		Visibility: draft.Visibility,
	})
	if err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/posts/%d", p.ID))
	a.writePost(w, r, http.StatusCreated, p)
}

// UpdatePost honours If-Match; a stale tag yields 412 with the current ETag.
func (a *PostAPI) UpdatePost(w http.ResponseWriter, r *http.Request) {
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

	var body UpdatePostDto
	if err := serde.ParseJsonBody(r.Body, &body); err != nil {
		problem.Write(w, problem.BadRequest("invalid body"))
		return
	}

	changes, prob := changesFromDto(body)
	if prob != nil {
		problem.Write(w, prob)
		return
	}

	if ifMatch := r.Header.Get("If-Match"); ifMatch != "" {
		v, err := etag.ParseVersion(ifMatch)
		if err != nil {
			problem.Write(w, problem.BadRequest("invalid etag format", problem.WithInvalidParam("If-Match", "invalid etag format")))
			return
		}
		changes.ExpectedVersion = v
	}

	updated, err := a.app.UpdatePost(ctx, actor, id, changes)
	if err != nil {
		if errors.Is(err, domain.ErrPrecondition) {
			if latest, fetchErr := a.app.GetPost(ctx, actor, id); fetchErr == nil {
				w.Header().Set("ETag", etag.ETag(latest))
			}
		}
		problem.Write(w, ProblemFromDomainError(err))
		return
	}
	a.writePost(w, r, http.StatusOK, updated)
}

func changesFromDto(body UpdatePostDto) (domain.PostChanges, *problem.Problem) {
	var changes domain.PostChanges

	changes.Caption = clearable(body.Caption)
	changes.Location = clearable(body.Location)

	if body.Visibility.IsSpecified() {
		v, err := body.Visibility.Get()
		if err != nil {
			return changes, problem.BadRequest("validation failed", problem.WithInvalidParam("visibility", "must not be null"))
		}
		vis := domain.Visibility(v)
		changes.Visibility = &vis
	}
	return changes, nil
}

// clearable treats null as the empty string.
func clearable(n nullable.Nullable[string]) *string {
	if !n.IsSpecified() {
		return nil
	}
	v := ""
	if !n.IsNull() {
		v = n.MustGet()
	}
	return &v
}

func (a *PostAPI) DeletePost(w http.ResponseWriter, r *http.Request) {
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

	if err := a.app.DeletePost(ctx, actor, id); err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}
	serde.WriteJSON(w, http.StatusOK, DeletedDto{ID: int64(id)})
}
