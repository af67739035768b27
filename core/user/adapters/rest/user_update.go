package rest

import (
	"errors"
	"net/http"

	"photogram/core/user/domain"
	"photogram/modules/api/serde"
	"photogram/modules/auth"
	"photogram/modules/entity"
	"photogram/modules/etag"
	"photogram/modules/middleware/problem"

	"github.com/oapi-codegen/nullable"
	"github.com/oapi-codegen/runtime/types"
)

// UpdateUser applies a partial update. The body must name the user by id or
// email; an optional If-Match header pins the expected version.
func (a *UserAPI) UpdateUser(w http.ResponseWriter, r *http.Request) {
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

	var body UpdateUserDto
	if err := serde.ParseJsonBody(r.Body, &body); err != nil {
		problem.Write(w, problem.BadRequest("invalid body"))
		return
	}

	changes, prob := changesFromDto(id, body)
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

	updated, err := a.app.UpdateUser(ctx, actor, id, changes)
	if err != nil {
		if errors.Is(err, domain.ErrPrecondition) {
			// hand the client the current tag so it can retry
			if latest, fetchErr := a.app.GetUserByID(ctx, id); fetchErr == nil {
				w.Header().Set("ETag", etag.ETag(latest))
			}
		}
		problem.Write(w, ProblemFromDomainError(err))
		return
	}
	a.writeUser(w, r, http.StatusOK, updated)
}

func changesFromDto(id entity.ID, body UpdateUserDto) (domain.UserChanges, *problem.Problem) {
	var changes domain.UserChanges

	if !body.ID.IsSpecified() && !body.Email.IsSpecified() {
		return changes, problem.BadRequest("id or email is required",
			problem.WithInvalidParam("id", "id or email is required"))
	}
	if body.ID.IsSpecified() {
		bodyID, err := body.ID.Get()
		if err != nil || bodyID != int64(id) {
			return changes, problem.BadRequest("id does not match the path",
				problem.WithInvalidParam("id", "must match the path id"))
		}
	}

	var prob *problem.Problem
	required := func(name string, field nullable.Nullable[string]) *string {
		if !field.IsSpecified() || prob != nil {
			return nil
		}
		v, err := field.Get()
		if err != nil {
			prob = problem.BadRequest("validation failed", problem.WithInvalidParam(name, "must not be null"))
			return nil
		}
		return &v
	}

	changes.Username = required("username", body.Username)
	changes.Firstname = required("firstname", body.Firstname)
	changes.Password = required("password", body.Password)
	changes.Email = required("email", emailField(body.Email))
	if prob != nil {
		return changes, prob
	}

	if body.Bio.IsSpecified() {
		bio := ""
		if !body.Bio.IsNull() {
			bio = body.Bio.MustGet()
		}
		changes.Bio = &bio
	}
	return changes, nil
}

func emailField(n nullable.Nullable[types.Email]) nullable.Nullable[string] {
	switch {
	case !n.IsSpecified():
		return nullable.Nullable[string]{}
	case n.IsNull():
		return nullable.NewNullNullable[string]()
	default:
		return nullable.NewNullableWithValue(string(n.MustGet()))
	}
}
