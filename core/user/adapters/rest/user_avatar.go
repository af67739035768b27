package rest

import (
	"net/http"

	imagerest "photogram/core/image/adapters/rest"
	"photogram/modules/api/serde"
	"photogram/modules/auth"
	"photogram/modules/middleware/problem"
)

func (a *UserAPI) GetAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := serde.PathID(r, "id")
	if err != nil {
		problem.Write(w, invalidID())
		return
	}

	img, err := a.app.GetAvatar(r.Context(), id)
	if err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	serde.WriteBlob(w, img.ContentType, img.Data)
}

func (a *UserAPI) UploadAvatar(w http.ResponseWriter, r *http.Request) {
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

	data, err := serde.ReadFormFile(w, r, "file", a.maxAvatarSize)
	if err != nil {
		problem.Write(w, imagerest.ProblemFromUploadError(err))
		return
	}

	u, err := a.app.SaveAvatar(ctx, actor, id, data)
	if err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}
	a.writeUser(w, r, http.StatusOK, u)
}
