// Copyright 2025 Nhat-Nguyen Nguyen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"photogram/core/image/domain"
	"photogram/modules/api/serde"
	"photogram/modules/auth"
	"photogram/modules/middleware/problem"
)

// ImageAPI serves uploaded image bytes.
type ImageAPI struct {
	app     *domain.Application
	maxSize int64
}

type ImageCreatedDto struct {
	ID          int64  `json:"id"`
	ContentType string `json:"contentType"`
}

func NewImageAPI(app *domain.Application, maxSize int64) *ImageAPI {
	return &ImageAPI{app: app, maxSize: maxSize}
}

func (a *ImageAPI) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /images", a.UploadImage)
	mux.HandleFunc("GET /images/{id}", a.GetImage)
}

// UploadImage stores the multipart "file" field for the caller.
// Returns 201 with Location, 400 for a missing or unsupported file, 413 when too large.
func (a *ImageAPI) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := auth.Require(ctx)
	if err != nil {
		problem.Write(w, problem.Unauthorized(err.Error()))
		return
	}

	data, err := serde.ReadFormFile(w, r, "file", a.maxSize)
	if err != nil {
		problem.Write(w, ProblemFromUploadError(err))
		return
	}

	img, err := a.app.SaveImage(ctx, p.UserID, data)
	if err != nil {
		slog.DebugContext(ctx, "domain error", slog.Any("error", err))
		problem.Write(w, ProblemFromDomainError(err))
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/images/%d", img.ID))
	serde.WriteJSON(w, http.StatusCreated, ImageCreatedDto{ID: int64(img.ID), ContentType: img.ContentType})
}

func (a *ImageAPI) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := serde.PathID(r, "id")
	if err != nil {
		problem.Write(w, problem.BadRequest("invalid id", problem.WithInvalidParam("id", "invalid value")))
		return
	}

	img, err := a.app.GetImage(r.Context(), id)
	if err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	serde.WriteBlob(w, img.ContentType, img.Data)
}

// ProblemFromUploadError maps multipart read failures to problems.
func ProblemFromUploadError(err error) *problem.Problem {
	switch {
	case errors.Is(err, serde.ErrFileTooLarge):
		return problem.PayloadTooLarge("image exceeds the size limit")
	case errors.Is(err, serde.ErrMissingFile):
		return problem.BadRequest("missing file", problem.WithInvalidParam("file", "file is required"))
	default:
		return problem.BadRequest("invalid multipart body")
	}
}

// ProblemFromDomainError maps image sentinel errors to RFC7807 problems.
func ProblemFromDomainError(err error) *problem.Problem {
	switch {
	case errors.Is(err, domain.ErrImageNotFound):
		return problem.NotFound("image not found")
	case errors.Is(err, domain.ErrUnsupportedType):
		return problem.BadRequest("unsupported image type", problem.WithInvalidParam("file", err.Error()))
	case errors.Is(err, domain.ErrImageTooLarge):
		return problem.PayloadTooLarge("image exceeds the size limit")
	case errors.Is(err, domain.ErrInvalidData):
		return problem.BadRequest("validation failed")
	default:
		return problem.Internal("server error")
	}
}
