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
	"log/slog"
	"net/http"
	"strconv"

	"photogram/core/post/domain"
	"photogram/modules/api/serde"
	"photogram/modules/auth"
	"photogram/modules/etag"
	"photogram/modules/mapper"
	"photogram/modules/middleware/problem"
)

// viewer is the caller, or the zero principal for anonymous requests.
func viewer(r *http.Request) auth.Principal {
	p, _ := auth.FromContext(r.Context())
	return p
}

// ListPosts serves the feed. The next cursor is opaque and short-lived.
func (a *PostAPI) ListPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			problem.Write(w, problem.BadRequest("invalid limit", problem.WithInvalidParam("limit", "must be a non-negative integer")))
			return
		}
		limit = n
	}

	page, err := a.app.ListPosts(ctx, viewer(r), q.Get("cursor"), limit)
	if err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}

	dtos, err := mapper.ToSlice[PostDto](ctx, a.mappers, page.Posts)
	if err != nil {
		slog.ErrorContext(ctx, "mapping failed", slog.Any("error", err))
		problem.Write(w, problem.Internal("server error"))
		return
	}
	serde.WriteJSON(w, http.StatusOK, PageDto{Data: dtos, Next: page.Next})
}

func (a *PostAPI) ListUserPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	author, err := serde.PathID(r, "id")
	if err != nil {
		problem.Write(w, invalidID("id"))
		return
	}

	posts, err := a.app.ListUserPosts(ctx, viewer(r), author)
	if err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}

	dtos, err := mapper.ToSlice[PostDto](ctx, a.mappers, posts)
	if err != nil {
		slog.ErrorContext(ctx, "mapping failed", slog.Any("error", err))
		problem.Write(w, problem.Internal("server error"))
		return
	}
	serde.WriteJSON(w, http.StatusOK, dtos)
}

func (a *PostAPI) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := serde.PathID(r, "id")
	if err != nil {
		problem.Write(w, invalidID("id"))
		return
	}

	p, err := a.app.GetPost(r.Context(), viewer(r), id)
	if err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}
	a.writePost(w, r, http.StatusOK, p)
}

func (a *PostAPI) writePost(w http.ResponseWriter, r *http.Request, status int, p *domain.Post) {
	ctx := r.Context()
	dto, err := mapper.To[PostDto](ctx, a.mappers, *p)
	if err != nil {
		slog.ErrorContext(ctx, "mapping failed", slog.Any("error", err))
		problem.Write(w, problem.Internal("server error"))
		return
	}
	w.Header().Set("ETag", etag.ETag(p))
	serde.WriteJSON(w, status, dto)
}
