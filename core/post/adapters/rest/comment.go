package rest

import (
	"fmt"
	"log/slog"
	"net/http"

	"photogram/core/post/domain"
	"photogram/modules/api/serde"
	"photogram/modules/auth"
	"photogram/modules/mapper"
	"photogram/modules/middleware/problem"
)

func (a *PostAPI) ListComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postID, err := serde.PathID(r, "id")
	if err != nil {
		problem.Write(w, invalidID("id"))
		return
	}

	comments, err := a.app.ListComments(ctx, viewer(r), postID)
	if err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}

	dtos, err := mapper.ToSlice[CommentDto](ctx, a.mappers, comments)
	if err != nil {
		slog.ErrorContext(ctx, "mapping failed", slog.Any("error", err))
		problem.Write(w, problem.Internal("server error"))
		return
	}
	serde.WriteJSON(w, http.StatusOK, dtos)
}

func (a *PostAPI) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, err := auth.Require(ctx)
	if err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}

	postID, err := serde.PathID(r, "id")
	if err != nil {
		problem.Write(w, invalidID("id"))
		return
	}

	var body CreateCommentDto
	if err := serde.ParseJsonBody(r.Body, &body); err != nil {
		problem.Write(w, problem.BadRequest("invalid body"))
		return
	}

	draft, err := mapper.To[domain.Comment](ctx, a.mappers, CommentDto{
		PostID:  int64(postID),
		UserID:  int64(actor.UserID),
		Content: body.Content,
	})
	if err != nil {
		problem.Write(w, mappingProblem(ctx, err))
		return
	}

	c, err := a.app.AddComment(ctx, actor, draft.PostID, domain.NewComment{Content: draft.Content})
	if err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}

	dto, err := mapper.To[CommentDto](ctx, a.mappers, *c)
	if err != nil {
		slog.ErrorContext(ctx, "mapping failed", slog.Any("error", err))
		problem.Write(w, problem.Internal("server error"))
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/posts/%d/comments/%d", postID, c.ID))
	serde.WriteJSON(w, http.StatusCreated, dto)
}

func (a *PostAPI) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, err := auth.Require(ctx)
	if err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}

	postID, err := serde.PathID(r, "id")
	if err != nil {
		problem.Write(w, invalidID("id"))
		return
	}
	commentID, err := serde.PathID(r, "commentId")
	if err != nil {
		problem.Write(w, invalidID("commentId"))
		return
	}

	if err := a.app.DeleteComment(ctx, actor, postID, commentID); err != nil {
		problem.Write(w, ProblemFromDomainError(err))
		return
	}
	serde.WriteJSON(w, http.StatusOK, DeletedDto{ID: int64(commentID)})
}
