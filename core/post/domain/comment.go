package domain

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"photogram/modules/auth"
	"photogram/modules/entity"
	"photogram/modules/validate"
)

func (app *Application) ListComments(ctx context.Context, viewer auth.Principal, postID entity.ID) ([]Comment, error) {
	if _, err := app.visiblePost(ctx, viewer, postID); err != nil {
		return nil, err
	}

	byPost, err := app.reader.ListComments(ctx, postID)
	if err != nil {
		slog.ErrorContext(ctx, "persistence error", slog.Any("error", err))
		return nil, ErrUnhandled
	}
	if comments := byPost[postID]; comments != nil {
		return comments, nil
	}
	return []Comment{}, nil
}

func (app *Application) AddComment(ctx context.Context, actor auth.Principal, postID entity.ID, in NewComment) (*Comment, error) {
	if actor.UserID.IsNew() {
		return nil, ErrForbidden
	}
	in.Content = strings.TrimSpace(in.Content)
	if err := validate.Struct(in, ErrInvalidData); err != nil {
		return nil, err
	}
	if _, err := app.visiblePost(ctx, actor, postID); err != nil {
		return nil, err
	}

	c, err := app.writer.CreateComment(ctx, Comment{PostID: postID, UserID: actor.UserID, Content: in.Content})
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
		return nil, ErrUnhandled
	}
	return c, nil
}

// DeleteComment is allowed to the comment author and to staff.
func (app *Application) DeleteComment(ctx context.Context, actor auth.Principal, postID, commentID entity.ID) error {
	if commentID.IsNew() {
		return ErrInvalidData
	}
	if _, err := app.visiblePost(ctx, actor, postID); err != nil {
		return err
	}

	c, err := app.reader.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			return ErrCommentNotFound
		}
		slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
		return ErrUnhandled
	}
	if c.PostID != postID {
		return ErrCommentNotFound
	}
	if c.UserID != actor.UserID && !isStaff(actor) {
		return ErrForbidden
	}

	if err := app.writer.DeleteComment(ctx, commentID); err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			return ErrCommentNotFound
		}
		slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
		return ErrUnhandled
	}
	return nil
}
