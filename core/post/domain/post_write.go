package domain

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	imagedomain "photogram/core/image/domain"
	"photogram/modules/auth"
	"photogram/modules/entity"
	"photogram/modules/validate"
)

func (app *Application) CreatePost(ctx context.Context, actor auth.Principal, in NewPost) (*Post, error) {
	if actor.UserID.IsNew() {
		return nil, ErrForbidden
	}
	in.Caption = strings.TrimSpace(in.Caption)
	in.Location = strings.TrimSpace(in.Location)
	if in.Visibility == "" {
		in.Visibility = Public
	}
	if err := validate.Struct(in, ErrInvalidData); err != nil {
		return nil, err
	}

	img, err := app.images.GetImage(ctx, in.ImageID)
	if err != nil {
		if errors.Is(err, imagedomain.ErrImageNotFound) {
			return nil, validate.Invalid(ErrInvalidData, "imageId", "image not found")
		}
		slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
		return nil, ErrUnhandled
	}
	if img.OwnerID != actor.UserID {
		return nil, validate.Invalid(ErrInvalidData, "imageId", "image belongs to another user")
	}

	p, err := app.writer.CreatePost(ctx, Post{
		UserID:     actor.UserID,
		Caption:    in.Caption,
		Location:   in.Location,
		ImageID:    in.ImageID,
		Visibility: in.Visibility,
	})
	if err != nil {
		slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
		return nil, ErrUnhandled
	}
	p.Comments = []Comment{}

	slog.DebugContext(ctx, "created post", slog.Int64("id", int64(p.ID)), slog.String("by", actor.Username))
	return p, nil
}

// UpdatePost is reserved to the author.
func (app *Application) UpdatePost(ctx context.Context, actor auth.Principal, id entity.ID, changes PostChanges) (*Post, error) {
	if changes.Empty() {
		return nil, ErrInvalidData
	}
	trim(changes.Caption)
	trim(changes.Location)
	if err := validate.Struct(changes, ErrInvalidData); err != nil {
		return nil, err
	}

	p, err := app.visiblePost(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	if changes.ExpectedVersion != 0 && changes.ExpectedVersion != p.Version {
		return nil, ErrPrecondition
	}

	if changes.Caption != nil {
		p.Caption = *changes.Caption
	}
	if changes.Location != nil {
		p.Location = *changes.Location
	}
	if changes.Visibility != nil {
		p.Visibility = *changes.Visibility
	}

	updated, err := app.writer.UpdatePost(ctx, *p)
	if err != nil {
		switch {
		case errors.Is(err, ErrPrecondition), errors.Is(err, ErrPostNotFound):
			return nil, err
		default:
			slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
			return nil, ErrUnhandled
		}
	}

	updated.Likes = p.Likes

	posts := []Post{*updated}
	if err := app.attachComments(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// DeletePost is allowed to the author and to staff.
func (app *Application) DeletePost(ctx context.Context, actor auth.Principal, id entity.ID) error {
	p, err := app.visiblePost(ctx, actor, id)
	if err != nil {
		return err
	}
	if p.UserID != actor.UserID && !isStaff(actor) {
		return ErrForbidden
	}

	if err := app.writer.DeletePost(ctx, id); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return ErrPostNotFound
		}
		slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
		return ErrUnhandled
	}
	slog.InfoContext(ctx, "deleted post", slog.Int64("id", int64(id)), slog.String("by", actor.Username))
	return nil
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
