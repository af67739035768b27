package domain

import (
	"context"
	"log/slog"

	"photogram/modules/auth"
	"photogram/modules/entity"
)

func (app *Application) LikePost(ctx context.Context, actor auth.Principal, id entity.ID) (*Post, error) {
	return app.toggleLike(ctx, actor, id, app.writer.AddLike)
}

func (app *Application) UnlikePost(ctx context.Context, actor auth.Principal, id entity.ID) (*Post, error) {
	return app.toggleLike(ctx, actor, id, app.writer.RemoveLike)
}

func (app *Application) toggleLike(
	ctx context.Context,
	actor auth.Principal,
	id entity.ID,
	apply func(ctx context.Context, postID, userID entity.ID) error,
) (*Post, error) {
	if actor.UserID.IsNew() {
		return nil, ErrForbidden
	}
	if _, err := app.visiblePost(ctx, actor, id); err != nil {
		return nil, err
	}

	if err := apply(ctx, id, actor.UserID); err != nil {
		slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
		return nil, ErrUnhandled
	}
	return app.GetPost(ctx, actor, id)
}
