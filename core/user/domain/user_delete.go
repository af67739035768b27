package domain

import (
	"context"
	"errors"
	"log/slog"

	"photogram/modules/auth"
	"photogram/modules/entity"
)

// DeleteUser removes the account and, through cascading keys, its posts,
// comments, likes, images and confirmation.
func (app *Application) DeleteUser(ctx context.Context, actor auth.Principal, id entity.ID) error {
	if id.IsNew() {
		return ErrInvalidData
	}
	if !canManage(actor, id) {
		return ErrForbidden
	}

	err := app.writer.DeleteUser(ctx, id)
	if err == nil {
		slog.InfoContext(ctx, "deleted user", slog.Int64("id", int64(id)), slog.String("by", actor.Username))
		return nil
	}
	if errors.Is(err, ErrUserNotFound) {
		return ErrUserNotFound
	}
	slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
	return ErrUnhandled
}
