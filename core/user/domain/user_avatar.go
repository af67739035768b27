package domain

import (
	"context"
	"errors"
	"log/slog"

	imagedomain "photogram/core/image/domain"
	"photogram/modules/auth"
	"photogram/modules/entity"
)

func (app *Application) GetAvatar(ctx context.Context, id entity.ID) (*imagedomain.Image, error) {
	u, err := app.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.AvatarImageID.IsNew() {
		return nil, ErrAvatarNotFound
	}

	img, err := app.images.GetImage(ctx, u.AvatarImageID)
	if errors.Is(err, imagedomain.ErrImageNotFound) {
		return nil, ErrAvatarNotFound
	}
	return img, err
}

// SaveAvatar stores data as an image owned by the account and makes it the
// account's avatar. Image validation errors are returned unchanged.
func (app *Application) SaveAvatar(ctx context.Context, actor auth.Principal, id entity.ID, data []byte) (*User, error) {
	u, err := app.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, u.ID) {
		return nil, ErrForbidden
	}

	img, err := app.images.SaveImage(ctx, u.ID, data)
	if err != nil {
		return nil, err
	}
	if err := app.writer.SetAvatar(ctx, u.ID, img.ID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
		return nil, ErrUnhandled
	}
	u.AvatarImageID = img.ID
	return u, nil
}
