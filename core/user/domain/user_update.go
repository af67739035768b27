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

// UpdateUser applies a partial update on behalf of actor, who must own the
// account or be an administrator. Changing the email address resets its
// confirmation and mails a new token.
func (app *Application) UpdateUser(ctx context.Context, actor auth.Principal, id entity.ID, changes UserChanges) (*User, error) {
	if id.IsNew() || changes.Empty() {
		return nil, ErrInvalidData
	}
	trim(changes.Username)
	trim(changes.Firstname)
	trim(changes.Email)
	if err := validate.Struct(changes, ErrInvalidData); err != nil {
		return nil, err
	}

	u, err := app.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, u.ID) {
		return nil, ErrForbidden
	}
	if changes.ExpectedVersion != 0 && changes.ExpectedVersion != u.Version {
		return nil, ErrPrecondition
	}

	emailChanged := changes.Email != nil && !strings.EqualFold(*changes.Email, u.Email)
	if changes.Username != nil {
		u.Username = *changes.Username
	}
	if changes.Firstname != nil {
		u.Firstname = *changes.Firstname
	}
	if changes.Email != nil {
		u.Email = *changes.Email
	}
	if changes.Bio != nil {
		u.Bio = *changes.Bio
	}
	if changes.Password != nil {
		hash, err := app.hasher.Hash(*changes.Password)
		if err != nil {
			slog.ErrorContext(ctx, "password hashing failed", slog.Any("error", err))
			return nil, ErrUnhandled
		}
		u.Password = hash
	}

	updated, err := app.writer.UpdateUser(ctx, *u)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateUser), errors.Is(err, ErrPrecondition), errors.Is(err, ErrUserNotFound):
			return nil, err
		default:
			slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
			return nil, ErrUnhandled
		}
	}
	updated.Roles = u.Roles
	updated.EmailConfirmed = u.EmailConfirmed

	if emailChanged {
		updated.EmailConfirmed = false
		if _, err := app.email.CreateEmailConfirmation(ctx, recipientOf(updated), true); err != nil {
			slog.ErrorContext(ctx, "email confirmation not reset",
				slog.Int64("user_id", int64(updated.ID)), slog.Any("error", err))
		}
	}
	return updated, nil
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
