package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	roledomain "photogram/core/role/domain"
	"photogram/modules/validate"
)

// CreateUser registers a user with the default role and mails an email
// confirmation. The account cannot log in until the email is confirmed.
func (app *Application) CreateUser(ctx context.Context, in NewUser) (*User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Firstname = strings.TrimSpace(in.Firstname)
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(in, ErrInvalidData); err != nil {
		return nil, err
	}

	hash, err := app.hasher.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "password hashing failed", slog.Any("error", err))
		return nil, ErrUnhandled
	}

	role, err := app.roles.GetDefault(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "default role unavailable", slog.Any("error", err))
		return nil, ErrUnhandled
	}

	var created *User
	err = app.writer.WithTimeoutTx(ctx, 2*time.Second, func(ctx context.Context, tx UserWriteTx) error {
		u, err := tx.CreateUser(ctx, User{
			Username:  in.Username,
			Firstname: in.Firstname,
			Email:     in.Email,
			Password:  hash,
			Bio:       in.Bio,
		})
		if err != nil {
			return err
		}
		if err := tx.AssignRole(ctx, u.ID, role.ID); err != nil {
			return fmt.Errorf("assign role %s: %w", role.Name, err)
		}
		u.Roles = []roledomain.Role{*role}
		created = u
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			slog.DebugContext(ctx, "duplicate entry", slog.String("username", in.Username))
			return nil, ErrDuplicateUser
		}
		slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
		return nil, ErrUnhandled
	}

	if _, err := app.email.CreateEmailConfirmation(ctx, recipientOf(created), true); err != nil {
		// the account exists; the user can ask for a new confirmation
		slog.ErrorContext(ctx, "email confirmation not created",
			slog.Int64("user_id", int64(created.ID)), slog.Any("error", err))
	}

	slog.DebugContext(ctx, "created user", slog.Int64("id", int64(created.ID)), slog.String("username", created.Username))
	return created, nil
}
