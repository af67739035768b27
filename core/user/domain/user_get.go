package domain

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"photogram/modules/entity"
)

func (app *Application) ListUsers(ctx context.Context) ([]User, error) {
	users, err := app.reader.ListUsers(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "persistence error", slog.Any("error", err))
		return nil, ErrUnhandled
	}
	return users, nil
}

func (app *Application) GetUserByID(ctx context.Context, id entity.ID) (*User, error) {
	if id.IsNew() {
		return nil, ErrInvalidData
	}
	return app.lookup(ctx, func() (*User, error) { return app.reader.GetUserByID(ctx, id) })
}

func (app *Application) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidData
	}
	return app.lookup(ctx, func() (*User, error) { return app.reader.GetUserByUsername(ctx, username) })
}

func (app *Application) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrInvalidData
	}
	return app.lookup(ctx, func() (*User, error) { return app.reader.GetUserByEmail(ctx, email) })
}

// FindUser resolves c to a single user; ErrInvalidData when c is empty.
func (app *Application) FindUser(ctx context.Context, c FindCriteria) (*User, error) {
	switch {
	case !c.ID.IsNew():
		return app.GetUserByID(ctx, c.ID)
	case strings.TrimSpace(c.Username) != "":
		return app.GetUserByUsername(ctx, c.Username)
	case strings.TrimSpace(c.Email) != "":
		return app.GetUserByEmail(ctx, c.Email)
	default:
		return nil, ErrInvalidData
	}
}

func (app *Application) lookup(ctx context.Context, fn func() (*User, error)) (*User, error) {
	u, err := fn()
	if err == nil {
		return u, nil
	}
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
	return nil, ErrUnhandled
}
