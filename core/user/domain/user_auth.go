package domain

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

const resetPasswordLength = 12

// Authenticate checks username and password. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (app *Application) Authenticate(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrBadCredentials
	}

	u, err := app.reader.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrBadCredentials
		}
		slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
		return nil, ErrUnhandled
	}

	if err := app.hasher.Compare(u.Password, password); err != nil {
		if !errors.Is(err, ErrBadCredentials) {
			slog.ErrorContext(ctx, "password comparison failed", slog.Any("error", err))
		}
		return nil, ErrBadCredentials
	}
	if !u.EmailConfirmed {
		return nil, ErrEmailNotConfirmed
	}
	return u, nil
}

// ResetPassword replaces the password of the account registered with email
// by a random one and mails it. An unknown address is not reported.
func (app *Application) ResetPassword(ctx context.Context, email string) error {
	u, err := app.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			slog.DebugContext(ctx, "password reset for unknown email")
			return nil
		}
		return err
	}

	plain, err := randomPassword(resetPasswordLength)
	if err != nil {
		slog.ErrorContext(ctx, "password generation failed", slog.Any("error", err))
		return ErrUnhandled
	}
	hash, err := app.hasher.Hash(plain)
	if err != nil {
		slog.ErrorContext(ctx, "password hashing failed", slog.Any("error", err))
		return ErrUnhandled
	}

	if err := app.writer.SetPassword(ctx, u.ID, hash); err != nil {
		slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
		return ErrUnhandled
	}
	if err := app.email.SendNewPassword(ctx, recipientOf(u), plain); err != nil {
		slog.ErrorContext(ctx, "password mail not queued", slog.Any("error", err))
		return ErrUnhandled
	}
	return nil
}
