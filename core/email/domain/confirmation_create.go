package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofrs/uuid/v5"
)

const maxTokenAttempts = 8

// CreateEmailConfirmation reuses the recipient's confirmation, or starts a
// new one, and assigns it a fresh token. When sendMail is false the
// confirmation is stored as already confirmed and nothing is mailed.
func (app *Application) CreateEmailConfirmation(ctx context.Context, r Recipient, sendMail bool) (*EmailConfirmation, error) {
	if r.UserID.IsNew() || r.Email == "" {
		return nil, ErrInvalidData
	}

	c, err := app.reader.GetByUserID(ctx, r.UserID)
	switch {
	case err == nil:
	case errors.Is(err, ErrConfirmationNotFound):
		c = &EmailConfirmation{UserID: r.UserID}
	default:
		slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
		return nil, ErrUnhandled
	}

	token, err := app.uniqueToken(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "token generation failed", slog.Any("error", err))
		return nil, ErrUnhandled
	}
	c.Token = token
	c.Confirmed = !sendMail
	c.CreationDate = app.clock.Now()

	saved, err := app.writer.Save(ctx, *c)
	if err != nil {
		slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
		return nil, ErrUnhandled
	}

	if sendMail {
		if err := app.queue.Enqueue(ctx, app.confirmationMessage(r, saved.Token)); err != nil {
			slog.WarnContext(ctx, "confirmation mail not queued",
				slog.Int64("user_id", int64(r.UserID)), slog.Any("error", err))
		}
	}

	slog.DebugContext(ctx, "email confirmation created",
		slog.Int64("user_id", int64(r.UserID)), slog.Bool("confirmed", saved.Confirmed))
	return saved, nil
}

// ResendEmailConfirmation issues a new token for the recipient and mails it.
func (app *Application) ResendEmailConfirmation(ctx context.Context, r Recipient) (*EmailConfirmation, error) {
	return app.CreateEmailConfirmation(ctx, r, true)
}

func (app *Application) uniqueToken(ctx context.Context) (uuid.UUID, error) {
	for range maxTokenAttempts {
		token, err := app.newToken()
		if err != nil {
			return uuid.Nil, err
		}
		exists, err := app.reader.ExistsByToken(ctx, token)
		if err != nil {
			return uuid.Nil, err
		}
		if !exists {
			return token, nil
		}
	}
	return uuid.Nil, fmt.Errorf("no unused token after %d attempts", maxTokenAttempts)
}
