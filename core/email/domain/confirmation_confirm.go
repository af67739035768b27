package domain

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofrs/uuid/v5"
)

func (app *Application) SetEmailConfirmed(ctx context.Context, token string) (*EmailConfirmation, error) {
	parsed, err := uuid.FromString(token)
	if err != nil || parsed.IsNil() {
		return nil, ErrInvalidData
	}

	c, err := app.reader.GetByToken(ctx, parsed)
	if err != nil {
		if errors.Is(err, ErrConfirmationNotFound) {
			return nil, ErrConfirmationNotFound
		}
		slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
		return nil, ErrUnhandled
	}
	if c.Confirmed {
		return c, nil
	}
	if c.Expired(app.clock.Now(), app.settings.ConfirmationTTL) {
		return nil, ErrConfirmationExpired
	}

	c.Confirmed = true
	saved, err := app.writer.Save(ctx, *c)
	if err != nil {
		slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
		return nil, ErrUnhandled
	}
	return saved, nil
}
