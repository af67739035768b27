package domain

import (
	"context"
	"log/slog"
)

// PurgeExpired deletes unconfirmed confirmations older than the configured TTL.
func (app *Application) PurgeExpired(ctx context.Context) (int64, error) {
	if app.settings.ConfirmationTTL <= 0 {
		return 0, nil
	}

	cutoff := app.clock.Now().Add(-app.settings.ConfirmationTTL)
	n, err := app.writer.DeleteUnconfirmedBefore(ctx, cutoff)
	if err != nil {
		slog.ErrorContext(ctx, "purge expired confirmations", slog.Any("error", err))
		return 0, ErrUnhandled
	}
	if n > 0 {
		slog.InfoContext(ctx, "purged expired confirmations", slog.Int64("count", n))
	}
	return n, nil
}
