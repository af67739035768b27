package domain

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gofrs/uuid/v5"
)

// SendNewPassword queues a mail carrying a freshly generated password.
func (app *Application) SendNewPassword(ctx context.Context, r Recipient, password string) error {
	if r.Email == "" || password == "" {
		return ErrInvalidData
	}
	if err := app.queue.Enqueue(ctx, app.passwordMessage(r, password)); err != nil {
		slog.ErrorContext(ctx, "password mail not queued", slog.Any("error", err))
		return err
	}
	return nil
}

// Close stops accepting mail and waits for queued messages until ctx is done.
func (app *Application) Close(ctx context.Context) error {
	return app.queue.Close(ctx)
}

func (app *Application) confirmationMessage(r Recipient, token uuid.UUID) Message {
	link := app.settings.ConfirmationURL
	sep := "?"
	if strings.Contains(link, "?") {
		sep = "&"
	}
	link += sep + "token=" + url.QueryEscape(token.String())

	return Message{
		To:      r.Email,
		Subject: app.settings.ConfirmationTitle,
		Body: fmt.Sprintf(
			"Hello %s,\n\nplease confirm your email address by opening the link below:\n\n%s\n",
			r.Name, link,
		),
	}
}

func (app *Application) passwordMessage(r Recipient, password string) Message {
	return Message{
		To:      r.Email,
		Subject: app.settings.PasswordResetTitle,
		Body: fmt.Sprintf(
			"Hello %s,\n\nyour password has been reset. Your new password is:\n\n%s\n",
			r.Name, password,
		),
	}
}
