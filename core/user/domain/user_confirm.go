package domain

import (
	"context"

	emaildomain "photogram/core/email/domain"
	"photogram/modules/entity"
)

// ConfirmEmail marks the confirmation carrying token as confirmed. Errors are
// those of the email module.
func (app *Application) ConfirmEmail(ctx context.Context, token string) (*emaildomain.EmailConfirmation, error) {
	return app.email.SetEmailConfirmed(ctx, token)
}

// ResendConfirmation mails a new token to the account's registered address.
func (app *Application) ResendConfirmation(ctx context.Context, id entity.ID) error {
	u, err := app.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if u.EmailConfirmed {
		return ErrEmailAlreadyConfirmed
	}
	_, err = app.email.ResendEmailConfirmation(ctx, recipientOf(u))
	return err
}
