package pg

import (
	"database/sql"
	"errors"
	"time"

	"photogram/core/email/domain"
	"photogram/modules/entity"

	"github.com/gofrs/uuid/v5"
)

var confirmationColumns = []any{"id", "user_id", "token", "confirmed", "creation_date"}

// ConfirmationRow is the persistence shape of an email confirmation.
type ConfirmationRow struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	Token        uuid.UUID `db:"token"`
	Confirmed    bool      `db:"confirmed"`
	CreationDate time.Time `db:"creation_date"`
}

func toConfirmation(row ConfirmationRow) domain.EmailConfirmation {
	return domain.EmailConfirmation{
		ID:           entity.ID(row.ID),
		UserID:       entity.ID(row.UserID),
		Token:        row.Token,
		Confirmed:    row.Confirmed,
		CreationDate: row.CreationDate,
	}
}

func wrapConfirmationError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrConfirmationNotFound
	}
	return err
}
