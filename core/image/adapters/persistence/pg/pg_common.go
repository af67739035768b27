package pg

import (
	"database/sql"
	"errors"
	"time"

	"photogram/core/image/domain"
	"photogram/modules/entity"
)

type ImageRow struct {
	ID           int64     `db:"id"`
	OwnerID      int64     `db:"owner_id"`
	ContentType  string    `db:"content_type"`
	Data         []byte    `db:"data"`
	CreationDate time.Time `db:"creation_date"`
}

func toImage(row ImageRow) domain.Image {
	return domain.Image{
		ID:           entity.ID(row.ID),
		OwnerID:      entity.ID(row.OwnerID),
		ContentType:  row.ContentType,
		Data:         row.Data,
		CreationDate: row.CreationDate,
	}
}

func wrapImageError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrImageNotFound
	}
	return err
}
