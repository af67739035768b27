package domain

import (
	"time"

	"photogram/modules/entity"
)

type (
	Image struct {
		ID           entity.ID
		OwnerID      entity.ID
		ContentType  string
		Data         []byte
		CreationDate time.Time
	}

	Config struct {
		MaxSize int64 `env:"MAX_SIZE" envDefault:"5242880"`
	}
)

func (i Image) EntityID() entity.ID {
	return i.ID
}

// AllowedContentTypes lists the image formats accepted on upload.
var AllowedContentTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
