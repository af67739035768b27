package domain

import (
	"context"

	"photogram/modules/entity"
)

type ImageReadStore interface {
	GetImage(ctx context.Context, id entity.ID) (*Image, error)
}

type ImageWriteStore interface {
	// CreateImage stores the image and returns it with its generated ID and creation date.
	CreateImage(ctx context.Context, img Image) (*Image, error)
}
