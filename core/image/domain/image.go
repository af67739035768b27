// Copyright 2025 Nhat-Nguyen Nguyen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"photogram/modules/entity"

	"github.com/gabriel-vasile/mimetype"
)

// SaveImage validates the payload by content, not by the client's declared
// type, and stores it for owner.
func (app *Application) SaveImage(ctx context.Context, owner entity.ID, data []byte) (*Image, error) {
	if owner.IsNew() || len(data) == 0 {
		return nil, ErrInvalidData
	}
	if app.cfg.MaxSize > 0 && int64(len(data)) > app.cfg.MaxSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrImageTooLarge, len(data), app.cfg.MaxSize)
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), AllowedContentTypes...) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}

	img, err := app.writer.CreateImage(ctx, Image{
		OwnerID:     owner,
		ContentType: mt.String(),
		Data:        data,
	})
	if err != nil {
		slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
		return nil, ErrUnhandled
	}

	slog.DebugContext(ctx, "stored image",
		slog.Int64("id", int64(img.ID)), slog.String("content_type", img.ContentType), slog.Int("size", len(data)))
	return img, nil
}

func (app *Application) GetImage(ctx context.Context, id entity.ID) (*Image, error) {
	if id.IsNew() {
		return nil, ErrInvalidData
	}
	img, err := app.reader.GetImage(ctx, id)
	if err == nil {
		return img, nil
	}
	if errors.Is(err, ErrImageNotFound) {
		return nil, ErrImageNotFound
	}
	slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
	return nil, ErrUnhandled
}
