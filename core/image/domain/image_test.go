package domain

import (
	"context"
	"errors"
	"testing"

	"photogram/modules/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	gifBytes = append([]byte("GIF89a"), make([]byte, 32)...)
)

type memImages struct {
	items map[entity.ID]Image
	err   error
}

func (m *memImages) GetImage(_ context.Context, id entity.ID) (*Image, error) {
	if m.err != nil {
		return nil, m.err
	}
	img, ok := m.items[id]
	if !ok {
		return nil, ErrImageNotFound
	}
	return &img, nil
}

func (m *memImages) CreateImage(_ context.Context, img Image) (*Image, error) {
	if m.err != nil {
		return nil, m.err
	}
	img.ID = entity.ID(len(m.items) + 1)
	m.items[img.ID] = img
	return &img, nil
}

func newImageApp(cfg Config) (*Application, *memImages) {
	store := &memImages{items: map[entity.ID]Image{}}
	return NewApp(store, store, cfg), store
}

func TestSaveImage_DetectsType(t *testing.T) {
	t.Parallel()

	app, _ := newImageApp(Config{MaxSize: 1024})

	img, err := app.SaveImage(context.Background(), 3, pngBytes)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, entity.ID(3), img.OwnerID)

	img, err = app.SaveImage(context.Background(), 3, gifBytes)
	require.NoError(t, err)
	assert.Equal(t, "image/gif", img.ContentType)
}

func TestSaveImage_Rejects(t *testing.T) {
	t.Parallel()

	app, store := newImageApp(Config{MaxSize: 16})

	tests := []struct {
		name  string
		owner entity.ID
		data  []byte
		want  error
	}{
		{name: "anonymous", owner: 0, data: gifBytes, want: ErrInvalidData},
		{name: "empty", owner: 1, data: nil, want: ErrInvalidData},
		{name: "too large", owner: 1, data: pngBytes, want: ErrImageTooLarge},
		{name: "not an image", owner: 1, data: []byte("hello, world"), want: ErrUnsupportedType},
	}
	for _, tt := range tests {
		_, err := app.SaveImage(context.Background(), tt.owner, tt.data)
		require.ErrorIs(t, err, tt.want, tt.name)
	}
	assert.Empty(t, store.items)
}

func TestGetImage(t *testing.T) {
	t.Parallel()

	app, store := newImageApp(Config{})
	store.items[5] = Image{ID: 5, OwnerID: 1, ContentType: "image/png", Data: pngBytes}

	img, err := app.GetImage(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)

	_, err = app.GetImage(context.Background(), 6)
	require.ErrorIs(t, err, ErrImageNotFound)

	_, err = app.GetImage(context.Background(), 0)
	require.ErrorIs(t, err, ErrInvalidData)

	store.err = errors.New("timeout")
	_, err = app.GetImage(context.Background(), 5)
	require.ErrorIs(t, err, ErrUnhandled)
}
