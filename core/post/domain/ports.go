package domain

import (
	"context"

	imagedomain "photogram/core/image/domain"
	"photogram/modules/entity"
)

type PostReadStore interface {
	ListPosts(ctx context.Context, q PostQuery) ([]Post, error)
	// GetPost returns the post without comments, or ErrPostNotFound.
	GetPost(ctx context.Context, id entity.ID) (*Post, error)

	// ListComments returns comments oldest first, grouped by post.
	ListComments(ctx context.Context, postIDs ...entity.ID) (map[entity.ID][]Comment, error)
	GetComment(ctx context.Context, id entity.ID) (*Comment, error)
}

type PostWriteStore interface {
	CreatePost(ctx context.Context, p Post) (*Post, error)
	// UpdatePost writes caption, location and visibility when the stored
	// version equals p.Version and returns ErrPrecondition otherwise.
	UpdatePost(ctx context.Context, p Post) (*Post, error)
	DeletePost(ctx context.Context, id entity.ID) error

	// AddLike and RemoveLike are idempotent.
	AddLike(ctx context.Context, postID, userID entity.ID) error
	RemoveLike(ctx context.Context, postID, userID entity.ID) error

	CreateComment(ctx context.Context, c Comment) (*Comment, error)
	DeleteComment(ctx context.Context, id entity.ID) error
}

type (
	ImageLookup interface {
		GetImage(ctx context.Context, id entity.ID) (*imagedomain.Image, error)
	}

	CursorSigner interface {
		Sign(payload []byte) (string, error)
		Verify(token string) ([]byte, error)
	}
)
