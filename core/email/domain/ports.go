package domain

import (
	"context"
	"time"

	"photogram/modules/entity"

	"github.com/gofrs/uuid/v5"
)

type ConfirmationReadStore interface {
	// GetByUserID returns the confirmation owned by the user or ErrConfirmationNotFound.
	GetByUserID(ctx context.Context, userID entity.ID) (*EmailConfirmation, error)
	// GetByToken returns the confirmation carrying token or ErrConfirmationNotFound.
	GetByToken(ctx context.Context, token uuid.UUID) (*EmailConfirmation, error)
	ExistsByToken(ctx context.Context, token uuid.UUID) (bool, error)
}

type ConfirmationWriteStore interface {
	// Save inserts the confirmation when it is new and updates it otherwise.
	Save(ctx context.Context, c EmailConfirmation) (*EmailConfirmation, error)

	// DeleteUnconfirmedBefore removes every unconfirmed confirmation created
	// before t and reports how many were removed.
	DeleteUnconfirmedBefore(ctx context.Context, t time.Time) (int64, error)
}

// MailQueue hands messages to a background sender. Enqueue never waits for
// delivery; when the backlog is full it fails with ErrQueueFull.
type MailQueue interface {
	Enqueue(ctx context.Context, m Message) error
	Close(ctx context.Context) error
}

// Sender delivers a single message synchronously.
type Sender interface {
	Send(ctx context.Context, m Message) error
}
