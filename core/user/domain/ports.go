package domain

import (
	"context"
	"time"

	emaildomain "photogram/core/email/domain"
	imagedomain "photogram/core/image/domain"
	roledomain "photogram/core/role/domain"
	"photogram/modules/entity"
)

type UserReadStore interface {
	// ListUsers returns every user ordered by id, roles included.
	ListUsers(ctx context.Context) ([]User, error)

	// The single-user lookups return ErrUserNotFound when nothing matches.
	GetUserByID(ctx context.Context, id entity.ID) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

type UserWriteStore interface {
	// UpdateUser writes the profile fields and password of u when the stored
	// version still equals u.Version, returning ErrPrecondition otherwise.
	UpdateUser(ctx context.Context, u User) (*User, error)

	DeleteUser(ctx context.Context, id entity.ID) error
	SetPassword(ctx context.Context, id entity.ID, hash string) error
	SetAvatar(ctx context.Context, id entity.ID, imageID entity.ID) error

	WithTx(ctx context.Context, fn func(ctx context.Context, tx UserWriteTx) error) error
	WithTimeoutTx(ctx context.Context, timeout time.Duration, fn func(ctx context.Context, tx UserWriteTx) error) error
}

type UserWriteTx interface {
	// CreateUser inserts u and returns ErrDuplicateUser on a username or email clash.
	CreateUser(ctx context.Context, u User) (*User, error)
	AssignRole(ctx context.Context, userID, roleID entity.ID) error
}

// Collaborators owned by other modules.
type (
	RoleProvider interface {
		GetDefault(ctx context.Context) (*roledomain.Role, error)
	}

	ConfirmationService interface {
		CreateEmailConfirmation(ctx context.Context, r emaildomain.Recipient, sendMail bool) (*emaildomain.EmailConfirmation, error)
		ResendEmailConfirmation(ctx context.Context, r emaildomain.Recipient) (*emaildomain.EmailConfirmation, error)
		SetEmailConfirmed(ctx context.Context, token string) (*emaildomain.EmailConfirmation, error)
		SendNewPassword(ctx context.Context, r emaildomain.Recipient, password string) error
	}

	ImageService interface {
		SaveImage(ctx context.Context, owner entity.ID, data []byte) (*imagedomain.Image, error)
		GetImage(ctx context.Context, id entity.ID) (*imagedomain.Image, error)
	}
)
