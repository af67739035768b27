package rest

import (
	"time"

	rolerest "photogram/core/role/adapters/rest"

	"github.com/oapi-codegen/nullable"
	"github.com/oapi-codegen/runtime/types"
)

type (
	// UserDto is the public representation of a user; it never carries the
	// password hash.
	UserDto struct {
		ID             int64              `json:"id"`
		Username       string             `json:"username"`
		Firstname      string             `json:"firstname"`
		Email          types.Email        `json:"email"`
		Bio            string             `json:"bio"`
		Roles          []rolerest.RoleDto `json:"roles"`
		AvatarImageID  *int64             `json:"avatarImageId,omitempty"`
		EmailConfirmed bool               `json:"emailConfirmed"`
		CreationDate   time.Time          `json:"creationDate"`
		Version        int64              `json:"version"`
	}

	CreateUserDto struct {
		Username  string      `json:"username"`
		Firstname string      `json:"firstname"`
		Email     types.Email `json:"email"`
		Password  string      `json:"password"`
		Bio       string      `json:"bio,omitempty"`
	}

	// UpdateUserDto is the body of PUT /users/{id}. Absent fields are kept.
	UpdateUserDto struct {
		ID        nullable.Nullable[int64]       `json:"id,omitempty"`
		Username  nullable.Nullable[string]      `json:"username,omitempty"`
		Firstname nullable.Nullable[string]      `json:"firstname,omitempty"`
		Email     nullable.Nullable[types.Email] `json:"email,omitempty"`
		Password  nullable.Nullable[string]      `json:"password,omitempty"`
		Bio       nullable.Nullable[string]      `json:"bio,omitempty"`
	}

	LoginDto struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	PasswordResetDto struct {
		Email types.Email `json:"email"`
	}
)
