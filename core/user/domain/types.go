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
	"strconv"
	"time"

	roledomain "photogram/core/role/domain"
	"photogram/modules/entity"
)

type (
	// User is the domain model used by the application layer. Password holds
	// the bcrypt hash, never the plain text.
	User struct {
		ID             entity.ID
		Username       string
		Firstname      string
		Email          string
		Password       string
		Bio            string
		Roles          []roledomain.Role
		AvatarImageID  entity.ID
		EmailConfirmed bool
		CreationDate   time.Time

		Version int64
	}

	// NewUser is the input of a sign-up.
	NewUser struct {
		Username  string `validate:"required,min=4,max=16"`
		Firstname string `validate:"required,min=4,max=16"`
		Email     string `validate:"required,email"`
		Password  string `validate:"required,min=6,max=32"`
		Bio       string `validate:"max=512"`
	}

	// UserChanges is a partial update; nil fields are left untouched.
	UserChanges struct {
		Username  *string `validate:"omitnil,min=4,max=16"`
		Firstname *string `validate:"omitnil,min=4,max=16"`
		Email     *string `validate:"omitnil,email"`
		Password  *string `validate:"omitnil,min=6,max=32"`
		Bio       *string `validate:"omitnil,max=512"`

		// ExpectedVersion, when non-zero, must equal the stored version.
		ExpectedVersion int64
	}

	// FindCriteria selects a single user. The first non-empty field wins in
	// the order ID, Username, Email.
	FindCriteria struct {
		ID       entity.ID
		Username string
		Email    string
	}
)

func (u User) EntityID() entity.ID {
	return u.ID
}

// V implements etag.ETaggable.
func (u *User) V() string {
	return strconv.FormatInt(u.Version, 10)
}

func (u User) RoleNames() []string {
	return roledomain.Names(u.Roles)
}

func (u User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

func (c UserChanges) Empty() bool {
	return c.Username == nil && c.Firstname == nil && c.Email == nil && c.Password == nil && c.Bio == nil
}
