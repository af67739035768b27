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
	emaildomain "photogram/core/email/domain"
	roledomain "photogram/core/role/domain"
	"photogram/modules/auth"
	"photogram/modules/entity"
)

type (
	Application struct {
		reader UserReadStore
		writer UserWriteStore

		roles  RoleProvider
		email  ConfirmationService
		images ImageService
		hasher PasswordHasher
	}

	Dependencies struct {
		Reader UserReadStore
		Writer UserWriteStore
		Roles  RoleProvider
		Email  ConfirmationService
		Images ImageService
		Hasher PasswordHasher
	}
)

func NewApp(deps Dependencies) *Application {
	hasher := deps.Hasher
	if hasher == nil {
		hasher = NewBcryptHasher(0)
	}
	return &Application{
		reader: deps.Reader,
		writer: deps.Writer,
		roles:  deps.Roles,
		email:  deps.Email,
		images: deps.Images,
		hasher: hasher,
	}
}

// canManage reports whether actor may modify the account target.
func canManage(actor auth.Principal, target entity.ID) bool {
	return actor.UserID == target || actor.HasRole(roledomain.RoleAdmin)
}

func recipientOf(u *User) emaildomain.Recipient {
	return emaildomain.Recipient{UserID: u.ID, Email: u.Email, Name: u.Firstname}
}
