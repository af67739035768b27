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

package rest

import (
	"context"

	rolerest "photogram/core/role/adapters/rest"
	"photogram/core/user/domain"
	"photogram/modules/api/serde"
	"photogram/modules/entity"
	"photogram/modules/mapper"

	"github.com/oapi-codegen/runtime/types"
)

type UserMapper = mapper.Pair[domain.User, UserDto]

// NewUserMapper converts users to their public form. Role collections go
// through roles; UserDto -> User drops roles and never sets a password.
func NewUserMapper(roles *rolerest.RoleMapper) *UserMapper {
	toDto := func(ctx context.Context, u domain.User) (UserDto, error) {
		rs, err := roles.ForwardAll(ctx, u.Roles)
		if err != nil {
			return UserDto{}, err
		}
		dto := UserDto{
			ID:             int64(u.ID),
			Username:       u.Username,
			Firstname:      u.Firstname,
			Email:          types.Email(u.Email),
			Bio:            u.Bio,
			Roles:          rs,
			EmailConfirmed: u.EmailConfirmed,
			CreationDate:   u.CreationDate,
			Version:        u.Version,
		}
		if !u.AvatarImageID.IsNew() {
			dto.AvatarImageID = serde.Ptr(int64(u.AvatarImageID))
		}
		return dto, nil
	}

	fromDto := func(_ context.Context, d UserDto) (domain.User, error) {
		u := domain.User{
			ID:             entity.ID(d.ID),
			Username:       d.Username,
			Firstname:      d.Firstname,
			Email:          string(d.Email),
			Bio:            d.Bio,
			EmailConfirmed: d.EmailConfirmed,
			CreationDate:   d.CreationDate,
			Version:        d.Version,
		}
		if d.AvatarImageID != nil {
			u.AvatarImageID = entity.ID(*d.AvatarImageID)
		}
		return u, nil
	}

	return mapper.NewPair(toDto, fromDto, mapper.Collection())
}
