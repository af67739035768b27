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

	"photogram/core/role/domain"
	"photogram/modules/entity"
	"photogram/modules/mapper"
)

// RoleMapper converts between domain roles and their wire form.
type RoleMapper = mapper.Pair[domain.Role, RoleDto]

func NewRoleMapper() *RoleMapper {
	return mapper.NewPair(toRoleDto, fromRoleDto, mapper.Collection())
}

func toRoleDto(_ context.Context, r domain.Role) (RoleDto, error) {
	return RoleDto{ID: int64(r.ID), Name: r.Name}, nil
}

func fromRoleDto(_ context.Context, d RoleDto) (domain.Role, error) {
	return domain.Role{ID: entity.ID(d.ID), Name: d.Name}, nil
}
