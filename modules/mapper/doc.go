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

// Package mapper converts values between pairs of related types, typically a
// domain entity and its transport representation.
//
// A Mapper owns exactly one ordered pair of types and converts in both
// directions. Mappers tagged KindCollection can also convert whole slices.
// A Service indexes every registered Mapper by the types it claims and
// dispatches conversion requests to the right one:
//
//	roleMapper := mapper.NewPair(roleToDto, dtoToRole, mapper.Collection())
//	svc, err := mapper.NewService(roleMapper, userMapper)
//	dto, err := mapper.To[RoleDto](ctx, svc, role)
//	dtos, err := mapper.ToSlice[RoleDto](ctx, svc, roles)
//
// The registry is built once and never mutated, so a Service is safe for
// concurrent use without locking.
package mapper
