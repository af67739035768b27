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

package mapper

import (
	"context"
	"reflect"
)

// Kind tags the capability of a Mapper. The Service dispatches on it instead
// of probing the mapper's dynamic type on every call.
type Kind uint8

const (
	KindSingle Kind = iota + 1
	KindCollection
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindCollection:
		return "collection"
	default:
		return "unknown"
	}
}

type (
	// Mapper converts between the two types returned by Types.
	Mapper interface {
		// Types returns the pair of types handled by the mapper. They never change
		// after construction and are never equal.
		Types() (first, second reflect.Type)

		Kind() Kind

		// Compatible reports whether t is exactly one of the declared types.
		Compatible(t reflect.Type) bool

		// Map converts src, which must be of one declared type, into target, which
		// must be the other one.
		Map(ctx context.Context, src any, target reflect.Type) (any, error)
	}

	// CollectionMapper is a Mapper able to convert a slice (or array) of one
	// declared type into a []target.
	CollectionMapper interface {
		Mapper
		MapAll(ctx context.Context, src any, target reflect.Type) (any, error)
	}

	// Dispatcher routes conversion requests to registered mappers.
	Dispatcher interface {
		Map(ctx context.Context, src any, target reflect.Type) (any, error)
		MapAll(ctx context.Context, src any, target reflect.Type) (any, error)
	}
)
