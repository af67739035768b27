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
	"errors"
	"fmt"
	"reflect"
	"runtime"
)

var _ Dispatcher = (*Service)(nil)

type (
	// Service is the registry of every Mapper in the process. Each type maps to
	// exactly one mapper.
	Service struct {
		registry map[reflect.Type]binding
	}

	// binding is the registry entry for a claimed type. collection is set only
	// when kind is KindCollection.
	binding struct {
		kind       Kind
		single     Mapper
		collection CollectionMapper
	}
)

// NewService builds the registry. It fails when a type is claimed twice, when
// a mapper declares an invalid pair, or when a mapper tagged KindCollection
// cannot convert collections.
func NewService(mappers ...Mapper) (*Service, error) {
	registry := make(map[reflect.Type]binding, 2*len(mappers))

	var errs []error
	for _, m := range mappers {
		if m == nil {
			continue
		}

		first, second := m.Types()
		if first == nil || second == nil || first == second {
			errs = append(errs, fmt.Errorf("%w: %T declares [%s] <-> [%s]", ErrInvalidPair, m, typeName(first), typeName(second)))
			continue
		}
		if first.Kind() == reflect.Interface || second.Kind() == reflect.Interface {
			errs = append(errs, fmt.Errorf("%w: %T declares an interface type", ErrInvalidPair, m))
			continue
		}

		b := binding{kind: m.Kind(), single: m}
		switch b.kind {
		case KindSingle:
		case KindCollection:
			cm, ok := m.(CollectionMapper)
			if !ok {
				errs = append(errs, fmt.Errorf("%w: %T is tagged %s", ErrInvalidMapper, m, b.kind))
				continue
			}
			b.collection = cm
		default:
			errs = append(errs, fmt.Errorf("%w: %T has kind %d", ErrInvalidMapper, m, b.kind))
			continue
		}

		for _, t := range []reflect.Type{first, second} {
			if prev, dup := registry[t]; dup {
				errs = append(errs, fmt.Errorf("%w: [%s] by %T and %T", ErrDuplicateMapper, t, prev.single, m))
				continue
			}
			registry[t] = b
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &Service{registry: registry}, nil
}

// Map converts src into a value of type target using the mapper that claims
// the dynamic type of src.
func (s *Service) Map(ctx context.Context, src any, target reflect.Type) (out any, err error) {
	srcType := reflect.TypeOf(src)
	defer recoverCast(srcType, target, false, &out, &err)

	b, ok := s.registry[srcType]
	if !ok {
		return nil, newError(srcType, target, false, ErrMapperNotFound)
	}
	if !b.single.Compatible(target) {
		return nil, newError(srcType, target, false, ErrIncompatibleTarget)
	}
	return b.single.Map(ctx, src, target)
}

// MapAll converts a slice or array into a []target. An empty input yields an
// empty []target without consulting any mapper. Otherwise the first element
// selects the mapper, which must be collection capable.
func (s *Service) MapAll(ctx context.Context, src any, target reflect.Type) (out any, err error) {
	rv := reflect.ValueOf(src)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, newError(reflect.TypeOf(src), target, true, ErrNotACollection)
	}
	if rv.Len() == 0 {
		return emptySliceOf(target)
	}

	srcType := reflect.TypeOf(rv.Index(0).Interface())
	defer recoverCast(srcType, target, true, &out, &err)

	b, ok := s.registry[srcType]
	if !ok {
		return nil, newError(srcType, target, true, ErrMapperNotFound)
	}

	switch b.kind {
	case KindCollection:
		return b.collection.MapAll(ctx, src, target)
	default:
		return nil, newError(srcType, target, true, ErrNotACollectionMapper)
	}
}

// recoverCast turns a failed type assertion inside a conversion into an
// ErrCastFailure. Any other panic is propagated.
func recoverCast(src, target reflect.Type, collection bool, out *any, err *error) {
	r := recover()
	if r == nil {
		return
	}

	var tae *runtime.TypeAssertionError
	if e, ok := r.(error); ok && errors.As(e, &tae) {
		*out = nil
		*err = newError(src, target, collection, fmt.Errorf("%w: %s", ErrCastFailure, tae.Error()))
		return
	}
	panic(r)
}

// To converts src into T through d.
func To[T any](ctx context.Context, d Dispatcher, src any) (T, error) {
	var zero T
	target := reflect.TypeFor[T]()

	out, err := d.Map(ctx, src, target)
	if err != nil {
		return zero, err
	}
	t, ok := out.(T)
	if !ok {
		return zero, newError(reflect.TypeOf(src), target, false, fmt.Errorf("%w: got %T", ErrCastFailure, out))
	}
	return t, nil
}

// ToSlice converts every element of src into T through d.
func ToSlice[T, S any](ctx context.Context, d Dispatcher, src []S) ([]T, error) {
	target := reflect.TypeFor[T]()

	out, err := d.MapAll(ctx, src, target)
	if err != nil {
		return nil, err
	}
	ts, ok := out.([]T)
	if !ok {
		return nil, newError(reflect.TypeOf(src), target, true, fmt.Errorf("%w: got %T", ErrCastFailure, out))
	}
	return ts, nil
}
