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
	"fmt"
	"reflect"
)

var (
	_ CollectionMapper = (*Pair[int, string])(nil)
)

type (
	// Pair is a Mapper for the types A and B built from two directional
	// conversion functions. Types are matched exactly: *A and A are distinct.
	Pair[A, B any] struct {
		first  reflect.Type
		second reflect.Type
		kind   Kind

		toSecond func(context.Context, A) (B, error)
		toFirst  func(context.Context, B) (A, error)
	}

	pairConfig struct {
		kind Kind
	}

	PairOption func(*pairConfig)
)

// Collection marks the pair as collection capable.
func Collection() PairOption {
	return func(c *pairConfig) {
		c.kind = KindCollection
	}
}

// NewPair builds a Pair. toSecond converts A into B and toFirst converts B
// back into A.
func NewPair[A, B any](
	toSecond func(context.Context, A) (B, error),
	toFirst func(context.Context, B) (A, error),
	opts ...PairOption,
) *Pair[A, B] {
	cfg := pairConfig{kind: KindSingle}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Pair[A, B]{
		first:    reflect.TypeFor[A](),
		second:   reflect.TypeFor[B](),
		kind:     cfg.kind,
		toSecond: toSecond,
		toFirst:  toFirst,
	}
}

func (p *Pair[A, B]) Types() (reflect.Type, reflect.Type) {
	return p.first, p.second
}

func (p *Pair[A, B]) Kind() Kind {
	return p.kind
}

func (p *Pair[A, B]) Compatible(t reflect.Type) bool {
	return t != nil && (t == p.first || t == p.second)
}

func (p *Pair[A, B]) Map(ctx context.Context, src any, target reflect.Type) (any, error) {
	srcType := reflect.TypeOf(src)
	if srcType != nil && srcType == target {
		return nil, newError(srcType, target, false, ErrSelfMap)
	}

	switch srcType {
	case p.first:
		if target != p.second {
			return nil, newError(srcType, target, false, ErrIncompatibleTarget)
		}
		out, err := p.Forward(ctx, src.(A))
		if err != nil {
			return nil, newError(srcType, target, false, err)
		}
		return out, nil
	case p.second:
		if target != p.first {
			return nil, newError(srcType, target, false, ErrIncompatibleTarget)
		}
		out, err := p.Backward(ctx, src.(B))
		if err != nil {
			return nil, newError(srcType, target, false, err)
		}
		return out, nil
	default:
		return nil, newError(srcType, target, false, ErrUnmappable)
	}
}

// MapAll converts a slice or array whose elements are all of one declared type
// into a slice of the other one. The direction is chosen from the first
// element; any later element of another type is a cast failure.
func (p *Pair[A, B]) MapAll(ctx context.Context, src any, target reflect.Type) (any, error) {
	if p.kind != KindCollection {
		return nil, newError(reflect.TypeOf(src), target, true, ErrNotACollectionMapper)
	}

	items, err := elements(src)
	if err != nil {
		return nil, newError(reflect.TypeOf(src), target, true, err)
	}
	if len(items) == 0 {
		return emptySliceOf(target)
	}

	srcType := reflect.TypeOf(items[0])
	switch {
	case srcType != nil && srcType == target:
		return nil, newError(srcType, target, true, ErrSelfMap)
	case srcType == p.first && target == p.second:
		return convertAll(ctx, items, target, p.toSecond)
	case srcType == p.second && target == p.first:
		return convertAll(ctx, items, target, p.toFirst)
	case p.Compatible(srcType):
		return nil, newError(srcType, target, true, ErrIncompatibleTarget)
	default:
		return nil, newError(srcType, target, true, ErrUnmappable)
	}
}

// Forward converts A into B.
func (p *Pair[A, B]) Forward(ctx context.Context, a A) (B, error) {
	return p.toSecond(ctx, a)
}

// Backward converts B into A.
func (p *Pair[A, B]) Backward(ctx context.Context, b B) (A, error) {
	return p.toFirst(ctx, b)
}

// ForwardAll converts every A into B. The pair must be collection capable.
func (p *Pair[A, B]) ForwardAll(ctx context.Context, as []A) ([]B, error) {
	if p.kind != KindCollection {
		return nil, newError(p.first, p.second, true, ErrNotACollectionMapper)
	}
	out := make([]B, 0, len(as))
	for _, a := range as {
		b, err := p.toSecond(ctx, a)
		if err != nil {
			return nil, newError(p.first, p.second, true, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// BackwardAll converts every B into A. The pair must be collection capable.
func (p *Pair[A, B]) BackwardAll(ctx context.Context, bs []B) ([]A, error) {
	if p.kind != KindCollection {
		return nil, newError(p.second, p.first, true, ErrNotACollectionMapper)
	}
	out := make([]A, 0, len(bs))
	for _, b := range bs {
		a, err := p.toFirst(ctx, b)
		if err != nil {
			return nil, newError(p.second, p.first, true, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func convertAll[X, Y any](
	ctx context.Context,
	items []any,
	target reflect.Type,
	convert func(context.Context, X) (Y, error),
) ([]Y, error) {
	src := reflect.TypeFor[X]()
	out := make([]Y, 0, len(items))
	for i, item := range items {
		x, ok := item.(X)
		if !ok {
			return nil, newError(src, target, true,
				fmt.Errorf("%w: element %d is %T, want %s", ErrCastFailure, i, item, src))
		}
		y, err := convert(ctx, x)
		if err != nil {
			return nil, newError(src, target, true, err)
		}
		out = append(out, y)
	}
	return out, nil
}

// elements flattens a slice or array into its elements.
func elements(src any) ([]any, error) {
	rv := reflect.ValueOf(src)
	if !rv.IsValid() {
		return nil, ErrNotACollection
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, ErrNotACollection
	}

	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, nil
}

// emptySliceOf returns an empty, non-nil []target.
func emptySliceOf(target reflect.Type) (any, error) {
	if target == nil {
		return nil, newError(nil, nil, true, ErrIncompatibleTarget)
	}
	return reflect.MakeSlice(reflect.SliceOf(target), 0, 0).Interface(), nil
}
