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
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrMapperNotFound       = errors.New("mapper not found")
	ErrIncompatibleTarget   = errors.New("incompatible target type")
	ErrNotACollectionMapper = errors.New("not a collection mapper")
	ErrCastFailure          = errors.New("type cast failed")
	ErrSelfMap              = errors.New("source and target types are the same")
	ErrUnmappable           = errors.New("source is not of a declared type")
	ErrNotACollection       = errors.New("source is not a slice or array")

	// registry construction
	ErrDuplicateMapper = errors.New("type claimed by more than one mapper")
	ErrInvalidPair     = errors.New("invalid mapper type pair")
	ErrInvalidMapper   = errors.New("mapper kind does not match its capabilities")
)

// Error describes a failed conversion. Err is one of the sentinel errors of
// this package or the error returned by a conversion function.
type Error struct {
	Source     reflect.Type
	Target     reflect.Type
	Collection bool
	Err        error
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Err, ErrMapperNotFound):
		return fmt.Sprintf("mapper for [%s] not found", typeName(e.Source))
	case errors.Is(e.Err, ErrIncompatibleTarget):
		return fmt.Sprintf("type [%s] cannot be converted to [%s]", typeName(e.Source), typeName(e.Target))
	}

	op := "mapping"
	if e.Collection {
		op = "collection mapping"
	}
	return fmt.Sprintf("%s [%s] -> [%s]: %v", op, typeName(e.Source), typeName(e.Target), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func newError(src, target reflect.Type, collection bool, err error) *Error {
	return &Error{Source: src, Target: target, Collection: collection, Err: err}
}
