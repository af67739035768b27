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

// Package validate runs go-playground/validator over domain inputs and turns
// its field errors into an error that unwraps to a feature sentinel.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = validator.New(validator.WithRequiredStructEnabled())

type FieldError struct {
	Field  string
	Reason string
}

// Error lists the fields that failed validation. errors.Is matches the
// sentinel passed to Struct.
type Error struct {
	Fields []FieldError
	base   error
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return e.base.Error() + ": " + strings.Join(parts, ", ")
}

func (e *Error) Unwrap() error {
	return e.base
}

// Struct validates s. Failures are reported as *Error wrapping sentinel.
func Struct(s any, sentinel error) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", sentinel, err)
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs)), base: sentinel}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:  lowerFirst(fe.Field()),
			Reason: reason(fe),
		})
	}
	return out
}

// Invalid builds a single-field *Error for checks the tags cannot express.
func Invalid(sentinel error, field, reason string) error {
	return &Error{Fields: []FieldError{{Field: field, Reason: reason}}, base: sentinel}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
