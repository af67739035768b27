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

package middleware

import (
	"errors"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
)

type ValidationError struct {
	Field  string
	Reason string
}

// ExtractValidationErrors flattens a kin-openapi error into field/reason
// pairs. Reasons never echo the offending input.
func ExtractValidationErrors(err error) []ValidationError {
	switch v := err.(type) {
	case openapi3.MultiError:
		var out []ValidationError
		for _, item := range v {
			out = append(out, ExtractValidationErrors(item)...)
		}
		return out
	case *openapi3filter.RequestError:
		if inner, ok := v.Err.(openapi3.MultiError); ok && len(inner) > 0 {
			out := make([]ValidationError, 0, len(inner))
			for _, item := range inner {
				out = append(out, fromRequest(v, item))
			}
			return out
		}
		return []ValidationError{fromRequest(v, v.Err)}
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return []ValidationError{{Field: fieldFromPointer(schemaErr.JSONPointer()), Reason: schemaErr.Reason}}
	}
	var secErr *openapi3filter.SecurityRequirementsError
	if errors.As(err, &secErr) {
		return []ValidationError{{Field: "authorization", Reason: "missing or invalid credentials"}}
	}
	return []ValidationError{{Field: "request", Reason: "invalid value"}}
}

func fromRequest(re *openapi3filter.RequestError, inner error) ValidationError {
	var schemaErr *openapi3.SchemaError
	if errors.As(inner, &schemaErr) {
		if re.Parameter != nil {
			return ValidationError{Field: re.Parameter.Name, Reason: schemaErr.Reason}
		}
		return ValidationError{Field: fieldFromPointer(schemaErr.JSONPointer()), Reason: schemaErr.Reason}
	}
	if re.Parameter != nil {
		return ValidationError{Field: re.Parameter.Name, Reason: SafeReason(re.Reason)}
	}
	return ValidationError{Field: "body", Reason: SafeReason(re.Reason)}
}

// fieldFromPointer keeps the top-level property of a JSON pointer.
func fieldFromPointer(ptr []string) string {
	if len(ptr) == 0 || ptr[0] == "" || ptr[0] == "0" {
		return "body"
	}
	return ptr[0]
}

// SafeReason keeps enum hints and collapses everything else.
func SafeReason(reason string) string {
	lower := strings.ToLower(reason)
	switch {
	case reason == "":
		return "invalid value"
	case strings.Contains(lower, "must be one of"):
		return reason
	case strings.Contains(lower, "doesn't match schema"):
		return "doesn't match schema"
	}
	return "invalid value"
}
