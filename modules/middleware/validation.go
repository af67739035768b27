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
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"photogram/modules/middleware/problem"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	nethttpmiddleware "github.com/oapi-codegen/nethttp-middleware"
)

type ValidationErrorHandler func(ctx context.Context, err error, w http.ResponseWriter, r *http.Request, status int)

// LoadSpec reads and validates an OpenAPI document from fsys.
func LoadSpec(ctx context.Context, fsys fs.FS, path string) (*openapi3.T, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", path, err)
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: parse %s: %w", path, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: invalid %s: %w", path, err)
	}
	return doc, nil
}

// RegisterBinaryContentTypes lets multipart parts of the given media types
// validate against "format: binary" properties. Call it before serving.
func RegisterBinaryContentTypes(types ...string) {
	for _, ct := range types {
		openapi3filter.RegisterBodyDecoder(ct, openapi3filter.FileBodyDecoder)
	}
}

// OpenAPIValidation rejects requests that do not match doc before they
// reach a handler. Authentication is left to the auth middleware.
func OpenAPIValidation(doc *openapi3.T, onError ValidationErrorHandler) func(http.Handler) http.Handler {
	if onError == nil {
		onError = ProblemValidationErrorHandler
	}
	opts := &nethttpmiddleware.Options{
		Options: openapi3filter.Options{
			MultiError:         true,
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
		DoNotValidateServers:  true,
		SilenceServersWarning: true,
		ErrorHandlerWithOpts: func(ctx context.Context, err error, w http.ResponseWriter, r *http.Request, eopts nethttpmiddleware.ErrorHandlerOpts) {
			status := eopts.StatusCode
			if status == 0 {
				status = http.StatusBadRequest
			}
			onError(ctx, err, w, r, status)
		},
	}
	return nethttpmiddleware.OapiRequestValidatorWithOptions(doc, opts)
}

// ProblemValidationErrorHandler answers with a problem document listing
// each offending field in invalidParams.
func ProblemValidationErrorHandler(ctx context.Context, err error, w http.ResponseWriter, r *http.Request, status int) {
	switch status {
	case http.StatusNotFound:
		problem.Write(w, problem.NotFound("no such route"))
		return
	case http.StatusMethodNotAllowed:
		problem.Write(w, problem.MethodNotAllowed(r.Method+" not allowed"))
		return
	}

	slog.DebugContext(ctx, "request rejected by openapi validation", slog.Any("error", err))
	var opts []problem.Option
	for _, v := range ExtractValidationErrors(err) {
		opts = append(opts, problem.WithInvalidParam(v.Field, v.Reason))
	}
	problem.Write(w, problem.BadRequest("request does not match the API contract", opts...))
}
