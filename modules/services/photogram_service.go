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

package services

import (
	"net/http"

	"photogram/modules/auth"
	"photogram/modules/middleware"
	"photogram/modules/middleware/problem"
	"photogram/modules/server"

	"github.com/getkin/kin-openapi/openapi3"
)

var _ server.RegistrableService = (*PhotogramService)(nil)

// Router is implemented by every REST adapter.
type Router interface {
	Routes(mux *http.ServeMux)
}

// PhotogramService mounts the REST adapters behind OpenAPI validation and
// bearer authentication.
type PhotogramService struct {
	doc      *openapi3.T
	verifier auth.TokenVerifier
	health   *Health
	routers  []Router
}

func NewPhotogramService(doc *openapi3.T, verifier auth.TokenVerifier, health *Health, routers ...Router) *PhotogramService {
	return &PhotogramService{doc: doc, verifier: verifier, health: health, routers: routers}
}

func (s *PhotogramService) Register(mux *http.ServeMux) {
	if s.health != nil {
		mux.Handle("GET /healthz", s.health)
	}
	for _, r := range s.routers {
		r.Routes(mux)
	}
}

func (s *PhotogramService) Middlewares() []func(http.Handler) http.Handler {
	mws := make([]func(http.Handler) http.Handler, 0, 2)
	if s.doc != nil {
		mws = append(mws, middleware.OpenAPIValidation(s.doc, nil))
	}
	return append(mws, auth.Authenticate(s.verifier, unauthorized))
}

func unauthorized(w http.ResponseWriter, _ *http.Request, _ error) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="photogram"`)
	problem.Write(w, problem.Unauthorized("missing, malformed or expired bearer token"))
}
