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

package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"photogram/modules/entity"
)

const (
	HeaderName  = "Authorization"
	TokenPrefix = "Bearer "
)

var ErrMalformedHeader = errors.New("auth: malformed authorization header")

type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Authenticate resolves the bearer token of a request into a Principal.
// Requests without an Authorization header pass through anonymously; a
// malformed header or an invalid token is rejected through onError.
func Authenticate(verifier TokenVerifier, onError ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(HeaderName)
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, strings.TrimSpace(TokenPrefix)) || strings.TrimSpace(token) == "" {
				onError(w, r, ErrMalformedHeader)
				return
			}

			claims, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				slog.DebugContext(r.Context(), "token rejected", slog.Any("error", err))
				onError(w, r, err)
				return
			}

			ctx := WithPrincipal(r.Context(), Principal{
				UserID:   entity.ID(claims.UserID),
				Username: claims.Subject,
				Roles:    claims.Roles,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
