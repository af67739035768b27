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

package rest

import (
	"net/http"

	"photogram/core/user/domain"
	"photogram/modules/auth"
	"photogram/modules/mapper"
)

type UserAPI struct {
	app     *domain.Application
	tokens  auth.TokenIssuer
	mappers mapper.Dispatcher

	maxAvatarSize int64
}

func NewUserAPI(app *domain.Application, tokens auth.TokenIssuer, mappers mapper.Dispatcher, maxAvatarSize int64) *UserAPI {
	return &UserAPI{
		app:           app,
		tokens:        tokens,
		mappers:       mappers,
		maxAvatarSize: maxAvatarSize,
	}
}

func (a *UserAPI) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /login", a.Login)

	mux.HandleFunc("GET /users", a.ListUsers)
	mux.HandleFunc("POST /users", a.CreateUser)
	mux.HandleFunc("GET /users/find", a.FindUser)
	mux.HandleFunc("GET /users/confirm", a.ConfirmEmail)
	mux.HandleFunc("POST /users/password-reset", a.ResetPassword)

	mux.HandleFunc("GET /users/{id}", a.GetUser)
	mux.HandleFunc("PUT /users/{id}", a.UpdateUser)
	mux.HandleFunc("DELETE /users/{id}", a.DeleteUser)
	mux.HandleFunc("GET /users/{id}/avatar", a.GetAvatar)
	mux.HandleFunc("POST /users/{id}/avatar", a.UploadAvatar)
	mux.HandleFunc("POST /users/{id}/confirm", a.ResendConfirmation)
}
