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

package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// GetDefault returns the role granted to new accounts.
func (app *Application) GetDefault(ctx context.Context) (*Role, error) {
	return app.GetByName(ctx, DefaultRole)
}

func (app *Application) GetByName(ctx context.Context, name string) (*Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidData
	}

	r, err := app.reader.GetRoleByName(ctx, name)
	if err == nil {
		return r, nil
	}
	if errors.Is(err, ErrRoleNotFound) {
		return nil, fmt.Errorf("%w: role name=%s not found", ErrRoleNotFound, name)
	}

	slog.ErrorContext(ctx, "unexpected error", slog.Any("error", err))
	return nil, ErrUnhandled
}
