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
	"photogram/modules/clock"

	"github.com/gofrs/uuid/v5"
)

type (
	Application struct {
		reader   ConfirmationReadStore
		writer   ConfirmationWriteStore
		queue    MailQueue
		settings Settings
		clock    clock.Clock
		newToken func() (uuid.UUID, error)
	}

	Option func(*Application)
)

// WithTokenSource replaces the random token generator.
func WithTokenSource(fn func() (uuid.UUID, error)) Option {
	return func(app *Application) {
		app.newToken = fn
	}
}

func WithClock(clk clock.Clock) Option {
	return func(app *Application) {
		app.clock = clk
	}
}

func NewApp(
	reader ConfirmationReadStore,
	writer ConfirmationWriteStore,
	queue MailQueue,
	settings Settings,
	opts ...Option,
) *Application {
	app := &Application{
		reader:   reader,
		writer:   writer,
		queue:    queue,
		settings: settings,
		clock:    clock.RealClockProvider(),
		newToken: uuid.NewV4,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}
