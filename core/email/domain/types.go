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
	"time"

	"photogram/modules/entity"

	"github.com/gofrs/uuid/v5"
)

type (
	// EmailConfirmation links a user to the token mailed to their address.
	// A user owns at most one confirmation; it is reused on resend.
	EmailConfirmation struct {
		ID           entity.ID
		UserID       entity.ID
		Token        uuid.UUID
		Confirmed    bool
		CreationDate time.Time
	}

	// Recipient identifies the user a mail is addressed to.
	Recipient struct {
		UserID entity.ID
		Email  string
		Name   string
	}

	Message struct {
		To      string
		Subject string
		Body    string
	}

	Settings struct {
		ConfirmationTTL    time.Duration
		ConfirmationURL    string
		ConfirmationTitle  string
		PasswordResetTitle string
	}
)

func (c EmailConfirmation) EntityID() entity.ID {
	return c.ID
}

// Expired reports whether an unconfirmed token is older than ttl at now.
// A zero ttl never expires.
func (c EmailConfirmation) Expired(now time.Time, ttl time.Duration) bool {
	if c.Confirmed || ttl <= 0 {
		return false
	}
	return now.Sub(c.CreationDate) > ttl
}
