// Copyright 2025 Nguyen Nhat Nguyen
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

// Package hmac signs opaque tokens, such as feed cursors, that clients must
// hand back unchanged. A token is base64url(payload) "." base64url(mac).
package hmac

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

// HMACConfig is read under the HMAC_ prefix.
type HMACConfig struct {
	Secret string `env:"SECRET,notEmpty"`
}

var (
	ErrMissingKey   = errors.New("missing hmac key")
	ErrInvalidToken = errors.New("invalid token")
)

var enc = base64.RawURLEncoding

type (
	HMACSigner struct {
		key     []byte
		purpose string
	}

	Option func(*HMACSigner)
)

// WithPurpose binds tokens to a label, so a token minted for one purpose
// does not verify under another even with the same key.
func WithPurpose(purpose string) Option {
	return func(h *HMACSigner) { h.purpose = purpose }
}

func NewHMACSigner(key []byte, opts ...Option) (*HMACSigner, error) {
	if len(key) == 0 {
		return nil, ErrMissingKey
	}
	h := &HMACSigner{key: append([]byte(nil), key...)}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h, nil
}

func (h *HMACSigner) mac(encodedPayload string) []byte {
	m := hmac.New(sha256.New, h.key)
	if h.purpose != "" {
		_, _ = m.Write([]byte(h.purpose))
		_, _ = m.Write([]byte{0})
	}
	_, _ = m.Write([]byte(encodedPayload))
	return m.Sum(nil)
}

func (h *HMACSigner) Sign(payload []byte) (string, error) {
	p := enc.EncodeToString(payload)
	return p + "." + enc.EncodeToString(h.mac(p)), nil
}

// Verify returns the payload of a token produced by Sign with the same key
// and purpose, or ErrInvalidToken.
func (h *HMACSigner) Verify(token string) ([]byte, error) {
	p, sig, ok := strings.Cut(token, ".")
	if !ok || strings.Contains(sig, ".") {
		return nil, ErrInvalidToken
	}

	got, err := enc.DecodeString(sig)
	if err != nil || !hmac.Equal(h.mac(p), got) {
		return nil, ErrInvalidToken
	}

	payload, err := enc.DecodeString(p)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return payload, nil
}
