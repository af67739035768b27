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

package etag

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidETag = errors.New("invalid etag format")

type ETaggable interface {
	V() string
}

// ETag renders the strong entity tag of obj, quotes included.
func ETag(obj ETaggable) string {
	return `"v:` + obj.V() + `"`
}

// ParseETag returns the version carried by an If-Match or If-None-Match value.
// Weak tags and unquoted values are accepted.
func ParseETag(etag string) (string, error) {
	v := strings.TrimSpace(etag)
	v = strings.TrimPrefix(v, "W/")
	v = strings.Trim(v, `"`)
	if !strings.HasPrefix(v, "v:") || len(v) == len("v:") {
		return "", ErrInvalidETag
	}
	return strings.TrimPrefix(v, "v:"), nil
}

// ParseVersion is ParseETag for numeric versions.
func ParseVersion(etag string) (int64, error) {
	s, err := ParseETag(etag)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidETag
	}
	return n, nil
}
