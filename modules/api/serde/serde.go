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

package serde

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"photogram/modules/entity"
)

var (
	ErrFileTooLarge = errors.New("uploaded file too large")
	ErrMissingFile  = errors.New("uploaded file missing")
)

func ParseJsonBody[T any](body io.ReadCloser, valuePtr *T) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(valuePtr)
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteBlob writes raw bytes with the given content type.
func WriteBlob(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// PathID reads a numeric identifier from a ServeMux path wildcard.
func PathID(r *http.Request, name string) (entity.ID, error) {
	return entity.ParseID(r.PathValue(name))
}

// ReadFormFile reads the multipart file stored under field, refusing bodies
// larger than limit bytes.
func ReadFormFile(w http.ResponseWriter, r *http.Request, field string, limit int64) ([]byte, error) {
	// leave room for the multipart envelope
	r.Body = http.MaxBytesReader(w, r.Body, limit+64<<10)

	f, _, err := r.FormFile(field)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, ErrFileTooLarge
		}
		if errors.Is(err, http.ErrMissingFile) {
			return nil, ErrMissingFile
		}
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// Ptr returns a pointer to a copy of v, for taking the address of a
// function result or a literal.
func Ptr[T any](v T) *T {
	return &v
}
