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

package db

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSONKV stores values of T as JSON documents in a KV.
//
//	roles := db.NewJSONKV[domain.Role](redis.NewRedisKV(client))
//	r, err := roles.Get(ctx, "ADMIN") // nil, nil on a miss
type JSONKV[T any] struct {
	kv KV
}

func NewJSONKV[T any](kv KV) JSONKV[T] {
	return JSONKV[T]{kv: kv}
}

func (j JSONKV[T]) Get(ctx context.Context, key string) (*T, error) {
	raw, err := j.kv.AtomicGet(ctx, key)
	if err != nil {
		return nil, err
	}
	return decodeJSON[T](key, raw)
}

// Set stores value under key and returns the document it replaced.
func (j JSONKV[T]) Set(ctx context.Context, key string, value T) (*T, error) {
	doc, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("jsonkv: encode %q: %w", key, err)
	}

	prev, err := j.kv.AtomicSet(ctx, key, doc)
	if err != nil {
		return nil, err
	}
	return decodeJSON[T](key, prev)
}

func decodeJSON[T any](key string, raw any) (*T, error) {
	var doc []byte
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []byte:
		doc = v
	case string:
		doc = []byte(v)
	default:
		return nil, fmt.Errorf("jsonkv: unexpected %T under %q", raw, key)
	}

	var out T
	if err := json.Unmarshal(doc, &out); err != nil {
		return nil, fmt.Errorf("jsonkv: decode %q: %w", key, err)
	}
	return &out, nil
}
