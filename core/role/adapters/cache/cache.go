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

package cache

import (
	"context"
	"log/slog"

	"photogram/core/role/domain"
	"photogram/modules/db"
)

var _ domain.RoleReadStore = (*CachedRoleReader)(nil)

// CachedRoleReader serves roles from a key-value cache and falls back to the
// wrapped store on a miss. Cache failures are logged and never fail a read.
type CachedRoleReader struct {
	next  domain.RoleReadStore
	cache db.JSONKV[domain.Role]
}

func NewCachedRoleReader(next domain.RoleReadStore, kv db.KV) *CachedRoleReader {
	return &CachedRoleReader{
		next:  next,
		cache: db.NewJSONKV[domain.Role](kv),
	}
}

func (c *CachedRoleReader) GetRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	cached, err := c.cache.Get(ctx, name)
	if err != nil {
		slog.WarnContext(ctx, "role cache read failed", slog.String("role", name), slog.Any("error", err))
	}
	if cached != nil {
		return cached, nil
	}

	r, err := c.next.GetRoleByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if _, err := c.cache.Set(ctx, name, *r); err != nil {
		slog.WarnContext(ctx, "role cache write failed", slog.String("role", name), slog.Any("error", err))
	}
	return r, nil
}
