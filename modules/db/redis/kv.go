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

package redis

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"photogram/modules/db"

	"github.com/redis/rueidis"
)

var (
	_ db.KV = (*RedisKV)(nil)

	//go:embed atomic_set.lua
	atomicSetLua string

	// KEYS[1] = key, ARGV[1] = value, ARGV[2] = ttl seconds ("" or 0 keeps the key forever).
	luaAtomicSet = rueidis.NewLuaScript(atomicSetLua)

	ErrNilValue = errors.New("redis kv: nil values are not allowed")
)

// RedisKV implements db.KV on rueidis. Values come back as []byte and a
// missing key reads as (nil, nil).
type RedisKV struct {
	client      rueidis.Client
	prefix      string
	ttl         time.Duration
	clientCache bool
}

type RedisKVOption func(*RedisKV)

// WithKeyPrefix scopes every key, e.g. "photogram:roles" stores "USER" as
// "photogram:roles:USER".
func WithKeyPrefix(prefix string) RedisKVOption {
	return func(k *RedisKV) {
		prefix = strings.TrimSpace(prefix)
		if prefix != "" && !strings.HasSuffix(prefix, ":") {
			prefix += ":"
		}
		k.prefix = prefix
	}
}

func WithDefaultTTL(ttl time.Duration) RedisKVOption {
	return func(k *RedisKV) { k.ttl = ttl }
}

// WithClientSideCache serves AtomicGet from the rueidis tracking cache for
// up to the default TTL. The prefix must be covered by the client's
// tracking prefixes when BCAST tracking is on.
func WithClientSideCache() RedisKVOption {
	return func(k *RedisKV) { k.clientCache = true }
}

func NewRedisKV(client rueidis.Client, opts ...RedisKVOption) *RedisKV {
	kv := &RedisKV{client: client}
	for _, opt := range opts {
		if opt != nil {
			opt(kv)
		}
	}
	return kv
}

func (k *RedisKV) key(raw string) string { return k.prefix + raw }

func (k *RedisKV) AtomicGet(ctx context.Context, key string) (any, error) {
	full := k.key(key)

	var res rueidis.RedisResult
	if k.clientCache && k.ttl > 0 {
		res = k.client.DoCache(ctx, k.client.B().Get().Key(full).Cache(), k.ttl)
	} else {
		res = k.client.Do(ctx, k.client.B().Get().Key(full).Build())
	}

	bs, err := res.AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis kv: get %q: %w", key, err)
	}
	return bs, nil
}

// AtomicSet stores value and returns the previous one in a single script
// round-trip.
func (k *RedisKV) AtomicSet(ctx context.Context, key string, value any) (any, error) {
	encoded, err := encodeValue(value)
	if err != nil {
		return nil, fmt.Errorf("redis kv: encode %q: %w", key, err)
	}

	ttl := ""
	if k.ttl > 0 {
		ttl = strconv.FormatInt(max(int64(k.ttl/time.Second), 1), 10)
	}

	bs, err := luaAtomicSet.Exec(ctx, k.client, []string{k.key(key)}, []string{encoded, ttl}).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis kv: set %q: %w", key, err)
	}
	return bs, nil
}

// Delete drops keys without reading them back.
func (k *RedisKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = k.key(key)
	}
	if err := k.client.Do(ctx, k.client.B().Del().Key(full...).Build()).Error(); err != nil {
		return fmt.Errorf("redis kv: delete: %w", err)
	}
	return nil
}

func (k *RedisKV) HealthCheck(ctx context.Context) error {
	return k.client.Do(ctx, k.client.B().Ping().Build()).Error()
}

func encodeValue(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", ErrNilValue
	case string:
		return x, nil
	case []byte:
		return rueidis.BinaryString(x), nil
	case fmt.Stringer:
		return x.String(), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return rueidis.BinaryString(b), nil
	}
}
