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
	"log/slog"
	"strings"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/rueidishook"
)

var _ rueidishook.Hook = SlowCommandHook{}

// SlowCommandHook logs commands whose round trip exceeds Threshold.
type SlowCommandHook struct {
	Threshold time.Duration
}

func (h SlowCommandHook) observe(ctx context.Context, start time.Time, cmds ...[]string) {
	elapsed := time.Since(start)
	if elapsed < h.Threshold {
		return
	}
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		if len(c) > 0 {
			names = append(names, c[0])
		}
	}
	slog.WarnContext(ctx, "slow redis command",
		slog.String("commands", strings.Join(names, ",")),
		slog.Duration("elapsed", elapsed),
	)
}

func (h SlowCommandHook) Do(client rueidis.Client, ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	defer h.observe(ctx, time.Now(), cmd.Commands())
	return client.Do(ctx, cmd)
}

func (h SlowCommandHook) DoMulti(client rueidis.Client, ctx context.Context, multi ...rueidis.Completed) []rueidis.RedisResult {
	cmds := make([][]string, len(multi))
	for i, c := range multi {
		cmds[i] = c.Commands()
	}
	defer h.observe(ctx, time.Now(), cmds...)
	return client.DoMulti(ctx, multi...)
}

func (h SlowCommandHook) DoCache(client rueidis.Client, ctx context.Context, cmd rueidis.Cacheable, ttl time.Duration) rueidis.RedisResult {
	defer h.observe(ctx, time.Now(), cmd.Commands())
	return client.DoCache(ctx, cmd, ttl)
}

func (h SlowCommandHook) DoMultiCache(client rueidis.Client, ctx context.Context, multi ...rueidis.CacheableTTL) []rueidis.RedisResult {
	cmds := make([][]string, len(multi))
	for i, c := range multi {
		cmds[i] = c.Cmd.Commands()
	}
	defer h.observe(ctx, time.Now(), cmds...)
	return client.DoMultiCache(ctx, multi...)
}

func (h SlowCommandHook) Receive(client rueidis.Client, ctx context.Context, subscribe rueidis.Completed, fn func(msg rueidis.PubSubMessage)) error {
	return client.Receive(ctx, subscribe, fn)
}

func (h SlowCommandHook) DoStream(client rueidis.Client, ctx context.Context, cmd rueidis.Completed) rueidis.RedisResultStream {
	return client.DoStream(ctx, cmd)
}

func (h SlowCommandHook) DoMultiStream(client rueidis.Client, ctx context.Context, multi ...rueidis.Completed) rueidis.MultiRedisResultStream {
	return client.DoMultiStream(ctx, multi...)
}
