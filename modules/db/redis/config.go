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

import "time"

// RedisConfig configures the shared rueidis client.
//
// URL is a standard Redis URI, for example:
//
//   - Single:  redis://:password@localhost:6379/0
//   - TLS:     rediss://:password@my-redis.example.com:6379/0
//   - Cluster: redis://:password@host1:6379/0?addr=host2:6379&addr=host3:6379
type RedisConfig struct {
	URL        string `env:"URL" envDefault:"redis://:redis@localhost:6379/0"`
	ClientName string `env:"CLIENT_NAME" envDefault:"photogram"`

	// SkipTLSVerify disables certificate verification on rediss:// URLs.
	SkipTLSVerify bool `env:"SKIP_TLS_VERIFY"`
	// RequireTLS refuses plaintext redis:// URLs.
	RequireTLS bool `env:"REQUIRE_TLS"`

	// Zero values keep the rueidis defaults.
	DisableRetry      bool          `env:"DISABLE_RETRY"`
	DisableCache      bool          `env:"DISABLE_CACHE"`
	AlwaysPipelining  bool          `env:"ALWAYS_PIPELINING"`
	ConnWriteTimeout  time.Duration `env:"CONN_WRITE_TIMEOUT"`
	CacheSizeEachConn int           `env:"CACHE_SIZE_EACH_CONN"`

	EnableOtel bool `env:"ENABLE_OTEL"`

	// SlowCommandThreshold logs every command slower than this; 0 disables it.
	SlowCommandThreshold time.Duration `env:"SLOW_COMMAND_THRESHOLD" envDefault:"50ms"`

	// ClientTrackingPrefixes turns on server-assisted caching in BCAST mode
	// for keys under these prefixes.
	ClientTrackingPrefixes []string `env:"CLIENT_TRACKING_PREFIXES" envSeparator:","`
}
