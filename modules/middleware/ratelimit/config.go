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

package ratelimit

import (
	"time"
)

type KeyStrategyId string

const (
	RemoteIpKeyStrategy KeyStrategyId = "remote_ip"
	GlobalKeyStrategy   KeyStrategyId = "global"
)

// Counter stores for the sliding windows. Memory counters are per replica.
const (
	RedisStore  = "redis"
	MemoryStore = "memory"
)

type (
	// RestHTTPConfig is read from RATE_LIMIT_*. Routes are indexed, e.g.
	// RATE_LIMIT_ROUTE_0_PATTERN=/login and
	// RATE_LIMIT_ROUTE_0_POLICY_0_METHOD=POST.
	RestHTTPConfig struct {
		Enabled             bool         `env:"ENABLED" envDefault:"true"`
		Routes              []Route      `envPrefix:"ROUTE_"`
		DefaultPolicy       EndpointRule `envPrefix:"DEFAULT_"`
		AllowIfNoMatch      bool         `env:"ALLOW_IF_NO_MATCH" envDefault:"true"`
		AllowIfNoIdentifier bool         `env:"ALLOW_IF_NO_ID"`
		KeyPrefix           string       `env:"KEY_PREFIX" envDefault:"photogram:rl"`
		Store               string       `env:"STORE" envDefault:"redis"`
	}

	// Route.Pattern is a ServeMux path pattern without the method, such as
	// "/posts/{id}/likes".
	Route struct {
		Pattern       string         `env:"PATTERN"`
		EndpointRules []EndpointRule `envPrefix:"POLICY_"`
	}

	EndpointRule struct {
		Method      string        `env:"METHOD"`
		Limit       int64         `env:"LIMIT" envDefault:"600"`
		Window      time.Duration `env:"WINDOW" envDefault:"1m"`
		KeyStrategy KeyStrategyId `env:"KEY_STRATEGY" envDefault:"remote_ip"`
	}
)
