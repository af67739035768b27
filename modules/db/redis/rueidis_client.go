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
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/rueidishook"
	"github.com/redis/rueidis/rueidisotel"
)

var ErrPlaintextURL = errors.New("rueidis: TLS required but URL uses redis://")

// ClientOption translates cfg into rueidis options.
func ClientOption(cfg RedisConfig) (rueidis.ClientOption, error) {
	if cfg.URL == "" {
		return rueidis.ClientOption{}, errors.New("rueidis: URL must not be empty")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return rueidis.ClientOption{}, fmt.Errorf("rueidis: parse url: %w", err)
	}
	if u.Scheme == "redis" && cfg.RequireTLS {
		return rueidis.ClientOption{}, ErrPlaintextURL
	}

	opt, err := rueidis.ParseURL(cfg.URL)
	if err != nil {
		return rueidis.ClientOption{}, err
	}

	opt.ClientName = cfg.ClientName
	opt.DisableRetry = cfg.DisableRetry
	opt.DisableCache = cfg.DisableCache
	opt.AlwaysPipelining = cfg.AlwaysPipelining
	if cfg.CacheSizeEachConn > 0 {
		opt.CacheSizeEachConn = cfg.CacheSizeEachConn
	}
	if cfg.ConnWriteTimeout > 0 {
		opt.ConnWriteTimeout = cfg.ConnWriteTimeout
	}

	if cfg.SkipTLSVerify && opt.TLSConfig != nil {
		tc := opt.TLSConfig.Clone()
		tc.InsecureSkipVerify = true //nolint:gosec
		opt.TLSConfig = tc
	} else if cfg.SkipTLSVerify && u.Scheme == "rediss" {
		opt.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	var tracking []string
	for _, p := range cfg.ClientTrackingPrefixes {
		if p = strings.TrimSpace(p); p != "" {
			tracking = append(tracking, "PREFIX", p)
		}
	}
	if len(tracking) > 0 {
		opt.ClientTrackingOptions = append(tracking, "BCAST")
	}
	return opt, nil
}

// NewRueidisClient connects and pings the server. Commands slower than
// cfg.SlowCommandThreshold are logged through a rueidishook.
func NewRueidisClient(ctx context.Context, cfg RedisConfig) (rueidis.Client, error) {
	opt, err := ClientOption(cfg)
	if err != nil {
		return nil, err
	}

	var cli rueidis.Client
	if cfg.EnableOtel {
		cli, err = rueidisotel.NewClient(opt)
	} else {
		cli, err = rueidis.NewClient(opt)
	}
	if err != nil {
		return nil, fmt.Errorf("rueidis: connect: %w", err)
	}

	if cfg.SlowCommandThreshold > 0 {
		cli = rueidishook.WithHook(cli, SlowCommandHook{Threshold: cfg.SlowCommandThreshold})
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cli.Do(pingCtx, cli.B().Ping().Build()).Error(); err != nil {
		cli.Close()
		return nil, fmt.Errorf("rueidis: ping: %w", err)
	}

	slog.InfoContext(ctx, "rueidis: connected",
		slog.String("addr", strings.Join(opt.InitAddress, ",")),
		slog.String("client_name", cfg.ClientName),
	)
	return cli, nil
}
