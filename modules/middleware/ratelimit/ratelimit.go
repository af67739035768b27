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
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"photogram/modules/middleware"
	"photogram/modules/middleware/problem"
	rl "photogram/modules/ratelimit"
)

var ErrUnknownKeyStrategy = errors.New("ratelimit: unknown key strategy")

type (
	Pattern string
	method  string

	// KeyFunc extracts the identity being limited from a request.
	KeyFunc func(*http.Request) rl.Key

	RouteInfoFunc func(*http.Request) RouteInfo

	RouteInfo struct {
		ID     Pattern
		Method string
		Path   string
	}

	Policy struct {
		Limiter rl.RateLimiter
		KeyFn   KeyFunc
	}

	// RuntimePolicy is the compiled form of RestHTTPConfig. An explicit
	// route/method rule wins over a method default, which wins over the
	// catch-all default.
	RuntimePolicy struct {
		byRoute  map[Pattern]map[method]Policy
		byMethod map[method]Policy
		fallback *Policy

		AllowIfNoMatch      bool
		AllowIfNoIdentifier bool
		RouteInfoFn         RouteInfoFunc
	}
)

// DefaultKeyStrategies are the strategies selectable from configuration.
func DefaultKeyStrategies() map[KeyStrategyId]KeyFunc {
	return map[KeyStrategyId]KeyFunc{
		RemoteIpKeyStrategy: RemoteIpKeyFunc,
		GlobalKeyStrategy:   func(*http.Request) rl.Key { return "global" },
	}
}

// MuxRouteInfo labels requests with the ServeMux pattern that will serve
// them.
func MuxRouteInfo(route middleware.RouteFunc) RouteInfoFunc {
	return func(r *http.Request) RouteInfo {
		return RouteInfo{ID: Pattern(route(r)), Method: r.Method, Path: r.URL.Path}
	}
}

func normalizeMethod(m string) method {
	return method(strings.ToUpper(strings.TrimSpace(m)))
}

func (p *RuntimePolicy) find(ri RouteInfo) (Policy, bool) {
	m := normalizeMethod(ri.Method)
	if px, ok := p.byRoute[ri.ID][m]; ok {
		return px, true
	}
	if px, ok := p.byMethod[m]; ok {
		return px, true
	}
	if p.fallback != nil {
		return *p.fallback, true
	}
	return Policy{}, false
}

// ParsePolicy compiles cfg. Route patterns must match the ones registered on
// the mux; a rule naming an unknown key strategy is a startup error.
func ParsePolicy(
	factory rl.LimiterFactory,
	cfg *RestHTTPConfig,
	routeFn RouteInfoFunc,
	keyStrategies map[KeyStrategyId]KeyFunc,
) (*RuntimePolicy, error) {
	rtp := &RuntimePolicy{
		byRoute:             make(map[Pattern]map[method]Policy),
		AllowIfNoMatch:      cfg.AllowIfNoMatch,
		AllowIfNoIdentifier: cfg.AllowIfNoIdentifier,
		RouteInfoFn:         routeFn,
	}

	build := func(rule EndpointRule) (Policy, error) {
		ks, ok := keyStrategies[rule.KeyStrategy]
		if !ok {
			return Policy{}, fmt.Errorf("%w: %q", ErrUnknownKeyStrategy, rule.KeyStrategy)
		}
		return Policy{Limiter: factory(rule.Limit, rule.Window), KeyFn: ks}, nil
	}

	if d := cfg.DefaultPolicy; d.Window > 0 && d.KeyStrategy != "" {
		px, err := build(d)
		if err != nil {
			return nil, err
		}
		if d.Method != "" {
			rtp.byMethod = map[method]Policy{normalizeMethod(d.Method): px}
		} else {
			rtp.fallback = &px
		}
	}

	for _, r := range cfg.Routes {
		pat := Pattern(r.Pattern)
		if rtp.byRoute[pat] == nil {
			rtp.byRoute[pat] = make(map[method]Policy)
		}
		for _, rule := range r.EndpointRules {
			m := normalizeMethod(rule.Method)
			if _, dup := rtp.byRoute[pat][m]; dup {
				return nil, fmt.Errorf("ratelimit: duplicate %s rule on %s", m, pat)
			}
			px, err := build(rule)
			if err != nil {
				return nil, err
			}
			rtp.byRoute[pat][m] = px
		}
	}
	return rtp, nil
}

func NewRateLimitMiddleware(p *RuntimePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ri := p.RouteInfoFn(r)

			px, ok := p.find(ri)
			if !ok {
				if p.AllowIfNoMatch {
					next.ServeHTTP(w, r)
					return
				}
				slog.WarnContext(ctx, "no rate limit policy", slog.String("route", string(ri.ID)), slog.String("method", ri.Method))
				problem.Write(w, problem.TooManyRequests("no rate limit policy for this route"))
				return
			}

			var key rl.Key
			if px.KeyFn != nil {
				key = px.KeyFn(r)
			}
			if key == "" {
				if p.AllowIfNoIdentifier {
					next.ServeHTTP(w, r)
					return
				}
				slog.WarnContext(ctx, "no rate limit key", slog.String("path", ri.Path))
				problem.Write(w, problem.TooManyRequests("caller could not be identified"))
				return
			}

			result, err := px.Limiter.Allow(ctx, key)
			if err != nil {
				slog.ErrorContext(ctx, "rate limit error", slog.Any("error", err), slog.String("path", ri.Path))
				problem.Write(w, problem.Internal(http.StatusText(http.StatusInternalServerError)))
				return
			}

			// headers are applied lazily so handlers that reset them cannot drop them
			w = &rateLimitHeaderWriter{ResponseWriter: w, result: result}

			if !result.Allowed {
				slog.DebugContext(ctx, "rate limited", slog.String("key", string(key)), slog.String("path", ri.Path))
				w.Header().Set("Retry-After", strconv.FormatInt(int64(math.Ceil(result.RetryAfter.Seconds())), 10))
				problem.Write(w, problem.TooManyRequests(http.StatusText(http.StatusTooManyRequests)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeRateLimitHeaders(w http.ResponseWriter, result rl.Result) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
	h.Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
	h.Set("X-RateLimit-Window-Seconds", strconv.FormatInt(int64(result.Window.Seconds()), 10))
	h.Set("X-RateLimit-Reset-Seconds", strconv.FormatInt(int64(result.WindowResetIn.Seconds()), 10))
}

type rateLimitHeaderWriter struct {
	http.ResponseWriter
	result  rl.Result
	ensured bool
}

func (w *rateLimitHeaderWriter) ensure() {
	if !w.ensured {
		writeRateLimitHeaders(w.ResponseWriter, w.result)
		w.ensured = true
	}
}

func (w *rateLimitHeaderWriter) WriteHeader(statusCode int) {
	w.ensure()
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *rateLimitHeaderWriter) Write(p []byte) (int, error) {
	w.ensure()
	return w.ResponseWriter.Write(p)
}

func (w *rateLimitHeaderWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// RemoteIpKeyFunc trusts the last X-Forwarded-For hop, which is the one
// appended by our own proxy, and falls back to the peer address.
func RemoteIpKeyFunc(r *http.Request) rl.Key {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		if last := strings.TrimSpace(hops[len(hops)-1]); last != "" {
			return rl.Key(last)
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return rl.Key(host)
	}
	return rl.Key(r.RemoteAddr)
}
