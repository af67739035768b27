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

package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetrics counts requests per route and records their latency and
// response size.
type HTTPMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	size     metric.Int64Histogram
}

func NewHTTPMetrics(serviceName string) (*HTTPMetrics, error) {
	meter := otel.Meter(serviceName)

	requests, err1 := meter.Int64Counter("http_server_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	duration, err2 := meter.Float64Histogram("http_server_duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("ms"),
	)
	size, err3 := meter.Int64Histogram("http_server_response_size",
		metric.WithDescription("HTTP response size in bytes"),
		metric.WithUnit("By"),
	)
	if err := errors.Join(err1, err2, err3); err != nil {
		return nil, err
	}
	return &HTTPMetrics{requests: requests, duration: duration, size: size}, nil
}

// RecordRequest takes the route pattern as endpoint, never the raw path.
func (m *HTTPMetrics) RecordRequest(ctx context.Context, method, endpoint, statusCode string, durationMs float64, responseSize int64) {
	attrs := metric.WithAttributes(
		attribute.String("http_method", method),
		attribute.String("http_endpoint", endpoint),
		attribute.String("http_status_code", statusCode),
	)
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, durationMs, attrs)
	if responseSize > 0 {
		m.size.Record(ctx, responseSize, attrs)
	}
}

// MailMetrics counts outgoing mail by delivery outcome.
type MailMetrics struct {
	deliveries metric.Int64Counter
}

func NewMailMetrics(serviceName string) (*MailMetrics, error) {
	deliveries, err := otel.Meter(serviceName).Int64Counter("mail_deliveries_total",
		metric.WithDescription("Total number of outgoing mail delivery attempts"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}
	return &MailMetrics{deliveries: deliveries}, nil
}

// RecordDelivery is a no-op on a nil receiver.
func (m *MailMetrics) RecordDelivery(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.deliveries.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
