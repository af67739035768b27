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

import "time"

type Mode string

const (
	// ModeDetect behaves like ModeAuto when Go auto-instrumentation is
	// present and like ModeManual otherwise.
	ModeDetect Mode = "detect"
	ModeManual Mode = "manual"
	ModeAuto   Mode = "auto"
)

// Config mostly reuses the standard OTEL_* variable names.
type Config struct {
	Disabled bool `env:"OTEL_SDK_DISABLED"`

	ServiceName    string `env:"OTEL_SERVICE_NAME" envDefault:"photogram"`
	ServiceVersion string `env:"SERVICE_VERSION" envDefault:"dev"`
	Environment    string `env:"ENVIRONMENT" envDefault:"local"`

	// "grpc" or "http/protobuf".
	Protocol        string `env:"OTEL_EXPORTER_OTLP_PROTOCOL" envDefault:"http/protobuf"`
	MetricsProtocol string `env:"OTEL_EXPORTER_OTLP_METRICS_PROTOCOL"`

	// host:port or a full URL. Empty leaves the exporters to the
	// OTEL_EXPORTER_OTLP_* variables.
	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"`
	MetricsEndpoint string `env:"OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"`
	Insecure        bool   `env:"OTEL_EXPORTER_OTLP_INSECURE"`

	// 0 never samples, 1 always does, anything between is parent based.
	SamplerRatio float64 `env:"OTEL_SAMPLER_RATIO" envDefault:"1"`

	StartupTimeout time.Duration `env:"OTEL_STARTUP_TIMEOUT" envDefault:"5s"`
	Mode           Mode          `env:"OTEL_MODE" envDefault:"detect"`
	DisableMetrics bool          `env:"OTEL_DISABLE_METRICS"`

	ResourceAttrs map[string]string `env:"OTEL_EXTRA_RESOURCE_ATTRIBUTES" envSeparator:"," envKeyValSeparator:"="`
}

func (c Config) metricsProtocol() string {
	if c.MetricsProtocol != "" {
		return c.MetricsProtocol
	}
	return c.Protocol
}
