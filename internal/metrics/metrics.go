// Package metrics wires the OpenTelemetry meter provider. Metrics are opt-in;
// with metrics disabled the global provider stays a noop and instrument calls
// cost nothing meaningful.
package metrics

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/looplj/visionhub/internal/build"
)

const defaultInterval = time.Minute

// NewProvider builds the meter provider from config. Returns nil when metrics
// are disabled; callers treat a nil provider as "skip setup".
func NewProvider(config Config) (*sdk.MeterProvider, error) {
	if !config.Enabled {
		return nil, nil
	}

	exporter, err := stdoutmetric.New()
	if err != nil {
		return nil, err
	}

	interval := config.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName("visionhub"),
		semconv.ServiceVersion(build.Version),
	))
	if err != nil {
		return nil, err
	}

	provider := sdk.NewMeterProvider(
		sdk.WithResource(res),
		sdk.WithReader(sdk.NewPeriodicReader(exporter, sdk.WithInterval(interval))),
	)

	return provider, nil
}

// SetupMetrics installs the provider as the global meter provider.
func SetupMetrics(provider *sdk.MeterProvider) error {
	otel.SetMeterProvider(provider)
	return nil
}
