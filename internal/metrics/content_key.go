package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RegisterContentKeyGauge exports <namespace>_content_key_ready, 1 once the
// content key is provisioned and 0 before. ready is sampled on every scrape.
func RegisterContentKeyGauge(
	meterProvider metric.MeterProvider,
	namespace, alias, strategy string,
	ready func() bool,
) error {
	meter := meterProvider.Meter(namespace)

	attrs := metric.WithAttributes(
		attribute.String("alias", alias),
		attribute.String("strategy", strategy),
	)

	_, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_content_key_ready", namespace),
		metric.WithDescription("Whether the content key has been provisioned"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			var v int64
			if ready() {
				v = 1
			}
			o.Observe(v, attrs)
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create content key gauge: %w", err)
	}
	return nil
}
