package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectCounterSums(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			sums[m.Name] = total
		}
	}
	return sums
}

func TestMetrics_GeoAndCacheCountersRecord(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	previous := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	t.Cleanup(func() { otel.SetMeterProvider(previous) })

	metrics, err := InitMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	RecordGeoLookupMetric(ctx, metrics, "overpass", false)
	RecordGeoLookupMetric(ctx, metrics, "overpass", true)
	RecordCacheMetric(ctx, metrics, "pharmacies", true)
	RecordCacheMetric(ctx, metrics, "pharmacies", false)

	sums := collectCounterSums(t, reader)

	assert.Equal(t, int64(2), sums["geo.lookup.count"], "every lookup counted")
	assert.Equal(t, int64(1), sums["geo.lookup.errors"], "only the failed lookup counted")
	assert.Equal(t, int64(1), sums["cache.hit.count"])
	assert.Equal(t, int64(1), sums["cache.miss.count"])
}

func TestRecordMetrics_NilMetricsAreNoOps(t *testing.T) {
	ctx := context.Background()
	RecordGeoLookupMetric(ctx, nil, "overpass", true)
	RecordCacheMetric(ctx, nil, "pharmacies", true)
}
