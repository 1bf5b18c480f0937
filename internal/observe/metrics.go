// Package observe provides OpenTelemetry metrics and tracing for the voice
// service, with a Prometheus exporter bridge for /metrics scraping.
//
// Tests should build [Metrics] via [NewMetrics] with a ManualReader-backed
// provider to avoid cross-test pollution.
package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/heartmarshall/instant-voices"

// Metrics holds the metric instruments for the application.
type Metrics struct {
	// VoiceUpserts counts stored records. Attributes: "op" (create|update), "audio" (true|false).
	VoiceUpserts metric.Int64Counter

	// VoiceDeletes counts removed records.
	VoiceDeletes metric.Int64Counter

	// UploadRejections counts refused uploads. Attribute: "reason".
	UploadRejections metric.Int64Counter

	// AudioPayloadBytes tracks accepted audio payload sizes.
	AudioPayloadBytes metric.Int64Histogram

	// HTTPRequestDuration tracks request latency. Attributes: "method", "route", "status".
	HTTPRequestDuration metric.Float64Histogram
}

var latencyBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
}

var sizeBuckets = []float64{
	1 << 10, 16 << 10, 64 << 10, 256 << 10, 1 << 20, 4 << 20, 10 << 20,
}

// NewMetrics creates all instruments on the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.VoiceUpserts, err = m.Int64Counter("voices.upserts",
		metric.WithDescription("Custom voice records written, by operation and audio presence."),
	); err != nil {
		return nil, err
	}
	if met.VoiceDeletes, err = m.Int64Counter("voices.deletes",
		metric.WithDescription("Custom voice records deleted."),
	); err != nil {
		return nil, err
	}
	if met.UploadRejections, err = m.Int64Counter("voices.upload.rejections",
		metric.WithDescription("Uploads refused by validation, by reason."),
	); err != nil {
		return nil, err
	}
	if met.AudioPayloadBytes, err = m.Int64Histogram("voices.audio.size",
		metric.WithDescription("Size of accepted audio payloads."),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(sizeBuckets...),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("voices.http.request.duration",
		metric.WithDescription("HTTP request latency by method, route and status."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// VoiceUpserted records a stored record and, when audio was replaced, its size.
func (m *Metrics) VoiceUpserted(ctx context.Context, created, withAudio bool, sizeBytes int64) {
	op := "update"
	if created {
		op = "create"
	}
	m.VoiceUpserts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.Bool("audio", withAudio),
	))
	if withAudio {
		m.AudioPayloadBytes.Record(ctx, sizeBytes)
	}
}

// VoiceDeleted records a deletion.
func (m *Metrics) VoiceDeleted(ctx context.Context) {
	m.VoiceDeletes.Add(ctx, 1)
}

// UploadRejected records a refused upload.
func (m *Metrics) UploadRejected(ctx context.Context, reason string) {
	m.UploadRejections.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
