package nbi

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/signalsfoundry/lunar-propagation/kb"
	"github.com/signalsfoundry/lunar-propagation/model"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range s.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestAreaComputeSpan(t *testing.T) {
	sr := recordSpans(t)
	svc := NewPropagationService(kb.DefaultCatalog(), nil, nil)

	in := nominalArea()
	in.EffectiveDiffractionAngle = true
	doc, err := EncodeArea(in)
	if err != nil {
		t.Fatalf("EncodeArea: %v", err)
	}
	if _, err := svc.Area(context.Background(), doc); err != nil {
		t.Fatalf("Area: %v", err)
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	s := spans[0]
	if s.Name() != "ILM/compute/area" {
		t.Fatalf("span name = %q, want ILM/compute/area", s.Name())
	}
	attrs := spanAttrs(s)
	if got := attrs["ilm.mode_kind"].AsString(); got != "area" {
		t.Fatalf("ilm.mode_kind = %q, want area", got)
	}
	if !attrs["ilm.effective_diffraction_angle"].AsBool() {
		t.Fatalf("ilm.effective_diffraction_angle not set")
	}
	if got := attrs["ilm.distance_km"].AsFloat64(); got != 20 {
		t.Fatalf("ilm.distance_km = %v, want 20", got)
	}
	if got := attrs["ilm.code"].AsInt64(); got != 0 {
		t.Fatalf("ilm.code = %d, want 0", got)
	}
	if got := attrs["ilm.a_ref_db"].AsFloat64(); got <= 0 {
		t.Fatalf("ilm.a_ref_db = %v, want positive with the effective angle", got)
	}
	if _, ok := attrs["ilm.loss_db"]; !ok {
		t.Fatalf("ilm.loss_db missing")
	}
}

func TestPointToPointComputeSpanRecordsError(t *testing.T) {
	sr := recordSpans(t)
	svc := NewPropagationService(nil, nil, nil)

	doc, err := EncodePointToPoint(model.PointToPointInput{
		TXHeight:        3,
		RXHeight:        2,
		Profile:         []float64{2, 50, 0, 0, 0},
		FrequencyMHz:    1000,
		Polarization:    model.PolarizationHorizontal,
		Ground:          model.Ground{Epsilon: 1, Sigma: 0.01},
		LocationPercent: 50,
	})
	if err != nil {
		t.Fatalf("EncodePointToPoint: %v", err)
	}
	if _, err := svc.PointToPoint(context.Background(), doc); err == nil {
		t.Fatalf("PointToPoint error = nil, want ground impedance rejection")
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	s := spans[0]
	if s.Name() != "ILM/compute/p2p" || s.Status().Code != codes.Error {
		t.Fatalf("span = %q status %v, want ILM/compute/p2p with error status", s.Name(), s.Status())
	}
	attrs := spanAttrs(s)
	if got := attrs["ilm.profile_points"].AsInt64(); got != 5 {
		t.Fatalf("ilm.profile_points = %d, want 5", got)
	}
	if got := attrs["ilm.code"].AsInt64(); got == 0 {
		t.Fatalf("ilm.code = 0, want the ground impedance code")
	}
	if _, ok := attrs["ilm.loss_db"]; ok {
		t.Fatalf("ilm.loss_db set on a failed computation")
	}
}
