//go:build perf || perf_large

package perf

import (
	"context"
	"testing"

	"github.com/ojrac/opensimplex-go"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/lunar-propagation/internal/logging"
	"github.com/signalsfoundry/lunar-propagation/internal/nbi"
	"github.com/signalsfoundry/lunar-propagation/kb"
	"github.com/signalsfoundry/lunar-propagation/model"
)

type perfConfig struct {
	// ProfilePoints is the number of intervals in each terrain profile.
	ProfilePoints int
	// Requests is the number of requests handled per iteration.
	Requests int
}

func newService() *nbi.PropagationService {
	return nbi.NewPropagationService(kb.DefaultCatalog(), logging.Noop(), nil)
}

func profileRequest(b *testing.B, np int, seed int) *structpb.Struct {
	b.Helper()
	pfl := make([]float64, 0, np+3)
	pfl = append(pfl, float64(np), 25)
	noise := opensimplex.New(int64(seed))
	for i := 0; i <= np; i++ {
		pfl = append(pfl, 40*noise.Eval2(float64(i)/30, 0))
	}

	req, err := nbi.EncodePointToPoint(model.PointToPointInput{
		TXHeight:        3,
		RXHeight:        2,
		Profile:         pfl,
		FrequencyMHz:    2200,
		Polarization:    model.PolarizationVertical,
		Ground:          model.Ground{Epsilon: 3.8, Sigma: 1e-4},
		LocationPercent: 50,
	})
	if err != nil {
		b.Fatalf("EncodePointToPoint: %v", err)
	}
	return req
}

func benchmarkPointToPoint(b *testing.B, cfg perfConfig) {
	ctx := context.Background()
	svc := newService()
	reqs := make([]*structpb.Struct, cfg.Requests)
	for i := range reqs {
		reqs[i] = profileRequest(b, cfg.ProfilePoints, i)
	}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		for _, req := range reqs {
			if _, err := svc.PointToPoint(ctx, req); err != nil {
				b.Fatalf("PointToPoint: %v", err)
			}
		}
	}
}

func benchmarkArea(b *testing.B, cfg perfConfig) {
	ctx := context.Background()
	svc := newService()
	reqs := make([]*structpb.Struct, cfg.Requests)
	for i := range reqs {
		req, err := structpb.NewStruct(map[string]interface{}{
			"tx_site":          "lander",
			"rx_site":          "rover",
			"distance_km":      1 + float64(i%100),
			"delta_h_m":        40,
			"frequency_mhz":    400,
			"polarization":     "vertical",
			"ground_preset":    "mare_regolith",
			"location_percent": 50,
		})
		if err != nil {
			b.Fatalf("NewStruct: %v", err)
		}
		reqs[i] = req
	}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		for _, req := range reqs {
			if _, err := svc.Area(ctx, req); err != nil {
				b.Fatalf("Area: %v", err)
			}
		}
	}
}
