package core

import (
	"errors"
	"math"
	"testing"
)

func flatPFL(np int, xi, z float64) []float64 {
	pfl := []float64{float64(np), xi}
	for i := 0; i <= np; i++ {
		pfl = append(pfl, z)
	}
	return pfl
}

func TestParsePFL(t *testing.T) {
	p, err := ParsePFL([]float64{2, 100, 1, 2, 3})
	if err != nil {
		t.Fatalf("ParsePFL error = %v", err)
	}
	if p.Intervals() != 2 || p.Spacing != 100 || p.Length() != 200 {
		t.Fatalf("profile = %+v, want 2 intervals of 100 m", p)
	}

	pfl := p.PFL()
	want := []float64{2, 100, 1, 2, 3}
	if len(pfl) != len(want) {
		t.Fatalf("PFL() = %v, want %v", pfl, want)
	}
	for i := range want {
		if pfl[i] != want[i] {
			t.Fatalf("PFL() = %v, want %v", pfl, want)
		}
	}
}

func TestParsePFLRejectsMalformed(t *testing.T) {
	cases := map[string][]float64{
		"short":           {1, 100},
		"fractional np":   {2.5, 100, 1, 2, 3},
		"one interval":    {1, 100, 1, 2},
		"zero spacing":    {2, 0, 1, 2, 3},
		"nan spacing":     {2, math.NaN(), 1, 2, 3},
		"length mismatch": {3, 100, 1, 2, 3},
	}
	for name, pfl := range cases {
		if _, err := ParsePFL(pfl); !errors.Is(err, ErrTerrainProfile) {
			t.Fatalf("%s: err = %v, want ErrTerrainProfile", name, err)
		}
	}
}

func TestProfileReverse(t *testing.T) {
	p := Profile{Spacing: 10, Elevations: []float64{1, 2, 3, 4}}
	r := p.Reverse()
	if r.Elevations[0] != 4 || r.Elevations[3] != 1 {
		t.Fatalf("Reverse() = %v, want [4 3 2 1]", r.Elevations)
	}
	if p.Elevations[0] != 1 {
		t.Fatalf("Reverse mutated the original: %v", p.Elevations)
	}
}

func TestFindHorizonsFlat(t *testing.T) {
	p, _ := ParsePFL(flatPFL(10, 100, 0))

	h := FindHorizons(p, 10, 10)
	if h.TX.HorizonDistance != 1000 || h.RX.HorizonDistance != 1000 {
		t.Fatalf("horizon distances = %v/%v, want 1000/1000", h.TX.HorizonDistance, h.RX.HorizonDistance)
	}
	want := -1000 / (2 * MoonRadiusM)
	if math.Abs(h.TX.HorizonAngle-want) > 1e-15 {
		t.Fatalf("TX horizon angle = %v, want %v", h.TX.HorizonAngle, want)
	}
}

func TestFindHorizonsRidge(t *testing.T) {
	pfl := flatPFL(10, 100, 0)
	pfl[2+5] = 100
	p, _ := ParsePFL(pfl)

	h := FindHorizons(p, 10, 10)
	if h.TX.HorizonDistance != 500 || h.RX.HorizonDistance != 500 {
		t.Fatalf("horizon distances = %v/%v, want 500/500", h.TX.HorizonDistance, h.RX.HorizonDistance)
	}
	if h.TX.HorizonAngle <= 0 || h.RX.HorizonAngle <= 0 {
		t.Fatalf("horizon angles = %v/%v, want positive", h.TX.HorizonAngle, h.RX.HorizonAngle)
	}
}

func TestLinearLeastSquaresFitExactOnLine(t *testing.T) {
	pfl := []float64{10, 50}
	for i := 0; i <= 10; i++ {
		pfl = append(pfl, 5+0.5*float64(i))
	}
	p, _ := ParsePFL(pfl)

	fitTX, fitRX := LinearLeastSquaresFit(p, 0, p.Length())
	if math.Abs(fitTX-5) > 1e-9 || math.Abs(fitRX-10) > 1e-9 {
		t.Fatalf("fit = %v, %v, want 5, 10", fitTX, fitRX)
	}
}

func TestComputeDeltaH(t *testing.T) {
	flat, _ := ParsePFL(flatPFL(100, 100, 42))
	if got := ComputeDeltaH(flat, 0, flat.Length()); math.Abs(got) > 1e-9 {
		t.Fatalf("ComputeDeltaH(flat) = %v, want 0", got)
	}

	// Too few samples in range.
	if got := ComputeDeltaH(flat, 0, 150); got != 0 {
		t.Fatalf("ComputeDeltaH(short) = %v, want 0", got)
	}

	pfl := []float64{100, 100}
	for i := 0; i <= 100; i++ {
		z := 0.0
		if i%2 == 1 {
			z = 30
		}
		pfl = append(pfl, z)
	}
	rough, _ := ParsePFL(pfl)
	if got := ComputeDeltaH(rough, 0, rough.Length()); got <= 0 {
		t.Fatalf("ComputeDeltaH(rough) = %v, want positive", got)
	}
}

func TestQuickPflFlatProfile(t *testing.T) {
	p, _ := ParsePFL(flatPFL(100, 100, 0))

	g := QuickPfl(p, 10, 10)
	if g.Distance != 10e3 {
		t.Fatalf("distance = %v, want 10000", g.Distance)
	}
	if math.Abs(g.DeltaH) > 1e-9 {
		t.Fatalf("delta h = %v, want 0", g.DeltaH)
	}
	if math.Abs(g.Terminals.TX.EffectiveHeight-10) > 1e-9 || math.Abs(g.Terminals.RX.EffectiveHeight-10) > 1e-9 {
		t.Fatalf("effective heights = %v/%v, want 10/10", g.Terminals.TX.EffectiveHeight, g.Terminals.RX.EffectiveHeight)
	}
	if want := smoothHorizonDistance(10); math.Abs(g.Terminals.TX.HorizonDistance-want) > 1e-6 {
		t.Fatalf("TX horizon = %v, want smooth-sphere %v", g.Terminals.TX.HorizonDistance, want)
	}
}
