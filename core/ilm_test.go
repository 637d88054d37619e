package core

import (
	"errors"
	"math"
	"testing"

	"github.com/ojrac/opensimplex-go"

	"github.com/signalsfoundry/lunar-propagation/model"
)

var regolith = model.Ground{Epsilon: 4, Sigma: 0.0001}

func nominalArea() model.AreaInput {
	return model.AreaInput{
		TXHeight:        10,
		RXHeight:        3,
		TXSiting:        model.SitingFixed,
		RXSiting:        model.SitingMobile,
		DistanceKm:      20,
		DeltaH:          30,
		FrequencyMHz:    1000,
		Polarization:    model.PolarizationVertical,
		Ground:          regolith,
		LocationPercent: 50,
	}
}

// roughPFL builds a profile of np intervals with simplex-noise terrain of
// the given amplitude.
func roughPFL(seed int64, np int, xi, amplitude float64) []float64 {
	noise := opensimplex.New(seed)
	pfl := []float64{float64(np), xi}
	for i := 0; i <= np; i++ {
		x := float64(i) * xi / 2000
		z := amplitude * (noise.Eval2(x, 0) + 0.5*noise.Eval2(4*x, 1))
		pfl = append(pfl, z)
	}
	return pfl
}

func TestAreaNominal(t *testing.T) {
	in := nominalArea()

	r, err := AreaEx(in)
	if err != nil {
		t.Fatalf("AreaEx error = %v", err)
	}
	if math.IsNaN(r.LossDB) || math.IsInf(r.LossDB, 0) {
		t.Fatalf("loss = %v, want finite", r.LossDB)
	}
	if r.Diagnostics.ReferenceAttenuation < 0 {
		t.Fatalf("A_ref = %v, want >= 0", r.Diagnostics.ReferenceAttenuation)
	}
	if want := FreeSpaceLoss(20e3, 1000); math.Abs(r.Diagnostics.FreeSpaceLoss-want) > 1e-12 {
		t.Fatalf("A_fs = %v, want %v", r.Diagnostics.FreeSpaceLoss, want)
	}
	// At the median location the variability term is within the
	// approximation error of zero.
	if r.LossDB < r.Diagnostics.FreeSpaceLoss-0.01 {
		t.Fatalf("loss = %v, want >= free space %v", r.LossDB, r.Diagnostics.FreeSpaceLoss)
	}
	if r.Diagnostics.DistanceKm != 20 || r.Diagnostics.DeltaH != 30 {
		t.Fatalf("diagnostics = %+v, want distance 20 km and delta h 30 m", r.Diagnostics)
	}
	if r.Diagnostics.EffectiveHeights[0] <= 10 {
		t.Fatalf("fixed TX effective height = %v, want above structural 10 m", r.Diagnostics.EffectiveHeights[0])
	}
	if r.Diagnostics.EffectiveHeights[1] != 3 {
		t.Fatalf("mobile RX effective height = %v, want 3", r.Diagnostics.EffectiveHeights[1])
	}
	if r.Diagnostics.Mode == model.ModeNotSet {
		t.Fatalf("mode not set")
	}

	loss, w, err := Area(in)
	if err != nil || loss != r.LossDB || w != r.Warnings {
		t.Fatalf("Area = %v, %v, %v, want %v, %v, nil", loss, w, err, r.LossDB, r.Warnings)
	}
}

func TestAreaReciprocal(t *testing.T) {
	in := nominalArea()

	fwd, err := AreaEx(in)
	if err != nil {
		t.Fatalf("AreaEx error = %v", err)
	}
	rev, err := AreaEx(in.Swap())
	if err != nil {
		t.Fatalf("AreaEx(swapped) error = %v", err)
	}
	if math.Abs(fwd.LossDB-rev.LossDB) > 1e-6 {
		t.Fatalf("loss forward/reverse = %v/%v, want equal", fwd.LossDB, rev.LossDB)
	}
}

func TestAreaMonotonicInDistance(t *testing.T) {
	in := nominalArea()

	prev := math.Inf(-1)
	for d := 1.0; d <= 500; d *= 1.5 {
		in.DistanceKm = d
		loss, _, err := Area(in)
		if err != nil {
			t.Fatalf("Area(d=%v) error = %v", d, err)
		}
		if loss < prev-1e-6 {
			t.Fatalf("Area(d=%v) = %v, below %v at the shorter distance", d, loss, prev)
		}
		prev = loss
	}
}

func TestAreaValidationErrors(t *testing.T) {
	in := nominalArea()
	in.DeltaH = -1
	in.TXHeight = 0.9

	r, err := AreaEx(in)
	if !errors.Is(err, ErrDeltaH) {
		t.Fatalf("err = %v, want ErrDeltaH", err)
	}
	if r.LossDB != 0 {
		t.Fatalf("loss = %v, want 0 on error", r.LossDB)
	}
	if !r.Warnings.Has(model.WarnTXTerminalHeight) {
		t.Fatalf("warnings = %v, want TX height kept", r.Warnings)
	}
	if got := r.Code(err); got != CodeDeltaH {
		t.Fatalf("code = %d, want %d", got, CodeDeltaH)
	}
}

func TestAreaGroundImpedanceError(t *testing.T) {
	in := nominalArea()
	in.Polarization = model.PolarizationHorizontal
	in.Ground = model.Ground{Epsilon: 1, Sigma: 0.01}

	if _, _, err := Area(in); !errors.Is(err, ErrGroundImpedance) {
		t.Fatalf("err = %v, want ErrGroundImpedance", err)
	}
}

func TestPointToPointFlat(t *testing.T) {
	in := model.PointToPointInput{
		TXHeight:        10,
		RXHeight:        10,
		Profile:         flatPFL(100, 100, 0),
		FrequencyMHz:    1000,
		Polarization:    model.PolarizationVertical,
		Ground:          regolith,
		LocationPercent: 50,
	}

	r, err := PointToPointEx(in)
	if err != nil {
		t.Fatalf("PointToPointEx error = %v", err)
	}
	if r.Diagnostics.Mode != model.ModeLineOfSight {
		t.Fatalf("mode = %v, want line of sight", r.Diagnostics.Mode)
	}
	if r.Diagnostics.DistanceKm != 10 {
		t.Fatalf("distance = %v km, want 10", r.Diagnostics.DistanceKm)
	}
	if math.IsNaN(r.LossDB) || r.LossDB < r.Diagnostics.FreeSpaceLoss {
		t.Fatalf("loss = %v, want >= free space %v", r.LossDB, r.Diagnostics.FreeSpaceLoss)
	}
	if got := r.Code(err); got != CodeSuccess && got != CodeSuccessWithWarnings {
		t.Fatalf("code = %d, want success", got)
	}
}

func TestPointToPointRejectsBadProfile(t *testing.T) {
	in := model.PointToPointInput{
		TXHeight:        10,
		RXHeight:        10,
		Profile:         []float64{5, 100, 0, 0},
		FrequencyMHz:    1000,
		Polarization:    model.PolarizationVertical,
		Ground:          regolith,
		LocationPercent: 50,
	}

	_, _, err := PointToPoint(in)
	if !errors.Is(err, ErrTerrainProfile) {
		t.Fatalf("err = %v, want ErrTerrainProfile", err)
	}
	if Code(err) != CodeTerrainProfile {
		t.Fatalf("Code = %d, want %d", Code(err), CodeTerrainProfile)
	}
}

func TestPointToPointRoughTerrain(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		in := model.PointToPointInput{
			TXHeight:        5,
			RXHeight:        2,
			Profile:         roughPFL(seed, 400, 50, 60),
			FrequencyMHz:    400,
			Polarization:    model.PolarizationHorizontal,
			Ground:          regolith,
			LocationPercent: 50,
		}

		r, err := PointToPointEx(in)
		if err != nil {
			t.Fatalf("seed %d: error = %v", seed, err)
		}
		if math.IsNaN(r.LossDB) || math.IsInf(r.LossDB, 0) {
			t.Fatalf("seed %d: loss = %v, want finite", seed, r.LossDB)
		}
		if r.Diagnostics.ReferenceAttenuation < 0 || r.Diagnostics.DeltaH < 0 {
			t.Fatalf("seed %d: diagnostics = %+v", seed, r.Diagnostics)
		}
	}
}

func TestPointToPointConcurrent(t *testing.T) {
	in := model.PointToPointInput{
		TXHeight:        5,
		RXHeight:        5,
		Profile:         roughPFL(42, 200, 50, 40),
		FrequencyMHz:    2000,
		Polarization:    model.PolarizationVertical,
		Ground:          regolith,
		LocationPercent: 90,
	}
	want, _, err := PointToPoint(in)
	if err != nil {
		t.Fatalf("PointToPoint error = %v", err)
	}

	done := make(chan float64)
	for i := 0; i < 8; i++ {
		go func() {
			got, _, _ := PointToPoint(in)
			done <- got
		}()
	}
	for i := 0; i < 8; i++ {
		if got := <-done; got != want {
			t.Fatalf("concurrent PointToPoint = %v, want %v", got, want)
		}
	}
}

func closeTo(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

func TestAreaReferenceValues(t *testing.T) {
	short := model.AreaInput{
		TXHeight:        10,
		RXHeight:        3,
		TXSiting:        model.SitingFixed,
		RXSiting:        model.SitingMobile,
		DistanceKm:      0.5,
		DeltaH:          0,
		FrequencyMHz:    30,
		Polarization:    model.PolarizationHorizontal,
		Ground:          regolith,
		LocationPercent: 50,
	}
	shortEff := short
	shortEff.EffectiveDiffractionAngle = true

	nominal90 := nominalArea()
	nominal90.LocationPercent = 90
	nominalEff := nominalArea()
	nominalEff.EffectiveDiffractionAngle = true
	nominal90Eff := nominal90
	nominal90Eff.EffectiveDiffractionAngle = true

	cases := []struct {
		name     string
		in       model.AreaInput
		loss     float64
		aref     float64
		warnings model.Warning
	}{
		{"short default", short, 55.97182518111363, 0, model.WarnFrequency | model.WarnPathDistanceTooSmall2},
		{"short effective angle", shortEff, 73.420120738670107, 17.448295557556477, model.WarnFrequency | model.WarnPathDistanceTooSmall2},
		{"nominal default", nominalArea(), 118.47060218982583, 0, model.WarnNone},
		{"nominal 90%", nominal90, 115.13251507407654, 0, model.WarnNone},
		{"nominal effective angle", nominalEff, 149.40125752391782, 30.930655334092009, model.WarnNone},
		{"nominal 90% effective angle", nominal90Eff, 137.13102854855981, 30.930655334092009, model.WarnNone},
	}
	for _, tc := range cases {
		r, err := AreaEx(tc.in)
		if err != nil {
			t.Fatalf("%s: error = %v", tc.name, err)
		}
		if !closeTo(r.LossDB, tc.loss, 1e-6) {
			t.Fatalf("%s: loss = %.12f, want %.12f", tc.name, r.LossDB, tc.loss)
		}
		if !closeTo(r.Diagnostics.ReferenceAttenuation, tc.aref, 1e-6) {
			t.Fatalf("%s: A_ref = %.12f, want %.12f", tc.name, r.Diagnostics.ReferenceAttenuation, tc.aref)
		}
		if r.Warnings != tc.warnings {
			t.Fatalf("%s: warnings = %v, want %v", tc.name, r.Warnings, tc.warnings)
		}
	}
}

func TestPointToPointReferenceValues(t *testing.T) {
	in := model.PointToPointInput{
		TXHeight:        10,
		RXHeight:        3,
		Profile:         []float64{10, 100, 0, 2, 5, 9, 12, 8, 4, 6, 3, 1, 0},
		FrequencyMHz:    1000,
		Polarization:    model.PolarizationVertical,
		Ground:          regolith,
		LocationPercent: 50,
	}

	r, err := PointToPointEx(in)
	if err != nil {
		t.Fatalf("PointToPointEx error = %v", err)
	}
	if !closeTo(r.LossDB, 92.450002221797064, 1e-6) {
		t.Fatalf("loss = %.12f, want 92.450002221797", r.LossDB)
	}
	if r.Warnings != model.WarnTXHorizonDistance1 || r.Code(err) != CodeSuccessWithWarnings {
		t.Fatalf("warnings = %v, code = %d", r.Warnings, r.Code(err))
	}

	d := r.Diagnostics
	if d.Mode != model.ModeDiffractionSingleHorizon || d.ReferenceAttenuation != 0 {
		t.Fatalf("mode = %v, A_ref = %v", d.Mode, d.ReferenceAttenuation)
	}
	if !closeTo(d.DeltaH, 40.863924381031822, 1e-9) {
		t.Fatalf("delta h = %.12f", d.DeltaH)
	}
	if !closeTo(d.EffectiveHeights[0], 10.833333333333332, 1e-9) || !closeTo(d.EffectiveHeights[1], 3.5438596491228074, 1e-9) {
		t.Fatalf("effective heights = %v", d.EffectiveHeights)
	}
	if !closeTo(d.HorizonDistances[0], 400, 1e-9) || !closeTo(d.HorizonDistances[1], 600, 1e-9) {
		t.Fatalf("horizon distances = %v, want [400 600]", d.HorizonDistances)
	}
	if !closeTo(d.HorizonAngles[0], 0.0048848854610337288, 1e-12) || !closeTo(d.HorizonAngles[1], 0.014827328191550592, 1e-12) {
		t.Fatalf("horizon angles = %v", d.HorizonAngles)
	}
}
