package core

import (
	"github.com/signalsfoundry/lunar-propagation/model"
)

// Result is the full outcome of a computation.
type Result struct {
	// LossDB is the basic transmission loss, dB. It is zero when the
	// computation failed.
	LossDB      float64
	Warnings    model.Warning
	Diagnostics model.Diagnostics
}

// Code is the integer return code of the published interface for this
// result and the error that accompanied it.
func (r Result) Code(err error) int {
	return ReturnCode(r.Warnings, err)
}

// PointToPoint computes the basic transmission loss over a terrain profile.
func PointToPoint(in model.PointToPointInput) (float64, model.Warning, error) {
	r, err := PointToPointEx(in)
	return r.LossDB, r.Warnings, err
}

// PointToPointEx is PointToPoint with the intermediate values of the
// computation attached.
func PointToPointEx(in model.PointToPointInput) (Result, error) {
	var r Result

	w, err := ValidateInputs(in.TXHeight, in.RXHeight, in.LocationPercent, in.FrequencyMHz,
		in.Polarization, in.Ground.Epsilon, in.Ground.Sigma)
	r.Warnings = w
	if err != nil {
		return r, err
	}

	p, err := ParsePFL(in.Profile)
	if err != nil {
		return r, err
	}
	r.Diagnostics.DistanceKm = p.Length() / 1000

	zg := GroundImpedance(in.FrequencyMHz, in.Polarization, in.Ground.Epsilon, in.Ground.Sigma)

	geom := QuickPfl(p, in.TXHeight, in.RXHeight)

	return finish(r, geom, zg, in.FrequencyMHz, in.LocationPercent,
		WithEffectiveDiffractionAngle(in.EffectiveDiffractionAngle))
}

// Area computes the basic transmission loss from terrain statistics.
func Area(in model.AreaInput) (float64, model.Warning, error) {
	r, err := AreaEx(in)
	return r.LossDB, r.Warnings, err
}

// AreaEx is Area with the intermediate values of the computation attached.
func AreaEx(in model.AreaInput) (Result, error) {
	var r Result

	w, err := ValidateInputs(in.TXHeight, in.RXHeight, in.LocationPercent, in.FrequencyMHz,
		in.Polarization, in.Ground.Epsilon, in.Ground.Sigma)
	r.Warnings = w
	if err != nil {
		return r, err
	}
	if err := validateArea(in); err != nil {
		return r, err
	}
	r.Diagnostics.DistanceKm = in.DistanceKm

	zg := GroundImpedance(in.FrequencyMHz, in.Polarization, in.Ground.Epsilon, in.Ground.Sigma)

	geom := PathGeometry{
		Terminals: InitializeArea(in.TXSiting, in.RXSiting, in.DeltaH, in.TXHeight, in.RXHeight),
		DeltaH:    in.DeltaH,
		Distance:  in.DistanceKm * 1000,
	}

	return finish(r, geom, zg, in.FrequencyMHz, in.LocationPercent,
		WithEffectiveDiffractionAngle(in.EffectiveDiffractionAngle))
}

// finish runs the mode-independent tail of a computation.
func finish(r Result, g PathGeometry, zg complex128, fMHz, pct float64, opts ...Option) (Result, error) {
	att, err := LongleyRice(g.Terminals, fMHz, zg, g.DeltaH, g.Distance, opts...)
	r.Warnings |= att.Warnings
	if err != nil {
		return r, err
	}

	afs := FreeSpaceLoss(g.Distance, fMHz)

	r.LossDB = Variability(pct/100, g.DeltaH, fMHz, g.Distance, att.ReferenceDB) + afs

	r.Diagnostics.SetTerminals(g.Terminals)
	r.Diagnostics.DeltaH = g.DeltaH
	r.Diagnostics.ReferenceAttenuation = att.ReferenceDB
	r.Diagnostics.FreeSpaceLoss = afs
	r.Diagnostics.Mode = att.Mode

	return r, nil
}
