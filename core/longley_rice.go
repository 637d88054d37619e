package core

import (
	"math"

	"github.com/signalsfoundry/lunar-propagation/model"
)

// Attenuation is the outcome of the reference attenuation calculation.
type Attenuation struct {
	// ReferenceDB is the attenuation relative to free space, dB, never
	// negative or NaN.
	ReferenceDB float64
	Mode        model.Mode
	Warnings    model.Warning
}

// Option adjusts how LongleyRice evaluates the diffraction line.
type Option func(*options)

type options struct {
	effectiveAngle bool
}

// WithEffectiveDiffractionAngle evaluates the diffraction samples at the
// effective path angle -max(theta_tx + theta_rx, -d_L/a) instead of the
// smooth-surface line-of-sight distance. The published model passes the
// distance, which drives every diffraction sample to NaN and clamps the
// reference attenuation to zero.
func WithEffectiveDiffractionAngle(on bool) Option {
	return func(o *options) { o.effectiveAngle = on }
}

// LongleyRice computes the reference attenuation for a path of length d
// (m) with the given terminal geometry, terrain irregularity and ground
// impedance. Warnings raised here are returned in the result even when the
// ground impedance check fails.
func LongleyRice(t model.Terminals, fMHz float64, zg complex128, deltaH, dM float64, opts ...Option) (Attenuation, error) {
	var out Attenuation

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	dhznS := [2]float64{
		smoothHorizonDistance(t.TX.EffectiveHeight),
		smoothHorizonDistance(t.RX.EffectiveHeight),
	}
	dls := dhznS[0] + dhznS[1]
	dl := t.CombinedHorizonDistance()

	// The diffraction samples take dls in the angle slot unless asked
	// otherwise.
	angle := dls
	if o.effectiveAngle {
		angle = -max(t.TX.HorizonAngle+t.RX.HorizonAngle, -dl/MoonRadiusM)
	}

	// Small angle approximations start to break down.
	if math.Abs(t.TX.HorizonAngle) > 200e-3 {
		out.Warnings |= model.WarnTXHorizonAngle
	}
	if math.Abs(t.RX.HorizonAngle) > 200e-3 {
		out.Warnings |= model.WarnRXHorizonAngle
	}

	if t.TX.HorizonDistance < 0.1*dhznS[0] {
		out.Warnings |= model.WarnTXHorizonDistance1
	}
	if t.RX.HorizonDistance < 0.1*dhznS[1] {
		out.Warnings |= model.WarnRXHorizonDistance1
	}
	if t.TX.HorizonDistance > 3.0*dhznS[0] {
		out.Warnings |= model.WarnTXHorizonDistance2
	}
	if t.RX.HorizonDistance > 3.0*dhznS[1] {
		out.Warnings |= model.WarnRXHorizonDistance2
	}

	if real(zg) <= math.Abs(imag(zg)) {
		return out, ErrGroundImpedance
	}

	k := waveNumber(fMHz)

	xae := math.Pow(k/math.Pow(MoonRadiusM, 2), -third)

	// Two points beyond the horizon define the linear diffraction model.
	d3 := max(dls, dl+1.3787*xae)
	d4 := d3 + 2.7574*xae

	a3 := DiffractionLoss(d3, t, zg, deltaH, angle, fMHz)
	a4 := DiffractionLoss(d4, t, zg, deltaH, angle, fMHz)

	md := (a4 - a3) / (d4 - d3)
	aed := a3 - md*d3

	dMin := math.Abs(t.TX.EffectiveHeight-t.RX.EffectiveHeight) / 200e-3

	if dM < dMin {
		out.Warnings |= model.WarnPathDistanceTooSmall1
	}
	if dM < 1e3 {
		out.Warnings |= model.WarnPathDistanceTooSmall2
	}
	if dM > 1000e3 {
		out.Warnings |= model.WarnPathDistanceTooBig1
	}
	if dM > 2000e3 {
		out.Warnings |= model.WarnPathDistanceTooBig2
	}

	var aref float64
	if dM < dls {
		aref = lineOfSightFit(t, zg, deltaH, md, aed, dls, dl, k, fMHz).at(dM)
	} else {
		aref = md*dM + aed
	}

	out.Mode = classifyMode(dM, dl)
	// NaN clamps to zero as well.
	if !(aref > 0.0) {
		aref = 0.0
	}
	out.ReferenceDB = aref
	return out, nil
}

// losFit is the two-term model A = A_o + k1*d + k2*ln(d) used inside the
// smooth-surface line-of-sight distance.
type losFit struct {
	ao, k1, k2 float64
}

func (f losFit) at(dM float64) float64 {
	return f.ao + f.k1*dM + f.k2*math.Log(dM)
}

// lineOfSightFit joins line-of-sight loss samples at d0 and d1 to the
// diffraction line at d2 = dls.
func lineOfSightFit(t model.Terminals, zg complex128, deltaH, md, aed, dls, dl, k, fMHz float64) losFit {
	d2 := dls
	a2 := aed + md*dls

	var d0, d1 float64
	if aed >= 0.0 {
		d0 = min(0.5*dl, 1.908*k*t.TX.EffectiveHeight*t.RX.EffectiveHeight)
		d1 = 3.0/4.0*d0 + dl/4.0
	} else {
		d0 = 1.908 * k * t.TX.EffectiveHeight * t.RX.EffectiveHeight
		d1 = max(-aed/md, dl/4.0)
	}

	a1 := LineOfSightLoss(d1, t, zg, deltaH, md, aed, dls, fMHz)

	flag := false
	k1, k2 := 0.0, 0.0

	if d0 < d1 {
		a0 := LineOfSightLoss(d0, t, zg, deltaH, md, aed, dls, fMHz)

		term1 := math.Log(dls / d0)

		k2 = max(0.0, ((dls-d0)*(a1-a0)-(d1-d0)*(a2-a0))/((dls-d0)*math.Log(d1/d0)-(d1-d0)*term1))

		flag = aed > 0.0 || k2 > 0.0

		if flag {
			k1 = (a2 - a0 - k2*term1) / (d2 - d0)

			if k1 < 0.0 {
				k1 = 0.0
				k2 = math.Dim(a2, a0) / term1

				if k2 == 0.0 {
					k1 = md
				}
			}
		}
	}

	if !flag {
		k1 = math.Dim(a2, a1) / (dls - d1)
		k2 = 0.0

		if k1 == 0.0 {
			k1 = md
		}
	}

	return losFit{
		ao: a2 - k1*dls - k2*math.Log(dls),
		k1: k1,
		k2: k2,
	}
}

// classifyMode compares the path distance with the combined horizon
// distance, truncated to whole metres: shorter is line of sight, equal is a
// single-horizon diffraction path and longer a double-horizon one.
func classifyMode(dM, dlM float64) model.Mode {
	delta := int(dM - dlM)
	switch {
	case delta < 0:
		return model.ModeLineOfSight
	case delta == 0:
		return model.ModeDiffractionSingleHorizon
	default:
		return model.ModeDiffractionDoubleHorizon
	}
}
