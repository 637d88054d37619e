package core

import "math"

// Variability adds location variability to the reference attenuation aRef
// (dB). p is the location fraction in (0, 1). Negative results are
// compressed towards zero rather than clamped.
func Variability(p, deltaH, fMHz, dM, aRef float64) float64 {
	k := waveNumber(fMHz)

	deltaHd := TerrainRoughness(dM, deltaH)

	sigma := 10.0 * k * deltaHd / (k*deltaHd + 13.0)

	z := InverseComplementaryCumulativeDistributionFunction(p)

	a := aRef + sigma*z
	if a < 0.0 {
		a = a * (29.0 - a) / (29.0 - 10.0*a)
	}
	return a
}

// InverseComplementaryCumulativeDistributionFunction returns the standard
// normal deviate exceeded with probability q, 0 < q < 1. It uses the
// rational approximation of Abramowitz & Stegun 26.2.23, accurate to
// 4.5e-4.
func InverseComplementaryCumulativeDistributionFunction(q float64) float64 {
	const (
		c0 = 2.515516
		c1 = 0.802853
		c2 = 0.010328
		d1 = 1.432788
		d2 = 0.189269
		d3 = 0.001308
	)

	x := q
	if q > 0.5 {
		x = 1.0 - x
	}

	t := math.Sqrt(-2.0 * math.Log(x))

	zeta := ((c2*t+c1)*t + c0) / (((d3*t+d2)*t+d1)*t + 1.0)

	qInv := t - zeta
	if q > 0.5 {
		qInv = -qInv
	}
	return qInv
}
