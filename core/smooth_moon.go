package core

import (
	"math"
	"math/cmplx"

	"github.com/signalsfoundry/lunar-propagation/model"
)

// SmoothMoonDiffraction is the smooth-sphere diffraction loss in dB at
// distance d (m) by Vogler's three-radii method: one effective radius for
// the diffraction path beyond the horizons and one for each terminal's
// approach to its horizon.
func SmoothMoonDiffraction(dM, fMHz, thetaLOS float64, t model.Terminals, zg complex128) float64 {
	thetaNLOS := dM/MoonRadiusM - thetaLOS
	dML := t.CombinedHorizonDistance()

	// Equals MoonRadiusM when thetaLOS == dML/MoonRadiusM.
	a := [3]float64{
		(dM - dML) / (dM/MoonRadiusM - thetaLOS),
		0.5 * math.Pow(t.TX.HorizonDistance, 2) / t.TX.EffectiveHeight,
		0.5 * math.Pow(t.RX.HorizonDistance, 2) / t.RX.EffectiveHeight,
	}

	dKm := [3]float64{
		(a[0] * thetaNLOS) / 1000.0,
		t.TX.HorizonDistance / 1000.0,
		t.RX.HorizonDistance / 1000.0,
	}

	var c0, k, b0 [3]float64
	for i := 0; i < 3; i++ {
		c0[i] = math.Pow((4.0/3.0)*MoonRadiusM/a[i], third)
		k[i] = 0.017778 * c0[i] * math.Pow(fMHz, -third) / cmplx.Abs(zg)
		b0[i] = 1.607 - math.Abs(k[i])
	}

	var x [3]float64
	x[1] = b0[1] * math.Pow(c0[1], 2) * math.Pow(fMHz, third) * dKm[1]
	x[2] = b0[2] * math.Pow(c0[2], 2) * math.Pow(fMHz, third) * dKm[2]
	x[0] = b0[0]*math.Pow(c0[0], 2)*math.Pow(fMHz, third)*dKm[0] + x[1] + x[2]

	fxTX := HeightFunction(x[1], k[1])
	fxRX := HeightFunction(x[2], k[2])

	gx := 0.05751*x[0] - 10.0*math.Log10(x[0])

	return gx - fxTX - fxRX - 20.0
}

// HeightFunction is the height-gain term F(x, K) in dB for a normalized
// distance x and surface admittance parameter K.
func HeightFunction(x, k float64) float64 {
	if x < 200.0 {
		w := -math.Log(k)

		if k < 1.0e-5 || x*math.Pow(w, 3) > 5495.0 {
			result := -117.0
			if x > 1.0 {
				result += 17.372 * math.Log(x)
			}
			return result
		}
		return 2.5e-5*math.Pow(x, 2)/k - 8.686*w - 15.0
	}

	result := 0.05751*x - 4.343*math.Log(x)
	if x < 2000.0 {
		w := 0.0134 * x * math.Exp(-0.005*x)
		result = (1.0-w)*result + w*(17.372*math.Log(x)-117.0)
	}
	return result
}
