package core

import (
	"math"

	"github.com/signalsfoundry/lunar-propagation/model"
)

// FresnelIntegral approximates the ideal knife-edge diffraction loss A(v,0)
// in dB. The argument is v squared, so the branch point 5.76 is v = 2.4.
func FresnelIntegral(v2 float64) float64 {
	if v2 < 5.76 {
		return 6.02 + 9.11*math.Sqrt(v2) - 1.27*v2
	}
	return 12.953 + 10*math.Log10(v2)
}

// KnifeEdgeDiffraction is the double knife-edge loss at distance d (m),
// one edge at each terminal's horizon. thetaLOS is the angular distance of
// the line-of-sight region.
func KnifeEdgeDiffraction(dM, fMHz, thetaLOS float64, t model.Terminals) float64 {
	dML := t.CombinedHorizonDistance()

	thetaNLOS := dM/MoonRadiusM - thetaLOS
	dNLOS := dM - dML

	// 0.0795775 = 1/(4*pi)
	v1 := 0.0795775 * (fMHz / 47.7) * math.Pow(thetaNLOS, 2) * t.TX.HorizonDistance * dNLOS / (dNLOS + t.TX.HorizonDistance)
	v2 := 0.0795775 * (fMHz / 47.7) * math.Pow(thetaNLOS, 2) * t.RX.HorizonDistance * dNLOS / (dNLOS + t.RX.HorizonDistance)

	return FresnelIntegral(v1) + FresnelIntegral(v2)
}

// DiffractionLoss blends the smooth-sphere and knife-edge estimates at
// distance d (m). Rough terrain at high frequency pushes the weight towards
// the knife-edge result.
func DiffractionLoss(dM float64, t model.Terminals, zg complex128, deltaH, thetaLOS, fMHz float64) float64 {
	ak := KnifeEdgeDiffraction(dM, fMHz, thetaLOS, t)
	ar := SmoothMoonDiffraction(dM, fMHz, thetaLOS, t, zg)

	deltaHd := TerrainRoughness(dM, deltaH)

	term1 := math.Sqrt((t.TX.EffectiveHeight * t.RX.EffectiveHeight) / (t.TX.Height * t.RX.Height))
	dl := t.CombinedHorizonDistance()
	q := (term1 + (-thetaLOS*MoonRadiusM+dl)/dM) * min(deltaHd*fMHz/47.7, 1000)

	w := 1 / (1 + 0.1*math.Sqrt(q))

	return w*ar + (1.0-w)*ak
}
