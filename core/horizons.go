package core

import "github.com/signalsfoundry/lunar-propagation/model"

// FindHorizons locates each terminal's radio horizon along the profile.
// Both terminals start with the end-to-end sight line as horizon; each
// intermediate sample that subtends a larger elevation angle, after the
// curvature correction d/(2a), replaces it. The returned terminals carry
// Height, HorizonAngle and HorizonDistance.
func FindHorizons(p Profile, hTX, hRX float64) model.Terminals {
	np := p.Intervals()
	xi := p.Spacing
	z := p.Elevations
	d := p.Length()

	// Radials relative to the surface; the Moon's radius cancels out.
	zTX := z[0] + hTX
	zRX := z[np] + hRX

	tx := model.Terminal{
		Height:          hTX,
		HorizonAngle:    (zRX-zTX)/d - d/(2*MoonRadiusM),
		HorizonDistance: d,
	}
	rx := model.Terminal{
		Height:          hRX,
		HorizonAngle:    -(zRX-zTX)/d - d/(2*MoonRadiusM),
		HorizonDistance: d,
	}

	dTX := 0.0
	dRX := d
	for i := 1; i < np; i++ {
		dTX += xi
		dRX -= xi

		thetaTX := (z[i]-zTX)/dTX - dTX/(2*MoonRadiusM)
		thetaRX := -(zRX-z[i])/dRX - dRX/(2*MoonRadiusM)

		if thetaTX > tx.HorizonAngle {
			tx.HorizonAngle = thetaTX
			tx.HorizonDistance = dTX
		}
		if thetaRX > rx.HorizonAngle {
			rx.HorizonAngle = thetaRX
			rx.HorizonDistance = dRX
		}
	}

	return model.Terminals{TX: tx, RX: rx}
}
