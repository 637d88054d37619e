package core

import (
	"math"

	"github.com/signalsfoundry/lunar-propagation/model"
)

// PathGeometry is everything the reference attenuation needs to know about
// the path, whichever way it was derived.
type PathGeometry struct {
	Terminals model.Terminals
	// DeltaH is the terrain irregularity parameter, metres.
	DeltaH float64
	// Distance is the great-circle path distance, metres.
	Distance float64
}

// QuickPfl extracts the terminal horizons, effective heights and terrain
// irregularity from a terrain profile.
func QuickPfl(p Profile, hTX, hRX float64) PathGeometry {
	d := p.Length()
	np := p.Intervals()
	z := p.Elevations

	t := FindHorizons(p, hTX, hRX)

	// Terrain closer to a terminal than about 15 tower heights is not
	// considered (Hufford, 1982), nor the first 10% of the way to the horizon.
	dStart := min(15.0*hTX, 0.1*t.TX.HorizonDistance)
	dEnd := d - min(15.0*hRX, 0.1*t.RX.HorizonDistance)

	deltaH := ComputeDeltaH(p, dStart, dEnd)

	if t.TX.HorizonDistance+t.RX.HorizonDistance > 1.5*d {
		// Well within line of sight: one fit over the whole considered span.
		fitTX, fitRX := LinearLeastSquaresFit(p, dStart, dEnd)

		t.TX.EffectiveHeight = hTX + math.Dim(z[0], fitTX)
		t.RX.EffectiveHeight = hRX + math.Dim(z[np], fitRX)

		t.TX.HorizonDistance = roughHorizonDistance(t.TX.EffectiveHeight, deltaH)
		t.RX.HorizonDistance = roughHorizonDistance(t.RX.EffectiveHeight, deltaH)

		if combined := t.TX.HorizonDistance + t.RX.HorizonDistance; combined <= d {
			q := math.Pow(d/combined, 2)

			t.TX.EffectiveHeight *= q
			t.RX.EffectiveHeight *= q
			t.TX.HorizonDistance = roughHorizonDistance(t.TX.EffectiveHeight, deltaH)
			t.RX.HorizonDistance = roughHorizonDistance(t.RX.EffectiveHeight, deltaH)
		}

		t.TX.HorizonAngle = effectiveHorizonAngle(t.TX, deltaH)
		t.RX.HorizonAngle = effectiveHorizonAngle(t.RX, deltaH)
	} else {
		// Each terminal is fitted over its own approach to the horizon.
		fitTX, _ := LinearLeastSquaresFit(p, dStart, 0.9*t.TX.HorizonDistance)
		t.TX.EffectiveHeight = hTX + math.Dim(z[0], fitTX)

		_, fitRX := LinearLeastSquaresFit(p, d-0.9*t.RX.HorizonDistance, dEnd)
		t.RX.EffectiveHeight = hRX + math.Dim(z[np], fitRX)
	}

	return PathGeometry{Terminals: t, DeltaH: deltaH, Distance: d}
}

func effectiveHorizonAngle(t model.Terminal, deltaH float64) float64 {
	q := smoothHorizonDistance(t.EffectiveHeight)
	return (0.65*deltaH*(q/t.HorizonDistance-1.0) - 2.0*t.EffectiveHeight) / q
}
