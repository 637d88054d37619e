package core

import (
	"math"

	"github.com/signalsfoundry/lunar-propagation/model"
)

// LineOfSightLoss is the loss in dB at distance s (m) inside the
// line-of-sight region: two-ray interference with a rough-surface reflection,
// blended with the linear diffraction model A_ed + m_d*s extrapolated back
// from beyond the horizon. dls is the smooth-surface line-of-sight distance.
func LineOfSightLoss(sM float64, t model.Terminals, zg complex128, deltaH, md, aed, dls, fMHz float64) float64 {
	he1 := t.TX.EffectiveHeight
	he2 := t.RX.EffectiveHeight

	sigmaHs := (deltaH / 1.282) * math.Exp(-math.Pow(deltaH, 0.25)/2.0)

	k := waveNumber(fMHz)

	sinPsi := (he1 + he2) / math.Sqrt(math.Pow(sM, 2)+math.Pow(he1+he2, 2))

	sp := complex(sinPsi, 0)
	re := (sp - zg) / (sp + zg) * complex(math.Exp(-k*sigmaHs*sinPsi), 0)

	// Keep the reflection from vanishing at grazing incidence.
	q := math.Pow(real(re), 2) + math.Pow(imag(re), 2)
	if q < 0.25 || q < sinPsi {
		re *= complex(math.Sqrt(sinPsi/q), 0)
	}

	deltaPhi := 2.0 * k * he1 * he2 / sM
	if deltaPhi > pi/2.0 {
		deltaPhi = pi - math.Pow(pi/2.0, 2)/deltaPhi
	}

	rr := complex(math.Cos(deltaPhi), -math.Sin(deltaPhi)) + re
	at := -10 * math.Log10(math.Pow(real(rr), 2)+math.Pow(imag(rr), 2))

	ad := aed + md*sM

	const d1, d2 = 47.7, 10e3
	w := 1 / (1 + d1*k*deltaH/max(d2, dls))

	return (1-w)*ad + w*at
}
