package core

import (
	"math"

	"github.com/signalsfoundry/lunar-propagation/model"
)

// InitializeArea derives terminal geometry statistically for area mode,
// from each terminal's structural height and siting criteria and the
// terrain irregularity deltaH.
func InitializeArea(tx, rx model.SitingCriteria, deltaH, hTX, hRX float64) model.Terminals {
	return model.Terminals{
		TX: initializeAreaTerminal(tx, deltaH, hTX),
		RX: initializeAreaTerminal(rx, deltaH, hRX),
	}
}

func initializeAreaTerminal(siting model.SitingCriteria, deltaH, h float64) model.Terminal {
	t := model.Terminal{Height: h, EffectiveHeight: h}

	if siting != model.SitingMobile {
		// Carefully sited terminals gain height from the surrounding
		// clutter; the gain tapers off smoothly towards zero height.
		b := 10.0
		if h < 5.0 {
			b = (b-1)*math.Sin(0.1*pi*h) + 1
		}
		t.EffectiveHeight = h + b*math.Exp(-2.0*h/deltaH)
	}

	dls := smoothHorizonDistance(t.EffectiveHeight)
	t.HorizonDistance = dls * math.Exp(-0.07*math.Sqrt(deltaH/max(t.EffectiveHeight, 5)))
	t.HorizonAngle = -(2.0*t.EffectiveHeight + 0.65*deltaH*(dls/t.HorizonDistance-1.0)) / dls

	return t
}
