package core

import (
	"math/cmplx"

	"github.com/signalsfoundry/lunar-propagation/model"
)

// GroundImpedance returns the complex surface transfer impedance for the
// given frequency (MHz), polarization, relative permittivity and
// conductivity (S/m).
func GroundImpedance(fMHz float64, pol model.Polarization, epsilon, sigma float64) complex128 {
	epR := complex(epsilon, 18000*sigma/fMHz)

	zg := cmplx.Sqrt(epR - 1.0)
	if pol == model.PolarizationVertical {
		zg /= epR
	}
	return zg
}
