package core

import (
	"fmt"

	"github.com/signalsfoundry/lunar-propagation/model"
)

// ValidateInputs checks the parameters shared by both modes. Soft limits
// raise warnings and the computation goes on; hard limits return an error.
// The checks run in a fixed order and stop at the first hard failure, so a
// bad TX height hides any later warning.
func ValidateInputs(hTX, hRX, pct, fMHz float64, pol model.Polarization, epsilon, sigma float64) (model.Warning, error) {
	var w model.Warning

	if hTX < 1.0 || hTX > 1000.0 {
		w |= model.WarnTXTerminalHeight
	}
	if hTX < 0.5 || hTX > 3000.0 {
		return w, fmt.Errorf("%w: %v m not in [0.5, 3000]", ErrTXTerminalHeight, hTX)
	}

	if hRX < 1.0 || hRX > 1000.0 {
		w |= model.WarnRXTerminalHeight
	}
	if hRX < 0.5 || hRX > 3000.0 {
		return w, fmt.Errorf("%w: %v m not in [0.5, 3000]", ErrRXTerminalHeight, hRX)
	}

	if fMHz < 40.0 || fMHz > 10000.0 {
		w |= model.WarnFrequency
	}
	if fMHz < 20 || fMHz > 20000 {
		return w, fmt.Errorf("%w: %v MHz not in [20, 20000]", ErrFrequency, fMHz)
	}

	if !pol.Valid() {
		return w, fmt.Errorf("%w: %d", ErrPolarization, int(pol))
	}

	if epsilon < 1 {
		return w, fmt.Errorf("%w: %v < 1", ErrEpsilon, epsilon)
	}

	if sigma <= 0 {
		return w, fmt.Errorf("%w: %v <= 0", ErrSigma, sigma)
	}

	if pct <= 0 || pct >= 100 {
		return w, fmt.Errorf("%w: %v not in (0, 100)", ErrPercentage, pct)
	}

	return w, nil
}

// validateArea checks the parameters only area mode has.
func validateArea(in model.AreaInput) error {
	if in.DistanceKm <= 0 {
		return fmt.Errorf("%w: %v km must be positive", ErrPathDistance, in.DistanceKm)
	}
	if in.DeltaH < 0 {
		return fmt.Errorf("%w: %v m must not be negative", ErrDeltaH, in.DeltaH)
	}
	if !in.TXSiting.Valid() {
		return fmt.Errorf("%w: %d", ErrTXSitingCriteria, int(in.TXSiting))
	}
	if !in.RXSiting.Valid() {
		return fmt.Errorf("%w: %d", ErrRXSitingCriteria, int(in.RXSiting))
	}
	return nil
}
