package core

import "math"

// FreeSpaceLoss returns the free-space basic transmission loss in dB for a
// path distance in metres and a frequency in MHz.
func FreeSpaceLoss(dM, fMHz float64) float64 {
	return 32.45 + 20.0*math.Log10(fMHz) + 20.0*math.Log10(dM/1000.0)
}
