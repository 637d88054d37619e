// Package core implements the Irregular Lunar Model (ILM), the lunar
// adaptation of the Longley-Rice irregular terrain propagation model.
//
// Every function in this package is a pure computation over its arguments:
// no logging, no I/O and no shared state, so independent calls may run
// concurrently.
package core

import "math"

const (
	// MoonRadiusM is the mean radius of the Moon in metres.
	MoonRadiusM = 1737400.0

	// SpeedOfLight in m/s.
	SpeedOfLight = 299792458.0

	pi    = 3.1415926535897932384
	third = 1.0 / 3.0
)

// waveNumber returns k = 2*pi*f/c in rad/m for a frequency in MHz.
func waveNumber(fMHz float64) float64 {
	return 2 * pi * (fMHz * 1e6) / SpeedOfLight
}

// smoothHorizonDistance is the horizon distance over a smooth sphere for an
// effective height, metres.
func smoothHorizonDistance(heM float64) float64 {
	return math.Sqrt(2.0 * heM * MoonRadiusM)
}

// roughHorizonDistance scales the smooth-sphere horizon down for terrain
// irregularity deltaH.
func roughHorizonDistance(heM, deltaHM float64) float64 {
	return smoothHorizonDistance(heM) * math.Exp(-0.07*math.Sqrt(deltaHM/max(heM, 5.0)))
}
