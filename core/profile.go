package core

import (
	"fmt"
	"math"
)

// Profile is a terrain elevation profile sampled at uniform spacing between
// the transmitter (index 0) and the receiver (last index).
type Profile struct {
	// Spacing between samples, metres.
	Spacing float64
	// Elevations holds np+1 samples, metres.
	Elevations []float64
}

// ParsePFL converts the PFL wire format [np, xi, z_0 ... z_np] into a
// Profile. The elevation slice aliases pfl; callers must not mutate it
// while the Profile is in use.
func ParsePFL(pfl []float64) (Profile, error) {
	if len(pfl) < 3 {
		return Profile{}, fmt.Errorf("%w: need at least 3 values, got %d", ErrTerrainProfile, len(pfl))
	}
	np := pfl[0]
	if np != math.Trunc(np) || np < 2 {
		return Profile{}, fmt.Errorf("%w: interval count %v must be an integer >= 2", ErrTerrainProfile, np)
	}
	if !(pfl[1] > 0) || math.IsInf(pfl[1], 0) {
		return Profile{}, fmt.Errorf("%w: spacing %v must be positive", ErrTerrainProfile, pfl[1])
	}
	if want := int(np) + 3; len(pfl) != want {
		return Profile{}, fmt.Errorf("%w: %d intervals need %d values, got %d", ErrTerrainProfile, int(np), want, len(pfl))
	}
	return Profile{Spacing: pfl[1], Elevations: pfl[2:]}, nil
}

// PFL renders the profile back into wire format.
func (p Profile) PFL() []float64 {
	out := make([]float64, 0, len(p.Elevations)+2)
	out = append(out, float64(p.Intervals()), p.Spacing)
	return append(out, p.Elevations...)
}

// Intervals is the number of sample intervals, np.
func (p Profile) Intervals() int {
	return len(p.Elevations) - 1
}

// Length is the path distance covered by the profile, metres.
func (p Profile) Length() float64 {
	return float64(p.Intervals()) * p.Spacing
}

// Reverse returns a copy of the profile seen from the other end.
func (p Profile) Reverse() Profile {
	z := make([]float64, len(p.Elevations))
	for i, v := range p.Elevations {
		z[len(z)-1-i] = v
	}
	return Profile{Spacing: p.Spacing, Elevations: z}
}
