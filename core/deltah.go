package core

import (
	"cmp"
	"math"
	"slices"
)

// ComputeDeltaH returns the terrain irregularity parameter for the part of
// the profile between dStart and dEnd (metres from the TX end): the
// interdecile range of the terrain about a straight-line fit, scaled up to
// its asymptotic value for long paths. Fewer than two samples in range
// yields zero.
func ComputeDeltaH(p Profile, dStart, dEnd float64) float64 {
	np := p.Intervals()
	z := p.Elevations

	xStart := dStart / p.Spacing
	xEnd := dEnd / p.Spacing

	if xEnd-xStart < 2.0 {
		return 0
	}

	p10 := int(0.1 * (xEnd - xStart + 8.0))
	p10 = min(max(4, p10), 25)

	n := 10*p10 - 5
	p90 := n - p10

	npS := float64(n - 1)

	// Resample onto n evenly spaced points by linear interpolation. The
	// scratch profile is local so concurrent calls never share it.
	s := Profile{Spacing: 1, Elevations: make([]float64, n)}

	step := (xEnd - xStart) / npS
	i := int(xStart)
	xStart -= float64(i + 1)

	for j := 0; j < n; j++ {
		for xStart > 0.0 && i+1 < np {
			xStart--
			i++
		}
		s.Elevations[j] = z[i+1] + (z[i+1]-z[i])*xStart
		xStart += step
	}

	fit, fitEnd := LinearLeastSquaresFit(s, 0.0, npS)
	slope := (fitEnd - fit) / npS

	diffs := make([]float64, n)
	for j := 0; j < n; j++ {
		diffs[j] = s.Elevations[j] - fit
		fit += slope
	}

	// Descending order: rank p10-1 is the 10% exceedance, rank p90 the 90%.
	slices.SortFunc(diffs, func(a, b float64) int { return cmp.Compare(b, a) })
	q10 := diffs[p10-1]
	q90 := diffs[p90]

	return (q10 - q90) / (1.0 - 0.8*math.Exp(-(dEnd-dStart)/50.0e3))
}

// TerrainRoughness is the irregularity actually seen over a path of length
// d for an asymptotic irregularity deltaH, metres.
func TerrainRoughness(dM, deltaHM float64) float64 {
	return deltaHM * (1.0 - 0.8*math.Exp(-dM/50e3))
}
