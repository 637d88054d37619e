package core

import "math"

// LinearLeastSquaresFit fits a straight line to the profile samples lying
// between dStart and dEnd (metres from the TX end) and returns the fitted
// elevation at the TX end (index 0) and at the RX end (index np).
//
// The sums are centred on the fit window and the window end points carry
// half weight, which is the closed form used by the ITS irregular terrain
// model; the result therefore differs slightly from a textbook OLS fit.
func LinearLeastSquaresFit(p Profile, dStart, dEnd float64) (fitTX, fitRX float64) {
	np := p.Intervals()
	z := p.Elevations

	iStart := int(math.Dim(dStart/p.Spacing, 0))
	iEnd := np - int(math.Dim(float64(np), dEnd/p.Spacing))

	if iEnd <= iStart {
		iStart = int(math.Dim(float64(iStart), 1))
		iEnd = np - int(math.Dim(float64(np), float64(iEnd)+1))
	}

	xLength := float64(iEnd - iStart)

	mid := -0.5 * xLength
	midEnd := float64(iEnd) + mid

	sumY := 0.5 * (z[iStart] + z[iEnd])
	scaledSumY := 0.5 * (z[iStart] - z[iEnd]) * mid

	for i := 2; float64(i) <= xLength; i++ {
		iStart++
		mid++
		sumY += z[iStart]
		scaledSumY += z[iStart] * mid
	}

	sumY /= xLength
	scaledSumY = scaledSumY * 12.0 / ((xLength*xLength + 2.0) * xLength)

	fitTX = sumY - scaledSumY*midEnd
	fitRX = sumY + scaledSumY*(float64(np)-midEnd)
	return fitTX, fitRX
}
