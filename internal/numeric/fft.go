package numeric

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// DominantFrequency finds the strongest non-zero frequency of a real
// sequence among bins 1..n/2-1 (bin 1 alone when that range is empty) and the
// matching period. A zero frequency yields an infinite period.
// values must hold at least 2 observations.
func DominantFrequency(values []float64) (frequency, period float64) {
	n := len(values)
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, values)

	upper := n / 2
	if upper < 2 {
		upper = 2
	}

	best := 1
	for i := 2; i < upper; i++ {
		if cmplx.Abs(coeffs[i]) > cmplx.Abs(coeffs[best]) {
			best = i
		}
	}

	frequency = fft.Freq(best)
	if frequency == 0 {
		return frequency, math.Inf(1)
	}
	return frequency, 1 / frequency
}
