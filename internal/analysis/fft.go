// Package analysis extracts oscillation structure from run curves, such as
// the breathing frequency a flow pattern imposes on mean particle speed.
package analysis

import (
	"math"
	"math/bits"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of a real series as a single
// in-place butterfly pass over a bit-reversed copy. The length must be a
// power of two; PowerSpectrum pads before calling.
func FFT(data []float64) []complex128 {
	n := len(data)
	out := make([]complex128, n)
	if n == 0 {
		return out
	}
	if n&(n-1) != 0 {
		panic("fft requires power of 2 length")
	}

	logN := bits.TrailingZeros(uint(n))
	for i, v := range data {
		r := bits.Reverse(uint(i)) >> (bits.UintSize - logN)
		out[r] = complex(v, 0)
	}

	for size := 2; size <= n; size *= 2 {
		half := size / 2
		root := cmplx.Exp(complex(0, -2*math.Pi/float64(size)))
		for start := 0; start < n; start += size {
			w := complex(1, 0)
			for k := start; k < start+half; k++ {
				a, b := out[k], out[k+half]*w
				out[k] = a + b
				out[k+half] = a - b
				w *= root
			}
		}
	}
	return out
}

// PowerSpectrum pads the series to a power of two and returns half-spectrum
// magnitudes. The mean is removed first so the DC bin does not swamp the
// oscillation peaks.
func PowerSpectrum(data []float64) []float64 {
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	if len(data) > 0 {
		mean /= float64(len(data))
	}

	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	for i, v := range data {
		padded[i] = v - mean
	}

	fft := FFT(padded)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// DominantFrequency returns the strongest non-DC frequency in hz given the
// sample interval of the series.
func DominantFrequency(data []float64, sampleDt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || sampleDt <= 0 {
		return 0
	}
	maxPower, maxIdx := 0.0, 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	windowLen := float64(2*len(ps)) * sampleDt
	return float64(maxIdx) / windowLen
}
