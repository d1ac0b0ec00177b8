package analysis

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// PowerSpectrum returns spectral magnitudes for the non-negative frequencies
// of the series. The mean is removed and the series is zero padded to the
// next power of two.
func PowerSpectrum(series []float64) []float64 {
	padded := make([]float64, nextPow2(len(series)))
	mean := stat.Mean(series, nil)
	for i, v := range series {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod returns the period of the strongest non-zero frequency in the
// series sampled every dt.
func DominantPeriod(series []float64, dt float64) (float64, error) {
	if len(series) < 4 {
		return 0, fmt.Errorf("spectrum needs at least 4 samples, got %d: %w", len(series), dynamo.ErrInsufficientData)
	}

	ps := PowerSpectrum(series)
	k := floats.MaxIdx(ps[1:]) + 1
	if ps[k] == 0 {
		return 0, fmt.Errorf("series is constant: %w", dynamo.ErrInsufficientData)
	}

	n := 2 * len(ps)
	return float64(n) * dt / float64(k), nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
