package analysis

import (
	"math/bits"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/traysim/internal/dynamo"
)

// FFT transforms real samples of any length.
func FFT(data []float64) []complex128 {
	if len(data) == 0 {
		return nil
	}
	return fft.FFTReal(data)
}

// PowerSpectrum zero-pads data to the next power of two and returns the
// magnitudes of the non-negative frequency bins.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	n := 1 << bits.Len(uint(len(data)-1))
	padded := make([]float64, n)
	copy(padded, data)

	bins := FFT(padded)
	ps := make([]float64, max(len(bins)/2, 1))

	for i := range ps {
		ps[i] = cmplx.Abs(bins[i])
	}

	return ps
}

// Spectrum pairs bin frequencies in Hz with their power.
type Spectrum struct {
	Freq  []float64
	Power []float64
}

// Dominant returns the strongest non-zero frequency.
func (s Spectrum) Dominant() float64 {
	best, freq := 0.0, 0.0
	for i := 1; i < len(s.Power); i++ {
		if s.Power[i] > best {
			best, freq = s.Power[i], s.Freq[i]
		}
	}
	return freq
}

// HeightSpectrum transforms the ball height with its mean removed. The
// spliced instants are ignored and samples are taken as uniform with step Dt.
func HeightSpectrum(res *dynamo.Result) Spectrum {
	if res.Len() == 0 {
		return Spectrum{}
	}
	mean := 0.0
	for _, y := range res.Height {
		mean += y
	}
	mean /= float64(res.Len())

	data := make([]float64, res.Len())
	for i, y := range res.Height {
		data[i] = y - mean
	}

	power := PowerSpectrum(data)
	n := 2 * len(power)
	freq := make([]float64, len(power))
	for i := range freq {
		freq[i] = float64(i) / (float64(n) * res.Dt)
	}
	return Spectrum{Freq: freq, Power: power}
}
