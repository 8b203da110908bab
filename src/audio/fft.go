package audio

import (
	"math"
	"math/cmplx"
)

// ----- FFT ----- //

// FFT is a radix-2 transform of a fixed power-of-two length. It keeps a
// scratch buffer, so one FFT must not be used from two goroutines.
type FFT struct {
	bitReverseTable []int
	wTable          []complex128
	scratch         []complex128
}

// NewFFT ...
func NewFFT(length int) *FFT {
	return &FFT{
		bitReverseTable: makeBitReverseTable(length),
		wTable:          makeWTable(length),
		scratch:         make([]complex128, length),
	}
}
func makeBitReverseTable(n int) []int {
	array := make([]int, n)
	for i := 0; i < n; i++ {
		array[i] = bitReverse(i, n)
	}
	return array
}
func bitReverse(k, n int) int {
	m := 0
	for ; n > 1; n = n >> 1 {
		m = m<<1 + k&1
		k = k >> 1
	}
	return m
}
func makeWTable(n int) []complex128 {
	array := make([]complex128, n)
	w := -2.0 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		array[i] = cmplx.Exp(complex(0, w*float64(i)))
	}
	return array
}

// Calc transforms x in place. len(x) must be the length given to NewFFT.
func (fft *FFT) Calc(x []complex128) {
	n := len(x)
	if n != len(fft.bitReverseTable) {
		panic("fft: length mismatch")
	}
	for i := 0; i < n; i++ {
		rev := fft.bitReverseTable[i]
		if i < rev {
			x[i], x[rev] = x[rev], x[i]
		}
	}
	for m := 1; m < n; m = m << 1 {
		step := m << 1
		for k := 0; k < m; k++ {
			w := fft.wTable[n/step*k]
			for i := k; i < n; i += step {
				j := i + m
				tmp := x[j] * w
				x[j] = x[i] - tmp
				x[i] = x[i] + tmp
			}
		}
	}
}

func (fft *FFT) load(x []float64) []complex128 {
	cx := fft.scratch[:len(x)]
	for i, v := range x {
		cx[i] = complex(v, 0)
	}
	fft.Calc(cx)
	return cx
}

// CalcReal replaces x with the real part of its transform.
func (fft *FFT) CalcReal(x []float64) {
	for i, c := range fft.load(x) {
		x[i] = real(c)
	}
}

// CalcAbs replaces x with the magnitude of its transform.
func (fft *FFT) CalcAbs(x []float64) {
	for i, c := range fft.load(x) {
		x[i] = cmplx.Abs(c)
	}
}
