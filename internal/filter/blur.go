package filter

import (
	"sync"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/gogpu/imgfx/internal/parallel"
)

// plane is a single-channel float64 image, row-major.
type plane struct {
	width, height int
	data          []float64
}

func newPlane(width, height int) plane {
	return plane{width: width, height: height, data: make([]float64, width*height)}
}

// blurPlane applies a separable Gaussian blur with the given radius to p
// in place. Edges are extended by clamping.
//
// Each output sample is the dot product of the kernel with an edge-padded
// window of the line, so the inner loop runs through vecmath.
func blurPlane(p plane, radius float64) {
	if radius <= 0 || p.width == 0 || p.height == 0 {
		return
	}
	kernel := CachedGaussianKernel(radius)
	if len(kernel) == 1 {
		return
	}

	// Pass 1: rows
	parallel.ForRows(nil, p.height, func(lo, hi int) {
		buf := getLineBuffers(p.width, len(kernel))
		defer putLineBuffers(buf)
		for y := lo; y < hi; y++ {
			row := p.data[y*p.width : (y+1)*p.width]
			copy(buf.line, row)
			convolveLine(buf, kernel)
			copy(row, buf.out)
		}
	})

	// Pass 2: columns
	parallel.ForRows(nil, p.width, func(lo, hi int) {
		buf := getLineBuffers(p.height, len(kernel))
		defer putLineBuffers(buf)
		for x := lo; x < hi; x++ {
			for y := 0; y < p.height; y++ {
				buf.line[y] = p.data[y*p.width+x]
			}
			convolveLine(buf, kernel)
			for y := 0; y < p.height; y++ {
				p.data[y*p.width+x] = buf.out[y]
			}
		}
	})
}

// lineBuffers holds the scratch space for one 1D convolution.
type lineBuffers struct {
	line   []float64 // input samples
	padded []float64 // input with clamped edges on both sides
	out    []float64 // convolved samples
}

var lineBufferPool = sync.Pool{
	New: func() any { return &lineBuffers{} },
}

// getLineBuffers returns scratch buffers for a line of n samples and a
// kernel of length k.
func getLineBuffers(n, k int) *lineBuffers {
	b := lineBufferPool.Get().(*lineBuffers)
	b.line = grow(b.line, n)
	b.out = grow(b.out, n)
	b.padded = grow(b.padded, n+k-1)
	return b
}

func putLineBuffers(b *lineBuffers) {
	lineBufferPool.Put(b)
}

func grow(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}

// convolveLine convolves b.line with kernel into b.out.
func convolveLine(b *lineBuffers, kernel []float64) {
	n := len(b.line)
	half := len(kernel) / 2

	for i := 0; i < half; i++ {
		b.padded[i] = b.line[0]
		b.padded[half+n+i] = b.line[n-1]
	}
	copy(b.padded[half:half+n], b.line)

	for i := 0; i < n; i++ {
		b.out[i] = vecmath.DotProduct(kernel, b.padded[i:i+len(kernel)])
	}
}
