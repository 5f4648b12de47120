package filter

import (
	"math"

	"github.com/gogpu/imgfx/internal/cache"
)

// GaussianKernel generates a 1D Gaussian kernel for the given radius.
// The kernel is normalized so all values sum to 1.0.
//
// The radius is used as sigma and the kernel size is 2*ceil(3*sigma)+1,
// which covers 99.7% of the distribution.
//
// For radius <= 0, returns a single-element kernel [1.0] (identity).
// Radii above MaxBloomRadius are clamped to it.
func GaussianKernel(radius float64) []float64 {
	if radius <= 0 || math.IsNaN(radius) {
		return []float64{1.0}
	}

	sigma := math.Min(radius, MaxBloomRadius)
	halfSize := int(math.Ceil(sigma * 3))
	size := halfSize*2 + 1

	kernel := make([]float64, size)

	// G(x) = exp(-x²/(2σ²)); the constant factor cancels on normalization.
	twoSigmaSq := 2 * sigma * sigma
	sum := 0.0
	for i := 0; i < size; i++ {
		x := float64(i - halfSize)
		kernel[i] = math.Exp(-(x * x) / twoSigmaSq)
		sum += kernel[i]
	}

	inv := 1.0 / sum
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}

// OptimalKernelSize returns the kernel length GaussianKernel produces for
// radius.
func OptimalKernelSize(radius float64) int {
	if radius <= 0 || math.IsNaN(radius) {
		return 1
	}
	return int(math.Ceil(math.Min(radius, MaxBloomRadius)*3))*2 + 1
}

// kernelCacheSize bounds the number of distinct radii kept. Modulated
// bloom radii change per frame, so the cache must not grow without limit.
const kernelCacheSize = 64

// kernels caches Gaussian kernels keyed by radius quantized to 0.01.
var kernels = cache.New[int, []float64](kernelCacheSize)

// CachedGaussianKernel returns a shared, read-only Gaussian kernel for
// radius.
func CachedGaussianKernel(radius float64) []float64 {
	if radius <= 0 || math.IsNaN(radius) {
		radius = 0
	}
	key := int(math.Round(math.Min(radius, MaxBloomRadius) * 100))
	return kernels.GetOrCreate(key, func() []float64 {
		return GaussianKernel(float64(key) / 100)
	})
}

// KernelCacheStats reports statistics of the kernel cache.
func KernelCacheStats() cache.Stats {
	return kernels.Stats()
}
