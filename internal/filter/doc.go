// Package filter provides the higher-level image filters: bloom and pixel
// sort, plus the separable Gaussian blur bloom is built on.
//
// Filters never modify their input; Apply returns a new pixmap.
//
// Bloom:
//   - bright-pass on Rec. 601 luma
//   - separable Gaussian blur (sigma = radius, kernel half-size ceil(3*sigma))
//   - additive composite scaled by intensity
//
// Pixel sort reorders maximal runs of pixels whose sort key falls inside a
// threshold range, independently per scanline.
//
// Both filters process rows (or columns) in parallel on the shared pool.
package filter
