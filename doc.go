// Package swmedian implements constant-time sliding-window median and
// alpha-trimmed-mean filters for 8-bit raster images, based on Ben Weiss'
// partial-histogram method.
//
// For an input image of width W, height H and C channels, each output
// pixel is the median (or alpha-trimmed mean) of the (2r+1)x(2r+1)
// neighbourhood of the corresponding input pixel, where r is a
// caller-chosen radius. Cost is amortised O(1) per output pixel with
// respect to r, rather than the O(r^2 log r) a naive per-pixel
// sort-and-pick would cost: per-column histograms are carried across
// rows and reused across a strip of adjacent output columns instead of
// being rebuilt from scratch at every pixel.
//
// The package consumes only a minimal raster interface (Raster) and
// performs no file I/O, no colour-space conversion and no codec work;
// callers wire their own image decode/encode around it.
//
// Basic usage:
//
//	out, err := swmedian.MedianFilter(img, 2)
//	out, err := swmedian.AlphaTrimmedMeanFilter(img, 2, 4)
package swmedian
