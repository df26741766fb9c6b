// Package histogram implements the partial-histogram bank that
// underlies both the median and the alpha-trimmed-mean sliding-window
// engines (Weiss' method).
//
// A Bank holds NCols per-column 256-bin histograms for one channel of
// one strip. All but the central column store a *difference* relative
// to the central column's full histogram, not their own histogram
// outright: Count(v, i) == data[half][v] + data[i][v] (data[half][v]
// alone when i == half). Individual data[i] entries may be negative;
// only the summed count returned by Count is guaranteed non-negative
// once the window is primed. Callers must not "normalise" or
// sanity-check data[i] directly.
package histogram

// Bank is a per-channel, per-strip bank of NCols partial histograms,
// each covering 256 8-bit bins.
type Bank struct {
	data   [][256]int32
	Radius int
	Size   int // 2*Radius + 1
	NCols  int
	Half   int // NCols / 2
}

// New allocates a zeroed Bank for the given radius and strip width.
// nCols must be odd.
func New(radius, nCols int) *Bank {
	return &Bank{
		data:   make([][256]int32, nCols),
		Radius: radius,
		Size:   2*radius + 1,
		NCols:  nCols,
		Half:   nCols / 2,
	}
}

// Count returns the number of occurrences of value within the window
// centred at column col.
func (b *Bank) Count(value, col int) int32 {
	c := b.data[b.Half][value]
	if col != b.Half {
		c += b.data[col][value]
	}
	return c
}

// Update absorbs one row entering (add=true) or leaving (add=false)
// the active window. row holds NCols+2*Radius pixel values (one
// channel each, already clamp-sampled by the caller) spanning the
// strip and its horizontal halo.
//
// For each pair of mirrored columns n and nUpper = NCols-n-1 (n in
// [0, Half)), the symmetric-difference bins between column n's
// footprint and the central column's footprint are adjusted; the
// central column's own histogram is updated in full once, covering
// the whole Size-wide run centred on it.
func (b *Bank) Update(row []byte, add bool) {
	inc := int32(1)
	if !add {
		inc = -1
	}

	half := b.Half
	size := b.Size
	for n := 0; n < half; n++ {
		nUpper := b.NCols - n - 1
		dn := &b.data[n]
		dnUpper := &b.data[nUpper]
		for i := n; i < half; i++ {
			dn[row[i]] += inc
			dn[row[i+size]] -= inc

			iUpper := b.NCols + 2*b.Radius - i - 1
			iLower := iUpper - size
			dnUpper[row[iUpper]] += inc
			dnUpper[row[iLower]] -= inc
		}
	}

	dHalf := &b.data[half]
	for i := half; i < half+size; i++ {
		dHalf[row[i]] += inc
	}
}
