// Package median implements the sliding-window median engine: one
// histogram.Bank per channel per strip, plus the pivoted-scan search
// that recomputes each column's median from the previous row's median
// in amortised O(1).
package median

import "github.com/deepteams/swmedian/internal/histogram"

// Engine computes the sliding-window median for one channel of one
// strip. Owns a histogram.Bank plus per-column (pivot, running-sum)
// state: after producing the median for column i, Sums[i] is the count
// of window values strictly below Pivots[i].
type Engine struct {
	Bank   *histogram.Bank
	Center int // rank of the lower median: floor(size^2/2) + 1
	Sums   []int32
	Pivots []uint8
}

// New allocates an Engine for the given radius and strip width. Center
// is the lower-median rank of a size*size window, size = 2*radius+1:
// floor(size^2/2) + 1.
func New(radius, nCols int) *Engine {
	size := 2*radius + 1
	return &Engine{
		Bank:   histogram.New(radius, nCols),
		Center: (size*size)/2 + 1,
		Sums:   make([]int32, nCols),
		Pivots: make([]uint8, nCols),
	}
}

// Absorb feeds one row into the underlying histogram bank and, once
// pivots exist (i.e. after the first ComputeRow call), keeps Sums
// consistent with the new window by comparing each row sample against
// the *old* pivot for its column — this predicts how the window's
// below-pivot count will shift without re-scanning the histogram.
func (e *Engine) Absorb(row []byte, add bool) {
	e.Bank.Update(row, add)

	inc := int32(1)
	if !add {
		inc = -1
	}
	size := e.Bank.Size
	for n := 0; n < e.Bank.NCols; n++ {
		pivot := e.Pivots[n]
		for i := n; i < n+size; i++ {
			if row[i] < pivot {
				e.Sums[n] += inc
			}
		}
	}
}

// ComputeRow recomputes the median for every column from the current
// histogram bank, starting the search at each column's previous pivot,
// and writes the result into out (len(out) must equal NCols). Pivots
// and Sums are updated in place for the next row.
func (e *Engine) ComputeRow(out []uint8) {
	for i := range e.Pivots {
		pivot := e.Pivots[i]
		sum := e.Sums[i]

		if sum < int32(e.Center) {
			v := int(pivot)
			for ; v <= 255; v++ {
				add := e.Bank.Count(v, i)
				if sum+add >= int32(e.Center) {
					out[i] = uint8(v)
					e.Sums[i] = sum
					break
				}
				sum += add
			}
		} else {
			v := int(pivot) - 1
			for ; v >= 0; v-- {
				sum -= e.Bank.Count(v, i)
				if sum < int32(e.Center) {
					out[i] = uint8(v)
					e.Sums[i] = sum
					break
				}
			}
		}
		e.Pivots[i] = out[i]
	}
}
