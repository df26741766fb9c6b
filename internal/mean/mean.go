// Package mean implements the sliding-window alpha-trimmed-mean
// engine: one histogram.Bank per channel per strip, plus a bounded
// ascending "lower" and descending "upper" sorted list per column that
// track the alpha/2 smallest and largest window samples so they can be
// excluded from the running sum in amortised O(1) per row.
package mean

import (
	"sort"

	"github.com/deepteams/swmedian/internal/dsp"
	"github.com/deepteams/swmedian/internal/histogram"
)

// Engine computes the sliding-window alpha-trimmed mean for one
// channel of one strip.
type Engine struct {
	Bank  *histogram.Bank
	Trim  int // alpha / 2
	Len   int // size^2 - alpha, the count of samples contributing to Sums
	Sums  []int32
	Lower [][]byte // ascending, length Trim; Lower[i][Trim-1] is the lower pivot
	Upper [][]byte // descending, length Trim; Upper[i][Trim-1] is the upper pivot
}

// New allocates an Engine. alpha must be even and less than size^2;
// callers validate this before construction (see the root package).
func New(radius, nCols, alpha int) *Engine {
	size := 2*radius + 1
	return &Engine{
		Bank:  histogram.New(radius, nCols),
		Trim:  alpha / 2,
		Len:   size*size - alpha,
		Sums:  make([]int32, nCols),
		Lower: make([][]byte, nCols),
		Upper: make([][]byte, nCols),
	}
}

// Prime feeds the `size` top-clamped rows spanning the first window
// band into the bank, then walks each column's histogram bin-by-bin to
// seed Sums/Lower/Upper and produce the first output row.
func (e *Engine) Prime(rows [][]byte, out []uint8) {
	for _, row := range rows {
		e.Bank.Update(row, true)
	}

	size := e.Bank.Size
	upperTrimAt := size*size - e.Trim
	for i := range e.Sums {
		var count, sum int32
		lower := make([]byte, 0, e.Trim)
		upper := make([]byte, 0, e.Trim)

		for v := 0; v <= 255; v++ {
			add := e.Bank.Count(v, i)
			count += add
			sum += add * int32(v)

			for len(lower) < e.Trim && add > 0 {
				lower = append(lower, byte(v))
				sum -= int32(v)
				add--
			}
			// Only the occurrences of v that actually fall past rank
			// upperTrimAt belong in the trimmed tail; a bin that straddles
			// the boundary (several equal values, only some of which are
			// beyond it) must leave the rest in sum.
			excess := count - int32(upperTrimAt)
			for excess > 0 && len(upper) < e.Trim && add > 0 {
				upper = append([]byte{byte(v)}, upper...)
				sum -= int32(v)
				add--
				excess--
			}
		}

		e.Sums[i] = sum
		e.Lower[i] = lower
		e.Upper[i] = upper
		out[i] = dsp.RoundDiv(int(sum), e.Len)
	}
}

// Advance slides the window by one row: entering absorbs into the
// deques before it joins the histogram bank, leaving is removed from
// the bank before the deques resolve which set it came from. out
// receives the new trimmed mean for every column.
func (e *Engine) Advance(entering, leaving []byte, out []uint8) {
	e.insertRow(entering)
	e.Bank.Update(entering, true)

	e.Bank.Update(leaving, false)
	e.removeRow(leaving)

	for i := range e.Sums {
		out[i] = dsp.RoundDiv(int(e.Sums[i]), e.Len)
	}
}

func (e *Engine) insertRow(row []byte) {
	if e.Trim == 0 {
		size := e.Bank.Size
		for n := range e.Sums {
			for i := n; i < n+size; i++ {
				e.Sums[n] += int32(row[i])
			}
		}
		return
	}

	size := e.Bank.Size
	for n := range e.Sums {
		for i := n; i < n+size; i++ {
			val := row[i]
			lo := e.Lower[n][e.Trim-1]
			up := e.Upper[n][e.Trim-1]

			switch {
			case val < lo:
				e.Lower[n] = e.Lower[n][:e.Trim-1]
				e.Sums[n] += int32(lo)
				pos := sort.Search(len(e.Lower[n]), func(k int) bool { return e.Lower[n][k] >= val })
				e.Lower[n] = insertAt(e.Lower[n], pos, val)
			case val > up:
				e.Upper[n] = e.Upper[n][:e.Trim-1]
				e.Sums[n] += int32(up)
				pos := sort.Search(len(e.Upper[n]), func(k int) bool { return e.Upper[n][k] <= val })
				e.Upper[n] = insertAt(e.Upper[n], pos, val)
			default:
				e.Sums[n] += int32(val)
			}
		}
	}
}

// removeRow is called after this row has already been fully folded out
// of the bank (see Advance), so e.Bank.Count reflects the window's
// final post-removal state for every column: it is never incremented
// or decremented element-by-element as this loop runs. Each leaving
// sample is therefore classified once, against the pivots captured at
// the start of the column's pass:
//
//   - strictly below lo, or strictly above up: it was a deque member,
//     found by value and removed; a replacement is drawn later.
//   - equal to lo (or up) while that deque's tail still holds the
//     value: also a deque member; removed the same way. Once the tail
//     no longer matches, further same-valued samples are leftover ties
//     that were living in Sums instead, and fall through to the
//     default case.
//   - anything else was already part of the running sum.
func (e *Engine) removeRow(row []byte) {
	if e.Trim == 0 {
		size := e.Bank.Size
		for n := range e.Sums {
			for i := n; i < n+size; i++ {
				e.Sums[n] -= int32(row[i])
			}
		}
		return
	}

	size := e.Bank.Size
	for n := range e.Sums {
		lo := e.Lower[n][e.Trim-1]
		up := e.Upper[n][e.Trim-1]

		var loGone, upGone int32
		for i := n; i < n+size; i++ {
			val := row[i]
			switch {
			case val < lo:
				if pos, found := searchAsc(e.Lower[n], val); found {
					e.Lower[n] = removeAt(e.Lower[n], pos)
					loGone++
				} else {
					e.Sums[n] -= int32(val)
				}
			case val > up:
				if pos, found := searchDesc(e.Upper[n], val); found {
					e.Upper[n] = removeAt(e.Upper[n], pos)
					upGone++
				} else {
					e.Sums[n] -= int32(val)
				}
			case val == lo && tailCount(e.Lower[n], lo) > 0:
				e.Lower[n] = e.Lower[n][:len(e.Lower[n])-1]
				loGone++
			case val == up && tailCount(e.Upper[n], up) > 0:
				e.Upper[n] = e.Upper[n][:len(e.Upper[n])-1]
				upGone++
			default:
				e.Sums[n] -= int32(val)
			}
		}

		// Replacements are drawn from a shared per-value ledger, seeded
		// with whatever survivors of lo/up the deques already retain:
		// Bank.Count(lo, n) counts every occurrence of lo still in the
		// window, including the ones sitting right there in Lower[n], so
		// the scan must not hand those back out a second time. The
		// shared ledger also stops Lower's upward scan and Upper's
		// downward scan from claiming the same occurrence twice when lo
		// and up meet (a uniform window).
		var claimed [256]int32
		claimed[int(lo)] += tailCount(e.Lower[n], lo)
		claimed[int(up)] += tailCount(e.Upper[n], up)
		e.refill(n, &e.Lower[n], loGone, int(lo), 1, &claimed)
		e.refill(n, &e.Upper[n], upGone, int(up), -1, &claimed)
	}
}

// tailCount returns how many of arr's trailing elements equal v. Lower
// and Upper stay sorted throughout removeRow, so every occurrence of
// the pivot value is contiguous at the tail.
func tailCount(arr []byte, v byte) int32 {
	var n int32
	for k := len(arr) - 1; k >= 0 && arr[k] == v; k-- {
		n++
	}
	return n
}

// refill appends count replacement values to dst, scanning from
// (inclusive) in steps of dir (+1 ascending for Lower, -1 descending
// for Upper) and drawing from the window's remaining per-value counts.
// claimed tracks how much of each value's bank count this Advance call
// has already handed out, across both the Lower and Upper scans.
func (e *Engine) refill(n int, dst *[]byte, count int32, from, dir int, claimed *[256]int32) {
	for v := from; count > 0 && v >= 0 && v <= 255; v += dir {
		avail := e.Bank.Count(v, n) - claimed[v]
		for avail > 0 && count > 0 {
			*dst = append(*dst, byte(v))
			e.Sums[n] -= int32(v)
			claimed[v]++
			avail--
			count--
		}
	}
}

func insertAt(s []byte, pos int, v byte) []byte {
	s = append(s, 0)
	copy(s[pos+1:], s[pos:len(s)-1])
	s[pos] = v
	return s
}

func removeAt(s []byte, pos int) []byte {
	return append(s[:pos], s[pos+1:]...)
}

func searchAsc(arr []byte, val byte) (int, bool) {
	pos := sort.Search(len(arr), func(k int) bool { return arr[k] >= val })
	return pos, pos < len(arr) && arr[pos] == val
}

func searchDesc(arr []byte, val byte) (int, bool) {
	pos := sort.Search(len(arr), func(k int) bool { return arr[k] <= val })
	return pos, pos < len(arr) && arr[pos] == val
}
