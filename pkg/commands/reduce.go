package commands

import (
	"math"

	"github.com/zurustar/sheetstack/pkg/frame"
	"github.com/zurustar/sheetstack/pkg/grammar"
	"github.com/zurustar/sheetstack/pkg/resolver"
)

// Reductions read every cell of the source frame as a number. A single cell
// without a numeric prefix (including an empty cell) turns the result into
// NaN. NaN is a result, not an error: it is written to the target anchor
// like any other number.

// Sum adds every cell of the source frame.
func Sum(sources []resolver.Frame, target resolver.Frame, _ grammar.Args) (any, error) {
	return reduce(grammar.CmdSum, sources, target, sum)
}

// Average is Sum divided by the number of cells in the rectangle, counting
// every cell whether numeric or not.
func Average(sources []resolver.Frame, target resolver.Frame, _ grammar.Args) (any, error) {
	return reduce(grammar.CmdAverage, sources, target, func(f resolver.Frame) float64 {
		w, h := f.Size()
		return sum(f) / float64(w*h)
	})
}

// Max returns the largest cell, starting from the cell at the frame origin.
func Max(sources []resolver.Frame, target resolver.Frame, _ grammar.Args) (any, error) {
	return reduce(grammar.CmdMax, sources, target, func(f resolver.Frame) float64 {
		return extremum(f, func(n, best float64) bool { return n > best })
	})
}

// Min returns the smallest cell, starting from the cell at the frame origin.
func Min(sources []resolver.Frame, target resolver.Frame, _ grammar.Args) (any, error) {
	return reduce(grammar.CmdMin, sources, target, func(f resolver.Frame) float64 {
		return extremum(f, func(n, best float64) bool { return n < best })
	})
}

// Median returns the middle value of the frame using a row-oriented rule
// rather than sorting all cells:
//   - odd row count: take the middle row; the middle cell of that row when
//     the column count is odd, otherwise the mean of its two central cells.
//   - even row count: the mean of the origin-column cell of the upper middle
//     row and the corner-column cell of the lower middle row.
func Median(sources []resolver.Frame, target resolver.Frame, _ grammar.Args) (any, error) {
	return reduce(grammar.CmdMedian, sources, target, median)
}

func reduce(command string, sources []resolver.Frame, target resolver.Frame, fn func(resolver.Frame) float64) (any, error) {
	src, err := primary(command, sources)
	if err != nil {
		return nil, err
	}
	result := fn(src)
	target.Data().PutAt(target.Origin, FormatNumber(result))
	return result, nil
}

// cells walks the frame rows top to bottom, columns left to right.
func cells(f resolver.Frame, yield func(p frame.Point, n float64) bool) {
	df := f.Data()
	for y := f.Origin.Y; y <= f.Corner.Y; y++ {
		for x := f.Origin.X; x <= f.Corner.X; x++ {
			p := frame.Point{X: x, Y: y}
			if !yield(p, ParseNumber(df.GetAt(p))) {
				return
			}
		}
	}
}

func sum(f resolver.Frame) float64 {
	total := 0.0
	cells(f, func(_ frame.Point, n float64) bool {
		total += n
		return !math.IsNaN(total)
	})
	return total
}

func extremum(f resolver.Frame, better func(n, best float64) bool) float64 {
	best := ParseNumber(f.Data().GetAt(f.Origin))
	cells(f, func(_ frame.Point, n float64) bool {
		if math.IsNaN(n) {
			best = n
			return false
		}
		if better(n, best) {
			best = n
		}
		return true
	})
	return best
}

func median(f resolver.Frame) float64 {
	poisoned := false
	cells(f, func(_ frame.Point, n float64) bool {
		poisoned = math.IsNaN(n)
		return !poisoned
	})
	if poisoned {
		return math.NaN()
	}

	df := f.Data()
	at := func(x, y int) float64 {
		return ParseNumber(df.GetAt(frame.Point{X: x, Y: y}))
	}

	w, h := f.Size()
	if h%2 == 1 {
		y := f.Origin.Y + h/2
		if w%2 == 1 {
			return at(f.Origin.X+w/2, y)
		}
		x := f.Origin.X + w/2 - 1
		return (at(x, y) + at(x+1, y)) / 2
	}

	upper := f.Origin.Y + h/2 - 1
	return (at(f.Origin.X, upper) + at(f.Corner.X, upper+1)) / 2
}
