// Package frame provides the in-memory cell store that commands read from and
// write to. A DataFrame is sparse: only non-empty cells are kept.
package frame

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Point addresses a cell by zero-based column (X) and row (Y).
type Point struct {
	X int
	Y int
}

// String formats the point the way the store keys do ("x,y").
func (p Point) String() string {
	return strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y)
}

// ParsePoint parses an "x,y" store key.
func ParsePoint(key string) (Point, error) {
	xs, ys, ok := strings.Cut(key, ",")
	if !ok {
		return Point{}, fmt.Errorf("invalid point %q: missing comma", key)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Point{}, fmt.Errorf("invalid point %q: %w", key, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Point{}, fmt.Errorf("invalid point %q: %w", key, err)
	}
	return Point{X: x, Y: y}, nil
}

// DataFrame is a sparse rectangular grid of text cells.
//
// A frame produced by SubFrame carries an explicit size so that Apply and Add
// visit every cell of the rectangle, including empty ones. A top-level frame
// has no fixed size; its extent is derived from the populated cells.
type DataFrame struct {
	store  map[Point]string
	width  int
	height int
	sized  bool
}

// New creates an empty, unsized frame.
func New() *DataFrame {
	return &DataFrame{store: make(map[Point]string)}
}

// NewSized creates an empty frame with a fixed width and height.
func NewSized(width, height int) *DataFrame {
	return &DataFrame{
		store:  make(map[Point]string),
		width:  width,
		height: height,
		sized:  true,
	}
}

// GetAt returns the value at p, or "" when the cell is empty.
func (df *DataFrame) GetAt(p Point) string {
	return df.store[p]
}

// PutAt writes v at p. Writing "" removes the cell.
func (df *DataFrame) PutAt(p Point, v string) {
	if v == "" {
		delete(df.store, p)
		return
	}
	df.store[p] = v
}

// Size returns the width and height of the frame. For unsized frames this is
// the extent of the populated cells measured from (0,0).
func (df *DataFrame) Size() (width, height int) {
	if df.sized {
		return df.width, df.height
	}
	_, corner, ok := df.Bounds()
	if !ok {
		return 0, 0
	}
	return corner.X + 1, corner.Y + 1
}

// Bounds returns the smallest rectangle containing every populated cell.
// ok is false when the frame is empty.
func (df *DataFrame) Bounds() (origin, corner Point, ok bool) {
	first := true
	for p := range df.store {
		if first {
			origin, corner = p, p
			first = false
			continue
		}
		origin.X = min(origin.X, p.X)
		origin.Y = min(origin.Y, p.Y)
		corner.X = max(corner.X, p.X)
		corner.Y = max(corner.Y, p.Y)
	}
	return origin, corner, !first
}

// Len returns the number of populated cells.
func (df *DataFrame) Len() int {
	return len(df.store)
}

// SubFrame copies the rectangle origin..corner (inclusive) into a new sized
// frame whose coordinates are relative to origin.
func (df *DataFrame) SubFrame(origin, corner Point) *DataFrame {
	sub := NewSized(corner.X-origin.X+1, corner.Y-origin.Y+1)
	for p, v := range df.store {
		if p.X < origin.X || p.X > corner.X || p.Y < origin.Y || p.Y > corner.Y {
			continue
		}
		sub.store[Point{X: p.X - origin.X, Y: p.Y - origin.Y}] = v
	}
	return sub
}

// Apply replaces every cell of the frame with fn(value), walking rows top to
// bottom and columns left to right. Empty cells are passed as "".
func (df *DataFrame) Apply(fn func(string) string) {
	w, h := df.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := Point{X: x, Y: y}
			df.PutAt(p, fn(df.store[p]))
		}
	}
}

// Add concatenates other onto df cell by cell: each cell becomes its own
// text followed by the text of the matching cell in other.
func (df *DataFrame) Add(other *DataFrame) error {
	w, h := df.Size()
	ow, oh := other.Size()
	if w != ow || h != oh {
		return fmt.Errorf("frame shapes differ: %dx%d and %dx%d", w, h, ow, oh)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := Point{X: x, Y: y}
			df.PutAt(p, df.store[p]+other.store[p])
		}
	}
	return nil
}

// CopyFrom writes every populated cell of sub into df, offset by origin.
// Empty cells of sub leave the destination untouched.
func (df *DataFrame) CopyFrom(sub *DataFrame, origin Point) {
	for p, v := range sub.store {
		df.store[Point{X: p.X + origin.X, Y: p.Y + origin.Y}] = v
	}
}

// LoadFromArray replaces the content of the frame with rows, where rows[y][x]
// is the cell at (x, y).
func (df *DataFrame) LoadFromArray(rows [][]string) {
	df.Clear()
	for y, row := range rows {
		for x, v := range row {
			df.PutAt(Point{X: x, Y: y}, v)
		}
	}
}

// Clear removes every cell.
func (df *DataFrame) Clear() {
	df.store = make(map[Point]string)
}

// Rows returns the frame as a dense row-major array covering (0,0) to the
// bottom-right populated cell.
func (df *DataFrame) Rows() [][]string {
	w, h := df.Size()
	rows := make([][]string, h)
	for y := range rows {
		rows[y] = make([]string, w)
		for x := range rows[y] {
			rows[y][x] = df.store[Point{X: x, Y: y}]
		}
	}
	return rows
}

// Store returns a copy of the populated cells keyed by "x,y".
func (df *DataFrame) Store() map[string]string {
	out := make(map[string]string, len(df.store))
	for p, v := range df.store {
		out[p.String()] = v
	}
	return out
}

// Points returns the populated points in row-major order.
func (df *DataFrame) Points() []Point {
	points := make([]Point, 0, len(df.store))
	for p := range df.store {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Y != points[j].Y {
			return points[i].Y < points[j].Y
		}
		return points[i].X < points[j].X
	})
	return points
}
