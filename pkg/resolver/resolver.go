// Package resolver turns parsed references into concrete frames: the owning
// sheet and zero-based origin/corner points.
package resolver

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/zurustar/sheetstack/pkg/frame"
	"github.com/zurustar/sheetstack/pkg/grammar"
	"github.com/zurustar/sheetstack/pkg/logger"
)

// Owner is the entity that owns a data frame, usually a sheet.
type Owner interface {
	ID() string
	Frame() *frame.DataFrame
}

// SheetLookup finds the owner of a sheet id.
type SheetLookup interface {
	LookupSheet(id string) (Owner, bool)
}

// Frame is a resolved reference.
type Frame struct {
	Name   string
	Owner  Owner
	Origin frame.Point
	Corner frame.Point
}

// Data returns the owner's data frame.
func (f Frame) Data() *frame.DataFrame {
	return f.Owner.Frame()
}

// Size returns the width and height of the rectangle.
func (f Frame) Size() (width, height int) {
	return f.Corner.X - f.Origin.X + 1, f.Corner.Y - f.Origin.Y + 1
}

// Sub copies the rectangle out of the owner's data frame.
func (f Frame) Sub() *frame.DataFrame {
	return f.Data().SubFrame(f.Origin, f.Corner)
}

// UnresolvedReferenceError reports a reference whose sheet id has no owner.
type UnresolvedReferenceError struct {
	SheetID string
	Ref     string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved reference %s: sheet %s not found", e.Ref, e.SheetID)
}

// InvalidCoordinateError reports a coordinate that resolved to neither a
// letter index nor an integer.
type InvalidCoordinateError struct {
	Ref   string
	Label string
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate %q in reference %s", e.Label, e.Ref)
}

// Resolver resolves references against a SheetLookup.
type Resolver struct {
	lookup SheetLookup
	log    *slog.Logger
}

// Option is a functional option for configuring the Resolver.
type Option func(*Resolver)

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Resolver) {
		r.log = log
	}
}

// New creates a Resolver.
func New(lookup SheetLookup, opts ...Option) *Resolver {
	r := &Resolver{
		lookup: lookup,
		log:    logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve resolves a single reference.
//
// Textual coordinates (letter columns) have their row decremented to a
// zero-based index. Integer coordinates are already resolved and are used
// as they are. A coordinate without row digits addresses the whole column:
// row 0 as origin, the last populated row of the sheet as corner.
func (r *Resolver) Resolve(ref grammar.Reference) (Frame, error) {
	owner, ok := r.lookup.LookupSheet(ref.SheetID)
	if !ok {
		return Frame{}, &UnresolvedReferenceError{SheetID: ref.SheetID, Ref: ref.String()}
	}

	lastRow := 0
	if _, corner, ok := owner.Frame().Bounds(); ok {
		lastRow = corner.Y
	}

	origin, err := resolvePoint(ref, ref.Frame.Origin, 0)
	if err != nil {
		return Frame{}, err
	}
	corner, err := resolvePoint(ref, ref.Frame.Corner, lastRow)
	if err != nil {
		return Frame{}, err
	}

	r.log.Debug("Reference resolved",
		"ref", ref.String(), "origin", origin.String(), "corner", corner.String())

	return Frame{Name: ref.Name, Owner: owner, Origin: origin, Corner: corner}, nil
}

// ResolveAll resolves refs in order and stops at the first failure.
func (r *Resolver) ResolveAll(refs []grammar.Reference) ([]Frame, error) {
	frames := make([]Frame, 0, len(refs))
	for _, ref := range refs {
		f, err := r.Resolve(ref)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func resolvePoint(ref grammar.Reference, c grammar.Coordinate, wholeColumnRow int) (frame.Point, error) {
	col := ColumnIndex(c.Column)
	if !col.Resolved {
		return frame.Point{}, &InvalidCoordinateError{Ref: ref.String(), Label: c.Column}
	}

	if c.Row == "" {
		return frame.Point{X: col.N, Y: wholeColumnRow}, nil
	}
	row := RowIndex(c.Row)
	if !row.Resolved {
		return frame.Point{}, &InvalidCoordinateError{Ref: ref.String(), Label: c.Row}
	}

	y := row.N
	if col.Letters {
		y--
	}
	return frame.Point{X: col.N, Y: y}, nil
}

// Index is the outcome of converting a coordinate label.
type Index struct {
	// N is the zero-based index when Resolved is true.
	N int
	// Raw is the original label, kept for pass-through.
	Raw string
	// Resolved is false when the label was neither letters nor an integer.
	Resolved bool
	// Letters is true when N came from a column letter run.
	Letters bool
}

// ColumnIndex converts a column label. Letter runs use
// position(first letter) + 26*(len-1) - 1 with A at position 1, so A..Z map
// to 0..25 and every two-letter label starting with A maps to 26. Labels that
// are not letter runs are parsed as integers; anything else passes through
// unresolved.
func ColumnIndex(label string) Index {
	if isLetterRun(label) {
		return Index{
			N:        int(label[0]-'A'+1) + 26*(len(label)-1) - 1,
			Raw:      label,
			Resolved: true,
			Letters:  true,
		}
	}
	if n, err := strconv.Atoi(label); err == nil {
		return Index{N: n, Raw: label, Resolved: true}
	}
	return Index{Raw: label}
}

// RowIndex converts a row label to an integer without any decrement.
func RowIndex(label string) Index {
	if n, err := strconv.Atoi(label); err == nil {
		return Index{N: n, Raw: label, Resolved: true}
	}
	return Index{Raw: label}
}

// LabelToPoint converts a single "B3"-style label to a zero-based point.
func LabelToPoint(label string) (frame.Point, error) {
	i := 0
	for i < len(label) && label[i] >= 'A' && label[i] <= 'Z' {
		i++
	}
	col := ColumnIndex(label[:i])
	row := RowIndex(label[i:])
	if i == 0 || !col.Resolved || !row.Resolved {
		return frame.Point{}, fmt.Errorf("invalid cell label %q", label)
	}
	return frame.Point{X: col.N, Y: row.N - 1}, nil
}

func isLetterRun(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
