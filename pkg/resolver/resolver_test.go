package resolver

import (
	"errors"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/zurustar/sheetstack/pkg/frame"
	"github.com/zurustar/sheetstack/pkg/grammar"
	"github.com/zurustar/sheetstack/pkg/logger"
)

const sheetID = "1b4e28ba-2fa1-11d2-883f-0016d3cca427"

type fakeOwner struct {
	id string
	df *frame.DataFrame
}

func (o *fakeOwner) ID() string              { return o.id }
func (o *fakeOwner) Frame() *frame.DataFrame { return o.df }

type fakeLookup map[string]*fakeOwner

func (l fakeLookup) LookupSheet(id string) (Owner, bool) {
	o, ok := l[id]
	if !ok {
		return nil, false
	}
	return o, true
}

func newResolver() (*Resolver, *fakeOwner) {
	owner := &fakeOwner{id: sheetID, df: frame.New()}
	return New(fakeLookup{sheetID: owner}, WithLogger(logger.Discard())), owner
}

func mustRef(t *testing.T, src string) grammar.Reference {
	t.Helper()
	ref, err := grammar.ParseReference(src)
	if err != nil {
		t.Fatalf("ParseReference(%q) error: %v", src, err)
	}
	return ref
}

func TestResolveA1B2(t *testing.T) {
	r, owner := newResolver()

	f, err := r.Resolve(mustRef(t, "<src>"+sheetID+"!A1:B2"))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if f.Origin != (frame.Point{X: 0, Y: 0}) || f.Corner != (frame.Point{X: 1, Y: 1}) {
		t.Errorf("frame = %v..%v, want (0,0)..(1,1)", f.Origin, f.Corner)
	}
	if f.Name != "src" || f.Owner != Owner(owner) {
		t.Errorf("Name = %q, Owner = %v", f.Name, f.Owner)
	}
	if w, h := f.Size(); w != 2 || h != 2 {
		t.Errorf("Size() = %dx%d", w, h)
	}
}

func TestResolveIntegerCoordinates(t *testing.T) {
	r, _ := newResolver()

	ref := grammar.Reference{
		SheetID: sheetID,
		Frame: grammar.FrameRef{
			Origin: grammar.Coordinate{Column: "0", Row: "0"},
			Corner: grammar.Coordinate{Column: "2", Row: "2"},
		},
	}
	f, err := r.Resolve(ref)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if f.Origin != (frame.Point{}) || f.Corner != (frame.Point{X: 2, Y: 2}) {
		t.Errorf("frame = %v..%v, want (0,0)..(2,2)", f.Origin, f.Corner)
	}
}

func TestResolveWholeColumn(t *testing.T) {
	r, owner := newResolver()
	owner.df.PutAt(frame.Point{X: 0, Y: 7}, "x")

	f, err := r.Resolve(mustRef(t, sheetID+"!B:C"))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if f.Origin != (frame.Point{X: 1, Y: 0}) || f.Corner != (frame.Point{X: 2, Y: 7}) {
		t.Errorf("frame = %v..%v, want (1,0)..(2,7)", f.Origin, f.Corner)
	}
}

func TestResolveUnknownSheet(t *testing.T) {
	r, _ := newResolver()

	_, err := r.Resolve(mustRef(t, "0-0-0-0-0!A1:A1"))
	var ue *UnresolvedReferenceError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want *UnresolvedReferenceError", err)
	}
	if ue.SheetID != "0-0-0-0-0" {
		t.Errorf("SheetID = %q", ue.SheetID)
	}
}

func TestResolveInvalidCoordinate(t *testing.T) {
	r, _ := newResolver()

	ref := grammar.Reference{
		SheetID: sheetID,
		Frame: grammar.FrameRef{
			Origin: grammar.Coordinate{Column: "a?", Row: "1"},
			Corner: grammar.Coordinate{Column: "B", Row: "2"},
		},
	}
	var ce *InvalidCoordinateError
	if _, err := r.Resolve(ref); !errors.As(err, &ce) || ce.Label != "a?" {
		t.Errorf("error = %v, want *InvalidCoordinateError for a?", err)
	}
}

func TestResolveAllStopsAtFirstFailure(t *testing.T) {
	r, _ := newResolver()

	refs, err := grammar.ParseReferences(sheetID + "!A1:A1,0-0-0-0-0!A1:A1")
	if err != nil {
		t.Fatalf("ParseReferences() error: %v", err)
	}
	if _, err := r.ResolveAll(refs); err == nil {
		t.Error("ResolveAll() should fail on the unknown sheet")
	}
}

func TestColumnIndexFallbackChain(t *testing.T) {
	tests := []struct {
		label    string
		n        int
		resolved bool
		letters  bool
	}{
		{"A", 0, true, true},
		{"B", 1, true, true},
		{"Z", 25, true, true},
		{"AA", 26, true, true},
		// only the first letter and the run length count
		{"AZ", 26, true, true},
		{"BA", 27, true, true},
		{"AAA", 52, true, true},
		{"7", 7, true, false},
		{"-3", -3, true, false},
		{"a", 0, false, false},
		{"", 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got := ColumnIndex(tt.label)
			if got.Resolved != tt.resolved || got.Letters != tt.letters {
				t.Fatalf("ColumnIndex(%q) = %+v", tt.label, got)
			}
			if got.Resolved && got.N != tt.n {
				t.Errorf("ColumnIndex(%q).N = %d, want %d", tt.label, got.N, tt.n)
			}
			if got.Raw != tt.label {
				t.Errorf("Raw = %q, want pass-through %q", got.Raw, tt.label)
			}
		})
	}
}

// The single-label helper decrements the row itself while RowIndex does
// not; frame resolution decrements textual rows on its own. This pins the
// current behaviour of all three paths.
func TestRowDecrementPaths(t *testing.T) {
	if got := RowIndex("3"); !got.Resolved || got.N != 3 {
		t.Errorf("RowIndex(3) = %+v, want 3 without decrement", got)
	}

	p, err := LabelToPoint("B3")
	if err != nil || p != (frame.Point{X: 1, Y: 2}) {
		t.Errorf("LabelToPoint(B3) = %v, %v, want (1,2)", p, err)
	}

	r, _ := newResolver()
	f, err := r.Resolve(mustRef(t, sheetID+"!B3:B3"))
	if err != nil || f.Origin != (frame.Point{X: 1, Y: 2}) {
		t.Errorf("Resolve(B3) origin = %v, %v, want (1,2)", f.Origin, err)
	}
}

func TestLabelToPointInvalid(t *testing.T) {
	for _, label := range []string{"", "3", "B", "b3", "B3x"} {
		if _, err := LabelToPoint(label); err == nil {
			t.Errorf("LabelToPoint(%q) should fail", label)
		}
	}
}

func TestPropertySingleLetterColumns(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("single letters map to 0..25 in order", prop.ForAll(
		func(n int) bool {
			got := ColumnIndex(string(rune('A' + n)))
			return got.Resolved && got.Letters && got.N == n
		},
		gen.IntRange(0, 25),
	))

	properties.Property("textual rows resolve one lower", prop.ForAll(
		func(row int) bool {
			r, _ := newResolver()
			ref := grammar.Reference{
				SheetID: sheetID,
				Frame: grammar.FrameRef{
					Origin: grammar.Coordinate{Column: "A", Row: strconv.Itoa(row)},
					Corner: grammar.Coordinate{Column: "A", Row: strconv.Itoa(row)},
				},
			}
			f, err := r.Resolve(ref)
			return err == nil && f.Origin.Y == row-1 && f.Corner.Y == row-1
		},
		gen.IntRange(1, 100000),
	))

	properties.TestingRun(t)
}
