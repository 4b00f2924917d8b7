package commands

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/zurustar/sheetstack/pkg/frame"
	"github.com/zurustar/sheetstack/pkg/grammar"
	"github.com/zurustar/sheetstack/pkg/resolver"
)

type testOwner struct {
	id string
	df *frame.DataFrame
}

func (o *testOwner) ID() string              { return o.id }
func (o *testOwner) Frame() *frame.DataFrame { return o.df }

func newOwner(id string, rows [][]string) *testOwner {
	df := frame.New()
	df.LoadFromArray(rows)
	return &testOwner{id: id, df: df}
}

func rect(o *testOwner, x0, y0, x1, y1 int) resolver.Frame {
	return resolver.Frame{
		Owner:  o,
		Origin: frame.Point{X: x0, Y: y0},
		Corner: frame.Point{X: x1, Y: y1},
	}
}

func anchor(o *testOwner, x, y int) resolver.Frame {
	return rect(o, x, y, x, y)
}

var letters = [][]string{
	{"a0", "b0", "c0"},
	{"a1", "b1", "c1"},
}

var numbers = [][]string{
	{"1", "2", "3"},
	{"4", "5", "6"},
}

func TestCopyWholeFrame(t *testing.T) {
	src := newOwner("src", letters)
	dst := newOwner("dst", nil)

	if _, err := Copy([]resolver.Frame{rect(src, 0, 0, 2, 2)}, anchor(dst, 0, 0), grammar.NoArgs{}); err != nil {
		t.Fatalf("Copy() error: %v", err)
	}
	if got, want := dst.df.Store(), src.df.Store(); !reflect.DeepEqual(got, want) {
		t.Errorf("target = %v, want %v", got, want)
	}
}

func TestCopyOffsetAnchor(t *testing.T) {
	src := newOwner("src", letters)
	dst := newOwner("dst", [][]string{{"keep"}})

	if _, err := Copy([]resolver.Frame{rect(src, 1, 0, 2, 1)}, anchor(dst, 4, 2), nil); err != nil {
		t.Fatalf("Copy() error: %v", err)
	}
	want := map[string]string{"0,0": "keep", "4,2": "b0", "5,2": "c0", "4,3": "b1", "5,3": "c1"}
	if got := dst.df.Store(); !reflect.DeepEqual(got, want) {
		t.Errorf("target = %v, want %v", got, want)
	}
}

func TestReplace(t *testing.T) {
	src := newOwner("src", letters)
	dst := newOwner("dst", nil)

	args := grammar.Pairs{{"a", "AAA"}}
	if _, err := Replace([]resolver.Frame{rect(src, 0, 0, 2, 2)}, anchor(dst, 0, 0), args); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}
	want := map[string]string{
		"0,0": "AAA0", "1,0": "b0", "2,0": "c0",
		"0,1": "AAA1", "1,1": "b1", "2,1": "c1",
	}
	if got := dst.df.Store(); !reflect.DeepEqual(got, want) {
		t.Errorf("target = %v, want %v", got, want)
	}
	if src.df.GetAt(frame.Point{}) != "a0" {
		t.Error("Replace() modified the source")
	}
}

func TestReplacePairsApplyInOrder(t *testing.T) {
	src := newOwner("src", [][]string{{"abc"}})
	dst := newOwner("dst", nil)

	args := grammar.Pairs{{"a", "b"}, {"b", "c"}}
	if _, err := Replace([]resolver.Frame{anchor(src, 0, 0)}, anchor(dst, 0, 0), args); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}
	if got := dst.df.GetAt(frame.Point{}); got != "ccc" {
		t.Errorf("got %q, want %q", got, "ccc")
	}
}

func TestReplaceRejectsLiteral(t *testing.T) {
	src := newOwner("src", letters)
	_, err := Replace([]resolver.Frame{anchor(src, 0, 0)}, anchor(src, 0, 0), grammar.Literal("x"))
	var ae *ArgumentError
	if !errors.As(err, &ae) {
		t.Errorf("error = %v, want *ArgumentError", err)
	}
}

func TestJoin(t *testing.T) {
	left := newOwner("left", [][]string{{"a", ""}, {"c", "d"}})
	right := newOwner("right", [][]string{{"1", "2"}, {"", "4"}})
	dst := newOwner("dst", nil)

	sources := []resolver.Frame{rect(left, 0, 0, 1, 1), rect(right, 0, 0, 1, 1)}
	if _, err := Join(sources, anchor(dst, 0, 0), grammar.Literal(",")); err != nil {
		t.Fatalf("Join() error: %v", err)
	}
	want := map[string]string{"0,0": "a,1", "1,0": ",2", "0,1": "c,", "1,1": "d,4"}
	if got := dst.df.Store(); !reflect.DeepEqual(got, want) {
		t.Errorf("target = %v, want %v", got, want)
	}
}

func TestJoinArity(t *testing.T) {
	o := newOwner("o", letters)
	var ae *ArgumentError

	_, err := Join([]resolver.Frame{rect(o, 0, 0, 1, 1)}, anchor(o, 5, 5), grammar.Literal(","))
	if !errors.As(err, &ae) {
		t.Errorf("one source: error = %v, want *ArgumentError", err)
	}

	_, err = Join([]resolver.Frame{rect(o, 0, 0, 1, 1), rect(o, 0, 0, 2, 1)}, anchor(o, 5, 5), grammar.Literal(","))
	if !errors.As(err, &ae) {
		t.Errorf("shape mismatch: error = %v, want *ArgumentError", err)
	}
}

func TestTransform(t *testing.T) {
	src := newOwner("src", [][]string{{"  hello  ", "ｱｲｳ", "ＡＢＣ"}})
	dst := newOwner("dst", nil)

	tests := []struct {
		name string
		x    int
		want string
	}{
		{"trim", 0, "hello"},
		{"upper", 0, "  HELLO  "},
		{"title", 0, "  Hello  "},
		{"narrow", 2, "ABC"},
		{"wide", 1, "アイウ"},
		{"nfkc", 1, "アイウ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transform([]resolver.Frame{anchor(src, tt.x, 0)}, anchor(dst, 0, 0), grammar.Literal(tt.name))
			if err != nil {
				t.Fatalf("Transform() error: %v", err)
			}
			if got := dst.df.GetAt(frame.Point{}); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransformUnknown(t *testing.T) {
	src := newOwner("src", letters)
	_, err := Transform([]resolver.Frame{anchor(src, 0, 0)}, anchor(src, 3, 3), grammar.Literal("eval"))
	var ae *ArgumentError
	if !errors.As(err, &ae) {
		t.Errorf("error = %v, want *ArgumentError", err)
	}
}

func TestReductions(t *testing.T) {
	tests := []struct {
		name string
		fn   Func
		rows [][]string
		want float64
		text string
	}{
		{"sum", Sum, numbers, 21, "21"},
		{"average", Average, numbers, 3.5, "3.5"},
		{"max", Max, numbers, 6, "6"},
		{"min", Min, numbers, 1, "1"},
		{"median even rows", Median, numbers, 3.5, "3.5"},
		{"median odd rows odd cols", Median, [][]string{{"1", "2", "3"}, {"4", "5", "6"}, {"7", "8", "9"}}, 5, "5"},
		{"median odd rows even cols", Median, [][]string{{"1", "2", "3", "4"}}, 2.5, "2.5"},
		{"median single cell", Median, [][]string{{"42"}}, 42, "42"},
		// the even-row rule only looks at the two corner cells
		{"median even rows extremes", Median, [][]string{{"10", "0"}, {"0", "20"}}, 15, "15"},
		{"sum numeric prefix", Sum, [][]string{{"12px", " 3"}}, 15, "15"},
		{"min negative", Min, [][]string{{"-1.5", "2e3", "-7"}}, -7, "-7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newOwner("src", tt.rows)
			dst := newOwner("dst", nil)
			w, h := len(tt.rows[0]), len(tt.rows)

			got, err := tt.fn([]resolver.Frame{rect(src, 0, 0, w-1, h-1)}, anchor(dst, 1, 1), grammar.NoArgs{})
			if err != nil {
				t.Fatalf("error: %v", err)
			}
			if got != tt.want {
				t.Errorf("result = %v, want %v", got, tt.want)
			}
			if cell := dst.df.GetAt(frame.Point{X: 1, Y: 1}); cell != tt.text {
				t.Errorf("target cell = %q, want %q", cell, tt.text)
			}
		})
	}
}

func TestReductionsNaNPoisoning(t *testing.T) {
	poisoned := [][]string{{"1", "2", "x"}, {"4", "5", "6"}}
	early := [][]string{{"x", "9"}, {"1", "2"}}
	empty := [][]string{{"1", ""}, {"3", "4"}}

	for name, fn := range map[string]Func{
		"sum": Sum, "average": Average, "max": Max, "min": Min, "median": Median,
	} {
		for label, rows := range map[string][][]string{"late": poisoned, "early": early, "empty": empty} {
			t.Run(name+"/"+label, func(t *testing.T) {
				src := newOwner("src", rows)
				dst := newOwner("dst", nil)

				got, err := fn([]resolver.Frame{rect(src, 0, 0, len(rows[0])-1, len(rows)-1)}, anchor(dst, 0, 0), nil)
				if err != nil {
					t.Fatalf("error: %v", err)
				}
				if n, ok := got.(float64); !ok || !math.IsNaN(n) {
					t.Errorf("result = %v, want NaN", got)
				}
				if cell := dst.df.GetAt(frame.Point{}); cell != "NaN" {
					t.Errorf("target cell = %q, want NaN", cell)
				}
			})
		}
	}
}

func TestSingleSourceCommandsNeedASource(t *testing.T) {
	dst := newOwner("dst", nil)
	for name, fn := range map[string]Func{"copy": Copy, "sum": Sum, "median": Median, "transform": Transform} {
		_, err := fn(nil, anchor(dst, 0, 0), grammar.Literal("trim"))
		var ae *ArgumentError
		if !errors.As(err, &ae) {
			t.Errorf("%s: error = %v, want *ArgumentError", name, err)
		}
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	want := []string{"average", "copy", "join", "max", "median", "min", "replace", "sum", "transform"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	for _, name := range want {
		e, ok := r.Lookup(name)
		if !ok || e.Command == nil || e.Description == "" {
			t.Errorf("Lookup(%q) = %+v, %v", name, e, ok)
		}
		if e.Args != (name == "replace" || name == "join" || name == "transform") {
			t.Errorf("%s: Args = %v", name, e.Args)
		}
	}
}
