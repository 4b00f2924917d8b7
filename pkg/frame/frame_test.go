package frame

import (
	"reflect"
	"testing"
)

func sample() *DataFrame {
	df := New()
	df.LoadFromArray([][]string{
		{"a0", "b0", "c0"},
		{"a1", "b1", "c1"},
	})
	return df
}

func TestPutAtEmptyDeletes(t *testing.T) {
	df := New()
	df.PutAt(Point{X: 1, Y: 1}, "x")
	if df.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", df.Len())
	}
	df.PutAt(Point{X: 1, Y: 1}, "")
	if df.Len() != 0 {
		t.Errorf("Len() = %d after clearing cell, want 0", df.Len())
	}
}

func TestSubFrameIsRelative(t *testing.T) {
	sub := sample().SubFrame(Point{X: 1, Y: 0}, Point{X: 2, Y: 2})

	w, h := sub.Size()
	if w != 2 || h != 3 {
		t.Fatalf("Size() = %dx%d, want 2x3", w, h)
	}
	want := map[string]string{"0,0": "b0", "1,0": "c0", "0,1": "b1", "1,1": "c1"}
	if got := sub.Store(); !reflect.DeepEqual(got, want) {
		t.Errorf("Store() = %v, want %v", got, want)
	}
}

func TestApplyVisitsEmptyCells(t *testing.T) {
	sub := sample().SubFrame(Point{X: 0, Y: 0}, Point{X: 0, Y: 2})
	visited := 0
	sub.Apply(func(v string) string {
		visited++
		return "-" + v
	})
	if visited != 3 {
		t.Errorf("visited %d cells, want 3", visited)
	}
	if got := sub.GetAt(Point{X: 0, Y: 2}); got != "-" {
		t.Errorf("empty cell became %q, want %q", got, "-")
	}
}

func TestAdd(t *testing.T) {
	left := NewSized(2, 1)
	left.PutAt(Point{X: 0, Y: 0}, "a")
	right := NewSized(2, 1)
	right.PutAt(Point{X: 0, Y: 0}, "x")
	right.PutAt(Point{X: 1, Y: 0}, "y")

	if err := left.Add(right); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	want := map[string]string{"0,0": "ax", "1,0": "y"}
	if got := left.Store(); !reflect.DeepEqual(got, want) {
		t.Errorf("Store() = %v, want %v", got, want)
	}

	if err := left.Add(NewSized(1, 1)); err == nil {
		t.Error("Add() with mismatched shapes should fail")
	}
}

func TestCopyFromOffsets(t *testing.T) {
	dst := New()
	dst.CopyFrom(sample().SubFrame(Point{}, Point{X: 1, Y: 1}), Point{X: 3, Y: 4})

	want := map[string]string{"3,4": "a0", "4,4": "b0", "3,5": "a1", "4,5": "b1"}
	if got := dst.Store(); !reflect.DeepEqual(got, want) {
		t.Errorf("Store() = %v, want %v", got, want)
	}
}

func TestBoundsAndRows(t *testing.T) {
	df := New()
	if _, _, ok := df.Bounds(); ok {
		t.Error("Bounds() on empty frame should report !ok")
	}
	df.PutAt(Point{X: 2, Y: 1}, "z")
	origin, corner, ok := df.Bounds()
	if !ok || origin != (Point{X: 2, Y: 1}) || corner != (Point{X: 2, Y: 1}) {
		t.Errorf("Bounds() = %v %v %v", origin, corner, ok)
	}
	want := [][]string{{"", "", ""}, {"", "", "z"}}
	if got := df.Rows(); !reflect.DeepEqual(got, want) {
		t.Errorf("Rows() = %v, want %v", got, want)
	}
}

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("4, 7")
	if err != nil || p != (Point{X: 4, Y: 7}) {
		t.Errorf("ParsePoint() = %v, %v", p, err)
	}
	for _, bad := range []string{"", "4", "a,1", "1,b"} {
		if _, err := ParsePoint(bad); err == nil {
			t.Errorf("ParsePoint(%q) should fail", bad)
		}
	}
}

func TestPointsOrder(t *testing.T) {
	got := sample().Points()
	want := []Point{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Points() = %v, want %v", got, want)
	}
}
