package workbook

import (
	"reflect"
	"testing"

	"github.com/zurustar/sheetstack/pkg/frame"
	"github.com/zurustar/sheetstack/pkg/grammar"
	"github.com/zurustar/sheetstack/pkg/logger"
)

func newTestWorkbook() *Workbook {
	return New(WithLogger(logger.Discard()))
}

func TestNewSheetHasSheetID(t *testing.T) {
	wb := newTestWorkbook()
	s := wb.NewSheet("data")

	if !grammar.IsSheetID(s.ID()) {
		t.Errorf("generated id %q does not have the sheet id shape", s.ID())
	}
	if s.Name() != "data" || s.Frame() == nil {
		t.Errorf("sheet = %q, frame %v", s.Name(), s.Frame())
	}
	if got, ok := wb.Sheet(s.ID()); !ok || got != s {
		t.Error("Sheet() did not return the new sheet")
	}
	if wb.NewSheet("data").ID() == s.ID() {
		t.Error("two sheets share an id")
	}
}

func TestAddSheet(t *testing.T) {
	wb := newTestWorkbook()
	id := "11111111-2222-3333-4444-555555555555"

	if _, err := wb.AddSheet(id, "a"); err != nil {
		t.Fatalf("AddSheet() error: %v", err)
	}
	if _, err := wb.AddSheet(id, "b"); err == nil {
		t.Error("duplicate id: expected error")
	}
	if _, err := wb.AddSheet("not-a-sheet-id", "c"); err == nil {
		t.Error("invalid id: expected error")
	}
	if wb.Len() != 1 {
		t.Errorf("Len() = %d, want 1", wb.Len())
	}
}

func TestLookupSheet(t *testing.T) {
	wb := newTestWorkbook()
	s := wb.NewSheet("data")
	s.Frame().PutAt(frame.Point{}, "x")

	owner, ok := wb.LookupSheet(s.ID())
	if !ok || owner.ID() != s.ID() || owner.Frame().GetAt(frame.Point{}) != "x" {
		t.Errorf("LookupSheet(%s) = %v, %v", s.ID(), owner, ok)
	}

	owner, ok = wb.LookupSheet("00000000-0000-0000-0000-000000000000")
	if ok || owner != nil {
		t.Errorf("unknown id: got %v, %v", owner, ok)
	}
}

func TestSheetsSortedAndByName(t *testing.T) {
	wb := newTestWorkbook()
	c := wb.NewSheet("c")
	a := wb.NewSheet("a")
	b := wb.NewSheet("b")

	var names []string
	for _, s := range wb.Sheets() {
		names = append(names, s.Name())
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(names, want) {
		t.Errorf("Sheets() names = %v, want %v", names, want)
	}

	if got, ok := wb.SheetByName("b"); !ok || got != b {
		t.Error("SheetByName(b) mismatch")
	}
	if _, ok := wb.SheetByName("z"); ok {
		t.Error("SheetByName(z) found a sheet")
	}
	_, _ = a, c
}

func TestRemoveForgetsLinks(t *testing.T) {
	wb := newTestWorkbook()
	a := wb.NewSheet("a")
	b := wb.NewSheet("b")
	c := wb.NewSheet("c")
	wb.Links().Link(a.ID(), b.ID())
	wb.Links().Link(b.ID(), c.ID())

	if !wb.Remove(b.ID()) {
		t.Fatal("Remove() = false")
	}
	if wb.Remove(b.ID()) {
		t.Error("second Remove() = true")
	}
	if got := wb.Links().Targets(a.ID()); len(got) != 0 {
		t.Errorf("Targets(a) = %v, want none", got)
	}
	if got := wb.Links().Sources(c.ID()); len(got) != 0 {
		t.Errorf("Sources(c) = %v, want none", got)
	}
}

func TestLinks(t *testing.T) {
	l := NewLinks()
	l.Link("a", "b")
	l.Link("a", "c")
	l.Link("a", "b")
	l.Link("d", "b")

	if got, want := l.Targets("a"), []string{"b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Targets(a) = %v, want %v", got, want)
	}
	if got, want := l.Sources("b"), []string{"a", "d"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Sources(b) = %v, want %v", got, want)
	}

	l.Unlink("a", "b")
	l.Unlink("x", "y")
	if got, want := l.Sources("b"), []string{"d"}; !reflect.DeepEqual(got, want) {
		t.Errorf("after Unlink, Sources(b) = %v, want %v", got, want)
	}

	l.Forget("c")
	if got := l.Targets("a"); len(got) != 0 {
		t.Errorf("after Forget(c), Targets(a) = %v", got)
	}
}
