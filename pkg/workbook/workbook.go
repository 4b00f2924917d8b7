// Package workbook holds the sheets an instruction can reference and
// implements the sheet lookup used by the resolver.
package workbook

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/zurustar/sheetstack/pkg/frame"
	"github.com/zurustar/sheetstack/pkg/grammar"
	"github.com/zurustar/sheetstack/pkg/logger"
	"github.com/zurustar/sheetstack/pkg/resolver"
)

// Sheet is a named data frame with a sheet id.
type Sheet struct {
	id   string
	name string
	df   *frame.DataFrame
}

// ID returns the sheet id used in references.
func (s *Sheet) ID() string { return s.id }

// Name returns the display name.
func (s *Sheet) Name() string { return s.name }

// Frame returns the sheet's cells.
func (s *Sheet) Frame() *frame.DataFrame { return s.df }

// Workbook is a set of sheets keyed by id.
type Workbook struct {
	sheets map[string]*Sheet
	links  *Links
	log    *slog.Logger
}

// Option is a functional option for configuring the Workbook.
type Option func(*Workbook)

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(wb *Workbook) {
		wb.log = log
	}
}

// New creates an empty workbook.
func New(opts ...Option) *Workbook {
	wb := &Workbook{
		sheets: make(map[string]*Sheet),
		links:  NewLinks(),
		log:    logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(wb)
	}
	return wb
}

// NewSheet adds an empty sheet with a freshly generated id.
func (wb *Workbook) NewSheet(name string) *Sheet {
	s := &Sheet{id: uuid.NewString(), name: name, df: frame.New()}
	wb.sheets[s.id] = s
	wb.log.Debug("Sheet created", "id", s.id, "name", name)
	return s
}

// AddSheet adds an empty sheet with a caller-chosen id. The id must have the
// sheet id shape (five hyphen-separated hex runs) and must not be in use.
func (wb *Workbook) AddSheet(id, name string) (*Sheet, error) {
	if !grammar.IsSheetID(id) {
		return nil, fmt.Errorf("invalid sheet id %q", id)
	}
	if _, ok := wb.sheets[id]; ok {
		return nil, fmt.Errorf("sheet %s already exists", id)
	}
	s := &Sheet{id: id, name: name, df: frame.New()}
	wb.sheets[id] = s
	wb.log.Debug("Sheet added", "id", id, "name", name)
	return s, nil
}

// Sheet returns the sheet with the given id.
func (wb *Workbook) Sheet(id string) (*Sheet, bool) {
	s, ok := wb.sheets[id]
	return s, ok
}

// SheetByName returns the first sheet, in Sheets order, with the given name.
func (wb *Workbook) SheetByName(name string) (*Sheet, bool) {
	for _, s := range wb.Sheets() {
		if s.name == name {
			return s, true
		}
	}
	return nil, false
}

// Remove deletes a sheet and every link to or from it.
func (wb *Workbook) Remove(id string) bool {
	if _, ok := wb.sheets[id]; !ok {
		return false
	}
	delete(wb.sheets, id)
	wb.links.Forget(id)
	wb.log.Debug("Sheet removed", "id", id)
	return true
}

// Sheets returns every sheet sorted by name, then id.
func (wb *Workbook) Sheets() []*Sheet {
	out := make([]*Sheet, 0, len(wb.sheets))
	for _, s := range wb.sheets {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].name != out[j].name {
			return out[i].name < out[j].name
		}
		return out[i].id < out[j].id
	})
	return out
}

// Len returns the number of sheets.
func (wb *Workbook) Len() int {
	return len(wb.sheets)
}

// Links returns the link record between sheets.
func (wb *Workbook) Links() *Links {
	return wb.links
}

// LookupSheet implements resolver.SheetLookup.
func (wb *Workbook) LookupSheet(id string) (resolver.Owner, bool) {
	s, ok := wb.sheets[id]
	if !ok {
		return nil, false
	}
	return s, true
}
