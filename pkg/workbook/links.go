package workbook

import "sort"

// Links records which sheets have been written from which. It only stores
// the forward edges; Sources scans them.
type Links struct {
	targets map[string]map[string]struct{}
}

// NewLinks creates an empty link record.
func NewLinks() *Links {
	return &Links{targets: make(map[string]map[string]struct{})}
}

// Link records that source was read to write target.
func (l *Links) Link(source, target string) {
	set, ok := l.targets[source]
	if !ok {
		set = make(map[string]struct{})
		l.targets[source] = set
	}
	set[target] = struct{}{}
}

// Unlink removes a single link.
func (l *Links) Unlink(source, target string) {
	set, ok := l.targets[source]
	if !ok {
		return
	}
	delete(set, target)
	if len(set) == 0 {
		delete(l.targets, source)
	}
}

// Targets returns the sheets written from id, sorted.
func (l *Links) Targets(id string) []string {
	out := make([]string, 0, len(l.targets[id]))
	for t := range l.targets[id] {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Sources returns the sheets id was written from, sorted.
func (l *Links) Sources(id string) []string {
	var out []string
	for src, set := range l.targets {
		if _, ok := set[id]; ok {
			out = append(out, src)
		}
	}
	sort.Strings(out)
	return out
}

// Forget removes every link to or from id.
func (l *Links) Forget(id string) {
	delete(l.targets, id)
	for src := range l.targets {
		l.Unlink(src, id)
	}
}
