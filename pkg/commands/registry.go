// Package commands implements the operations an instruction can run over
// resolved frames: copy, replace, join, transform and the reductions sum,
// average, median, max and min.
package commands

import (
	"fmt"
	"sort"

	"github.com/zurustar/sheetstack/pkg/grammar"
	"github.com/zurustar/sheetstack/pkg/resolver"
)

// Func is the signature of a command. sources are the resolved source
// frames in instruction order, target is the resolved target frame whose
// origin is the write anchor. The returned value is the command result (the
// reduced number for reductions, nil otherwise).
type Func func(sources []resolver.Frame, target resolver.Frame, args grammar.Args) (any, error)

// Entry describes a registered command. Args tells a command picker whether
// the command takes an argument.
type Entry struct {
	Command     Func
	Description string
	Args        bool
}

// Registry maps command names to entries.
type Registry map[string]Entry

// DefaultRegistry returns a registry holding every built-in command.
func DefaultRegistry() Registry {
	r := Registry{}
	r.Register(grammar.CmdCopy, Entry{
		Command:     Copy,
		Description: "Copy the source frame to the target anchor",
	})
	r.Register(grammar.CmdReplace, Entry{
		Command:     Replace,
		Description: "Copy the source frame, replacing substrings pair by pair",
		Args:        true,
	})
	r.Register(grammar.CmdJoin, Entry{
		Command:     Join,
		Description: "Concatenate two equally shaped frames cell by cell with a separator",
		Args:        true,
	})
	r.Register(grammar.CmdTransform, Entry{
		Command:     Transform,
		Description: "Copy the source frame through a named text transform",
		Args:        true,
	})
	r.Register(grammar.CmdSum, Entry{
		Command:     Sum,
		Description: "Sum of all cells",
	})
	r.Register(grammar.CmdAverage, Entry{
		Command:     Average,
		Description: "Sum divided by the number of cells in the frame",
	})
	r.Register(grammar.CmdMedian, Entry{
		Command:     Median,
		Description: "Middle value of the frame",
	})
	r.Register(grammar.CmdMax, Entry{
		Command:     Max,
		Description: "Largest cell value",
	})
	r.Register(grammar.CmdMin, Entry{
		Command:     Min,
		Description: "Smallest cell value",
	})
	return r
}

// Register adds or replaces a command.
func (r Registry) Register(name string, e Entry) {
	r[name] = e
}

// Lookup returns the entry registered under name.
func (r Registry) Lookup(name string) (Entry, bool) {
	e, ok := r[name]
	return e, ok
}

// Names returns the registered command names in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ArgumentError reports a command invoked with the wrong number of sources,
// mismatched shapes or an argument of the wrong kind.
type ArgumentError struct {
	Command string
	Message string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Message)
}

func argumentError(command, format string, args ...any) *ArgumentError {
	return &ArgumentError{Command: command, Message: fmt.Sprintf(format, args...)}
}

// primary returns the first source of a single-source command.
func primary(command string, sources []resolver.Frame) (resolver.Frame, error) {
	if len(sources) == 0 {
		return resolver.Frame{}, argumentError(command, "requires a source frame")
	}
	return sources[0], nil
}
