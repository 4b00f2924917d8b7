// Package interpreter turns instruction triples into executable closures.
//
// Interpretation parses the command text and both reference lists up front
// and fails fast on the first grammar error. Reference resolution and the
// command itself are deferred until the returned Executable is invoked, so
// the closure always sees the sheets as they are at execution time.
package interpreter

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/zurustar/sheetstack/pkg/commands"
	"github.com/zurustar/sheetstack/pkg/grammar"
	"github.com/zurustar/sheetstack/pkg/logger"
	"github.com/zurustar/sheetstack/pkg/resolver"
)

// Executable runs one interpreted instruction and returns the command
// result: the reduced number for reductions, nil for copy-like commands and
// Skipped when a referenced sheet does not exist.
type Executable func() (any, error)

// Skipped is the result of an instruction whose references name a sheet
// that could not be found. The instruction did nothing.
type Skipped struct {
	SheetID string
	Ref     string
}

// LinkRecorder receives a source sheet to target sheet link after every
// successful instruction.
type LinkRecorder interface {
	Link(source, target string)
}

// Interpreter binds a command registry to a sheet lookup.
type Interpreter struct {
	registry commands.Registry
	resolver *resolver.Resolver
	links    LinkRecorder
	log      *slog.Logger
}

// Option is a functional option for configuring the Interpreter.
type Option func(*Interpreter)

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(in *Interpreter) {
		in.log = log
	}
}

// WithLinkRecorder records sheet links produced by executed instructions.
func WithLinkRecorder(links LinkRecorder) Option {
	return func(in *Interpreter) {
		in.links = links
	}
}

// New creates an Interpreter.
//
// Parameters:
//   - registry: command name to implementation
//   - lookup: finds the sheet owning a sheet id
//   - opts: functional options
func New(registry commands.Registry, lookup resolver.SheetLookup, opts ...Option) *Interpreter {
	in := &Interpreter{
		registry: registry,
		log:      logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(in)
	}
	in.resolver = resolver.New(lookup, resolver.WithLogger(in.log))
	return in
}

// Registry returns the command registry the interpreter dispatches to.
func (in *Interpreter) Registry() commands.Registry {
	return in.registry
}

// Interpret parses ins and returns a closure that executes it.
//
// The command text is parsed first, then the sources and the target. Any
// *grammar.ParseError aborts interpretation of this instruction only. A
// command name missing from the registry is an *UnknownCommandError.
func (in *Interpreter) Interpret(ins Instruction) (Executable, error) {
	cmd, err := grammar.ParseCommand(ins.Command)
	if err != nil {
		return nil, err
	}
	sources, err := grammar.ParseReferences(ins.Sources)
	if err != nil {
		return nil, fmt.Errorf("sources: %w", err)
	}
	target, err := grammar.ParseReference(ins.Target)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	entry, ok := in.registry.Lookup(cmd.Name)
	if !ok {
		return nil, &UnknownCommandError{Name: cmd.Name}
	}

	return func() (any, error) {
		return in.execute(entry, cmd, sources, target)
	}, nil
}

func (in *Interpreter) execute(entry commands.Entry, cmd grammar.Command, sources []grammar.Reference, target grammar.Reference) (any, error) {
	srcFrames, err := in.resolver.ResolveAll(sources)
	if err != nil {
		return in.skip(cmd, err)
	}
	tgt, err := in.resolver.Resolve(target)
	if err != nil {
		return in.skip(cmd, err)
	}
	return in.invoke(entry, cmd, srcFrames, tgt)
}

// skip turns an unresolved sheet into a no-op. Other resolution errors are
// returned unchanged.
func (in *Interpreter) skip(cmd grammar.Command, err error) (any, error) {
	var unresolved *resolver.UnresolvedReferenceError
	if !errors.As(err, &unresolved) {
		return nil, err
	}
	in.log.Warn("Skipping instruction with unresolved reference",
		"command", cmd.Name, "sheet", unresolved.SheetID, "ref", unresolved.Ref)
	return Skipped{SheetID: unresolved.SheetID, Ref: unresolved.Ref}, nil
}

func (in *Interpreter) invoke(entry commands.Entry, cmd grammar.Command, sources []resolver.Frame, target resolver.Frame) (any, error) {
	result, err := entry.Command(sources, target, cmd.Args)
	if err != nil {
		return nil, err
	}

	in.log.Debug("Command executed", "command", cmd.String(), "target", target.Owner.ID(), "result", result)

	if in.links != nil {
		for _, src := range sources {
			if src.Owner.ID() != target.Owner.ID() {
				in.links.Link(src.Owner.ID(), target.Owner.ID())
			}
		}
	}
	return result, nil
}
