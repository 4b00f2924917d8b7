package interpreter

import (
	"errors"
	"fmt"

	"github.com/zurustar/sheetstack/pkg/commands"
	"github.com/zurustar/sheetstack/pkg/grammar"
	"github.com/zurustar/sheetstack/pkg/resolver"
)

// Control-flow sentinels shared with the call stack.
var (
	// ErrEndOfStack is returned when an instruction is executed while the
	// cursor is at rest. Hosts catch it and reset the stack.
	ErrEndOfStack = errors.New("end of stack")

	// ErrReentrant is returned when execution is requested from inside a
	// running command.
	ErrReentrant = errors.New("call stack is already executing")
)

// UnknownCommandError reports a syntactically valid command that has no
// entry in the registry.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Name)
}

// Kind classifies errors so a host can react per kind, for example a
// dismissable alert for a parse error and a silent reset for end of stack.
type Kind string

const (
	KindNone                Kind = "NONE"
	KindParse               Kind = "PARSE"
	KindUnknownCommand      Kind = "UNKNOWN_COMMAND"
	KindEndOfStack          Kind = "END_OF_STACK"
	KindUnresolvedReference Kind = "UNRESOLVED_REFERENCE"
	KindArgument            Kind = "ARGUMENT"
	KindReentrant           Kind = "REENTRANT"
	KindOther               Kind = "OTHER"
)

// ErrorKind returns the kind of err. Wrapped errors are unwrapped; for a
// joined error the first matching kind in the order below wins.
func ErrorKind(err error) Kind {
	if err == nil {
		return KindNone
	}

	var (
		parseErr      *grammar.ParseError
		unknownErr    *UnknownCommandError
		unresolvedErr *resolver.UnresolvedReferenceError
		argErr        *commands.ArgumentError
		coordErr      *resolver.InvalidCoordinateError
	)
	switch {
	case errors.Is(err, ErrEndOfStack):
		return KindEndOfStack
	case errors.Is(err, ErrReentrant):
		return KindReentrant
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &unknownErr):
		return KindUnknownCommand
	case errors.As(err, &unresolvedErr):
		return KindUnresolvedReference
	case errors.As(err, &argErr), errors.As(err, &coordErr):
		return KindArgument
	default:
		return KindOther
	}
}
