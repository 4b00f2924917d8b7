package grammar

import (
	"strings"
)

// Coordinate is one corner of a frame as written: a column label and an
// optional row label. Both stay textual; the resolver turns them into indices.
type Coordinate struct {
	Column string
	Row    string
}

// String returns the coordinate in "A1" form.
func (c Coordinate) String() string {
	return c.Column + c.Row
}

// FrameRef is the origin:corner pair of a reference.
type FrameRef struct {
	Origin Coordinate
	Corner Coordinate
}

// Reference is a parsed cell reference. Name is "" when the reference carries
// no <name> prefix.
type Reference struct {
	Name    string
	SheetID string
	Frame   FrameRef
}

// String formats the reference so that ParseReference reads it back.
func (r Reference) String() string {
	var sb strings.Builder
	if r.Name != "" {
		sb.WriteString("<")
		sb.WriteString(r.Name)
		sb.WriteString(">")
	}
	sb.WriteString(r.SheetID)
	sb.WriteString("!")
	sb.WriteString(r.Frame.Origin.String())
	sb.WriteString(":")
	sb.WriteString(r.Frame.Corner.String())
	return sb.String()
}

// FormatReferences formats a reference list as comma-separated text.
func FormatReferences(refs []Reference) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}

// Command names understood by the command grammar.
const (
	CmdCopy      = "copy"
	CmdReplace   = "replace"
	CmdJoin      = "join"
	CmdSum       = "sum"
	CmdAverage   = "average"
	CmdMedian    = "median"
	CmdMax       = "max"
	CmdMin       = "min"
	CmdTransform = "transform"
)

// argKind tells the parser which argument production a command takes.
type argKind int

const (
	argNone argKind = iota
	argPairs
	argLiteral
)

var commandArgs = map[string]argKind{
	CmdCopy:      argNone,
	CmdReplace:   argPairs,
	CmdJoin:      argLiteral,
	CmdSum:       argNone,
	CmdAverage:   argNone,
	CmdMedian:    argNone,
	CmdMax:       argNone,
	CmdMin:       argNone,
	CmdTransform: argLiteral,
}

// IsCommandName reports whether name is a command the grammar accepts.
func IsCommandName(name string) bool {
	_, ok := commandArgs[name]
	return ok
}

// Args is the argument payload of a command: NoArgs, Pairs or Literal.
type Args interface {
	// Payload returns the plain payload: "" for NoArgs, [][2]string for
	// Pairs and string for Literal.
	Payload() any
	argsNode()
}

// NoArgs is the payload of zero-argument commands.
type NoArgs struct{}

func (NoArgs) Payload() any { return "" }
func (NoArgs) argsNode()    {}

// Pair is one match:replacement entry of a replace command.
type Pair [2]string

// Pairs is the ordered payload of replace.
type Pairs []Pair

func (p Pairs) Payload() any {
	out := make([][2]string, len(p))
	for i, kv := range p {
		out[i] = kv
	}
	return out
}
func (Pairs) argsNode() {}

// Literal is the single string payload of join and transform.
type Literal string

func (l Literal) Payload() any { return string(l) }
func (Literal) argsNode()      {}

// Command is a parsed command.
type Command struct {
	Name string
	Args Args
}

// String formats the command so that ParseCommand reads it back. Strings
// containing both quote characters cannot be expressed in the grammar.
func (c Command) String() string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	sb.WriteString("(")
	switch a := c.Args.(type) {
	case Pairs:
		for i, kv := range a {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(quote(kv[0]))
			sb.WriteString(":")
			sb.WriteString(quote(kv[1]))
		}
	case Literal:
		sb.WriteString(quote(string(a)))
	}
	sb.WriteString(")")
	return sb.String()
}

func quote(s string) string {
	if strings.Contains(s, `"`) {
		return "'" + s + "'"
	}
	return `"` + s + `"`
}
