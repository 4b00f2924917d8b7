package grammar

import (
	"fmt"
	"strings"
)

// Grammar names reported in parse errors.
const (
	GrammarReference = "reference"
	GrammarCommand   = "command"
)

// ParseError reports text that does not match the reference or command
// grammar. Parsing stops at the first error; there is no partial result.
type ParseError struct {
	// Grammar is GrammarReference or GrammarCommand.
	Grammar string

	// Input is the complete offending text.
	Input string

	// Message is the human-readable error description.
	Message string

	// Offset is the byte offset of the error in Input.
	Offset int

	// Line and Column are the 1-indexed location of Offset.
	Line   int
	Column int

	// Context is the offending line with a pointer (^) under the error column.
	Context string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s %q: %s at line %d, column %d",
		e.Grammar, e.Input, e.Message, e.Line, e.Column)
}

func newParseError(grammar, input string, offset int, format string, args ...any) *ParseError {
	line, column := locate(input, offset)
	return &ParseError{
		Grammar: grammar,
		Input:   input,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
		Line:    line,
		Column:  column,
		Context: GenerateErrorContext(input, line, column),
	}
}

// locate converts a byte offset to a 1-indexed line and column.
func locate(input string, offset int) (line, column int) {
	if offset > len(input) {
		offset = len(input)
	}
	line = 1 + strings.Count(input[:offset], "\n")
	lineStart := strings.LastIndexByte(input[:offset], '\n') + 1
	return line, offset - lineStart + 1
}

// GenerateErrorContext renders the error line of source with a pointer (^)
// under the error column.
//
// Example output:
//
//	1 | replace('a' 'b')
//	  |             ^
func GenerateErrorContext(source string, line, column int) string {
	lines := strings.Split(source, "\n")
	if line <= 0 || line > len(lines) {
		return ""
	}

	prefix := fmt.Sprintf("%d | ", line)
	var buf strings.Builder
	buf.WriteString(prefix)
	buf.WriteString(lines[line-1])
	buf.WriteString("\n")
	buf.WriteString(strings.Repeat(" ", len(prefix)-2))
	buf.WriteString("| ")
	if column > 1 {
		buf.WriteString(strings.Repeat(" ", column-1))
	}
	buf.WriteString("^")
	return buf.String()
}
