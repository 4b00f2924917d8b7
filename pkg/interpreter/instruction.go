package interpreter

import "fmt"

// Instruction is a call stack entry. All three parts are kept as text and
// only parsed when the instruction is interpreted, so the same stack can be
// replayed against a different registry or workbook.
type Instruction struct {
	// Sources is a comma-separated reference list; the first reference is
	// the primary source of single-source commands.
	Sources string `toml:"sources"`

	// Target is a single reference whose origin is the write anchor.
	Target string `toml:"target"`

	// Command is the command text, e.g. `replace("a":"AAA")`.
	Command string `toml:"command"`
}

// IsZero reports whether the instruction is empty. Empty instructions are
// dropped by the call stack instead of being stored.
func (i Instruction) IsZero() bool {
	return i.Sources == "" && i.Target == "" && i.Command == ""
}

// List returns the three-element wire form [sources, target, command].
func (i Instruction) List() []string {
	return []string{i.Sources, i.Target, i.Command}
}

// String returns a single-line description for logs and listings.
func (i Instruction) String() string {
	return fmt.Sprintf("%s -> %s : %s", i.Sources, i.Target, i.Command)
}

// FromList builds an instruction from its three-element wire form. A nil or
// empty list yields the zero Instruction.
func FromList(list []string) (Instruction, error) {
	switch len(list) {
	case 0:
		return Instruction{}, nil
	case 3:
		return Instruction{Sources: list[0], Target: list[1], Command: list[2]}, nil
	default:
		return Instruction{}, fmt.Errorf("instruction must have 3 elements, got %d", len(list))
	}
}
