// Package program reads and writes instruction lists.
//
// Two formats are supported. TOML files hold an array of [[instruction]]
// tables with sources, target and command keys. CBOR files hold an array of
// three-element arrays [sources, target, command], encoded canonically so
// equal programs produce equal bytes.
package program

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fxamacker/cbor/v2"

	"github.com/zurustar/sheetstack/pkg/interpreter"
)

// Format is a program file format.
type Format string

const (
	FormatTOML Format = "toml"
	FormatCBOR Format = "cbor"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("program: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// tomlFile is the document shape of a TOML program.
type tomlFile struct {
	Instructions []interpreter.Instruction `toml:"instruction"`
}

// wireInstruction is the CBOR shape of one instruction.
type wireInstruction struct {
	_       struct{} `cbor:",toarray"`
	Sources string
	Target  string
	Command string
}

// FormatOf returns the format for path based on its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".cbor":
		return FormatCBOR, nil
	default:
		return "", fmt.Errorf("unsupported program file %s", path)
	}
}

// Load reads a program file. Empty instructions are kept; the call stack
// drops them on load.
func Load(path string) ([]interpreter.Instruction, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	ins, err := Decode(format, data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return ins, nil
}

// Save writes a program file, choosing the format from the extension.
func Save(path string, ins []interpreter.Instruction) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(format, ins)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Decode parses a program in the given format.
func Decode(format Format, data []byte) ([]interpreter.Instruction, error) {
	switch format {
	case FormatTOML:
		var f tomlFile
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
		return f.Instructions, nil

	case FormatCBOR:
		var wire []wireInstruction
		if err := cbor.Unmarshal(data, &wire); err != nil {
			return nil, err
		}
		ins := make([]interpreter.Instruction, len(wire))
		for i, w := range wire {
			ins[i] = interpreter.Instruction{Sources: w.Sources, Target: w.Target, Command: w.Command}
		}
		return ins, nil

	default:
		return nil, fmt.Errorf("unknown program format %q", format)
	}
}

// Encode serializes a program in the given format.
func Encode(format Format, ins []interpreter.Instruction) ([]byte, error) {
	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(tomlFile{Instructions: ins}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	case FormatCBOR:
		wire := make([]wireInstruction, len(ins))
		for i, in := range ins {
			wire[i] = wireInstruction{Sources: in.Sources, Target: in.Target, Command: in.Command}
		}
		return cborEncMode.Marshal(wire)

	default:
		return nil, fmt.Errorf("unknown program format %q", format)
	}
}
