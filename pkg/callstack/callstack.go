// Package callstack holds an ordered list of instructions with a cursor and
// drives an interpreter over it.
//
// The state is (stack, cursor). A cursor of -1 means the stack is at rest:
// before the first instruction or after the last. Any other cursor value is
// an index into the stack. Every mutation goes through the CallStack
// methods. A CallStack is not safe for concurrent use.
package callstack

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/zurustar/sheetstack/pkg/interpreter"
	"github.com/zurustar/sheetstack/pkg/logger"
)

// Rest is the cursor value of a stack that is not positioned on an
// instruction.
const Rest = -1

var (
	// ErrEndOfStack is returned by Execute when the cursor is at rest.
	ErrEndOfStack = interpreter.ErrEndOfStack

	// ErrReentrant is returned by Execute and Run when called while an
	// instruction of the same stack is executing.
	ErrReentrant = interpreter.ErrReentrant

	// ErrIndexOutOfRange is returned by Remove for an index outside the stack.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Interpreter produces executables from instructions.
type Interpreter interface {
	Interpret(ins interpreter.Instruction) (interpreter.Executable, error)
}

// InstructionError wraps the failure of the instruction at Index.
type InstructionError struct {
	Index       int
	Instruction interpreter.Instruction
	Err         error
}

func (e *InstructionError) Error() string {
	return fmt.Sprintf("instruction %d (%s): %v", e.Index, e.Instruction, e.Err)
}

func (e *InstructionError) Unwrap() error {
	return e.Err
}

// CallStack is an instruction list with a cursor.
type CallStack struct {
	interp          Interpreter
	stack           []interpreter.Instruction
	cursor          int
	executing       bool
	continueOnError bool
	log             *slog.Logger
}

// Option is a functional option for configuring the CallStack.
type Option func(*CallStack)

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(cs *CallStack) {
		cs.log = log
	}
}

// WithContinueOnError makes Run execute every remaining instruction even
// when some of them fail. The failures are joined into the returned error.
func WithContinueOnError(enabled bool) Option {
	return func(cs *CallStack) {
		cs.continueOnError = enabled
	}
}

// New creates an empty call stack at rest.
func New(interp Interpreter, opts ...Option) *CallStack {
	cs := &CallStack{
		interp: interp,
		cursor: Rest,
		log:    logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

// Cursor returns the current cursor, Rest when not positioned.
func (cs *CallStack) Cursor() int {
	return cs.cursor
}

// Len returns the number of instructions.
func (cs *CallStack) Len() int {
	return len(cs.stack)
}

// Stack returns a copy of the instructions.
func (cs *CallStack) Stack() []interpreter.Instruction {
	out := make([]interpreter.Instruction, len(cs.stack))
	copy(out, cs.stack)
	return out
}

// At returns the instruction at index.
func (cs *CallStack) At(index int) (interpreter.Instruction, bool) {
	if index < 0 || index >= len(cs.stack) {
		return interpreter.Instruction{}, false
	}
	return cs.stack[index], true
}

// Load replaces the whole stack and puts the cursor at rest. Zero
// instructions are dropped.
func (cs *CallStack) Load(instructions []interpreter.Instruction) {
	cs.Reset()
	cs.stack = nil
	for _, ins := range instructions {
		cs.Append(ins)
	}
	cs.log.Debug("Call stack loaded", "given", len(instructions), "kept", len(cs.stack))
}

// Append pushes ins to the end of the stack without moving the cursor. A
// zero instruction is ignored.
func (cs *CallStack) Append(ins interpreter.Instruction) {
	if ins.IsZero() {
		return
	}
	cs.stack = append(cs.stack, ins)
	cs.log.Debug("Instruction appended", "index", len(cs.stack)-1, "instruction", ins.String())
}

// Remove deletes the instruction at index.
//
// The cursor keeps pointing at the same logical instruction: removing an
// entry before the cursor shifts it down by one. Removing the instruction
// under the cursor, or leaving the cursor past the new end, puts the stack
// at rest.
func (cs *CallStack) Remove(index int) error {
	if index < 0 || index >= len(cs.stack) {
		return fmt.Errorf("remove %d: %w (length %d)", index, ErrIndexOutOfRange, len(cs.stack))
	}
	cs.stack = append(cs.stack[:index], cs.stack[index+1:]...)

	prev := cs.cursor
	switch {
	case cs.cursor == Rest:
	case index == cs.cursor:
		cs.cursor = Rest
	case index < cs.cursor:
		cs.cursor--
	}
	if cs.cursor >= len(cs.stack) {
		cs.cursor = Rest
	}
	cs.log.Debug("Instruction removed", "index", index, "cursor_from", prev, "cursor_to", cs.cursor)
	return nil
}

// Step advances the cursor by one. Stepping from the last instruction, or
// on an empty stack, returns to rest; stepping from rest on a non-empty
// stack moves to the first instruction.
func (cs *CallStack) Step() {
	prev := cs.cursor
	if cs.cursor == len(cs.stack)-1 {
		cs.cursor = Rest
	} else {
		cs.cursor++
	}
	cs.log.Debug("Cursor stepped", "from", prev, "to", cs.cursor)
}

// Jump moves the cursor by n. A destination outside the stack puts the
// stack at rest.
func (cs *CallStack) Jump(n int) {
	prev := cs.cursor
	cs.cursor += n
	if cs.cursor < 0 || cs.cursor >= len(cs.stack) {
		cs.cursor = Rest
	}
	cs.log.Debug("Cursor jumped", "by", n, "from", prev, "to", cs.cursor)
}

// Reset puts the cursor at rest.
func (cs *CallStack) Reset() {
	if cs.cursor != Rest {
		cs.log.Debug("Cursor reset", "from", cs.cursor)
	}
	cs.cursor = Rest
}

// Execute interprets and runs the instruction under the cursor and returns
// its result. The cursor does not move.
//
// Returns ErrEndOfStack when the stack is at rest and ErrReentrant when
// called from inside an executing instruction.
func (cs *CallStack) Execute() (any, error) {
	if cs.executing {
		return nil, ErrReentrant
	}
	cs.executing = true
	defer func() { cs.executing = false }()

	return cs.execute()
}

func (cs *CallStack) execute() (any, error) {
	if cs.cursor == Rest {
		return nil, ErrEndOfStack
	}

	index := cs.cursor
	ins := cs.stack[index]
	exe, err := cs.interp.Interpret(ins)
	if err != nil {
		cs.log.Debug("Instruction rejected", "index", index, "error", err)
		return nil, &InstructionError{Index: index, Instruction: ins, Err: err}
	}

	result, err := exe()
	if err != nil {
		cs.log.Debug("Instruction failed", "index", index, "error", err)
		return nil, &InstructionError{Index: index, Instruction: ins, Err: err}
	}
	cs.log.Debug("Instruction executed", "index", index, "result", result)
	return result, nil
}

// Run executes every instruction from the cursor to the end of the stack
// and leaves the stack at rest. A stack at rest is entered at the first
// instruction.
//
// By default Run stops at the first failing instruction and leaves the
// cursor on it. With WithContinueOnError every remaining instruction is
// executed and the failures are returned joined.
func (cs *CallStack) Run() error {
	if cs.executing {
		return ErrReentrant
	}
	cs.executing = true
	defer func() { cs.executing = false }()

	if cs.cursor == Rest {
		cs.Step()
	}

	var errs []error
	executed := 0
	for cs.cursor != Rest {
		if _, err := cs.execute(); err != nil {
			if !cs.continueOnError {
				cs.log.Debug("Run halted", "cursor", cs.cursor, "executed", executed)
				return err
			}
			errs = append(errs, err)
		}
		executed++
		cs.Step()
	}
	cs.log.Debug("Run completed", "executed", executed, "failed", len(errs))
	return errors.Join(errs...)
}
