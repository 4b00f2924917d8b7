// Package repl is the interactive shell over a call stack and a workbook.
package repl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/zurustar/sheetstack/pkg/callstack"
	"github.com/zurustar/sheetstack/pkg/commands"
	"github.com/zurustar/sheetstack/pkg/interpreter"
	"github.com/zurustar/sheetstack/pkg/logger"
	"github.com/zurustar/sheetstack/pkg/program"
	"github.com/zurustar/sheetstack/pkg/sheetio"
	"github.com/zurustar/sheetstack/pkg/workbook"
)

// UsageError reports a shell command with missing or malformed arguments.
type UsageError struct {
	Command string
	Usage   string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage: %s %s", e.Command, e.Usage)
}

type handler struct {
	usage string
	help  string
	fn    func(s *Session, args string) error
}

// handlers is set in init because help reads it.
var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"list":     {"", "show the instructions, > marks the cursor", (*Session).list},
		"push":     {"<sources> | <target> | <command>", `append an instruction; \n in the command is a newline`, (*Session).push},
		"rm":       {"<index>", "remove the instruction at index", (*Session).remove},
		"step":     {"", "advance the cursor", (*Session).step},
		"exec":     {"", "execute the instruction under the cursor", (*Session).exec},
		"run":      {"", "execute from the cursor to the end of the stack", (*Session).run},
		"jump":     {"<n>", "move the cursor by n", (*Session).jump},
		"reset":    {"", "put the cursor at rest", (*Session).reset},
		"show":     {"<sheet>", "print a sheet by name or id", (*Session).show},
		"sheets":   {"", "list the sheets", (*Session).sheets},
		"new":      {"<name>", "create an empty sheet", (*Session).newSheet},
		"import":   {"<file> [name]", "load a CSV or XLSX file into a new sheet", (*Session).importSheet},
		"export":   {"<sheet> <file>", "write a sheet to a CSV or XLSX file", (*Session).exportSheet},
		"commands": {"", "list the instruction commands", (*Session).commands},
		"load":     {"<file>", "replace the stack with a program file", (*Session).load},
		"save":     {"<file>", "write the stack to a program file", (*Session).save},
		"help":     {"", "show this help", (*Session).help},
		"quit":     {"", "leave the shell", (*Session).quit},
	}
}

// Session dispatches shell commands.
type Session struct {
	wb       *workbook.Workbook
	stack    *callstack.CallStack
	registry commands.Registry
	out      io.Writer
	log      *slog.Logger
	done     bool
}

// Option is a functional option for configuring the Session.
type Option func(*Session)

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// NewSession creates a session writing its output to out.
func NewSession(wb *workbook.Workbook, stack *callstack.CallStack, registry commands.Registry, out io.Writer, opts ...Option) *Session {
	s := &Session{
		wb:       wb,
		stack:    stack,
		registry: registry,
		out:      out,
		log:      logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Done reports whether quit was requested.
func (s *Session) Done() bool {
	return s.done
}

// Prompt returns the prompt showing the cursor and stack length.
func (s *Session) Prompt() string {
	return fmt.Sprintf("sheetstack[%d/%d]> ", s.stack.Cursor(), s.stack.Len())
}

// Names returns the shell command names, sorted.
func (s *Session) Names() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Exec runs one line. Blank lines and lines starting with # do nothing.
func (s *Session) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	name, args, _ := strings.Cut(line, " ")
	if name == "exit" {
		name = "quit"
	}
	h, ok := handlers[name]
	if !ok {
		return fmt.Errorf("unknown shell command %q (try help)", name)
	}
	s.log.Debug("Shell command", "name", name, "args", args)
	return h.fn(s, strings.TrimSpace(args))
}

func (s *Session) list(string) error {
	for i, ins := range s.stack.Stack() {
		marker := " "
		if i == s.stack.Cursor() {
			marker = ">"
		}
		fmt.Fprintf(s.out, "%s %3d  %s\n", marker, i, strings.ReplaceAll(ins.String(), "\n", `\n`))
	}
	if s.stack.Len() == 0 {
		fmt.Fprintln(s.out, "(empty)")
	}
	return nil
}

func (s *Session) push(args string) error {
	parts := strings.SplitN(args, "|", 3)
	if len(parts) != 3 {
		return &UsageError{Command: "push", Usage: handlers["push"].usage}
	}
	ins := interpreter.Instruction{
		Sources: strings.TrimSpace(parts[0]),
		Target:  strings.TrimSpace(parts[1]),
		Command: strings.ReplaceAll(strings.TrimSpace(parts[2]), `\n`, "\n"),
	}
	if ins.IsZero() {
		return &UsageError{Command: "push", Usage: handlers["push"].usage}
	}
	s.stack.Append(ins)
	fmt.Fprintf(s.out, "pushed %d\n", s.stack.Len()-1)
	return nil
}

func (s *Session) remove(args string) error {
	n, err := strconv.Atoi(args)
	if err != nil {
		return &UsageError{Command: "rm", Usage: handlers["rm"].usage}
	}
	return s.stack.Remove(n)
}

func (s *Session) step(string) error {
	s.stack.Step()
	fmt.Fprintf(s.out, "cursor %d\n", s.stack.Cursor())
	return nil
}

func (s *Session) exec(string) error {
	result, err := s.stack.Execute()
	if errors.Is(err, callstack.ErrEndOfStack) {
		s.stack.Reset()
		fmt.Fprintln(s.out, "end of stack, cursor reset")
		return nil
	}
	if err != nil {
		return err
	}
	s.printResult(result)
	return nil
}

func (s *Session) run(string) error {
	if err := s.stack.Run(); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "ok")
	return nil
}

func (s *Session) jump(args string) error {
	n, err := strconv.Atoi(args)
	if err != nil {
		return &UsageError{Command: "jump", Usage: handlers["jump"].usage}
	}
	s.stack.Jump(n)
	fmt.Fprintf(s.out, "cursor %d\n", s.stack.Cursor())
	return nil
}

func (s *Session) reset(string) error {
	s.stack.Reset()
	return nil
}

func (s *Session) findSheet(ref string) (*workbook.Sheet, error) {
	if sh, ok := s.wb.Sheet(ref); ok {
		return sh, nil
	}
	if sh, ok := s.wb.SheetByName(ref); ok {
		return sh, nil
	}
	return nil, fmt.Errorf("no sheet named %q", ref)
}

func (s *Session) show(args string) error {
	if args == "" {
		return &UsageError{Command: "show", Usage: handlers["show"].usage}
	}
	sh, err := s.findSheet(args)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for y, row := range sh.Frame().Rows() {
		fmt.Fprintf(tw, "%d\t%s\n", y+1, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func (s *Session) sheets(string) error {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, sh := range s.wb.Sheets() {
		w, h := sh.Frame().Size()
		fmt.Fprintf(tw, "%s\t%s\t%dx%d\n", sh.ID(), sh.Name(), w, h)
	}
	return tw.Flush()
}

func (s *Session) newSheet(args string) error {
	if args == "" {
		return &UsageError{Command: "new", Usage: handlers["new"].usage}
	}
	sh := s.wb.NewSheet(args)
	fmt.Fprintln(s.out, sh.ID())
	return nil
}

func (s *Session) importSheet(args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return &UsageError{Command: "import", Usage: handlers["import"].usage}
	}
	path := fields[0]
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if len(fields) == 2 {
		name = fields[1]
	}

	sh := s.wb.NewSheet(name)
	if err := sheetio.Import(path, sh.Frame(), sheetio.Options{}); err != nil {
		s.wb.Remove(sh.ID())
		return err
	}
	fmt.Fprintln(s.out, sh.ID())
	return nil
}

func (s *Session) exportSheet(args string) error {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return &UsageError{Command: "export", Usage: handlers["export"].usage}
	}
	sh, err := s.findSheet(fields[0])
	if err != nil {
		return err
	}
	return sheetio.Export(fields[1], sh.Frame(), sheetio.Options{})
}

func (s *Session) commands(string) error {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, name := range s.registry.Names() {
		e, _ := s.registry.Lookup(name)
		args := ""
		if e.Args {
			args = "(args)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, args, e.Description)
	}
	if names := commands.TransformNames(); len(names) > 0 {
		fmt.Fprintf(tw, "\t\ttransforms: %s\n", strings.Join(names, ", "))
	}
	return tw.Flush()
}

func (s *Session) load(args string) error {
	if args == "" {
		return &UsageError{Command: "load", Usage: handlers["load"].usage}
	}
	ins, err := program.Load(args)
	if err != nil {
		return err
	}
	s.stack.Load(ins)
	fmt.Fprintf(s.out, "loaded %d instructions\n", s.stack.Len())
	return nil
}

func (s *Session) save(args string) error {
	if args == "" {
		return &UsageError{Command: "save", Usage: handlers["save"].usage}
	}
	return program.Save(args, s.stack.Stack())
}

func (s *Session) help(string) error {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, name := range s.Names() {
		h := handlers[name]
		fmt.Fprintf(tw, "%s %s\t%s\n", name, h.usage, h.help)
	}
	return tw.Flush()
}

func (s *Session) quit(string) error {
	s.done = true
	return nil
}

func (s *Session) printResult(result any) {
	switch r := result.(type) {
	case nil:
		fmt.Fprintln(s.out, "ok")
	case float64:
		fmt.Fprintln(s.out, commands.FormatNumber(r))
	case interpreter.Skipped:
		fmt.Fprintf(s.out, "skipped: sheet %s not found\n", r.SheetID)
	default:
		fmt.Fprintln(s.out, r)
	}
}
