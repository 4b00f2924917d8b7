package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
)

// Interactive reports whether standard input is a terminal.
func Interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Run reads shell commands until quit or end of input. A terminal gets line
// editing and history; anything else is read line by line.
func Run(s *Session) error {
	if !Interactive() {
		return RunScript(s, os.Stdin)
	}

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetWordCompleter(s.complete)

	fmt.Fprintln(s.out, "sheetstack shell, type help for commands")
	for !s.Done() {
		text, err := line.Prompt(s.Prompt())
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(text) != "" {
			line.AppendHistory(text)
		}
		if err := s.Exec(text); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
	return nil
}

// RunScript executes every line read from r. Errors are printed and do not
// stop the script.
func RunScript(s *Session, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for !s.Done() && scanner.Scan() {
		if err := s.Exec(scanner.Text()); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

// complete offers shell command names for the first word and sheet names
// after show and export.
func (s *Session) complete(text string, pos int) (head string, completions []string, tail string) {
	runes := []rune(text)
	head, tail = string(runes[:pos]), string(runes[pos:])

	start := strings.LastIndex(head, " ") + 1
	word := head[start:]
	prefix := head[:start]

	var candidates []string
	switch first := strings.Fields(prefix); {
	case len(first) == 0:
		candidates = s.Names()
	case len(first) == 1 && (first[0] == "show" || first[0] == "export"):
		for _, sh := range s.wb.Sheets() {
			candidates = append(candidates, sh.Name())
		}
	}

	for _, c := range candidates {
		if strings.HasPrefix(c, word) {
			completions = append(completions, c+" ")
		}
	}
	return prefix, completions, tail
}
