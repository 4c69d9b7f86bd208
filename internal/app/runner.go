// Package app provides the read-parse-execute loop of the txmirror CLI.
package app

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"txmirror/internal/parser"
)

// Executor runs a parsed command and returns its printable result.
type Executor interface {
	Execute(cmd *parser.Command) (string, error)
}

// Runner handles the main read-parse-execute-output loop.
type Runner struct {
	executor Executor
	reader   *bufio.Scanner
	writer   io.Writer
}

// NewRunner creates a new application runner.
func NewRunner(executor Executor, input io.Reader, output io.Writer) *Runner {
	return &Runner{
		executor: executor,
		reader:   bufio.NewScanner(input),
		writer:   output,
	}
}

// Run executes the main loop until EXIT is received or EOF is reached.
// Command errors are printed and the loop continues.
func (r *Runner) Run() error {
	for r.reader.Scan() {
		line := strings.TrimSpace(r.reader.Text())
		if line == "" {
			continue
		}

		cmd, err := parser.Parse(line)
		if err != nil {
			fmt.Fprintf(r.writer, "ERROR %s\n", err)
			continue
		}
		if cmd.Name == parser.CmdExit {
			return nil
		}

		result, err := r.executor.Execute(cmd)
		if err != nil {
			fmt.Fprintf(r.writer, "ERROR %s\n", err)
			continue
		}
		if result != "" {
			fmt.Fprintln(r.writer, result)
		}
	}

	if err := r.reader.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}
