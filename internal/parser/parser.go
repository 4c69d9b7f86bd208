// Package parser turns input lines into commands for the txmirror CLI.
package parser

import (
	"fmt"
	"sort"
	"strings"

	"txmirror/internal/domain"
)

// Command names.
const (
	CmdRecord   = "RECORD"
	CmdStatus   = "STATUS"
	CmdCan      = "CAN"
	CmdNext     = "NEXT"
	CmdHistory  = "HISTORY"
	CmdClassify = "CLASSIFY"
	CmdInbox    = "INBOX"
	CmdList     = "LIST"
	CmdGraph    = "GRAPH"
	CmdExit     = "EXIT"
)

// Command represents a parsed command with its name and arguments.
type Command struct {
	Name string
	Args []string
}

// Arg returns the i-th argument or "" when it was not given.
func (c *Command) Arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}

type arity struct {
	required int
	optional int
}

var commands = map[string]arity{
	CmdRecord:   {2, 1}, // <tx_id> <transition> [process]
	CmdStatus:   {1, 0}, // <tx_id>
	CmdCan:      {2, 0}, // <tx_id> <transition>
	CmdNext:     {1, 0}, // <tx_id>
	CmdHistory:  {1, 0}, // <tx_id>
	CmdClassify: {1, 1}, // <transition> [process]
	CmdInbox:    {1, 0}, // <status>
	CmdList:     {0, 0},
	CmdGraph:    {0, 1}, // [process]
	CmdExit:     {0, 0},
}

// Parse parses a command line into a Command.
// A token starting with '#' begins a trailing comment, but only once every
// required argument has been read; before that it is malformed input.
func Parse(line string) (*Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, domain.NewParseError("empty input")
	}

	name := tokens[0]
	a, known := commands[name]
	if !known {
		return nil, domain.NewParseError(fmt.Sprintf("unknown command: %s", name))
	}

	args, err := extractArgs(tokens[1:], a, name)
	if err != nil {
		return nil, err
	}
	return &Command{Name: name, Args: args}, nil
}

func extractArgs(tokens []string, a arity, name string) ([]string, error) {
	args := make([]string, 0, a.required+a.optional)

	for _, token := range tokens {
		isComment := strings.HasPrefix(token, "#")
		if len(args) < a.required {
			if isComment {
				return nil, domain.NewParseError(fmt.Sprintf("malformed input: unexpected '#' in required argument position for %s", name))
			}
			args = append(args, token)
			continue
		}
		if isComment {
			break
		}
		if len(args) == a.required+a.optional {
			return nil, domain.NewParseError(fmt.Sprintf("too many arguments for %s: at most %d", name, a.required+a.optional))
		}
		args = append(args, token)
	}

	if len(args) < a.required {
		return nil, domain.NewParseError(fmt.Sprintf("insufficient arguments for %s: expected %d, got %d", name, a.required, len(args)))
	}
	return args, nil
}

// IsValidCommand checks if a command name is valid.
func IsValidCommand(name string) bool {
	_, ok := commands[name]
	return ok
}

// GetRequiredArgCount returns the number of required arguments for a command.
func GetRequiredArgCount(name string) (int, bool) {
	a, ok := commands[name]
	return a.required, ok
}

// Commands returns every command name, sorted.
func Commands() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
