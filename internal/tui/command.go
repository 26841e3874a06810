package tui

import (
	"strconv"
	"strings"
)

// Command represents a parsed prompt command.
type Command struct {
	Name string
	Args string
}

// ParseCommand parses a command string (without the leading ':').
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	parts := strings.SplitN(input, " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	return cmd
}

// IntArg parses Args as a positive integer, falling back to def when Args
// is empty.
func (c Command) IntArg(def int) (int, bool) {
	if c.Args == "" {
		return def, true
	}
	n, err := strconv.Atoi(c.Args)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// aliases maps short command names to their canonical form.
var aliases = map[string]string{
	"c":   "contacts",
	"ct":  "contacts",
	"r":   "reminders",
	"rem": "reminders",
	"s":   "search",
	"st":  "stats",
	"h":   "help",
	"q":   "quit",
	"q!":  "quit",
}

// Canonical returns the command with its alias expanded.
func (c Command) Canonical() Command {
	if full, ok := aliases[c.Name]; ok {
		c.Name = full
	}
	return c
}
