package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/matheus3301/linktrack/internal/app"
)

// usageError is a malformed invocation. run prints the usage line with it.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// cli is the state shared by every command.
type cli struct {
	svc  *app.Services
	out  io.Writer
	json bool
}

type command func(c *cli, args []string) error

var commands = map[string]command{
	"contacts":     cmdContacts,
	"interactions": cmdInteractions,
	"reminders":    cmdReminders,
	"message":      cmdMessage,
	"import":       cmdImport,
	"export":       cmdExport,
	"stats":        cmdStats,
	"qr":           cmdQR,
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("linktrack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	workspaceFlag := fs.String("workspace", "", "workspace name (overrides config default)")
	jsonFlag := fs.Bool("json", false, "output in JSON format")
	fs.Usage = func() { printUsage(stderr) }
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return errors.New("no command given")
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		printUsage(stderr)
		return fmt.Errorf("unknown command: %s", rest[0])
	}

	err := app.Run(ctx, app.Params{Workspace: *workspaceFlag}, func(svc *app.Services) error {
		return cmd(&cli{svc: svc, out: stdout, json: *jsonFlag}, rest[1:])
	})
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(stderr, "usage: linktrack %s\n", ue.msg)
		return fmt.Errorf("invalid arguments for %s", rest[0])
	}
	return err
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: linktrack [--workspace <name>] [--json] <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  contacts list [--status s] [--limit n]      List contacts, newest first")
	fmt.Fprintln(w, "  contacts add --url u --name n [...]        Add a contact")
	fmt.Fprintln(w, "  contacts show <id>                         Show a contact with history")
	fmt.Fprintln(w, "  contacts search <query>                    Search name, company, title, skills")
	fmt.Fprintln(w, "  contacts status <id> <status>              Change a contact's status")
	fmt.Fprintln(w, "  contacts edit <id> [--field value ...]     Update selected fields")
	fmt.Fprintln(w, "  contacts delete <id>                       Delete a contact and its history")
	fmt.Fprintln(w, "  contacts due [--days n]                    Contacts due for a follow-up")
	fmt.Fprintln(w, "  interactions add <contact> --type t [...]  Record an interaction")
	fmt.Fprintln(w, "  interactions list <contact>                List a contact's interactions")
	fmt.Fprintln(w, "  reminders list [--days n]                  Open reminders due soon")
	fmt.Fprintln(w, "  reminders add <contact> [...]              Schedule a reminder")
	fmt.Fprintln(w, "  reminders complete <id>                    Mark a reminder done")
	fmt.Fprintln(w, "  reminders snooze <id> [--days n]           Push a reminder back")
	fmt.Fprintln(w, "  reminders auto [--days n]                  Connection reminders for pending contacts")
	fmt.Fprintln(w, "  reminders schedule [--days n]              Reminders grouped by day")
	fmt.Fprintln(w, "  reminders stats                            Reminder statistics")
	fmt.Fprintln(w, "  reminders text [--days n] [--out dir]      Plain text agenda")
	fmt.Fprintln(w, "  message connection|follow-up|thank-you <contact> [--index n] [--var k=v]")
	fmt.Fprintln(w, "  message suggest <contact>                  Rank connection templates")
	fmt.Fprintln(w, "  message templates [kind]                   List templates")
	fmt.Fprintln(w, "  message add <kind> --name n --body b       Add a custom template")
	fmt.Fprintln(w, "  import <file.csv> [--dry-run]              Import a LinkedIn connections export")
	fmt.Fprintln(w, "  export contacts|interactions|reminders|report")
	fmt.Fprintln(w, "  stats                                      Overall statistics")
	fmt.Fprintln(w, "  qr <id>                                    Show a contact's profile as a QR code")
}

// sub dispatches args[0] to the matching subcommand.
func sub(c *cli, group string, args []string, subs map[string]command) error {
	if len(args) == 0 {
		return usagef("%s <%s>", group, strings.Join(sortedKeys(subs), "|"))
	}
	fn, ok := subs[args[0]]
	if !ok {
		return usagef("%s <%s> (unknown subcommand %q)", group, strings.Join(sortedKeys(subs), "|"), args[0])
	}
	return fn(c, args[1:])
}

// parseID reads a leading positional id and returns the remaining args.
func parseID(args []string, usage string) (int64, []string, error) {
	if len(args) == 0 {
		return 0, nil, usagef("%s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, nil, fmt.Errorf("invalid id %q", args[0])
	}
	return id, args[1:], nil
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (c *cli) table() *tabwriter.Writer {
	return tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
}

func (c *cli) outputJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

// varsFlag collects repeated --var key=value pairs.
type varsFlag map[string]string

func (v varsFlag) String() string { return "" }

func (v varsFlag) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	v[strings.TrimSpace(key)] = value
	return nil
}
