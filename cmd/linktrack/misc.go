package main

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/matheus3301/linktrack/internal/export"
	"github.com/matheus3301/linktrack/internal/message"
	"github.com/matheus3301/linktrack/internal/qr"
	"github.com/matheus3301/linktrack/internal/store"
)

func cmdMessage(c *cli, args []string) error {
	return sub(c, "message", args, map[string]command{
		"connection": messageGenerate(message.KindConnection),
		"follow-up":  messageGenerate(message.KindFollowUp),
		"thank-you":  messageGenerate(message.KindThankYou),
		"suggest":    messageSuggest,
		"templates":  messageTemplates,
		"add":        messageAdd,
	})
}

func messageGenerate(kind message.Kind) command {
	return func(c *cli, args []string) error {
		usage := fmt.Sprintf("message %s <contact> [--index n] [--context c] [--var key=value ...]", kind)
		id, rest, err := parseID(args, usage)
		if err != nil {
			return err
		}
		fs := newFlags("message")
		index := fs.Int("index", -1, "template index (default: random)")
		thanks := fs.String("context", "", "thank-you context: connection, interview or referral")
		vars := varsFlag{}
		fs.Var(vars, "var", "template variable override, key=value (repeatable)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		ct, err := c.contact(id)
		if err != nil {
			return err
		}
		text, err := c.svc.Messages.Generate(ct, message.Request{Kind: kind, Index: *index, Context: *thanks, Vars: vars})
		if err != nil {
			return err
		}
		c.printf("%s\n", text)
		return nil
	}
}

func messageSuggest(c *cli, args []string) error {
	id, _, err := parseID(args, "message suggest <contact>")
	if err != nil {
		return err
	}
	ct, err := c.contact(id)
	if err != nil {
		return err
	}
	suggestions := c.svc.Messages.Suggest(ct)
	if c.json {
		return c.outputJSON(suggestions)
	}
	tw := c.table()
	fmt.Fprintln(tw, "INDEX\tSCORE\tNAME\tTONE\tLENGTH\tREASONS")
	for _, s := range suggestions {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%v\n", s.Index, s.Score, s.Name, s.Tone, s.Length, s.Reasons)
	}
	return tw.Flush()
}

func messageTemplates(c *cli, args []string) error {
	kinds := message.Kinds
	if len(args) > 0 {
		k, err := message.ParseKind(args[0])
		if err != nil {
			return err
		}
		kinds = []message.Kind{k}
	}
	catalog := c.svc.Messages.Templates()
	if c.json {
		out := message.Catalog{}
		for _, k := range kinds {
			out[k] = catalog[k]
		}
		return c.outputJSON(out)
	}
	for _, k := range kinds {
		c.printf("%s\n", k)
		for i, t := range catalog[k] {
			extra := ""
			switch {
			case t.DaysAfter > 0:
				extra = fmt.Sprintf(" (after %d days)", t.DaysAfter)
			case t.Context != "":
				extra = " (" + t.Context + ")"
			case t.Tone != "":
				extra = " (" + t.Tone + ")"
			}
			custom := ""
			if t.Custom {
				custom = " *"
			}
			c.printf("  %d  %s%s%s\n", i, t.Name, extra, custom)
		}
	}
	return nil
}

func messageAdd(c *cli, args []string) error {
	const usage = "message add <kind> --name n --body b [--tone t] [--days-after n] [--context c]"
	if len(args) == 0 {
		return usagef("%s", usage)
	}
	kind, err := message.ParseKind(args[0])
	if err != nil {
		return err
	}
	fs := newFlags("message add")
	var t message.Template
	fs.StringVar(&t.Name, "name", "", "template name")
	fs.StringVar(&t.Body, "body", "", "Liquid template body")
	fs.StringVar(&t.Tone, "tone", "", "tone label")
	fs.StringVar(&t.Length, "length", "", "length label")
	fs.StringVar(&t.Focus, "focus", "", "focus label, e.g. company")
	fs.IntVar(&t.DaysAfter, "days-after", 0, "follow-up delay in days")
	fs.StringVar(&t.Context, "context", "", "thank-you context")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if t.Name == "" || t.Body == "" {
		return usagef("%s", usage)
	}
	if err := c.svc.Messages.AddTemplate(kind, t); err != nil {
		return err
	}
	c.printf("Added %s template %q\n", kind, t.Name)
	return nil
}

func cmdImport(c *cli, args []string) error {
	const usage = "import <file.csv> [--dry-run]"
	if len(args) == 0 {
		return usagef("%s", usage)
	}
	fs := newFlags("import")
	dryRun := fs.Bool("dry-run", false, "map and count rows without writing")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	rep, err := c.svc.Import(args[0], *dryRun)
	if err != nil {
		return err
	}
	if c.json {
		return c.outputJSON(rep)
	}
	mode := ""
	if rep.DryRun {
		mode = " (dry run, nothing written)"
	}
	c.printf("Import %s%s\n", rep.BatchID, mode)
	c.printf("  rows:     %d\n", rep.Total)
	c.printf("  imported: %d\n", rep.Imported)
	c.printf("  skipped:  %d\n", rep.Skipped)
	c.printf("  errors:   %d\n", rep.Errors)
	for _, f := range rep.Failures {
		c.printf("    %v\n", f)
	}
	return nil
}

func cmdExport(c *cli, args []string) error {
	return sub(c, "export", args, map[string]command{
		"contacts": func(c *cli, args []string) error {
			fs := newFlags("export contacts")
			status := fs.String("status", "", "only contacts with this status")
			if err := fs.Parse(args); err != nil {
				return err
			}
			return c.exported(c.svc.Exporter.Contacts(store.Status(*status)))
		},
		"interactions": func(c *cli, args []string) error {
			id, _, err := parseID(args, "export interactions <contact>")
			if err != nil {
				return err
			}
			return c.exported(c.svc.Exporter.Interactions(id))
		},
		"reminders": func(c *cli, args []string) error {
			fs := newFlags("export reminders")
			days := fs.Int("days", 7, "look this many days ahead")
			if err := fs.Parse(args); err != nil {
				return err
			}
			return c.exported(c.svc.Exporter.Reminders(*days))
		},
		"report": func(c *cli, _ []string) error {
			return c.exported(c.svc.Exporter.FullReport())
		},
	})
}

func (c *cli) exported(path string, err error) error {
	if errors.Is(err, export.ErrNothingToExport) {
		c.printf("Nothing to export.\n")
		return nil
	}
	if err != nil {
		return err
	}
	c.printf("Exported %s\n", path)
	return nil
}

func cmdStats(c *cli, _ []string) error {
	stats, err := c.svc.Store.Statistics()
	if err != nil {
		return err
	}
	if c.json {
		return c.outputJSON(stats)
	}
	c.printf("Contacts:           %d\n", stats.TotalContacts)
	c.printf("Added this week:    %d\n", stats.AddedThisWeek)
	c.printf("Interactions:       %d\n", stats.TotalInteractions)
	c.printf("Pending reminders:  %d\n", stats.PendingReminders)
	if len(stats.ByStatus) > 0 {
		c.printf("\nBy status\n")
		statuses := make([]string, 0, len(stats.ByStatus))
		for s := range stats.ByStatus {
			statuses = append(statuses, string(s))
		}
		sort.Strings(statuses)
		for _, s := range statuses {
			c.printf("  %-16s %d\n", s, stats.ByStatus[store.Status(s)])
		}
	}
	if len(stats.TopCompanies) > 0 {
		c.printf("\nTop companies\n")
		for _, cc := range stats.TopCompanies {
			c.printf("  %-24s %d\n", cc.Company, cc.Count)
		}
	}
	return nil
}

func cmdQR(c *cli, args []string) error {
	id, _, err := parseID(args, "qr <contact>")
	if err != nil {
		return err
	}
	ct, err := c.contact(id)
	if err != nil {
		return err
	}
	code, err := qr.Render(ct.LinkedInURL, "  ")
	if err != nil {
		return err
	}
	c.printf("\n%s\n  %s\n  %s\n", code, ct.Name, ct.LinkedInURL)
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
