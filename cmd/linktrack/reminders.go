package main

import (
	"fmt"
	"sort"

	"github.com/matheus3301/linktrack/internal/bus"
	"github.com/matheus3301/linktrack/internal/store"
)

func cmdInteractions(c *cli, args []string) error {
	return sub(c, "interactions", args, map[string]command{
		"add":  interactionsAdd,
		"list": interactionsList,
	})
}

func interactionsAdd(c *cli, args []string) error {
	const usage = "interactions add <contact> --type <type> [--message m] [--outcome o] [--next-days n]"
	id, rest, err := parseID(args, usage)
	if err != nil {
		return err
	}
	fs := newFlags("interactions add")
	typ := fs.String("type", "", "connection_request, message, email, follow_up, call or meeting")
	msg := fs.String("message", "", "message text")
	outcome := fs.String("outcome", "", "sent, accepted, rejected or no_response")
	nextDays := fs.Int("next-days", 0, "next follow-up in this many days")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	if *typ == "" {
		return usagef("%s", usage)
	}

	in := &store.Interaction{
		ContactID: id,
		Type:      store.InteractionType(*typ),
		Message:   *msg,
		Outcome:   store.Outcome(*outcome),
	}
	if *nextDays > 0 {
		in.NextFollowUpDate = store.At(c.svc.Store.Now().AddDate(0, 0, *nextDays))
	}
	iid, err := c.svc.Store.AddInteraction(in)
	if err != nil {
		return err
	}
	c.svc.Bus.Emit(bus.InteractionAdded, id)
	c.printf("Recorded interaction %d for contact %d\n", iid, id)
	return nil
}

func interactionsList(c *cli, args []string) error {
	id, _, err := parseID(args, "interactions list <contact>")
	if err != nil {
		return err
	}
	if _, err := c.contact(id); err != nil {
		return err
	}
	interactions, err := c.svc.Store.ContactInteractions(id)
	if err != nil {
		return err
	}
	if c.json {
		return c.outputJSON(interactions)
	}
	if len(interactions) == 0 {
		c.printf("No interactions recorded.\n")
		return nil
	}
	tw := c.table()
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tOUTCOME\tNEXT FOLLOW-UP\tMESSAGE")
	for _, in := range interactions {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", in.ID, localTime(in.CreatedAt), in.Type, in.Outcome,
			localTime(in.NextFollowUpDate), oneLine(in.Message, 50))
	}
	return tw.Flush()
}

func cmdReminders(c *cli, args []string) error {
	return sub(c, "reminders", args, map[string]command{
		"list":     remindersList,
		"add":      remindersAdd,
		"complete": remindersComplete,
		"snooze":   remindersSnooze,
		"auto":     remindersAuto,
		"schedule": remindersSchedule,
		"stats":    remindersStats,
		"text":     remindersText,
	})
}

func remindersList(c *cli, args []string) error {
	fs := newFlags("reminders list")
	days := fs.Int("days", c.svc.Config.PendingWindowDays, "look this many days ahead")
	if err := fs.Parse(args); err != nil {
		return err
	}
	pending, err := c.svc.Reminders.Pending(*days)
	if err != nil {
		return err
	}
	if c.json {
		return c.outputJSON(pending)
	}
	if len(pending) == 0 {
		c.printf("No pending reminders.\n")
		return nil
	}
	return c.printPending(pending)
}

func (c *cli) printPending(pending []store.PendingReminder) error {
	tw := c.table()
	fmt.Fprintln(tw, "ID\tDUE\tTYPE\tCONTACT\tCOMPANY\tMESSAGE")
	for _, r := range pending {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", r.ReminderID, localTime(r.Date), r.Type, r.Name, r.Company, oneLine(r.Message, 50))
	}
	return tw.Flush()
}

func remindersAdd(c *cli, args []string) error {
	const usage = "reminders add <contact> [--days n] [--type t] [--message m] [--connection]"
	id, rest, err := parseID(args, usage)
	if err != nil {
		return err
	}
	fs := newFlags("reminders add")
	days := fs.Int("days", 0, "due in this many days (default from config)")
	typ := fs.String("type", "", "reminder type (default follow_up)")
	msg := fs.String("message", "", "reminder text (default: a generated follow-up)")
	connection := fs.Bool("connection", false, "schedule a connection request reminder")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	var rid int64
	if *connection {
		rid, err = c.svc.Reminders.CreateConnectionReminder(id, *days)
	} else {
		rid, err = c.svc.Reminders.CreateFollowUp(id, *days, store.ReminderType(*typ), *msg)
	}
	if err != nil {
		return err
	}
	c.svc.Bus.Emit(bus.ReminderCreated, rid)
	r, err := c.svc.Store.GetReminder(rid)
	if err != nil {
		return err
	}
	c.printf("Scheduled reminder %d for %s\n", rid, localTime(r.Date))
	return nil
}

func remindersComplete(c *cli, args []string) error {
	id, _, err := parseID(args, "reminders complete <id>")
	if err != nil {
		return err
	}
	if err := c.svc.Reminders.Complete(id); err != nil {
		return err
	}
	c.svc.Bus.Emit(bus.ReminderCompleted, id)
	c.printf("Reminder %d completed\n", id)
	return nil
}

func remindersSnooze(c *cli, args []string) error {
	id, rest, err := parseID(args, "reminders snooze <id> [--days n]")
	if err != nil {
		return err
	}
	fs := newFlags("reminders snooze")
	days := fs.Int("days", 1, "postpone by this many days")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	newID, err := c.svc.Reminders.Snooze(id, *days)
	if err != nil {
		return err
	}
	c.svc.Bus.Emit(bus.ReminderSnoozed, newID)
	c.printf("Reminder %d snoozed as %d\n", id, newID)
	return nil
}

func remindersAuto(c *cli, args []string) error {
	fs := newFlags("reminders auto")
	days := fs.Int("days", 0, "due in this many days (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	n, err := c.svc.Reminders.AutoCreate(*days)
	if err != nil {
		return err
	}
	if n > 0 {
		c.svc.Bus.Emit(bus.ReminderCreated, n)
	}
	c.printf("Created %d connection reminder(s)\n", n)
	return nil
}

func remindersSchedule(c *cli, args []string) error {
	fs := newFlags("reminders schedule")
	days := fs.Int("days", 7, "look this many days ahead")
	if err := fs.Parse(args); err != nil {
		return err
	}
	schedule, err := c.svc.Reminders.Schedule(*days)
	if err != nil {
		return err
	}
	if c.json {
		return c.outputJSON(schedule)
	}
	if len(schedule) == 0 {
		c.printf("Nothing scheduled in the next %d days.\n", *days)
		return nil
	}
	for _, day := range schedule {
		c.printf("%s (%d)\n", day.Date.Format("Mon 02 Jan 2006"), len(day.Reminders))
		for _, r := range day.Reminders {
			c.printf("  #%d  %s  %-18s %s\n", r.ReminderID, r.Date.Local().Format("15:04"), r.Type, r.Name)
		}
	}
	return nil
}

func remindersStats(c *cli, _ []string) error {
	stats, err := c.svc.Reminders.Stats()
	if err != nil {
		return err
	}
	if c.json {
		return c.outputJSON(stats)
	}
	c.printf("Pending:   %d\n", stats.TotalPending)
	c.printf("Due today: %d\n", stats.DueToday)
	c.printf("Overdue:   %d\n", stats.Overdue)
	types := make([]string, 0, len(stats.ByType))
	for t := range stats.ByType {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		c.printf("  %-20s %d\n", t, stats.ByType[store.ReminderType(t)])
	}
	return nil
}

func remindersText(c *cli, args []string) error {
	fs := newFlags("reminders text")
	days := fs.Int("days", 7, "look this many days ahead")
	out := fs.String("out", "", "write reminders_YYYYMMDD.txt into this directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		_, err := c.svc.Reminders.WriteText(c.out, *days)
		return err
	}
	path, err := c.svc.Reminders.ExportText(*out, *days)
	if err != nil {
		return err
	}
	c.printf("Wrote %s\n", path)
	return nil
}
