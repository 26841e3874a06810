package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/matheus3301/linktrack/internal/bus"
	"github.com/matheus3301/linktrack/internal/store"
)

const timeLayout = "2006-01-02 15:04"

func cmdContacts(c *cli, args []string) error {
	return sub(c, "contacts", args, map[string]command{
		"list":   contactsList,
		"add":    contactsAdd,
		"show":   contactsShow,
		"search": contactsSearch,
		"status": contactsStatus,
		"edit":   contactsEdit,
		"delete": contactsDelete,
		"due":    contactsDue,
	})
}

func contactsList(c *cli, args []string) error {
	fs := newFlags("contacts list")
	status := fs.String("status", "", "only contacts with this status")
	limit := fs.Int("limit", 0, "maximum number of contacts")
	if err := fs.Parse(args); err != nil {
		return err
	}
	contacts, err := c.svc.Store.ListContacts(store.ContactFilter{Status: store.Status(*status), Limit: *limit})
	if err != nil {
		return err
	}
	return c.printContacts(contacts)
}

func (c *cli) printContacts(contacts []store.Contact) error {
	if c.json {
		return c.outputJSON(contacts)
	}
	if len(contacts) == 0 {
		c.printf("No contacts found.\n")
		return nil
	}
	tw := c.table()
	fmt.Fprintln(tw, "ID\tNAME\tCOMPANY\tJOB TITLE\tSTATUS\tFOLLOW-UPS")
	for _, ct := range contacts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n", ct.ID, ct.Name, ct.Company, ct.JobTitle, ct.Status, ct.FollowUpCount)
	}
	return tw.Flush()
}

// contactFields binds one flag per editable text field.
type contactFields struct {
	name, title, company, location, industry, about, skills, notes, status string
}

func (f *contactFields) bind(fs *flag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "full name")
	fs.StringVar(&f.title, "title", "", "job title")
	fs.StringVar(&f.company, "company", "", "company")
	fs.StringVar(&f.location, "location", "", "location")
	fs.StringVar(&f.industry, "industry", "", "industry")
	fs.StringVar(&f.about, "about", "", "about / summary")
	fs.StringVar(&f.skills, "skills", "", "comma-separated skills")
	fs.StringVar(&f.notes, "notes", "", "free-form notes")
	fs.StringVar(&f.status, "status", "", "workflow status")
}

func contactsAdd(c *cli, args []string) error {
	fs := newFlags("contacts add")
	url := fs.String("url", "", "LinkedIn profile URL")
	remind := fs.Bool("remind", false, "schedule a connection request reminder")
	var f contactFields
	f.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *url == "" || f.name == "" {
		return usagef("contacts add --url <url> --name <name> [--title t] [--company c] [--status s] [--remind]")
	}

	ct := &store.Contact{
		LinkedInURL: strings.TrimSpace(*url),
		Name:        f.name,
		JobTitle:    f.title,
		Company:     f.company,
		Location:    f.location,
		Industry:    f.industry,
		About:       f.about,
		Skills:      f.skills,
		Notes:       f.notes,
		Status:      store.Status(f.status),
	}
	id, err := c.svc.Store.AddContact(ct)
	if err != nil {
		return err
	}
	c.svc.Bus.Emit(bus.ContactAdded, id)
	c.printf("Added contact %d: %s\n", id, ct.Name)

	if *remind {
		rid, err := c.svc.Reminders.CreateConnectionReminder(id, 0)
		if err != nil {
			return err
		}
		c.printf("Scheduled connection reminder %d\n", rid)
	}
	return nil
}

func (c *cli) contact(id int64) (*store.Contact, error) {
	ct, err := c.svc.Store.GetContact(id)
	if err != nil {
		return nil, err
	}
	if ct == nil {
		return nil, fmt.Errorf("contact %d: %w", id, store.ErrNotFound)
	}
	return ct, nil
}

func contactsShow(c *cli, args []string) error {
	id, _, err := parseID(args, "contacts show <id>")
	if err != nil {
		return err
	}
	ct, err := c.contact(id)
	if err != nil {
		return err
	}
	interactions, err := c.svc.Store.ContactInteractions(id)
	if err != nil {
		return err
	}
	reminders, err := c.svc.Store.ContactReminders(id)
	if err != nil {
		return err
	}

	if c.json {
		return c.outputJSON(struct {
			Contact      *store.Contact
			Interactions []store.Interaction
			Reminders    []store.Reminder
		}{ct, interactions, reminders})
	}

	tw := c.table()
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", label, value)
		}
	}
	row("ID", fmt.Sprint(ct.ID))
	row("Name", ct.Name)
	row("Job title", ct.JobTitle)
	row("Company", ct.Company)
	row("Location", ct.Location)
	row("Industry", ct.Industry)
	row("Skills", ct.Skills)
	row("About", ct.About)
	row("Notes", ct.Notes)
	row("Status", string(ct.Status))
	row("Follow-ups", fmt.Sprint(ct.FollowUpCount))
	row("Connection sent", fmt.Sprint(ct.ConnectionMessageSent))
	row("First contact", localTime(ct.FirstContactDate))
	row("Last contact", localTime(ct.LastContactDate))
	row("LinkedIn", ct.LinkedInURL)
	if err := tw.Flush(); err != nil {
		return err
	}

	c.printf("\nInteractions (%d)\n", len(interactions))
	for _, in := range interactions {
		line := fmt.Sprintf("  %s  %-18s", localTime(in.CreatedAt), in.Type)
		if in.Outcome != "" {
			line += " [" + string(in.Outcome) + "]"
		}
		if in.Message != "" {
			line += " " + oneLine(in.Message, 60)
		}
		c.printf("%s\n", line)
	}

	c.printf("\nReminders (%d)\n", len(reminders))
	for _, r := range reminders {
		state := "open"
		if r.IsCompleted {
			state = "done"
		}
		c.printf("  #%d  %s  %-18s %-4s %s\n", r.ID, localTime(r.Date), r.Type, state, oneLine(r.Message, 60))
	}
	return nil
}

func contactsSearch(c *cli, args []string) error {
	if len(args) == 0 {
		return usagef("contacts search <query>")
	}
	contacts, err := c.svc.Store.SearchContacts(strings.Join(args, " "))
	if err != nil {
		return err
	}
	return c.printContacts(contacts)
}

func contactsStatus(c *cli, args []string) error {
	id, rest, err := parseID(args, "contacts status <id> <status>")
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return usagef("contacts status <id> <status>")
	}
	status := store.Status(rest[0])
	if err := c.svc.Store.UpdateContactStatus(id, status); err != nil {
		return err
	}
	c.svc.Bus.Emit(bus.ContactUpdated, id)
	if !status.Known() {
		c.printf("note: %q is not a predefined status\n", status)
	}
	c.printf("Contact %d is now %s\n", id, status)
	return nil
}

func contactsEdit(c *cli, args []string) error {
	id, rest, err := parseID(args, "contacts edit <id> [--name n] [--title t] [--company c] ...")
	if err != nil {
		return err
	}
	fs := newFlags("contacts edit")
	var f contactFields
	f.bind(fs)
	if err := fs.Parse(rest); err != nil {
		return err
	}

	var p store.ContactPatch
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			p.Name = &f.name
		case "title":
			p.JobTitle = &f.title
		case "company":
			p.Company = &f.company
		case "location":
			p.Location = &f.location
		case "industry":
			p.Industry = &f.industry
		case "about":
			p.About = &f.about
		case "skills":
			p.Skills = &f.skills
		case "notes":
			p.Notes = &f.notes
		case "status":
			s := store.Status(f.status)
			p.Status = &s
		}
	})
	if p.IsEmpty() {
		return usagef("contacts edit <id> [--name n] [--title t] [--company c] ... (nothing to change)")
	}
	if err := c.svc.Store.UpdateContact(id, p); err != nil {
		return err
	}
	c.svc.Bus.Emit(bus.ContactUpdated, id)
	c.printf("Updated contact %d\n", id)
	return nil
}

func contactsDelete(c *cli, args []string) error {
	id, _, err := parseID(args, "contacts delete <id>")
	if err != nil {
		return err
	}
	if err := c.svc.Store.DeleteContact(id); err != nil {
		return err
	}
	c.svc.Bus.Emit(bus.ContactDeleted, id)
	c.printf("Deleted contact %d\n", id)
	return nil
}

func contactsDue(c *cli, args []string) error {
	fs := newFlags("contacts due")
	days := fs.Int("days", c.svc.Config.FollowUpThresholdDays, "days since last contact")
	if err := fs.Parse(args); err != nil {
		return err
	}
	contacts, err := c.svc.Store.ContactsDueForFollowUp(*days)
	if err != nil {
		return err
	}
	if c.json {
		return c.outputJSON(contacts)
	}
	if len(contacts) == 0 {
		c.printf("No contacts due for follow-up.\n")
		return nil
	}
	tw := c.table()
	fmt.Fprintln(tw, "ID\tNAME\tCOMPANY\tLAST CONTACT\tFOLLOW-UPS")
	for _, ct := range contacts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", ct.ID, ct.Name, ct.Company, localTime(ct.LastContactDate), ct.FollowUpCount)
	}
	return tw.Flush()
}

func localTime(t store.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(timeLayout)
}

func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}
