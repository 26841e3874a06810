// Package tui is the interactive terminal front end over a workspace.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/linktrack/internal/app"
	"github.com/matheus3301/linktrack/internal/store"
	"github.com/matheus3301/linktrack/internal/tui/keys"
	"github.com/matheus3301/linktrack/internal/tui/model"
	"github.com/matheus3301/linktrack/internal/tui/ui"
	"github.com/matheus3301/linktrack/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

const (
	headerHeight = 6
	promptHeight = 3
	flashTick    = time.Second
)

// App is the main TUI application shell.
type App struct {
	tv       *tview.Application
	svc      *app.Services
	vm       *model.ViewModel
	logger   *zap.Logger
	theme    *ui.Theme
	registry *keys.Registry

	root   *tview.Flex
	pages  *ui.Pages
	crumbs *ui.Crumbs
	menu   *ui.Menu
	info   *ui.WorkspaceInfo
	prompt *ui.Prompt
	flash  *ui.FlashModel
	flashB *ui.FlashBar

	contacts  *views.ContactList
	detail    *views.ContactDetail
	reminders *views.ReminderList
	stats     *views.StatsView
	help      *views.HelpView
	pageViews map[string]page

	ctx    context.Context
	cancel context.CancelFunc
}

// page is a primitive shown on the stack.
type page interface {
	tview.Primitive
	ui.Component
}

// NewApp creates the TUI application over svc.
func NewApp(svc *app.Services) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		tv:        tview.NewApplication(),
		svc:       svc,
		vm:        model.NewViewModel(svc.Store, svc.Reminders, svc.Bus, svc.Config.PendingWindowDays),
		logger:    svc.Logger.Named("tui"),
		theme:     theme,
		registry:  keys.NewRegistry(),
		pages:     ui.NewPages(),
		crumbs:    ui.NewCrumbs(theme),
		menu:      ui.NewMenu(theme),
		info:      ui.NewWorkspaceInfo(theme),
		prompt:    ui.NewPrompt(theme),
		flash:     ui.NewFlashModel(),
		flashB:    ui.NewFlashBar(theme),
		contacts:  views.NewContactList(theme),
		detail:    views.NewContactDetail(theme),
		reminders: views.NewReminderList(theme, svc.Store.Now),
		stats:     views.NewStatsView(theme),
		help:      views.NewHelpView(theme),
		ctx:       ctx,
		cancel:    cancel,
	}

	a.setupBindings()
	a.setupPrompt()
	a.setupLayout()
	return a
}

func (a *App) setupBindings() {
	r := a.registry
	r.AddGlobal(&keys.Action{Key: tcell.KeyRune, Rune: ':', Description: "Command", Handler: func() { a.activatePrompt(ui.PromptCommand) }})
	r.AddGlobal(&keys.Action{Key: tcell.KeyRune, Rune: '?', Description: "Help", Handler: func() { a.show("help") }})
	r.AddGlobal(&keys.Action{Key: tcell.KeyRune, Rune: 'q', Description: "Back/Quit", Handler: a.back})
	r.AddGlobal(&keys.Action{Key: tcell.KeyEscape, Handler: a.back, Hidden: true})
	r.AddGlobal(&keys.Action{Key: tcell.KeyCtrlR, Handler: a.reloadAll, Hidden: true})

	filter := func() { a.activatePrompt(ui.PromptFilter) }
	r.AddView("contacts", &keys.Action{Key: tcell.KeyRune, Rune: '/', Handler: filter, Hidden: true})
	r.AddView("contacts", &keys.Action{Key: tcell.KeyEnter, Hidden: true, Handler: func() {
		a.openContact(a.contacts.SelectedID())
	}})
	r.AddView("contacts", &keys.Action{Key: tcell.KeyRune, Rune: '0', Hidden: true, Handler: func() {
		a.contacts.SetFilter("")
		a.async(func() error { return a.vm.Search("") }, a.drawContacts)
	}})
	for n := 1; n <= 9; n++ {
		r.AddView("contacts", &keys.Action{Key: tcell.KeyRune, Rune: rune('0' + n), Hidden: true, Handler: func() {
			a.openContact(a.contacts.ByIndex(n - 1))
		}})
	}

	r.AddView("contact", &keys.Action{Key: tcell.KeyRune, Rune: 'r', Hidden: true, Handler: a.detail.ToggleQR})

	r.AddView("reminders", &keys.Action{Key: tcell.KeyRune, Rune: '/', Handler: filter, Hidden: true})
	r.AddView("reminders", &keys.Action{Key: tcell.KeyEnter, Hidden: true, Handler: func() {
		if sel := a.reminders.Selected(); sel != nil {
			a.openContact(sel.ContactID)
		}
	}})
	r.AddView("reminders", &keys.Action{Key: tcell.KeyRune, Rune: 'c', Description: "Complete", Handler: a.completeSelected})
	r.AddView("reminders", &keys.Action{Key: tcell.KeyRune, Rune: 'z', Description: "Snooze 1d", Handler: func() { a.snoozeSelected(1) }})
	r.AddView("reminders", &keys.Action{Key: tcell.KeyRune, Rune: 'Z', Description: "Snooze 7d", Handler: func() { a.snoozeSelected(7) }})
}

func (a *App) setupPrompt() {
	a.prompt.SetOnChange(func(mode ui.PromptMode, text string) {
		if mode == ui.PromptFilter {
			a.applyFilter(text)
		}
	})
	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		if mode == ui.PromptCommand {
			a.execute(ParseCommand(text))
		}
	})
	a.prompt.SetOnCancel(func() {
		if a.prompt.Mode() == ui.PromptFilter {
			a.applyFilter("")
		}
		a.hidePrompt()
	})
}

func (a *App) setupLayout() {
	a.pageViews = map[string]page{}
	for _, p := range []page{a.contacts, a.detail, a.reminders, a.stats, a.help} {
		a.pageViews[p.Name()] = p
		a.pages.AddPage(p.Name(), p, true, false)
	}

	a.pages.SetOnChange(func(stack []string) {
		a.crumbs.Update(stack)
		if p, ok := a.pageViews[a.pages.Current()]; ok {
			a.menu.Update(append(p.Hints(), a.registry.Hints("")...))
			a.tv.SetFocus(p)
		}
	})

	header := tview.NewFlex().
		AddItem(a.info, 36, 0, false).
		AddItem(a.menu, 0, 1, false).
		AddItem(ui.NewLogo(a.theme), 38, 0, false)

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, headerHeight, 0, false).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flashB, 1, 0, false)
	a.root.SetBackgroundColor(a.theme.BgColor)

	a.tv.SetRoot(a.root, true)
	a.pages.Reset("contacts")

	a.tv.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		// The prompt handles its own keys.
		if a.prompt.HasFocus() {
			return ev
		}
		if a.registry.HandleEvent(a.pages.Current(), ev) {
			return nil
		}
		return ev
	})
}

func (a *App) activatePrompt(mode ui.PromptMode) {
	a.prompt.Activate(mode)
	if mode == ui.PromptFilter {
		switch a.pages.Current() {
		case "contacts":
			a.prompt.SetText(a.contacts.Filter())
		case "reminders":
			a.prompt.SetText(a.reminders.Filter())
		}
	}
	a.root.ResizeItem(a.prompt, promptHeight, 0)
	a.tv.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.root.ResizeItem(a.prompt, 0, 0)
	if p, ok := a.pageViews[a.pages.Current()]; ok {
		a.tv.SetFocus(p)
	}
}

func (a *App) applyFilter(text string) {
	switch a.pages.Current() {
	case "contacts":
		a.contacts.SetFilter(text)
	case "reminders":
		_, days := a.vm.Pending()
		a.reminders.SetFilter(text, days)
	}
}

// execute runs a prompt command.
func (a *App) execute(cmd Command) {
	cmd = cmd.Canonical()
	switch cmd.Name {
	case "":
	case "contacts":
		a.async(func() error { return a.vm.Search("") }, func() {
			a.drawContacts()
			a.pages.Reset("contacts")
		})
	case "search":
		a.async(func() error { return a.vm.Search(cmd.Args) }, func() {
			a.drawContacts()
			a.pages.Reset("contacts")
		})
	case "status":
		a.setStatus(store.Status(cmd.Args))
	case "reminders":
		days, ok := cmd.IntArg(a.svc.Config.PendingWindowDays)
		if !ok {
			a.flash.Warn(fmt.Sprintf("invalid number of days %q", cmd.Args))
			return
		}
		a.async(func() error { return a.vm.SetDays(days) }, func() {
			a.drawReminders()
			a.pages.Push("reminders")
		})
	case "stats":
		a.show("stats")
	case "help":
		a.show("help")
	case "quit":
		a.Stop()
	default:
		a.flash.Warn(fmt.Sprintf("unknown command %q", cmd.Name))
	}
}

// setStatus changes the shown contact's status on the contact page and
// narrows the contact list everywhere else.
func (a *App) setStatus(status store.Status) {
	if a.pages.Current() == "contact" {
		id := a.detail.ContactID()
		a.async(func() error { return a.vm.SetStatus(id, status) }, func() {
			a.flash.Infof("Contact %d is now %s", id, status)
		})
		return
	}
	a.async(func() error { return a.vm.ShowStatus(status) }, func() {
		a.drawContacts()
		a.pages.Reset("contacts")
	})
}

// show pushes name and loads its data.
func (a *App) show(name string) {
	a.pages.Push(name)
	a.reload(name)
}

func (a *App) back() {
	if len(a.pages.Stack()) > 1 {
		a.pages.Pop()
		a.reload(a.pages.Current())
		return
	}
	a.Stop()
}

func (a *App) openContact(id int64) {
	if id == 0 {
		return
	}
	a.async(func() error { return a.vm.LoadDetail(id) }, func() {
		d := a.vm.Detail()
		a.detail.Update(d)
		a.crumbs.SetTitle("contact", d.Contact.Name)
		a.pages.Push("contact")
		a.crumbs.Update(a.pages.Stack())
	})
}

func (a *App) completeSelected() {
	sel := a.reminders.Selected()
	if sel == nil {
		return
	}
	id := sel.ReminderID
	a.async(func() error { return a.vm.CompleteReminder(id) }, func() {
		a.flash.Infof("Reminder %d completed", id)
	})
}

func (a *App) snoozeSelected(days int) {
	sel := a.reminders.Selected()
	if sel == nil {
		return
	}
	id := sel.ReminderID
	a.async(func() error {
		_, err := a.vm.SnoozeReminder(id, days)
		return err
	}, func() {
		a.flash.Infof("Reminder %d snoozed %d day(s)", id, days)
	})
}

// async runs load off the UI goroutine, then draw on it. A failing load
// flashes the error instead.
func (a *App) async(load func() error, draw func()) {
	go func() {
		if err := load(); err != nil {
			a.logger.Warn("tui action failed", zap.Error(err))
			a.flash.Err(err)
			return
		}
		a.tv.QueueUpdateDraw(draw)
	}()
}

func (a *App) drawContacts() {
	a.contacts.Update(a.vm.Contacts(), a.vm.Scope())
}

func (a *App) drawReminders() {
	a.reminders.Update(a.vm.Pending())
}

// reload refreshes the data of page name.
func (a *App) reload(name string) {
	switch name {
	case "contacts":
		a.async(a.vm.LoadContacts, a.drawContacts)
	case "contact":
		id := a.detail.ContactID()
		if id == 0 {
			return
		}
		a.async(func() error { return a.vm.LoadDetail(id) }, func() {
			a.detail.Update(a.vm.Detail())
		})
	case "reminders":
		a.async(a.vm.LoadReminders, a.drawReminders)
	case "stats":
		a.async(a.vm.LoadStats, func() { a.stats.Update(a.vm.Stats()) })
	}
}

func (a *App) reloadHeader() {
	a.async(a.vm.LoadStats, func() {
		data := &ui.WorkspaceData{Workspace: a.svc.Workspace.Name}
		stats, rs := a.vm.Stats()
		data.Contacts = stats.TotalContacts
		data.Pending, data.DueToday, data.Overdue = rs.TotalPending, rs.DueToday, rs.Overdue
		a.info.Update(data)
		if a.pages.Current() == "stats" {
			a.stats.Update(stats, rs)
		}
	})
}

func (a *App) reloadAll() {
	a.reloadHeader()
	a.reload(a.pages.Current())
}

// watch reloads on store changes and keeps the flash bar current.
func (a *App) watch() {
	events, cancel := a.svc.Bus.Subscribe("", 32)
	ticker := time.NewTicker(flashTick)
	go func() {
		defer cancel()
		defer ticker.Stop()
		for {
			select {
			case evt := <-events:
				a.logger.Debug("change observed", zap.String("kind", evt.Kind))
				a.reloadAll()
			case <-a.flash.Watch():
				a.tv.QueueUpdateDraw(func() { a.flashB.Update(a.flash.Current()) })
			case <-ticker.C:
				a.tv.QueueUpdateDraw(func() { a.flashB.Update(a.flash.Current()) })
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run() error {
	a.reloadAll()
	a.watch()
	a.logger.Info("tui started", zap.String("workspace", a.svc.Workspace.Name))
	defer a.cancel()
	return a.tv.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.tv.Stop()
}
