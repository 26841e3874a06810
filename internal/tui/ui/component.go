package ui

// MenuHint describes a keyboard shortcut for display in the menu.
type MenuHint struct {
	Key         string
	Description string
	Numeric     bool // 0-9 page shortcuts, drawn in NumericKeyColor
}

// Component is what every page shows in the header and crumbs.
type Component interface {
	// Name is the page name used on the stack.
	Name() string
	Hints() []MenuHint
}
