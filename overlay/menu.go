package overlay

// NavItem is a link in the site navigation.
type NavItem struct {
	Href  string
	Label string
}

// NavItems are the in-page anchors shown in the header and mobile menu.
var NavItems = []NavItem{
	{Href: "#next-event", Label: "Next"},
	{Href: "#past-events", Label: "Past"},
	{Href: "#contact", Label: "Contact"},
}

// Menu is the mobile navigation overlay.
type Menu struct {
	open bool
}

// Open reports whether the menu is showing.
func (m *Menu) Open() bool { return m.open }

// Toggle flips the menu and returns the new state.
func (m *Menu) Toggle() bool {
	m.open = !m.open
	return m.open
}

// Close hides the menu; following a nav link does this.
func (m *Menu) Close() { m.open = false }

// Label is the accessible label of the hamburger button.
func (m *Menu) Label() string {
	if m.open {
		return "Close menu"
	}
	return "Open menu"
}
