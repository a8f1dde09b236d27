package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Hub action keys. They match the CLI subcommand names.
const (
	ActionList     = "list"
	ActionFind     = "find"
	ActionAdd      = "add"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionCheckout = "checkout"
	ActionCheckin  = "checkin"
	ActionHistory  = "history"
	ActionStats    = "stats"
	ActionChart    = "chart"
	ActionQuit     = "quit"
)

// MenuItem represents an action in the hub menu
type MenuItem struct {
	Key         string
	Label       string
	Description string
}

// FilterValue implements list.Item
func (m MenuItem) FilterValue() string {
	return m.Label + " " + m.Description
}

// HubContext holds catalog counts shown in the hub and used to hide actions
// that cannot apply.
type HubContext struct {
	BookCount      int
	CheckedOut     int
	HistoryEnabled bool
}

// menuItems defines the menu in logical order
var menuItems = []MenuItem{
	{Key: ActionList, Label: "List Books", Description: "Show every book in the catalog"},
	{Key: ActionFind, Label: "Find Book", Description: "Search titles"},
	{Key: ActionAdd, Label: "Add Books", Description: "Add one or more books"},
	{Key: ActionUpdate, Label: "Update Book", Description: "Change fields of a book"},
	{Key: ActionDelete, Label: "Delete Book", Description: "Remove a book from the catalog"},
	{Key: ActionCheckout, Label: "Check Out", Description: "Lend an available book"},
	{Key: ActionCheckin, Label: "Check In", Description: "Return a checked-out book"},
	{Key: ActionHistory, Label: "Checkout History", Description: "Show checkout records"},
	{Key: ActionStats, Label: "Statistics", Description: "Prices, ratings and genre breakdowns"},
	{Key: ActionChart, Label: "Charts", Description: "Bar charts of the collection"},
	{Key: ActionQuit, Label: "Quit", Description: "Exit libcat"},
}

// HubItems returns the menu entries that apply to ctx.
func HubItems(ctx HubContext) []MenuItem {
	var items []MenuItem
	for _, item := range menuItems {
		switch item.Key {
		case ActionList, ActionFind, ActionUpdate, ActionDelete, ActionStats, ActionChart:
			if ctx.BookCount == 0 {
				continue
			}
		case ActionCheckout:
			if ctx.BookCount-ctx.CheckedOut <= 0 {
				continue
			}
		case ActionCheckin:
			if ctx.CheckedOut == 0 {
				continue
			}
		case ActionHistory:
			if !ctx.HistoryEnabled {
				continue
			}
		}
		items = append(items, item)
	}
	return items
}

// renderMenuItem renders a menu item in the hub
func renderMenuItem(w io.Writer, m list.Model, index int, item list.Item) {
	menuItem, ok := item.(MenuItem)
	if !ok {
		return
	}

	display := fmt.Sprintf("%-20s %s", menuItem.Label, StyleHelp.Render(menuItem.Description))

	if index == m.Index() {
		_, _ = fmt.Fprint(w, StyleHighlight.Render("› "+display))
	} else {
		_, _ = fmt.Fprint(w, "  "+StyleNormal.Render(display))
	}
}

type hubModel struct {
	list     list.Model
	keys     PickerKeys
	quitting bool
	action   string
	context  HubContext
}

func newHubModel(ctx HubContext) hubModel {
	entries := HubItems(ctx)
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = e
	}

	l := list.New(items, newRowDelegate(renderMenuItem, 1), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.HelpStyle = StyleHelp

	keys := NewPickerKeys()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Select}
	}
	return hubModel{list: l, keys: keys, context: ctx}
}

func (m hubModel) Init() tea.Cmd {
	return nil
}

func (m hubModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't handle keys when filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.action = ActionQuit
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if item, ok := m.list.SelectedItem().(MenuItem); ok {
				m.action = item.Key
				m.quitting = true
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		// outer padding, inner padding, border, header lines
		const outerPaddingH = 4 * 2
		const outerPaddingV = 2 * 2
		const innerPaddingH = 1 + 2
		const headerLines = 4
		h, v := StyleBorder.GetFrameSize()

		listWidth := max(msg.Width-outerPaddingH-innerPaddingH-h, 40)
		listHeight := max(msg.Height-outerPaddingV-v-headerLines, 5)
		m.list.SetSize(listWidth, listHeight)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m hubModel) View() string {
	if m.quitting {
		return ""
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")).
		Padding(0, 1).
		Render("libcat - Personal Library Catalog")

	parts := []string{header}
	if m.context.BookCount > 0 {
		status := lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Render(fmt.Sprintf("  %d books · %d checked out", m.context.BookCount, m.context.CheckedOut))
		parts = append(parts, status)
	}
	parts = append(parts, m.list.View())

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	inner := lipgloss.NewStyle().Padding(0, 2, 0, 1)
	return lipgloss.NewStyle().Padding(2, 4).Render(StyleBorder.Render(inner.Render(content)))
}

// RunHub launches the interactive hub menu and returns the chosen action key.
func RunHub(ctx HubContext) (string, error) {
	p := tea.NewProgram(newHubModel(ctx), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("running hub: %w", err)
	}

	fm, ok := finalModel.(hubModel)
	if !ok {
		return "", fmt.Errorf("unexpected model type")
	}
	if fm.action == "" {
		return ActionQuit, nil
	}
	return fm.action, nil
}
