package tui

import (
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// renderFunc renders one list row.
type renderFunc func(w io.Writer, m list.Model, index int, item list.Item)

// rowDelegate is a list.ItemDelegate with single-line rows and a custom
// render function.
type rowDelegate struct {
	spacing int
	render  renderFunc
}

func newRowDelegate(render renderFunc, spacing int) rowDelegate {
	return rowDelegate{spacing: spacing, render: render}
}

func (d rowDelegate) Height() int  { return 1 }
func (d rowDelegate) Spacing() int { return d.spacing }

func (d rowDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	if d.render != nil {
		d.render(w, m, index, item)
	}
}
