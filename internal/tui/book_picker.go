package tui

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

// ErrCanceled is returned when the user leaves a picker without choosing.
var ErrCanceled = errors.New("canceled by user")

const pickerTitleWidth = 40

// renderBookPickerItem renders a book item in picker mode
func renderBookPickerItem(w io.Writer, m list.Model, index int, item list.Item) {
	bookItem, ok := item.(BookItem)
	if !ok {
		return
	}

	b := bookItem.Book
	title := fmt.Sprintf("%-*s", pickerTitleWidth, xansi.Truncate(b.Title, pickerTitleWidth, "…"))
	author := StyleHelp.Render(xansi.Truncate(b.Author, 24, "…"))
	status := StatusLabel(b)

	if index == m.Index() {
		_, _ = fmt.Fprint(w, StyleHighlight.Render("› "+title)+" "+author+" "+status)
	} else {
		_, _ = fmt.Fprint(w, "  "+StyleNormal.Render(title)+" "+author+" "+status)
	}
}

type bookPickerModel struct {
	list     list.Model
	keys     PickerKeys
	selected *BookItem
	quitting bool
}

func newBookPicker(books []BookItem, title string) bookPickerModel {
	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = b
	}

	l := list.New(items, newRowDelegate(renderBookPickerItem, 0), 0, 0)
	if title == "" {
		title = "Select a book"
	}
	l.Title = title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = StyleHeader
	l.Styles.PaginationStyle = StyleHelp
	l.Styles.HelpStyle = StyleHelp

	keys := NewPickerKeys()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Select}
	}
	return bookPickerModel{list: l, keys: keys}
}

func (m bookPickerModel) Init() tea.Cmd {
	return nil
}

func (m bookPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Select):
			if item, ok := m.list.SelectedItem().(BookItem); ok {
				m.selected = &item
				m.quitting = true
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		h, v := StyleBorder.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m bookPickerModel) View() string {
	if m.quitting {
		return ""
	}
	return StyleBorder.Render(m.list.View())
}

// RunBookPicker launches an interactive book picker.
// Returns the selected BookItem, or ErrCanceled.
func RunBookPicker(books []BookItem, title string) (BookItem, error) {
	if len(books) == 0 {
		return BookItem{}, fmt.Errorf("no books to display")
	}

	p := tea.NewProgram(newBookPicker(books, title), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return BookItem{}, fmt.Errorf("running TUI: %w", err)
	}

	if fm, ok := finalModel.(bookPickerModel); ok && fm.selected != nil {
		return *fm.selected, nil
	}
	return BookItem{}, ErrCanceled
}
