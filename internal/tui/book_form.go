package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/libcat/internal/catalog"
)

// BookFormDefaults prefills the form. A zero Book gives an empty add form.
type BookFormDefaults struct {
	Heading string
	Book    catalog.Book
}

type formField struct {
	key         string
	label       string
	placeholder string
	limit       int
	width       int
}

var bookFormFields = []formField{
	{catalog.FieldTitle, "Title", "Dune, Emma", 400, 42},
	{catalog.FieldAuthor, "Author", "Frank Herbert, Jane Austen", 300, 42},
	{catalog.FieldGenre, "Genre", "fiction", 60, 24},
	{catalog.FieldPriceUSD, "Price", "9.99", 12, 10},
	{catalog.FieldAverageRating, "Rating", "4.25", 6, 8},
	{catalog.FieldRatingsCount, "Ratings", "1200", 12, 10},
	{catalog.FieldPublicationYear, "Year", "1965", 4, 8},
}

// formValues renders b's fields as the text the form starts with.
func formValues(b catalog.Book) map[string]string {
	f := func(v *float64) string {
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	}
	i := func(v *int) string {
		if v == nil {
			return ""
		}
		return strconv.Itoa(*v)
	}
	return map[string]string{
		catalog.FieldTitle:           b.Title,
		catalog.FieldAuthor:          b.Author,
		catalog.FieldGenre:           b.Genre,
		catalog.FieldPriceUSD:        f(b.PriceUSD),
		catalog.FieldAverageRating:   f(b.AverageRating),
		catalog.FieldRatingsCount:    i(b.RatingsCount),
		catalog.FieldPublicationYear: i(b.PublicationYear),
	}
}

// BookFormChanges returns the fields whose text differs from b, ready for
// an update. Cleared optional fields map to nil.
func BookFormChanges(b catalog.Book, values map[string]string) map[string]any {
	before := formValues(b)
	changes := map[string]any{}
	for k, v := range values {
		if v == before[k] {
			continue
		}
		if v == "" && k != catalog.FieldTitle && k != catalog.FieldAuthor && k != catalog.FieldGenre {
			changes[k] = nil
			continue
		}
		changes[k] = v
	}
	return changes
}

// BookFormExtras returns the non-empty fields other than title and author,
// for applying to newly added books.
func BookFormExtras(values map[string]string) map[string]any {
	extra := map[string]any{}
	for k, v := range values {
		if k == catalog.FieldTitle || k == catalog.FieldAuthor || v == "" {
			continue
		}
		extra[k] = v
	}
	return extra
}

type bookFormModel struct {
	inputs     []textinput.Model
	focused    int
	defaults   BookFormDefaults
	result     map[string]string
	err        error
	canceled   bool
	confirming bool
	activeCmd  string
}

func newBookForm(defaults BookFormDefaults) bookFormModel {
	start := formValues(defaults.Book)
	m := bookFormModel{
		inputs:   make([]textinput.Model, len(bookFormFields)),
		defaults: defaults,
	}
	for i, f := range bookFormFields {
		in := textinput.New()
		in.Placeholder = f.placeholder
		in.SetValue(start[f.key])
		in.CharLimit = f.limit
		in.Width = f.width
		in.Prompt = "│ "
		m.inputs[i] = in
	}
	m.inputs[0].Focus()
	return m
}

func (m bookFormModel) values() map[string]string {
	out := make(map[string]string, len(m.inputs))
	for i, f := range bookFormFields {
		out[f.key] = strings.TrimSpace(m.inputs[i].Value())
	}
	return out
}

func (m bookFormModel) submit() (tea.Model, tea.Cmd) {
	vals := m.values()
	if vals[catalog.FieldTitle] == "" {
		m.err = errors.New("title is required")
		m.confirming = false
		return m, nil
	}
	m.result = vals
	return m, tea.Quit
}

func (m bookFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m bookFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ClearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			return m, tea.Quit

		case "enter":
			if m.confirming {
				return m.submit()
			}
			m.err = nil
			m.confirming = true
			return m, nil

		case "y", "Y":
			if m.confirming {
				return m.submit()
			}

		case "n", "N":
			if m.confirming {
				m.confirming = false
				return m, nil
			}

		case "tab", "shift+tab", "up", "down":
			if m.confirming {
				return m, nil
			}
			if msg.String() == "up" || msg.String() == "shift+tab" {
				m.focused--
			} else {
				m.focused++
			}
			m.focused = (m.focused + len(m.inputs)) % len(m.inputs)

			cmds := make([]tea.Cmd, 0, len(m.inputs)+1)
			for i := range m.inputs {
				if i == m.focused {
					cmds = append(cmds, m.inputs[i].Focus())
				} else {
					m.inputs[i].Blur()
				}
			}
			m.activeCmd = "tab"
			cmds = append(cmds, HighlightCmd())
			return m, tea.Batch(cmds...)
		}
	}

	if m.confirming {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m bookFormModel) View() string {
	sepStyle := lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#444444"})
	label := lipgloss.NewStyle().
		Foreground(ColorGray).
		Width(10).
		Align(lipgloss.Right).
		PaddingRight(1)
	labelActive := label.
		Foreground(ColorYellow).
		Bold(true)

	sep := sepStyle.Render(strings.Repeat("─", 54))

	var b strings.Builder
	heading := m.defaults.Heading
	if heading == "" {
		heading = "Book"
	}
	b.WriteString(StyleHeader.Render(heading))
	b.WriteString("\n")
	if id := m.defaults.Book.ID; id != "" {
		b.WriteString(StyleHelp.Render(id))
		b.WriteString("\n")
	}
	b.WriteString("\n" + sep + "\n\n")

	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		b.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	for i, f := range bookFormFields {
		if i == m.focused && !m.confirming {
			b.WriteString(labelActive.Render("› " + f.label))
		} else {
			b.WriteString(label.Render(f.label))
		}
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n" + sep + "\n")
	if m.confirming {
		b.WriteString(StyleHighlight.Render("  Save? "))
		b.WriteString(StyleHelp.Render("Y/n"))
	} else {
		b.WriteString(RenderFooterBar([]ShortcutEntry{
			{Key: "tab", Label: "tab/↑↓ navigate"},
			{Key: "", Label: "enter save"},
			{Key: "", Label: "esc cancel"},
		}, m.activeCmd))
	}
	b.WriteString("\n")

	inner := lipgloss.NewStyle().Padding(0, 2, 0, 1)
	return lipgloss.NewStyle().Padding(2, 4).Render(StyleBorder.Render(inner.Render(b.String())))
}

// RunBookForm shows the book form and returns the entered text per field
// name. It returns ErrCanceled if the user leaves without saving.
func RunBookForm(defaults BookFormDefaults) (map[string]string, error) {
	p := tea.NewProgram(newBookForm(defaults), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running form: %w", err)
	}

	fm, ok := finalModel.(bookFormModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	if fm.canceled || fm.result == nil {
		return nil, ErrCanceled
	}
	return fm.result, nil
}
