package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ClearActiveCmdMsg clears the active shortcut highlight in the footer.
type ClearActiveCmdMsg struct{}

// ShortcutEntry pairs a trigger key with the label shown in the footer.
type ShortcutEntry struct {
	Key   string // matched against activeCmd; empty never highlights
	Label string
}

// HighlightCmd returns a 500ms tick that clears the footer highlight.
// Set activeCmd on the model before returning it:
//
//	m.activeCmd = "tab"
//	return m, tui.HighlightCmd()
func HighlightCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return ClearActiveCmdMsg{}
	})
}

// RenderFooterBar renders shortcut labels on one line. The entry matching
// activeCmd is highlighted.
func RenderFooterBar(shortcuts []ShortcutEntry, activeCmd string) string {
	dim := lipgloss.NewStyle().Foreground(ColorGray)

	parts := make([]string, len(shortcuts))
	for i, sc := range shortcuts {
		if activeCmd != "" && sc.Key == activeCmd {
			parts[i] = StyleHighlight.Render("[ " + sc.Label + " ]")
		} else {
			parts[i] = dim.Render(sc.Label)
		}
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(parts, dim.Render(" · ")))
}
