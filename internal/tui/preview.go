package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/studylog/internal/metrics"
	"github.com/Zuo-Peng/studylog/internal/render"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	item    int
	events  bool
	content string
}

// loadPreviewCmd renders the selected item: 0 is the whole timeline,
// i > 0 is task i-1.
func loadPreviewCmd(r *metrics.Report, title string, item int, events bool, width int) tea.Cmd {
	return func() tea.Msg {
		opts := render.Options{Title: title, Color: true, Width: width, Events: events}
		var content string
		if item == 0 {
			content = render.Report(r, opts)
		} else {
			content = render.Task(r, item-1, opts)
		}
		return previewRenderedMsg{item: item, events: events, content: content}
	}
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
