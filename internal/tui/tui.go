package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/studylog/internal/metrics"
	"github.com/Zuo-Peng/studylog/internal/render"
)

type model struct {
	report     *metrics.Report
	title      string
	cursor     int // 0 = timeline, i = task i-1
	listOffset int
	showEvents bool
	preview    viewport.Model
	shownItem  int
	shownEv    bool
	status     string
	width      int
	height     int
	ready      bool
	quitting   bool
}

func initialModel(r *metrics.Report, title string) model {
	return model{
		report:    r,
		title:     title,
		preview:   viewport.New(0, 0),
		shownItem: -1,
	}
}

// Run starts the browser and blocks until it exits.
func Run(r *metrics.Report, title string) error {
	p := tea.NewProgram(initialModel(r, title), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// Init has nothing to load; the first preview is rendered on the first
// window size message.
func (m model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = newViewport(m.previewWidth(), m.panelHeight())
		m.shownItem = -1
		return m, m.loadCurrentPreview()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				return m, m.loadCurrentPreview()
			}

		case key.Matches(msg, keys.Down):
			if m.cursor < m.itemCount()-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				return m, m.loadCurrentPreview()
			}

		case key.Matches(msg, keys.Events):
			m.showEvents = !m.showEvents
			return m, m.loadCurrentPreview()

		case key.Matches(msg, keys.Copy):
			m.status = m.copyCurrent()
			return m, nil

		case key.Matches(msg, keys.PreviewUp):
			m.preview.LineUp(m.panelHeight() / 2)

		case key.Matches(msg, keys.PreviewDn):
			m.preview.LineDown(m.panelHeight() / 2)

		case key.Matches(msg, keys.PageUp):
			m.preview.LineUp(m.panelHeight())

		case key.Matches(msg, keys.PageDown):
			m.preview.LineDown(m.panelHeight())
		}
		return m, nil

	case tea.MouseMsg:
		if !m.ready {
			return m, nil
		}
		region, itemIdx := m.hitTest(msg.X, msg.Y)

		switch {
		case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if itemIdx >= 0 && itemIdx < m.itemCount() && m.cursor != itemIdx {
				m.cursor = itemIdx
				m.adjustListScroll(m.panelHeight())
				return m, m.loadCurrentPreview()
			}

		case region == regionPreview && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
			var vpCmd tea.Cmd
			m.preview, vpCmd = m.preview.Update(msg)
			return m, vpCmd
		}
		return m, nil

	case previewRenderedMsg:
		// drop stale renders
		if msg.item != m.cursor || msg.events != m.showEvents {
			return m, nil
		}
		m.preview.SetContent(msg.content)
		m.preview.GotoTop()
		m.shownItem, m.shownEv = msg.item, msg.events
		return m, nil
	}

	return m, nil
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	header := styleHeader.Render(m.title)

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)
	return lipgloss.JoinVertical(lipgloss.Left, header, panels, m.statusBar())
}

// helper methods

func (m model) itemCount() int {
	return len(m.report.Tasks) + 1
}

func (m model) listWidth() int {
	if m.width <= 0 {
		return 30
	}
	// 30% for list, minus border padding
	w := m.width*30/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 70
	}
	w := m.width*70/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract header (1) + status bar (1) + borders (4)
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	pH := m.panelHeight()
	contentYStart := 2 // header (1) + top border (1)
	contentYEnd := contentYStart + pH - 1

	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	listBoxRight := lw + 1 // col 0=border, 1..lw=content, lw+1=border

	if x >= 1 && x <= lw {
		return regionList, m.listOffset + (relY / linesPerItem)
	}
	if x > listBoxRight+1 {
		return regionPreview, -1
	}
	return regionNone, -1
}

func (m model) statusBar() string {
	parts := []string{
		fmt.Sprintf("%d tasks", len(m.report.Tasks)),
		"up/dn navigate",
		"enter events",
		"C-u/C-d preview",
		"y copy",
		"esc quit",
	}
	bar := styleStatusBar.Render(strings.Join(parts, " | "))
	if m.status != "" {
		bar = styleStatusMsg.Render(m.status) + bar
	}
	return bar
}

func (m model) loadCurrentPreview() tea.Cmd {
	if m.cursor == m.shownItem && m.showEvents == m.shownEv {
		return nil // already showing this preview
	}
	return loadPreviewCmd(m.report, m.title, m.cursor, m.showEvents, m.previewWidth())
}

// copyCurrent copies the plain-text metrics of the selected item.
func (m model) copyCurrent() string {
	opts := render.Options{Title: m.title}
	var text string
	if m.cursor == 0 {
		text = render.Report(m.report, opts)
	} else {
		text = render.Task(m.report, m.cursor-1, opts)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return "copy failed: " + err.Error()
	}
	return "copied"
}
