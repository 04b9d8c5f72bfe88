package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// linesPerItem is the number of terminal lines each list entry occupies.
const linesPerItem = 1

// renderList renders the left panel: the timeline entry and one entry per
// task, with scrolling.
func (m model) renderList(width, height int) string {
	if m.itemCount() == 1 && len(m.report.Ordered) == 0 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No events")
	}

	var lines []string
	for i := m.listOffset; i < m.itemCount(); i++ {
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, m.formatItem(i, width))
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatItem formats one list entry:
//
//	[>] Task 3   42 ev  homing 2
func (m model) formatItem(i, width int) string {
	var name, meta string
	if i == 0 {
		name = "Timeline"
		meta = fmt.Sprintf("%d ev  %d tasks", len(m.report.Ordered), len(m.report.Tasks))
	} else {
		t := m.report.Tasks[i-1]
		name = fmt.Sprintf("Task %d", t.Index+1)
		meta = fmt.Sprintf("%d ev  homing %d", t.Events, len(t.Homing))
	}

	nameMax := width - 2
	if nameMax < 0 {
		nameMax = 0
	}
	name = runewidth.FillRight(runewidth.Truncate(name, 10, ""), 10)
	line := name + " " + meta
	if runewidth.StringWidth(line) > nameMax {
		line = runewidth.Truncate(line, nameMax, "")
	}

	if i == m.cursor {
		return styleListSelected.Render("> " + line)
	}
	nameStyle := styleListNormal
	if i == 0 {
		nameStyle = styleListTimeline
	}
	return "  " + nameStyle.Render(name) + " " + styleListMeta.Render(strings.TrimPrefix(line, name+" "))
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
