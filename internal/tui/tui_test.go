package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/studylog/internal/metrics"
	"github.com/Zuo-Peng/studylog/internal/parse"
)

func testReport(t *testing.T) *metrics.Report {
	t.Helper()
	engine, err := metrics.NewEngine(metrics.DefaultOptions(), nil)
	require.NoError(t, err)
	r, err := engine.Analyze([]parse.Event{
		parse.Keystroke{Timestamp: 0, Key: "a", WasCorrect: true},
		parse.TaskCompletion{Timestamp: 100},
		parse.Click{Timestamp: 150, Target: "OK", WasCorrect: true},
		parse.TaskCompletion{Timestamp: 200},
	})
	require.NoError(t, err)
	return r
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

func TestWindowSizeLoadsTimeline(t *testing.T) {
	m := initialModel(testReport(t), "p01")
	assert.Equal(t, 3, m.itemCount())
	assert.Empty(t, m.View())

	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	require.NotNil(t, cmd)
	msg, ok := cmd().(previewRenderedMsg)
	require.True(t, ok)
	assert.Equal(t, 0, msg.item)
	assert.Contains(t, msg.content, "=== p01 ===")

	m, _ = update(t, m, msg)
	assert.Equal(t, 0, m.shownItem)
	assert.Contains(t, m.View(), "Timeline")
	assert.Contains(t, m.View(), "2 tasks")
}

func TestNavigationAndStalePreview(t *testing.T) {
	m := initialModel(testReport(t), "p01")
	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	first := cmd().(previewRenderedMsg)

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor)
	require.NotNil(t, cmd)
	second := cmd().(previewRenderedMsg)
	assert.Equal(t, 1, second.item)
	assert.Contains(t, second.content, "Task 1")

	// the timeline render arrives late and is ignored
	m, _ = update(t, m, first)
	assert.Equal(t, -1, m.shownItem)

	m, _ = update(t, m, second)
	assert.Equal(t, 1, m.shownItem)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, m.cursor, "cursor stops at the last task")
	assert.Nil(t, cmd)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, m.cursor)
}

func TestToggleEvents(t *testing.T) {
	m := initialModel(testReport(t), "p01")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.showEvents)
	require.NotNil(t, cmd)
	msg := cmd().(previewRenderedMsg)
	assert.True(t, msg.events)
}

func TestQuit(t *testing.T) {
	m := initialModel(testReport(t), "p01")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHitTest(t *testing.T) {
	m := initialModel(testReport(t), "p01")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	region, idx := m.hitTest(3, 3)
	assert.Equal(t, regionList, region)
	assert.Equal(t, 1, idx)

	region, _ = m.hitTest(m.listWidth()+10, 5)
	assert.Equal(t, regionPreview, region)

	region, _ = m.hitTest(3, 0)
	assert.Equal(t, regionNone, region)
}

func TestMouseClickSelects(t *testing.T) {
	m := initialModel(testReport(t), "p01")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, cmd := update(t, m, tea.MouseMsg{X: 3, Y: 4, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Equal(t, 2, m.cursor)
	assert.NotNil(t, cmd)
}
