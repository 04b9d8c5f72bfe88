package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/studylog/internal/metrics"
	"github.com/Zuo-Peng/studylog/internal/parse"
)

type Options struct {
	Title  string // shown in the header, usually the session key
	Color  bool
	Width  int // wrap width (0 = no wrap)
	Events bool // list every event of each task
}

type styles struct {
	header  lipgloss.Style
	section lipgloss.Style
	label   lipgloss.Style
	dim     lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		return styles{}
	}
	return styles{
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		section: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		good:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		bad:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

const labelWidth = 16

type writer struct {
	b  strings.Builder
	st styles
	w  int
}

func (w *writer) line(s string) {
	for _, wl := range wrapLine(s, w.w) {
		w.b.WriteString(wl)
		w.b.WriteString("\n")
	}
}

func (w *writer) field(label, value string) {
	l := runewidth.FillRight(runewidth.Truncate(label, labelWidth, ""), labelWidth)
	w.line("  " + w.st.label.Render(l) + " " + value)
}

// Report renders an analysis report: timeline-wide metrics first, then one
// block per task.
func Report(r *metrics.Report, opts Options) string {
	w := &writer{st: newStyles(opts.Color), w: opts.Width}

	title := opts.Title
	if title == "" {
		title = "session"
	}
	w.line(w.st.header.Render(fmt.Sprintf("=== %s ===", title)))
	w.field("events", fmt.Sprintf("%d", len(r.Ordered)))
	w.field("tasks", fmt.Sprintf("%d", len(r.Tasks)))
	if n := r.Trailing(); n > 0 {
		w.field("after last task", w.st.dim.Render(fmt.Sprintf("%d events (not in any task)", n)))
	}
	w.line("")

	w.line(w.st.section.Render("Timeline"))
	writeMetrics(w, r.Homing, r.Rates)

	for _, t := range r.Tasks {
		w.line("")
		writeTask(w, t, opts.Events, r)
	}
	return w.b.String()
}

// Task renders a single task block.
func Task(r *metrics.Report, index int, opts Options) string {
	w := &writer{st: newStyles(opts.Color), w: opts.Width}
	if index < 0 || index >= len(r.Tasks) {
		w.line(w.st.dim.Render("(no such task)"))
		return w.b.String()
	}
	writeTask(w, r.Tasks[index], opts.Events, r)
	return w.b.String()
}

// Segments renders the event listing of every task.
func Segments(r *metrics.Report, opts Options) string {
	w := &writer{st: newStyles(opts.Color), w: opts.Width}
	if len(r.Segmentation.Segments) == 0 {
		w.line(w.st.dim.Render("(no task markers; nothing to segment)"))
	}
	for _, s := range r.Segmentation.Segments {
		w.line(w.st.section.Render(fmt.Sprintf("Task %d", s.Index+1)) +
			w.st.dim.Render(fmt.Sprintf("  %d events, ends @%d", len(s.Events), s.End.Timestamp)))
		for _, e := range s.Events {
			w.line("  " + eventLine(w.st, e))
		}
	}
	if len(r.Segmentation.Trailing) > 0 {
		w.line(w.st.section.Render("After last task"))
		for _, e := range r.Segmentation.Trailing {
			w.line("  " + w.st.dim.Render(eventLine(styles{}, e)))
		}
	}
	return w.b.String()
}

func writeTask(w *writer, t metrics.TaskReport, withEvents bool, r *metrics.Report) {
	w.line(w.st.section.Render(fmt.Sprintf("Task %d", t.Index+1)))
	w.field("duration", fmt.Sprintf("%d", t.Duration))
	w.field("events", fmt.Sprintf("%d", t.Events))
	w.field("clicks", outcomeCounts(w.st, t.Inputs.Clicks))
	w.field("keystrokes", outcomeCounts(w.st, t.Inputs.Keystrokes))
	writeMetrics(w, t.Homing, t.Rates)

	if withEvents && t.Index < len(r.Segmentation.Segments) {
		for _, e := range r.Segmentation.Segments[t.Index].Events {
			w.line("    " + eventLine(w.st, e))
		}
	}
}

func writeMetrics(w *writer, homing []metrics.HomingSample, rates []metrics.FieldRate) {
	times := metrics.Times(homing)
	w.field("homing", series(times))
	if len(times) > 0 {
		w.field("", w.st.dim.Render(summary(metrics.Summarize(times))))
	}

	if len(rates) == 0 {
		w.field("wpm", w.st.dim.Render("-"))
		return
	}
	for _, fr := range rates {
		w.field(fmt.Sprintf("wpm field %d", fr.FieldIndex),
			fmt.Sprintf("%.1f", fr.WPM)+
				w.st.dim.Render(fmt.Sprintf("  (%d chars in %d since %s@%d)", fr.Chars, fr.Elapsed, fr.Reference, fr.ReferenceAt)))
	}
	w.field("", w.st.dim.Render(summary(metrics.Summarize(metrics.WPMs(rates)))))
}

func series(xs []int64) string {
	if len(xs) == 0 {
		return "[]"
	}
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprintf("%d", x)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func summary(s metrics.Summary) string {
	return fmt.Sprintf("n=%d min=%.1f median=%.1f mean=%.1f max=%.1f", s.Count, s.Min, s.Median, s.Mean, s.Max)
}

func outcomeCounts(st styles, outs []metrics.Outcome) string {
	ok := 0
	for _, o := range outs {
		if o.Correct {
			ok++
		}
	}
	return fmt.Sprintf("%d ", len(outs)) +
		st.good.Render(fmt.Sprintf("%d ok", ok)) + " " +
		st.bad.Render(fmt.Sprintf("%d wrong", len(outs)-ok))
}

func eventLine(st styles, e parse.Event) string {
	ts := st.dim.Render(fmt.Sprintf("%8d", e.Time()))
	kind := runewidth.FillRight(e.Kind().String(), 16)
	var detail string
	switch ev := e.(type) {
	case parse.Click:
		detail = ev.Target + " " + mark(st, ev.WasCorrect)
	case parse.CursorPosition:
		detail = fmt.Sprintf("(%d,%d)", ev.X, ev.Y)
	case parse.Keystroke:
		detail = fmt.Sprintf("%q ", ev.Key) + mark(st, ev.WasCorrect)
	case parse.FieldCompletion:
		detail = fmt.Sprintf("field %d", ev.FieldIndex)
	case parse.TaskCompletion:
	}
	return ts + " " + kind + detail
}

func mark(st styles, ok bool) string {
	if ok {
		return st.good.Render("ok")
	}
	return st.bad.Render("wrong")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}
