package metrics

import (
	"github.com/Zuo-Peng/studylog/internal/parse"
	"github.com/Zuo-Peng/studylog/internal/timeline"
)

// Outcome is one correctness-flagged input: a click or a keystroke.
type Outcome struct {
	Timestamp int64
	Kind      parse.Kind
	Label     string // click target or key
	Correct   bool
}

// TaskInput groups the clicks and keystrokes of one task in order.
type TaskInput struct {
	Task       int
	Clicks     []Outcome
	Keystrokes []Outcome
}

// Outcomes returns the click and keystroke outcomes of seq in order.
func Outcomes(seq []parse.Event) (clicks, keys []Outcome) {
	clicks, keys = make([]Outcome, 0), make([]Outcome, 0)
	for _, e := range seq {
		switch ev := e.(type) {
		case parse.Click:
			clicks = append(clicks, Outcome{Timestamp: ev.Timestamp, Kind: parse.KindClick, Label: ev.Target, Correct: ev.WasCorrect})
		case parse.Keystroke:
			keys = append(keys, Outcome{Timestamp: ev.Timestamp, Kind: parse.KindKeystroke, Label: ev.Key, Correct: ev.WasCorrect})
		}
	}
	return clicks, keys
}

// TaskInputs exposes each segment's correctness flags. It does not score them.
func TaskInputs(seg timeline.Segmentation) []TaskInput {
	out := make([]TaskInput, 0, len(seg.Segments))
	for _, s := range seg.Segments {
		clicks, keys := Outcomes(s.Events)
		out = append(out, TaskInput{Task: s.Index, Clicks: clicks, Keystrokes: keys})
	}
	return out
}
