package index

import "github.com/Zuo-Peng/studylog/internal/parse"

// eventRow is the flat column layout of the events table. Columns a kind
// does not use stay at their zero value.
type eventRow struct {
	Kind       string
	Ts         int64
	Label      string
	X, Y       int
	Correct    bool
	FieldIndex int
	Line       int
}

func toRow(e parse.Event) eventRow {
	r := eventRow{Kind: e.Kind().String(), Ts: e.Time(), Line: e.SourceLine()}
	switch ev := e.(type) {
	case parse.Click:
		r.Label, r.Correct = ev.Target, ev.WasCorrect
	case parse.CursorPosition:
		r.X, r.Y = ev.X, ev.Y
	case parse.Keystroke:
		r.Label, r.Correct = ev.Key, ev.WasCorrect
	case parse.FieldCompletion:
		r.FieldIndex = ev.FieldIndex
	case parse.TaskCompletion:
	}
	return r
}

func (r eventRow) event() (parse.Event, error) {
	kind, ok := parse.ParseKind(r.Kind)
	if !ok {
		return nil, &parse.UnknownEventTypeError{Tag: r.Kind}
	}
	switch kind {
	case parse.KindClick:
		return parse.Click{Timestamp: r.Ts, Target: r.Label, WasCorrect: r.Correct, Line: r.Line}, nil
	case parse.KindCursorPosition:
		return parse.CursorPosition{Timestamp: r.Ts, X: r.X, Y: r.Y, Line: r.Line}, nil
	case parse.KindKeystroke:
		return parse.Keystroke{Timestamp: r.Ts, Key: r.Label, WasCorrect: r.Correct, Line: r.Line}, nil
	case parse.KindFieldCompletion:
		return parse.FieldCompletion{Timestamp: r.Ts, FieldIndex: r.FieldIndex, Line: r.Line}, nil
	case parse.KindTaskCompletion:
		return parse.TaskCompletion{Timestamp: r.Ts, Line: r.Line}, nil
	}
	return nil, &parse.UnknownEventTypeError{Tag: r.Kind}
}
