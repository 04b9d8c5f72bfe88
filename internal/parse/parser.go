package parse

import (
	"strconv"
	"strings"
)

// Delimiter separates the tag and fields of a log line.
const Delimiter = ";"

// ParseLine parses one non-empty, trimmed log line into an Event.
func ParseLine(line string) (Event, error) {
	tokens := strings.Split(line, Delimiter)
	tag, fields := tokens[0], tokens[1:]

	kind, ok := ParseKind(tag)
	if !ok {
		return nil, &UnknownEventTypeError{Tag: tag}
	}

	switch kind {
	case KindClick:
		return parseClick(fields)
	case KindCursorPosition:
		return parseCursor(fields)
	case KindKeystroke:
		return parseKeystroke(fields)
	case KindFieldCompletion:
		return parseField(fields)
	case KindTaskCompletion:
		return parseTask(fields)
	}
	return nil, &UnknownEventTypeError{Tag: tag}
}

func parseClick(f []string) (Event, error) {
	if err := checkArity(KindClick, f, 3, 3); err != nil {
		return nil, err
	}
	ts, err := parseTimestamp(KindClick, f[0])
	if err != nil {
		return nil, err
	}
	correct, err := parseBool(KindClick, "correct", f[2])
	if err != nil {
		return nil, err
	}
	return Click{Timestamp: ts, Target: f[1], WasCorrect: correct}, nil
}

func parseCursor(f []string) (Event, error) {
	if err := checkArity(KindCursorPosition, f, 3, 3); err != nil {
		return nil, err
	}
	ts, err := parseTimestamp(KindCursorPosition, f[0])
	if err != nil {
		return nil, err
	}
	x, err := parseInt(KindCursorPosition, "x", f[1])
	if err != nil {
		return nil, err
	}
	y, err := parseInt(KindCursorPosition, "y", f[2])
	if err != nil {
		return nil, err
	}
	return CursorPosition{Timestamp: ts, X: x, Y: y}, nil
}

func parseKeystroke(f []string) (Event, error) {
	// a literal ';' key splits into two empty tokens
	if len(f) == 4 && f[1] == "" && f[2] == "" {
		f = []string{f[0], Delimiter, f[3]}
	}
	if err := checkArity(KindKeystroke, f, 3, 3); err != nil {
		return nil, err
	}
	ts, err := parseTimestamp(KindKeystroke, f[0])
	if err != nil {
		return nil, err
	}
	correct, err := parseBool(KindKeystroke, "correct", f[2])
	if err != nil {
		return nil, err
	}
	return Keystroke{Timestamp: ts, Key: f[1], WasCorrect: correct}, nil
}

func parseField(f []string) (Event, error) {
	if err := checkArity(KindFieldCompletion, f, 2, 2); err != nil {
		return nil, err
	}
	ts, err := parseTimestamp(KindFieldCompletion, f[0])
	if err != nil {
		return nil, err
	}
	idx, err := parseInt(KindFieldCompletion, "fieldIndex", f[1])
	if err != nil {
		return nil, err
	}
	return FieldCompletion{Timestamp: ts, FieldIndex: idx}, nil
}

// parseTask accepts the recorder's trailing task index but drops it;
// segments are counted from markers, not from logged indices.
func parseTask(f []string) (Event, error) {
	if err := checkArity(KindTaskCompletion, f, 1, 2); err != nil {
		return nil, err
	}
	ts, err := parseTimestamp(KindTaskCompletion, f[0])
	if err != nil {
		return nil, err
	}
	if len(f) == 2 {
		if _, err := parseInt(KindTaskCompletion, "taskIndex", f[1]); err != nil {
			return nil, err
		}
	}
	return TaskCompletion{Timestamp: ts}, nil
}

func checkArity(k Kind, f []string, min, max int) error {
	if len(f) >= min && len(f) <= max {
		return nil
	}
	want := strconv.Itoa(min)
	if max != min {
		want += "-" + strconv.Itoa(max)
	}
	return &MalformedFieldError{
		Tag:    k.String(),
		Reason: "expected " + want + " fields, got " + strconv.Itoa(len(f)),
	}
}

func parseTimestamp(k Kind, s string) (int64, error) {
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &MalformedFieldError{Tag: k.String(), Field: "timestamp", Value: s, Reason: "not an integer"}
	}
	if ts < 0 {
		return 0, &MalformedFieldError{Tag: k.String(), Field: "timestamp", Value: s, Reason: "negative"}
	}
	return ts, nil
}

func parseInt(k Kind, name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &MalformedFieldError{Tag: k.String(), Field: name, Value: s, Reason: "not an integer"}
	}
	return n, nil
}

// parseBool accepts exactly "true" or "false"; strconv.ParseBool is too lenient.
func parseBool(k Kind, name, s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, &MalformedFieldError{Tag: k.String(), Field: name, Value: s, Reason: `want "true" or "false"`}
}

// Format writes an event back in log-line form.
func Format(e Event) string {
	ts := strconv.FormatInt(e.Time(), 10)
	parts := []string{e.Kind().String(), ts}
	switch ev := e.(type) {
	case Click:
		parts = append(parts, ev.Target, strconv.FormatBool(ev.WasCorrect))
	case CursorPosition:
		parts = append(parts, strconv.Itoa(ev.X), strconv.Itoa(ev.Y))
	case Keystroke:
		parts = append(parts, ev.Key, strconv.FormatBool(ev.WasCorrect))
	case FieldCompletion:
		parts = append(parts, strconv.Itoa(ev.FieldIndex))
	case TaskCompletion:
	}
	return strings.Join(parts, Delimiter)
}
