package parse

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const maxLineSize = 1024 * 1024 // 1MB

// ParseReader parses every non-blank line of r in order. It stops at the
// first bad line and returns a *LineError wrapping the cause.
func ParseReader(r io.Reader) ([]Event, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var events []Event
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		evt, err := ParseLine(line)
		if err != nil {
			return nil, &LineError{Line: lineNum, Err: err}
		}
		events = append(events, withLine(evt, lineNum))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// ParseFile reads and parses a whole study log.
func ParseFile(filePath string) (*ParseResult, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	events, err := ParseReader(f)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		Meta: SessionMeta{
			SessionKey: SessionKey("", filePath),
			FilePath:   filePath,
			Mtime:      info.ModTime(),
			Size:       info.Size(),
		},
		Events: events,
	}
	result.Meta.Counts, result.Meta.FirstTS, result.Meta.LastTS = Tally(events)
	return result, nil
}

// SessionKey derives the stable key of a log: its path relative to root
// without extension, so equally named logs in different directories stay
// apart. A log outside root, or any log when root is empty, is keyed by
// its file name alone.
func SessionKey(root, filePath string) string {
	name := filepath.Base(filePath)
	if rel, ok := relativeTo(root, filePath); ok {
		name = rel
	}
	return filepath.ToSlash(strings.TrimSuffix(name, filepath.Ext(name)))
}

func relativeTo(root, filePath string) (string, bool) {
	if root == "" {
		return "", false
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// Tally counts events per kind and returns the smallest and largest
// timestamps seen.
func Tally(events []Event) (counts map[Kind]int, first, last int64) {
	counts = make(map[Kind]int, len(Kinds))
	for i, e := range events {
		counts[e.Kind()]++
		ts := e.Time()
		if i == 0 || ts < first {
			first = ts
		}
		if i == 0 || ts > last {
			last = ts
		}
	}
	return counts, first, last
}

func withLine(e Event, line int) Event {
	switch ev := e.(type) {
	case Click:
		ev.Line = line
		return ev
	case CursorPosition:
		ev.Line = line
		return ev
	case Keystroke:
		ev.Line = line
		return ev
	case FieldCompletion:
		ev.Line = line
		return ev
	case TaskCompletion:
		ev.Line = line
		return ev
	}
	return e
}
