package parse

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineValidRows(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Event
	}{
		{
			name: "click correct",
			line: "Click;1200;TextField;true",
			want: Click{Timestamp: 1200, Target: "TextField", WasCorrect: true},
		},
		{
			name: "click missed",
			line: "Click;1300;Background;false",
			want: Click{Timestamp: 1300, Target: "Background", WasCorrect: false},
		},
		{
			name: "cursor",
			line: "CursorPosition;15;640;-12",
			want: CursorPosition{Timestamp: 15, X: 640, Y: -12},
		},
		{
			name: "keystroke",
			line: "Keystroke;0;a;false",
			want: Keystroke{Timestamp: 0, Key: "a", WasCorrect: false},
		},
		{
			name: "keystroke named key",
			line: "Keystroke;77;Backspace;true",
			want: Keystroke{Timestamp: 77, Key: "Backspace", WasCorrect: true},
		},
		{
			name: "keystroke semicolon key",
			line: "Keystroke;78;;;true",
			want: Keystroke{Timestamp: 78, Key: ";", WasCorrect: true},
		},
		{
			name: "field completion",
			line: "FieldCompletion;900;3",
			want: FieldCompletion{Timestamp: 900, FieldIndex: 3},
		},
		{
			name: "task completion",
			line: "TaskCompletion;1000",
			want: TaskCompletion{Timestamp: 1000},
		},
		{
			name: "task completion with recorder index",
			line: "TaskCompletion;1000;1",
			want: TaskCompletion{Timestamp: 1000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Kind(), got.Kind())
		})
	}
}

func TestParseLineFormatRoundTrip(t *testing.T) {
	events := []Event{
		Click{Timestamp: 5, Target: "Button", WasCorrect: true},
		CursorPosition{Timestamp: 6, X: 1, Y: 2},
		Keystroke{Timestamp: 7, Key: ";", WasCorrect: false},
		FieldCompletion{Timestamp: 8, FieldIndex: 0},
		TaskCompletion{Timestamp: 9},
	}
	for _, e := range events {
		got, err := ParseLine(Format(e))
		require.NoError(t, err, Format(e))
		assert.Equal(t, e, got)
	}
}

func TestParseLineErrors(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		unknown   bool
		wantField string
	}{
		{name: "non-integer timestamp", line: "Click;abc;target1;true", wantField: "timestamp"},
		{name: "unknown tag", line: "Foo;1;2;3", unknown: true},
		{name: "device changed is not a study event", line: "DeviceChanged;1;Leap", unknown: true},
		{name: "tag is case sensitive", line: "click;1;a;true", unknown: true},
		{name: "bool outside true/false", line: "Keystroke;1;a;TRUE", wantField: "correct"},
		{name: "bool as digit", line: "Click;1;a;1", wantField: "correct"},
		{name: "negative timestamp", line: "TaskCompletion;-4", wantField: "timestamp"},
		{name: "cursor x not int", line: "CursorPosition;1;1.5;2", wantField: "x"},
		{name: "cursor y not int", line: "CursorPosition;1;1;", wantField: "y"},
		{name: "field index not int", line: "FieldCompletion;1;first", wantField: "fieldIndex"},
		{name: "task index not int", line: "TaskCompletion;1;x", wantField: "taskIndex"},
		{name: "too few fields", line: "Click;1;a"},
		{name: "too many fields", line: "FieldCompletion;1;2;3"},
		{name: "tag only", line: "TaskCompletion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine(tt.line)
			require.Error(t, err)

			if tt.unknown {
				var ue *UnknownEventTypeError
				require.True(t, errors.As(err, &ue), "got %T", err)
				return
			}
			var me *MalformedFieldError
			require.True(t, errors.As(err, &me), "got %T", err)
			assert.Equal(t, tt.wantField, me.Field)
		})
	}
}

func TestParseReaderSkipsBlankLines(t *testing.T) {
	input := "\n  Click;1;a;true  \n\n\t\nTaskCompletion;2\n"
	events, err := ParseReader(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 2, events[0].SourceLine())
	assert.Equal(t, 5, events[1].SourceLine())
}

func TestParseReaderFailsFast(t *testing.T) {
	input := "Click;1;a;true\nClick;x;a;true\nFoo;3\n"
	events, err := ParseReader(strings.NewReader(input))
	require.Error(t, err)
	assert.Nil(t, events)

	var le *LineError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 2, le.Line)

	var me *MalformedFieldError
	assert.True(t, errors.As(err, &me))
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p07.log")
	content := strings.Join([]string{
		"CursorPosition;20;1;1",
		"Click;10;TextField;true",
		"Keystroke;30;h;true",
		"FieldCompletion;40;0",
		"TaskCompletion;50;0",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	res, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "p07", res.Meta.SessionKey)
	assert.Len(t, res.Events, 5)
	assert.Equal(t, int64(10), res.Meta.FirstTS)
	assert.Equal(t, int64(50), res.Meta.LastTS)
	assert.Equal(t, 1, res.Meta.Counts[KindCursorPosition])
	assert.Equal(t, 1, res.Meta.Counts[KindTaskCompletion])
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.log"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestKindString(t *testing.T) {
	for _, k := range Kinds {
		got, ok := ParseKind(k.String())
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("Unknown")
	assert.False(t, ok)
}

func TestSessionKey(t *testing.T) {
	root := t.TempDir()
	tests := []struct {
		name string
		root string
		path string
		want string
	}{
		{"no root", "", filepath.Join(root, "day1", "p01.log"), "p01"},
		{"under root", root, filepath.Join(root, "day1", "p01.log"), "day1/p01"},
		{"top of root", root, filepath.Join(root, "p02.log"), "p02"},
		{"outside root", filepath.Join(root, "day1"), filepath.Join(root, "day2", "p03.log"), "p03"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SessionKey(tt.root, tt.path))
		})
	}
}
