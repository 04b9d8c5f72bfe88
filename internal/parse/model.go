package parse

import "time"

// Kind is the tag of an Event. The set of kinds is closed.
type Kind int

const (
	KindClick Kind = iota
	KindCursorPosition
	KindKeystroke
	KindFieldCompletion
	KindTaskCompletion
)

// Kinds lists every event kind in wire-table order.
var Kinds = []Kind{
	KindClick,
	KindCursorPosition,
	KindKeystroke,
	KindFieldCompletion,
	KindTaskCompletion,
}

// String returns the tag as written in the log.
func (k Kind) String() string {
	switch k {
	case KindClick:
		return "Click"
	case KindCursorPosition:
		return "CursorPosition"
	case KindKeystroke:
		return "Keystroke"
	case KindFieldCompletion:
		return "FieldCompletion"
	case KindTaskCompletion:
		return "TaskCompletion"
	default:
		return "Unknown"
	}
}

// ParseKind maps a log tag to its Kind.
func ParseKind(tag string) (Kind, bool) {
	for _, k := range Kinds {
		if k.String() == tag {
			return k, true
		}
	}
	return 0, false
}

// Event is one parsed log record. It is implemented only by the five
// event structs in this package.
type Event interface {
	Kind() Kind
	Time() int64
	// SourceLine is the 1-based line the event was parsed from, 0 if unknown.
	SourceLine() int
	sealed()
}

type Click struct {
	Timestamp  int64
	Target     string
	WasCorrect bool
	Line       int
}

type CursorPosition struct {
	Timestamp int64
	X         int
	Y         int
	Line      int
}

type Keystroke struct {
	Timestamp  int64
	Key        string
	WasCorrect bool
	Line       int
}

type FieldCompletion struct {
	Timestamp  int64
	FieldIndex int
	Line       int
}

// TaskCompletion marks a task boundary. It carries no payload.
type TaskCompletion struct {
	Timestamp int64
	Line      int
}

func (Click) Kind() Kind           { return KindClick }
func (CursorPosition) Kind() Kind  { return KindCursorPosition }
func (Keystroke) Kind() Kind       { return KindKeystroke }
func (FieldCompletion) Kind() Kind { return KindFieldCompletion }
func (TaskCompletion) Kind() Kind  { return KindTaskCompletion }

func (e Click) Time() int64           { return e.Timestamp }
func (e CursorPosition) Time() int64  { return e.Timestamp }
func (e Keystroke) Time() int64       { return e.Timestamp }
func (e FieldCompletion) Time() int64 { return e.Timestamp }
func (e TaskCompletion) Time() int64  { return e.Timestamp }

func (e Click) SourceLine() int           { return e.Line }
func (e CursorPosition) SourceLine() int  { return e.Line }
func (e Keystroke) SourceLine() int       { return e.Line }
func (e FieldCompletion) SourceLine() int { return e.Line }
func (e TaskCompletion) SourceLine() int  { return e.Line }

func (Click) sealed()           {}
func (CursorPosition) sealed()  {}
func (Keystroke) sealed()       {}
func (FieldCompletion) sealed() {}
func (TaskCompletion) sealed()  {}

// SessionMeta describes one log file.
type SessionMeta struct {
	SessionKey string
	FilePath   string
	Mtime      time.Time
	Size       int64
	FirstTS    int64
	LastTS     int64
	Counts     map[Kind]int
}

type ParseResult struct {
	Meta   SessionMeta
	Events []Event // file order
}
