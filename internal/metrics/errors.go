package metrics

import (
	"fmt"

	"github.com/Zuo-Peng/studylog/internal/parse"
)

// PrecedingEventMissingError is returned when a metric needs a reference
// event that cannot exist in the given sequence.
type PrecedingEventMissingError struct {
	Need string
	At   parse.Event
}

func (e *PrecedingEventMissingError) Error() string {
	if e.At == nil {
		return fmt.Sprintf("no preceding %s", e.Need)
	}
	return fmt.Sprintf("no preceding %s for %s@%d", e.Need, e.At.Kind(), e.At.Time())
}
