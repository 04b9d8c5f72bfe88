// Package timeline orders parsed events into one chronological sequence
// and splits that sequence into per-task segments.
package timeline

import (
	"cmp"
	"slices"

	"github.com/Zuo-Peng/studylog/internal/parse"
)

// Merge returns a copy of events sorted by ascending timestamp. Events with
// equal timestamps keep their parse order, whatever their kind.
func Merge(events []parse.Event) []parse.Event {
	out := slices.Clone(events)
	slices.SortStableFunc(out, func(a, b parse.Event) int {
		return cmp.Compare(a.Time(), b.Time())
	})
	return out
}
