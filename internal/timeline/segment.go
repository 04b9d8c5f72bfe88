package timeline

import "github.com/Zuo-Peng/studylog/internal/parse"

// Segment holds the events of one task: everything strictly after the
// previous TaskCompletion (or the stream start) and before its own marker.
type Segment struct {
	Index  int
	Start  *parse.TaskCompletion // previous marker, nil for the first task
	End    parse.TaskCompletion
	Events []parse.Event // never contains a TaskCompletion
}

// Duration is the time from the segment's start reference to its marker.
// The first segment starts at its first event, or has zero length if empty.
func (s Segment) Duration() int64 {
	switch {
	case s.Start != nil:
		return s.End.Timestamp - s.Start.Timestamp
	case len(s.Events) > 0:
		return s.End.Timestamp - s.Events[0].Time()
	default:
		return 0
	}
}

// Segmentation is the result of splitting a chronological sequence.
type Segmentation struct {
	Segments []Segment
	// Trailing holds events after the last marker. They belong to no task:
	// anything logged once the final task is done is post-study data.
	// With no markers at all, the whole stream lands here.
	Trailing []parse.Event
}

// Split cuts an ordered sequence at each TaskCompletion. It yields one
// segment per marker, in order; a session without markers yields none.
func Split(ordered []parse.Event) Segmentation {
	var (
		result  Segmentation
		current []parse.Event
		prev    *parse.TaskCompletion
	)

	for _, e := range ordered {
		marker, ok := e.(parse.TaskCompletion)
		if !ok {
			current = append(current, e)
			continue
		}
		result.Segments = append(result.Segments, Segment{
			Index:  len(result.Segments),
			Start:  prev,
			End:    marker,
			Events: current,
		})
		m := marker
		prev = &m
		current = nil
	}

	result.Trailing = current
	return result
}
