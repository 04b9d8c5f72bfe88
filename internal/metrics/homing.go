package metrics

import "github.com/Zuo-Peng/studylog/internal/parse"

// HomingSample is one recorded homing time: the delay between the latest
// field completion and a diagonal cursor movement.
type HomingSample struct {
	FieldIndex int
	FieldAt    int64
	CursorAt   int64
	Dx, Dy     int
	Time       int64
}

// homingState is threaded through the fold by value; step never mutates
// its receiver.
type homingState struct {
	lastField  *parse.FieldCompletion
	lastCursor *parse.CursorPosition
}

func (s homingState) step(e parse.Event) (homingState, HomingSample, bool) {
	switch ev := e.(type) {
	case parse.FieldCompletion:
		s.lastField = &ev
		return s, HomingSample{}, false
	case parse.CursorPosition:
		prev := s.lastCursor
		s.lastCursor = &ev
		// the first sample has nothing to move from
		if prev == nil || s.lastField == nil {
			return s, HomingSample{}, false
		}
		dx, dy := ev.X-prev.X, ev.Y-prev.Y
		if dx == 0 || dy == 0 {
			return s, HomingSample{}, false
		}
		return s, HomingSample{
			FieldIndex: s.lastField.FieldIndex,
			FieldAt:    s.lastField.Timestamp,
			CursorAt:   ev.Timestamp,
			Dx:         dx,
			Dy:         dy,
			Time:       ev.Timestamp - s.lastField.Timestamp,
		}, true
	}
	return s, HomingSample{}, false
}

// HomingSamples scans an ordered sequence and records a sample for every
// cursor movement that is non-zero on both axes and follows a field
// completion. The field reference stays in effect until a newer one
// replaces it.
func HomingSamples(seq []parse.Event) []HomingSample {
	samples := make([]HomingSample, 0)
	var st homingState
	for _, e := range seq {
		var (
			s  HomingSample
			ok bool
		)
		st, s, ok = st.step(e)
		if ok {
			samples = append(samples, s)
		}
	}
	return samples
}

// HomingTimes is the plain series of HomingSamples times.
func HomingTimes(seq []parse.Event) []int64 {
	return Times(HomingSamples(seq))
}

// Times projects samples onto their homing times.
func Times(samples []HomingSample) []int64 {
	out := make([]int64, len(samples))
	for i, s := range samples {
		out[i] = s.Time
	}
	return out
}
