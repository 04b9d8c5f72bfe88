package metrics

import (
	"unicode"
	"unicode/utf8"

	"github.com/Zuo-Peng/studylog/internal/parse"
)

// FieldRate is the typing speed for one completed field.
type FieldRate struct {
	FieldIndex  int
	CompletedAt int64
	ReferenceAt int64
	Reference   parse.Kind // FieldCompletion, TaskCompletion or Keystroke
	Elapsed     int64
	Chars       int
	WPM         float64
}

type rateState struct {
	ref      parse.Event // latest field or task boundary
	firstKey *parse.Keystroke
	chars    int
}

func (s rateState) reset(ref parse.Event) rateState {
	return rateState{ref: ref}
}

func (s rateState) step(e parse.Event, opts Options) (rateState, *FieldRate, error) {
	switch ev := e.(type) {
	case parse.Keystroke:
		if s.firstKey == nil {
			s.firstKey = &ev
		}
		if isTextKey(ev.Key) {
			s.chars++
		}
		return s, nil, nil
	case parse.TaskCompletion:
		return s.reset(ev), nil, nil
	case parse.FieldCompletion:
		ref, chars := s.ref, s.chars
		if ref == nil && s.firstKey != nil {
			// timing starts when the first key lands, so that key's
			// character took no measured time
			ref = *s.firstKey
			if isTextKey(s.firstKey.Key) {
				chars--
			}
		}
		if ref == nil {
			// nothing to time the field against: no rate
			return s.reset(ev), nil, nil
		}
		if ref.Time() > ev.Timestamp {
			// only reachable with an unordered sequence or a seed that
			// lies after the completion
			return s, nil, &PrecedingEventMissingError{Need: "reference at or before completion", At: ev}
		}
		elapsed := ev.Timestamp - ref.Time()
		r := &FieldRate{
			FieldIndex:  ev.FieldIndex,
			CompletedAt: ev.Timestamp,
			ReferenceAt: ref.Time(),
			Reference:   ref.Kind(),
			Elapsed:     elapsed,
			Chars:       chars,
			WPM:         opts.wpm(chars, elapsed),
		}
		return s.reset(ev), r, nil
	}
	return s, nil, nil
}

// isTextKey reports whether a key name stands for one typed character.
// Named keys like "Backspace" or "Shift" do not count.
func isTextKey(key string) bool {
	if utf8.RuneCountInString(key) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(key)
	return unicode.IsPrint(r)
}

// FieldRates derives one rate per FieldCompletion in seq. See FieldRatesFrom.
func FieldRates(seq []parse.Event, opts Options) ([]FieldRate, error) {
	return FieldRatesFrom(nil, seq, opts)
}

// FieldRatesFrom is FieldRates with an initial reference boundary, used
// when seq is a task segment whose opening marker was cut off. Elapsed
// time runs from the latest field or task boundary, or from the first
// keystroke when there is none. Characters are the single-character
// keystrokes typed after the reference; a word is CharsPerWord characters.
// A field with no possible reference gets no rate. The only error is a
// reference that lies after its completion, which ordered input rules out.
func FieldRatesFrom(start parse.Event, seq []parse.Event, opts Options) ([]FieldRate, error) {
	rates := make([]FieldRate, 0)
	st := rateState{ref: start}
	for _, e := range seq {
		var (
			r   *FieldRate
			err error
		)
		st, r, err = st.step(e, opts)
		if err != nil {
			return nil, err
		}
		if r != nil {
			rates = append(rates, *r)
		}
	}
	return rates, nil
}
