package metrics

import "fmt"

const (
	DefaultCharsPerWord   = 5.0
	DefaultUnitsPerMinute = 60000.0 // timestamps are milliseconds
)

type Options struct {
	CharsPerWord   float64
	UnitsPerMinute float64
}

func DefaultOptions() Options {
	return Options{
		CharsPerWord:   DefaultCharsPerWord,
		UnitsPerMinute: DefaultUnitsPerMinute,
	}
}

func (o Options) Validate() error {
	if o.CharsPerWord <= 0 {
		return fmt.Errorf("chars per word must be positive, got %v", o.CharsPerWord)
	}
	if o.UnitsPerMinute <= 0 {
		return fmt.Errorf("units per minute must be positive, got %v", o.UnitsPerMinute)
	}
	return nil
}

func (o Options) wpm(chars int, elapsed int64) float64 {
	if elapsed <= 0 {
		return 0
	}
	words := float64(chars) / o.CharsPerWord
	minutes := float64(elapsed) / o.UnitsPerMinute
	return words / minutes
}
