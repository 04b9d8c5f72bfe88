// Package metrics derives interaction metrics from a chronological event
// sequence: homing times, per-field typing rates and per-task input flags.
package metrics

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Zuo-Peng/studylog/internal/parse"
	"github.com/Zuo-Peng/studylog/internal/timeline"
)

type Engine struct {
	opts   Options
	logger *zap.Logger
}

func NewEngine(opts Options, logger *zap.Logger) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{opts: opts, logger: logger}, nil
}

// TaskReport holds the metrics of one task segment.
type TaskReport struct {
	Index    int
	Duration int64
	Events   int
	Homing   []HomingSample
	Rates    []FieldRate
	Inputs   TaskInput
}

// Report is the result of one analysis run.
type Report struct {
	Ordered      []parse.Event
	Segmentation timeline.Segmentation
	Homing       []HomingSample // whole timeline
	Rates        []FieldRate    // whole timeline
	Tasks        []TaskReport
}

// Trailing is the number of events after the last task marker.
func (r *Report) Trailing() int {
	return len(r.Segmentation.Trailing)
}

// Analyze merges events, segments the timeline and computes every metric
// both over the whole timeline and per task.
func (e *Engine) Analyze(events []parse.Event) (*Report, error) {
	ordered := timeline.Merge(events)
	seg := timeline.Split(ordered)

	rates, err := FieldRates(ordered, e.opts)
	if err != nil {
		return nil, fmt.Errorf("field rates: %w", err)
	}

	report := &Report{
		Ordered:      ordered,
		Segmentation: seg,
		Homing:       HomingSamples(ordered),
		Rates:        rates,
		Tasks:        make([]TaskReport, 0, len(seg.Segments)),
	}

	inputs := TaskInputs(seg)
	for i, s := range seg.Segments {
		tr, err := e.task(s)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", s.Index, err)
		}
		tr.Inputs = inputs[i]
		report.Tasks = append(report.Tasks, tr)
	}

	e.logger.Debug("analysis complete",
		zap.Int("events", len(ordered)),
		zap.Int("tasks", len(seg.Segments)),
		zap.Int("trailing", len(seg.Trailing)),
		zap.Int("homing_samples", len(report.Homing)),
		zap.Int("field_rates", len(report.Rates)),
	)
	return report, nil
}

func (e *Engine) task(s timeline.Segment) (TaskReport, error) {
	var start parse.Event
	if s.Start != nil {
		start = *s.Start
	}
	rates, err := FieldRatesFrom(start, s.Events, e.opts)
	if err != nil {
		return TaskReport{}, err
	}
	return TaskReport{
		Index:    s.Index,
		Duration: s.Duration(),
		Events:   len(s.Events),
		Homing:   HomingSamples(s.Events),
		Rates:    rates,
	}, nil
}
