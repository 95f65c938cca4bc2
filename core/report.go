package core

import (
	"fmt"
	"slices"

	"github.com/huangsam/motionreport/core/binding"
	"github.com/huangsam/motionreport/schema"
)

// ReportOption tunes how BuildReport validates series.
type ReportOption func(*reportOptions)

type reportOptions struct {
	flagSeries   []string
	validateFlag bool
}

// WithFlagSeries sets the series holding 0/1 frame flags.
func WithFlagSeries(names ...string) ReportOption {
	return func(o *reportOptions) {
		o.flagSeries = slices.Clone(names)
	}
}

// WithoutFlagValidation accepts any value in flag series.
func WithoutFlagValidation() ReportOption {
	return func(o *reportOptions) {
		o.validateFlag = false
	}
}

// Report is the set of chart bindings built from one motion input.
type Report struct {
	Subject    string
	FlagSeries []string
	bindings   []*binding.Binding
}

// BuildReport binds every standard group found in input, then collects the
// remaining series into an extra group. All charts share handler.
func BuildReport(input schema.MotionInput, handler binding.SelectHandler, enabled bool, opts ...ReportOption) (*Report, error) {
	o := reportOptions{flagSeries: schema.DefaultFlagSeries, validateFlag: true}
	for _, opt := range opts {
		opt(&o)
	}
	if len(input.Series) == 0 {
		return nil, schema.NewValidationError("", "", "input holds no series")
	}

	bindOpts := []binding.Option{binding.WithFlagSeries(o.flagSeries...)}
	if !o.validateFlag {
		bindOpts = append(bindOpts, binding.WithoutFlagValidation())
	}
	interaction := binding.Interaction{SelectionEnabled: enabled, OnPointSelected: handler}

	report := &Report{Subject: input.Subject, FlagSeries: slices.Clone(o.flagSeries)}
	claimed := make(map[string]bool, len(input.Series))

	for _, std := range schema.StandardGroups {
		group, present, err := standardGroup(input, std.Key, std.Series)
		if err != nil {
			return nil, err
		}
		if !present {
			continue
		}
		for _, name := range std.Series {
			claimed[name] = true
		}
		if err := report.bind(group, interaction, bindOpts); err != nil {
			return nil, err
		}
	}

	extra := schema.SeriesGroup{Name: schema.ExtraGroup}
	for _, name := range input.SeriesNames() {
		if !claimed[name] {
			extra.Series = append(extra.Series, schema.Series{Name: name, Values: input.Series[name]})
		}
	}
	if len(extra.Series) > 0 {
		if err := report.bind(extra, interaction, bindOpts); err != nil {
			return nil, err
		}
	}

	return report, nil
}

// standardGroup gathers the series of one standard group. A group is present when
// any of its series is; it is then an error for the others to be missing.
func standardGroup(input schema.MotionInput, key schema.GroupKey, names []string) (schema.SeriesGroup, bool, error) {
	group := schema.SeriesGroup{Name: key}
	var missing []string
	for _, name := range names {
		values, ok := input.Series[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		group.Series = append(group.Series, schema.Series{Name: name, Values: values})
	}
	if len(group.Series) == 0 {
		return group, false, nil
	}
	if len(missing) > 0 {
		return group, true, schema.NewValidationError(key, missing[0], "series is missing from the input")
	}
	return group, true, nil
}

func (r *Report) bind(group schema.SeriesGroup, interaction binding.Interaction, opts []binding.Option) error {
	b, err := binding.New(group, interaction, opts...)
	if err != nil {
		return fmt.Errorf("building %s chart: %w", group.Name, err)
	}
	r.bindings = append(r.bindings, b)
	return nil
}

// Bindings returns the charts in display order.
func (r *Report) Bindings() []*binding.Binding {
	return slices.Clone(r.bindings)
}

// Binding returns the chart of one group.
func (r *Report) Binding(key schema.GroupKey) (*binding.Binding, bool) {
	for _, b := range r.bindings {
		if b.Name() == key {
			return b, true
		}
	}
	return nil, false
}

// Frames returns the longest frame count across charts.
func (r *Report) Frames() int {
	frames := 0
	for _, b := range r.bindings {
		frames = max(frames, b.Len())
	}
	return frames
}

// Select routes a selected frame of one chart to the report's handler.
func (r *Report) Select(key schema.GroupKey, index int) error {
	b, ok := r.Binding(key)
	if !ok {
		return fmt.Errorf("%w: %q", schema.ErrUnknownGroup, key)
	}
	return b.OnSelect(index)
}

// Scrubbed reports whether any flag series marks frame index.
func (r *Report) Scrubbed(index int) bool {
	for _, b := range r.bindings {
		for _, name := range r.FlagSeries {
			s, ok := b.SeriesByName(name)
			if ok && index >= 0 && index < s.Len() && s.Values[index] == 1 {
				return true
			}
		}
	}
	return false
}

// ValuesAt returns the value of every series that has frame index.
func (r *Report) ValuesAt(index int) []schema.SeriesValue {
	var values []schema.SeriesValue
	for _, b := range r.bindings {
		if index < 0 || index >= b.Len() {
			continue
		}
		for _, s := range b.Series() {
			values = append(values, schema.SeriesValue{Group: b.Name(), Name: s.Name, Value: s.Values[index]})
		}
	}
	return values
}

// Output converts the report into the form the writers consume.
func (r *Report) Output(reportID int64) schema.ReportOutput {
	out := schema.ReportOutput{
		Subject:  r.Subject,
		ReportID: reportID,
		Frames:   r.Frames(),
		Flags:    slices.Clone(r.FlagSeries),
		Groups:   make([]schema.ChartGroup, 0, len(r.bindings)),
	}
	for _, b := range r.bindings {
		out.Groups = append(out.Groups, schema.ChartGroup{
			Key:              b.Name(),
			Var:              schema.ChartVar(b.Name()),
			SelectionEnabled: b.SelectionEnabled(),
			Series:           b.Series(),
		})
	}
	return out
}

// Input flattens the report back into a motion input, preserving chart order.
func (r *Report) Input() schema.MotionInput {
	input := schema.MotionInput{Subject: r.Subject, Series: make(map[string][]float64)}
	for _, b := range r.bindings {
		for _, s := range b.Series() {
			input.Series[s.Name] = s.Values
			input.Order = append(input.Order, s.Name)
		}
	}
	return input
}
