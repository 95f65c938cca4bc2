// Package binding holds the chart series binding: a validated, read-only set of
// index-aligned series plus the routing of point selection to an injected handler.
package binding

import (
	"fmt"
	"math"
	"slices"

	"github.com/huangsam/motionreport/schema"
)

// SelectHandler receives the zero-based frame index of a selected point.
type SelectHandler func(index int)

// Interaction is the presentation side of a chart, kept apart from the series data.
type Interaction struct {
	SelectionEnabled bool
	OnPointSelected  SelectHandler
}

// Option tunes validation at construction.
type Option func(*options)

type options struct {
	flagSeries   []string
	validateFlag bool
}

// WithFlagSeries replaces the set of series restricted to 0/1 values.
func WithFlagSeries(names ...string) Option {
	return func(o *options) {
		o.flagSeries = slices.Clone(names)
	}
}

// WithoutFlagValidation accepts any value in flag series.
func WithoutFlagValidation() Option {
	return func(o *options) {
		o.validateFlag = false
	}
}

// Binding exposes a fixed set of aligned series to a renderer and forwards
// point selection to its handler. It is immutable after New returns.
type Binding struct {
	name        schema.GroupKey
	series      []schema.Series
	index       map[string]int
	length      int
	interaction Interaction
}

// New validates group and returns a binding that owns a private copy of its data.
func New(group schema.SeriesGroup, interaction Interaction, opts ...Option) (*Binding, error) {
	o := options{flagSeries: schema.DefaultFlagSeries, validateFlag: true}
	for _, opt := range opts {
		opt(&o)
	}

	if len(group.Series) == 0 {
		return nil, schema.NewValidationError(group.Name, "", "group has no series")
	}
	if interaction.SelectionEnabled && interaction.OnPointSelected == nil {
		return nil, schema.NewValidationError(group.Name, "", "selection is enabled but no handler was provided")
	}

	b := &Binding{
		name:        group.Name,
		series:      make([]schema.Series, 0, len(group.Series)),
		index:       make(map[string]int, len(group.Series)),
		length:      group.Series[0].Len(),
		interaction: interaction,
	}

	for _, s := range group.Series {
		if s.Name == "" {
			return nil, schema.NewValidationError(group.Name, "", "series name is empty")
		}
		if _, dup := b.index[s.Name]; dup {
			return nil, schema.NewValidationError(group.Name, s.Name, "duplicate series name")
		}
		if s.Len() != b.length {
			reason := fmt.Sprintf("length %d, expected %d (series %q)", s.Len(), b.length, group.Series[0].Name)
			return nil, schema.NewValidationError(group.Name, s.Name, reason)
		}
		flag := o.validateFlag && slices.Contains(o.flagSeries, s.Name)
		for i, v := range s.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, schema.NewValidationError(group.Name, s.Name, fmt.Sprintf("non-finite value at frame %d", i))
			}
			if flag && v != 0 && v != 1 {
				return nil, schema.NewValidationError(group.Name, s.Name, fmt.Sprintf("flag value %v at frame %d is not 0 or 1", v, i))
			}
		}
		b.index[s.Name] = len(b.series)
		b.series = append(b.series, s.Clone())
	}

	return b, nil
}

// Name returns the group key.
func (b *Binding) Name() schema.GroupKey {
	return b.name
}

// Len returns the number of frames shared by every series.
func (b *Binding) Len() int {
	return b.length
}

// SelectionEnabled reports whether the viewer may pick a frame.
func (b *Binding) SelectionEnabled() bool {
	return b.interaction.SelectionEnabled
}

// Series returns copies of all series in legend order.
func (b *Binding) Series() []schema.Series {
	out := make([]schema.Series, len(b.series))
	for i, s := range b.series {
		out[i] = s.Clone()
	}
	return out
}

// SeriesByName looks up a series by name and returns a copy of it.
func (b *Binding) SeriesByName(name string) (schema.Series, bool) {
	i, ok := b.index[name]
	if !ok {
		return schema.Series{}, false
	}
	return b.series[i].Clone(), true
}

// Group returns a copy of the bound data as a series group.
func (b *Binding) Group() schema.SeriesGroup {
	return schema.SeriesGroup{Name: b.name, Series: b.Series()}
}

// OnSelect forwards a selected frame to the handler, synchronously and exactly once.
// The handler is not called when index is out of range or selection is disabled.
func (b *Binding) OnSelect(index int) error {
	if !b.interaction.SelectionEnabled {
		return fmt.Errorf("group %q: %w", b.name, schema.ErrSelectionDisabled)
	}
	if index < 0 || index >= b.length {
		return &schema.IndexOutOfRangeError{Group: b.name, Index: index, Length: b.length}
	}
	b.interaction.OnPointSelected(index)
	return nil
}
