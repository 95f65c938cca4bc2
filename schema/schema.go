// Package schema has models, constants and errors for all parts of motionreport.
package schema

import "slices"

// Series is one named, ordered sequence of per-frame samples.
type Series struct {
	Name   string    `json:"name" yaml:"name"`
	Values []float64 `json:"values" yaml:"values"`
}

// Len returns the number of frames in the series.
func (s Series) Len() int {
	return len(s.Values)
}

// Clone returns a copy that shares no memory with s.
func (s Series) Clone() Series {
	return Series{Name: s.Name, Values: slices.Clone(s.Values)}
}

// SeriesGroup is a named collection of index-aligned series.
// The order of Series is the legend and layering order of the chart.
type SeriesGroup struct {
	Name   GroupKey `json:"name"`
	Series []Series `json:"series"`
}

// MotionInput is the payload handed over by the preprocessing pipeline:
// a subject label plus a flat name-to-values mapping of all motion series.
type MotionInput struct {
	Subject string               `json:"subject" yaml:"subject"`
	Order   []string             `json:"-" yaml:"-"` // first-seen order of series names, when the source has one
	Series  map[string][]float64 `json:"series" yaml:"series"`
}

// SeriesNames returns the series names in source order when known, falling back
// to sorted order for sources without one (JSON and YAML maps).
func (in MotionInput) SeriesNames() []string {
	if len(in.Order) == len(in.Series) {
		return slices.Clone(in.Order)
	}
	names := make([]string, 0, len(in.Series))
	for name := range in.Series {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
