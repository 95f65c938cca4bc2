package schema

// ChartGroup is a bound series group as handed to the output writers.
type ChartGroup struct {
	Key              GroupKey `json:"name"`
	Var              string   `json:"var"`
	SelectionEnabled bool     `json:"selection_enabled"`
	Series           []Series `json:"series"`
}

// Len returns the frame count of the group.
func (g ChartGroup) Len() int {
	if len(g.Series) == 0 {
		return 0
	}
	return g.Series[0].Len()
}

// ReportOutput is everything a writer needs to render one report.
type ReportOutput struct {
	Subject  string       `json:"subject"`
	ReportID int64        `json:"report_id,omitempty"`
	Frames   int          `json:"frames"`
	Groups   []ChartGroup `json:"groups"`
	Flags    []string     `json:"flag_series"`
}

// SeriesValue is the value of one series at the selected frame.
type SeriesValue struct {
	Group GroupKey `json:"group"`
	Name  string   `json:"name"`
	Value float64  `json:"value"`
}

// SelectionResult is the state of every chart after a time point was selected.
type SelectionResult struct {
	Subject  string        `json:"subject"`
	Group    GroupKey      `json:"group"`
	Index    int           `json:"index"`
	Scrubbed bool          `json:"scrubbed"`
	Values   []SeriesValue `json:"values"`
}
