package schema

// SeriesSummary holds descriptive statistics for one series.
type SeriesSummary struct {
	Group  GroupKey `json:"group"`
	Name   string   `json:"name"`
	Frames int      `json:"frames"`
	Mean   float64  `json:"mean"`
	Median float64  `json:"median"`
	StdDev float64  `json:"std_dev"`
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
}

// ReportSummary is the per-report digest shown by the summary command.
type ReportSummary struct {
	Subject        string          `json:"subject"`
	Frames         int             `json:"frames"`
	ScrubbedFrames int             `json:"scrubbed_frames"`
	ScrubbedRatio  float64         `json:"scrubbed_ratio"` // 0-1
	Series         []SeriesSummary `json:"series"`
}
