package core

import (
	"github.com/huangsam/motionreport/schema"
	"github.com/montanaflynn/stats"
)

// Summarize computes descriptive statistics for every series of the report and
// counts the frames marked by its flag series.
func Summarize(report *Report) schema.ReportSummary {
	summary := schema.ReportSummary{
		Subject: report.Subject,
		Frames:  report.Frames(),
	}

	for _, b := range report.Bindings() {
		for _, s := range b.Series() {
			summary.Series = append(summary.Series, summarizeSeries(b.Name(), s))
		}
	}

	for i := range summary.Frames {
		if report.Scrubbed(i) {
			summary.ScrubbedFrames++
		}
	}
	if summary.Frames > 0 {
		summary.ScrubbedRatio = float64(summary.ScrubbedFrames) / float64(summary.Frames)
	}
	return summary
}

// summarizeSeries leaves the statistics at zero for a series without frames.
func summarizeSeries(group schema.GroupKey, s schema.Series) schema.SeriesSummary {
	out := schema.SeriesSummary{Group: group, Name: s.Name, Frames: s.Len()}
	if s.Len() == 0 {
		return out
	}
	data := stats.Float64Data(s.Values)
	out.Mean, _ = stats.Mean(data)
	out.Median, _ = stats.Median(data)
	out.StdDev, _ = stats.StandardDeviation(data)
	out.Min, _ = stats.Min(data)
	out.Max, _ = stats.Max(data)
	return out
}
