// Package chart renders the headline history as an HTML bar chart.
package chart

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/pfrederiksen/dp-headlines/internal/headline"
)

// DefaultTitle is used when RenderHeadlineCounts is given an empty title
const DefaultTitle = "Featured Headlines per Day"

// HeadlineCounts returns the dates in ascending order and the number of headlines on each
func HeadlineCounts(snapshots []*headline.Snapshot) ([]string, []int) {
	sorted := make([]*headline.Snapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	dates := make([]string, 0, len(sorted))
	counts := make([]int, 0, len(sorted))
	for _, snap := range sorted {
		dates = append(dates, snap.Date)
		counts = append(counts, len(snap.Headlines))
	}
	return dates, counts
}

// RenderHeadlineCounts writes a standalone HTML page charting headlines per date
func RenderHeadlineCounts(w io.Writer, snapshots []*headline.Snapshot, title string) error {
	if title == "" {
		title = DefaultTitle
	}

	dates, counts := HeadlineCounts(snapshots)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d days recorded", len(dates)),
		}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	items := make([]opts.BarData, 0, len(counts))
	for _, n := range counts {
		items = append(items, opts.BarData{Value: n})
	}
	bar.SetXAxis(dates).AddSeries("Headlines", items)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}
