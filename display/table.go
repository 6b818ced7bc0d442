package display

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/teranos/gridsense/nav"
	"github.com/teranos/gridsense/results"
)

// SummaryTable renders per-agent, per-density averages.
func SummaryTable(summaries []results.Summary) (string, error) {
	data := pterm.TableData{{"Agent", "Density", "Runs", "Solved", "Path", "Processed", "Bumps", "Plans", "Determined", "Runtime"}}
	for _, s := range summaries {
		data = append(data, []string{
			s.Agent,
			formatNumber(s.Probability) + "%",
			strconv.Itoa(s.Runs),
			fmt.Sprintf("%.0f%%", s.SolveRate*100),
			formatAverage(s.AvgTrajectoryLength),
			formatAverage(s.AvgCellsExpanded),
			formatAverage(s.AvgBumps),
			formatAverage(s.AvgPlans),
			formatAverage(s.AvgCellsDetermined),
			formatSeconds(s.AvgRuntimeSeconds),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// StatsTable renders one run as a two-column table.
func StatsTable(agent string, s nav.Stats) (string, error) {
	data := pterm.TableData{
		{"Agent", agent},
		{"Solved", strconv.FormatBool(s.Solved)},
		{"Path length", formatAverage(s.TrajectoryLength)},
		{"Cells processed", strconv.Itoa(s.CellsExpanded)},
		{"Bumps", strconv.Itoa(s.Bumps)},
		{"Plans", strconv.Itoa(s.Plans)},
		{"Cells determined", strconv.Itoa(s.CellsDetermined)},
		{"Runtime", s.Runtime.Round(time.Microsecond).String()},
	}
	return pterm.DefaultTable.WithData(data).Srender()
}

// BatchTable lists stored batches, newest first as given.
func BatchTable(batches []results.BatchInfo) (string, error) {
	data := pterm.TableData{{"Batch", "Created", "Grid", "Agents", "Runs"}}
	for _, b := range batches {
		data = append(data, []string{
			b.ID,
			b.CreatedAt.Format(time.RFC3339),
			fmt.Sprintf("%dx%d", b.Width, b.Height),
			strconv.Itoa(b.Agents),
			strconv.Itoa(b.Runs),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatAverage(f float64) string {
	if math.IsNaN(f) {
		return "-"
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func formatSeconds(f float64) string {
	if math.IsNaN(f) {
		return "-"
	}
	return time.Duration(f * float64(time.Second)).Round(time.Microsecond).String()
}
