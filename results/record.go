// Package results holds per-run records and turns them into CSV files,
// per-agent summaries and SQLite rows.
package results

import (
	"encoding/csv"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/teranos/gridsense/errors"
	"github.com/teranos/gridsense/nav"
)

// Record is one agent's run on one maze.
type Record struct {
	BatchID          string  `json:"batch_id"`
	RunID            string  `json:"run_id"`
	Agent            string  `json:"agent"`
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	Probability      float64 `json:"probability"`
	Solved           bool    `json:"solved"`
	RuntimeSeconds   float64 `json:"runtime_seconds"`
	TrajectoryLength float64 `json:"trajectory_length"` // NaN when unsolved
	CellsExpanded    int     `json:"cells_expanded"`
	Bumps            int     `json:"bumps"`
	Plans            int     `json:"plans"`
	CellsDetermined  int     `json:"cells_determined"`
}

// FromStats fills the measured fields of a record from a run.
func FromStats(agent string, width, height int, probability float64, s nav.Stats) Record {
	return Record{
		Agent:            agent,
		Width:            width,
		Height:           height,
		Probability:      probability,
		Solved:           s.Solved,
		RuntimeSeconds:   s.Runtime.Seconds(),
		TrajectoryLength: s.TrajectoryLength,
		CellsExpanded:    s.CellsExpanded,
		Bumps:            s.Bumps,
		Plans:            s.Plans,
		CellsDetermined:  s.CellsDetermined,
	}
}

// CSVHeader is the column layout written by WriteCSV.
var CSVHeader = []string{
	"Probability",
	"Solvable",
	"Runtime",
	"Path Length",
	"Number of Cells Processed",
	"Number of Bumps",
	"Number of Planning Steps",
	"Number of Cells Determined",
}

// WriteCSV writes records under CSVHeader. Unsolved path lengths print as NaN.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return errors.Wrap(err, "failed to write csv header")
	}
	for i, r := range records {
		row := []string{
			formatFloat(r.Probability),
			strconv.FormatBool(r.Solved),
			formatFloat(r.RuntimeSeconds),
			formatFloat(r.TrajectoryLength),
			strconv.Itoa(r.CellsExpanded),
			strconv.Itoa(r.Bumps),
			strconv.Itoa(r.Plans),
			strconv.Itoa(r.CellsDetermined),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "failed to write csv row %d", i)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush csv")
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Summary aggregates one agent at one density. Averages cover solved runs
// only; SolveRate covers all of them.
type Summary struct {
	Agent               string  `json:"agent"`
	Probability         float64 `json:"probability"`
	Runs                int     `json:"runs"`
	Solved              int     `json:"solved"`
	SolveRate           float64 `json:"solve_rate"`
	AvgTrajectoryLength float64 `json:"avg_trajectory_length"`
	AvgCellsExpanded    float64 `json:"avg_cells_expanded"`
	AvgBumps            float64 `json:"avg_bumps"`
	AvgPlans            float64 `json:"avg_plans"`
	AvgCellsDetermined  float64 `json:"avg_cells_determined"`
	AvgRuntimeSeconds   float64 `json:"avg_runtime_seconds"`
}

// Summarize groups records by (agent, probability), sorted by agent then
// probability. Groups with no solved run report NaN averages.
func Summarize(records []Record) []Summary {
	type key struct {
		agent string
		prob  float64
	}
	groups := make(map[key]*Summary)
	var order []key

	for _, r := range records {
		k := key{r.Agent, r.Probability}
		s, ok := groups[k]
		if !ok {
			s = &Summary{Agent: r.Agent, Probability: r.Probability}
			groups[k] = s
			order = append(order, k)
		}
		s.Runs++
		if !r.Solved {
			continue
		}
		s.Solved++
		s.AvgTrajectoryLength += r.TrajectoryLength
		s.AvgCellsExpanded += float64(r.CellsExpanded)
		s.AvgBumps += float64(r.Bumps)
		s.AvgPlans += float64(r.Plans)
		s.AvgCellsDetermined += float64(r.CellsDetermined)
		s.AvgRuntimeSeconds += r.RuntimeSeconds
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].agent != order[j].agent {
			return order[i].agent < order[j].agent
		}
		return order[i].prob < order[j].prob
	})

	out := make([]Summary, 0, len(order))
	for _, k := range order {
		s := groups[k]
		s.SolveRate = float64(s.Solved) / float64(s.Runs)
		n := float64(s.Solved)
		if s.Solved == 0 {
			n = math.NaN()
		}
		s.AvgTrajectoryLength /= n
		s.AvgCellsExpanded /= n
		s.AvgBumps /= n
		s.AvgPlans /= n
		s.AvgCellsDetermined /= n
		s.AvgRuntimeSeconds /= n
		out = append(out, *s)
	}
	return out
}
