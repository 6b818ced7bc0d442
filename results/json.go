package results

import (
	"encoding/json"
	"math"
)

// nullable maps NaN to a JSON null.
func nullable(f float64) *float64 {
	if math.IsNaN(f) {
		return nil
	}
	return &f
}

// MarshalJSON writes an unsolved run's trajectory length as null.
func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	return json.Marshal(struct {
		plain
		TrajectoryLength *float64 `json:"trajectory_length"`
	}{plain(r), nullable(r.TrajectoryLength)})
}

// MarshalJSON writes the averages of a group without solved runs as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	type plain Summary
	return json.Marshal(struct {
		plain
		AvgTrajectoryLength *float64 `json:"avg_trajectory_length"`
		AvgCellsExpanded    *float64 `json:"avg_cells_expanded"`
		AvgBumps            *float64 `json:"avg_bumps"`
		AvgPlans            *float64 `json:"avg_plans"`
		AvgCellsDetermined  *float64 `json:"avg_cells_determined"`
		AvgRuntimeSeconds   *float64 `json:"avg_runtime_seconds"`
	}{
		plain(s),
		nullable(s.AvgTrajectoryLength),
		nullable(s.AvgCellsExpanded),
		nullable(s.AvgBumps),
		nullable(s.AvgPlans),
		nullable(s.AvgCellsDetermined),
		nullable(s.AvgRuntimeSeconds),
	})
}
