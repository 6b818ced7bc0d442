package nav

import (
	"encoding/json"
	"math"
)

// MarshalJSON writes the trajectory length of an unsolved run as null and the
// runtime in seconds.
func (s Stats) MarshalJSON() ([]byte, error) {
	type plain Stats
	var traj *float64
	if !math.IsNaN(s.TrajectoryLength) {
		traj = &s.TrajectoryLength
	}
	return json.Marshal(struct {
		plain
		TrajectoryLength *float64 `json:"trajectory_length"`
		Runtime          float64  `json:"runtime_seconds"`
	}{plain(s), traj, s.Runtime.Seconds()})
}
