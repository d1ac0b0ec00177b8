package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

type ExportData struct {
	Run   *RunMetadata `json:"run"`
	Times []float64    `json:"times"`

	// Positions is indexed [step][body] and holds x, y, z in the
	// center-of-mass frame.
	Positions [][][3]float64 `json:"positions"`
}

// ExportJSON writes a run and its trajectory as one JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, traj dynamo.Trajectory, times []float64) error {
	data := ExportData{
		Run:       meta,
		Times:     times,
		Positions: make([][][3]float64, len(traj)),
	}

	for k, snap := range traj {
		row := make([][3]float64, len(snap))
		for b, p := range snap {
			row[b] = [3]float64{p.X, p.Y, p.Z}
		}
		data.Positions[k] = row
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
