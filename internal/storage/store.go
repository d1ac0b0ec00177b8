package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a result was produced.
type RunInfo struct {
	Preset     string
	Integrator string
	Frame      string
	G          float64
	Dt         float64
	Steps      int
	Masses     []float64
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Preset     string             `json:"preset"`
	Timestamp  time.Time          `json:"timestamp"`
	Integrator string             `json:"integrator"`
	Frame      string             `json:"frame"`
	G          float64            `json:"g"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Masses     []float64          `json:"masses"`
	Omega      [3]float64         `json:"omega"`
	Period     *float64           `json:"period,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// NumBodies is the body count recorded for the run.
func (m *RunMetadata) NumBodies() int { return len(m.Masses) }

// Save writes metadata.json and the center-of-mass trajectory as
// trajectory.csv into a new run directory and returns the run ID.
func (s *Store) Save(info RunInfo, result *dynamo.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", info.Preset, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := NewMetadata(runID, info, result)
	meta.Timestamp = now

	err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err == nil {
		err = writeFile(filepath.Join(runDir, trajectoryFile), func(w io.Writer) error {
			return WriteCSV(w, result.CenterOfMass, result.Times)
		})
	}
	if err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("save %s: %w", runID, err)
	}

	return runID, nil
}

// NewMetadata summarises a result. Non-finite metric values are dropped
// since JSON cannot carry them.
func NewMetadata(id string, info RunInfo, result *dynamo.Result) *RunMetadata {
	meta := &RunMetadata{
		ID:         id,
		Preset:     info.Preset,
		Integrator: info.Integrator,
		Frame:      info.Frame,
		G:          info.G,
		Dt:         info.Dt,
		Steps:      info.Steps,
		Masses:     info.Masses,
		Omega:      [3]float64{result.Omega.X, result.Omega.Y, result.Omega.Z},
		Metrics:    make(map[string]float64, len(result.Metrics)),
	}
	if result.PeriodKnown {
		p := result.Period
		meta.Period = &p
	}
	for k, v := range result.Metrics {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			meta.Metrics[k] = v
		}
	}
	return meta
}

// writeFile creates path, fills it with write and reports the first error,
// including the one from Close.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes one row per snapshot: time followed by b{i}_x, b{i}_y,
// b{i}_z for every body.
func WriteCSV(out io.Writer, traj dynamo.Trajectory, times []float64) error {
	w := csv.NewWriter(out)

	header := []string{"time"}
	for i := 0; i < traj.NumBodies(); i++ {
		header = append(header, fmt.Sprintf("b%d_x", i), fmt.Sprintf("b%d_y", i), fmt.Sprintf("b%d_z", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for k, snap := range traj {
		t := 0.0
		if k < len(times) {
			t = times[k]
		}
		row := make([]string, 0, 1+3*len(snap))
		row = append(row, formatFloat(t))
		for _, p := range snap {
			row = append(row, formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns the metadata of every stored run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), metadataFile))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadTrajectory reads back the center-of-mass trajectory of a run.
func (s *Store) LoadTrajectory(runID string) (dynamo.Trajectory, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	traj, times, err := ReadCSV(file)
	if err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return traj, times, nil
}

// ReadCSV parses the layout written by WriteCSV.
func ReadCSV(in io.Reader) (dynamo.Trajectory, []float64, error) {
	r := csv.NewReader(in)

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return dynamo.Trajectory{}, []float64{}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if len(header) < 1 || (len(header)-1)%3 != 0 {
		return nil, nil, fmt.Errorf("header has %d columns: %w", len(header), dynamo.ErrDimensionMismatch)
	}
	n := (len(header) - 1) / 3

	traj := make(dynamo.Trajectory, 0)
	times := make([]float64, 0)

	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		values := make([]float64, len(record))
		for j, field := range record {
			if values[j], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, nil, fmt.Errorf("line %d column %d: %w", line, j+1, err)
			}
		}

		snap := make(dynamo.Snapshot, n)
		for b := range snap {
			snap[b] = r3.Vec{X: values[1+3*b], Y: values[2+3*b], Z: values[3+3*b]}
		}
		times = append(times, values[0])
		traj = append(traj, snap)
	}

	return traj, times, nil
}
