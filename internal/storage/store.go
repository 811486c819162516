package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Trajectory is the recorded output of an evolution run: one row per
// sampled step.
type Trajectory struct {
	Columns []string // observable names, excluding the leading time column
	Times   []float64
	Rows    [][]float64
}

// Append records one sample. len(row) must match len(Columns).
func (tr *Trajectory) Append(t float64, row []float64) {
	r := make([]float64, len(row))
	copy(r, row)
	tr.Times = append(tr.Times, t)
	tr.Rows = append(tr.Rows, r)
}

// RunMetadata describes a stored run.
type RunMetadata struct {
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Evolver   string             `json:"evolver"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Normalize bool               `json:"normalize"`
	Final     map[string]float64 `json:"final"`
}

// Store persists runs under a base directory, one subdirectory per run with
// metadata.json and trajectory.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Save(meta RunMetadata, traj *Trajectory) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Model, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := append([]string{"time"}, traj.Columns...)
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range traj.Times {
		row := []string{strconv.FormatFloat(traj.Times[i], 'g', 12, 64)}
		for _, val := range traj.Rows[i] {
			row = append(row, strconv.FormatFloat(val, 'g', 12, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (*Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &Trajectory{}, nil
	}

	traj := &Trajectory{Columns: records[0][1:]}
	for _, record := range records[1:] {
		if len(record) != len(records[0]) {
			return nil, fmt.Errorf("storage: ragged row in %s", runID)
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, err
		}
		row := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, err
			}
			row = append(row, val)
		}
		traj.Times = append(traj.Times, t)
		traj.Rows = append(traj.Rows, row)
	}
	return traj, nil
}
