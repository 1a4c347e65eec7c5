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

// Store persists headless runs: one directory per run holding metadata.json
// and frames.csv with per-frame stats.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Particles int                `json:"particles"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Backend   string             `json:"backend"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Frame is one sampled stats row of a run.
type Frame struct {
	Time         float64
	PhaseA       string
	PhaseB       string
	ConvergenceA float64
	ConvergenceB float64
	MeanSpeed    float64
	Kinetic      float64
	Spread       float64
}

var frameHeader = []string{
	"time", "phase_a", "phase_b", "conv_a", "conv_b",
	"mean_speed", "kinetic", "spread",
}

func (s *Store) Save(meta RunMetadata, frames []Frame) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Preset, time.Now().Unix())
	if meta.Preset == "" {
		runID = fmt.Sprintf("run_%d", time.Now().Unix())
	}
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "frames.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(frameHeader); err != nil {
		return "", err
	}

	for _, f := range frames {
		row := []string{
			strconv.FormatFloat(f.Time, 'f', 6, 64),
			f.PhaseA,
			f.PhaseB,
			strconv.FormatFloat(f.ConvergenceA, 'f', 6, 64),
			strconv.FormatFloat(f.ConvergenceB, 'f', 6, 64),
			strconv.FormatFloat(f.MeanSpeed, 'f', 6, 64),
			strconv.FormatFloat(f.Kinetic, 'f', 6, 64),
			strconv.FormatFloat(f.Spread, 'f', 6, 64),
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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]Frame, error) {
	csvPath := filepath.Join(s.baseDir, runID, "frames.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []Frame{}, nil
	}

	frames := make([]Frame, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < len(frameHeader) {
			continue
		}

		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			continue
		}
		f := Frame{Time: t, PhaseA: rec[1], PhaseB: rec[2]}
		f.ConvergenceA, _ = strconv.ParseFloat(rec[3], 64)
		f.ConvergenceB, _ = strconv.ParseFloat(rec[4], 64)
		f.MeanSpeed, _ = strconv.ParseFloat(rec[5], 64)
		f.Kinetic, _ = strconv.ParseFloat(rec[6], 64)
		f.Spread, _ = strconv.ParseFloat(rec[7], 64)
		frames = append(frames, f)
	}

	return frames, nil
}
