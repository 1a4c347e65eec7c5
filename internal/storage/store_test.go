package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	return s
}

func sampleRun() (RunMetadata, []Frame) {
	meta := RunMetadata{
		Preset:    "calm",
		Particles: 100000,
		Dt:        1.0 / 60,
		Duration:  30,
		Backend:   "cpu",
		Metrics:   map[string]float64{"mean_speed": 0.42},
	}
	frames := []Frame{
		{Time: 0, PhaseA: "flow", PhaseB: "flow", ConvergenceA: 0.1, MeanSpeed: 0.5, Kinetic: 0.12, Spread: 9.1},
		{Time: 0.5, PhaseA: "forming", PhaseB: "flow", ConvergenceA: 0.4, MeanSpeed: 0.8, Kinetic: 0.3, Spread: 7.2},
		{Time: 1.0, PhaseA: "text", PhaseB: "flow", ConvergenceA: 0.95, MeanSpeed: 0.1, Kinetic: 0.01, Spread: 4.0},
	}
	return meta, frames
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := testStore(t)
	meta, frames := sampleRun()

	id, err := s.Save(meta, frames)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(id, "calm_") {
		t.Errorf("run id should carry the preset name: %s", id)
	}

	loaded, err := s.Load(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Preset != "calm" || loaded.Particles != 100000 {
		t.Errorf("metadata lost: %+v", loaded)
	}
	if loaded.Metrics["mean_speed"] != 0.42 {
		t.Errorf("metrics lost: %v", loaded.Metrics)
	}
}

func TestLoadFrames(t *testing.T) {
	s := testStore(t)
	meta, frames := sampleRun()

	id, err := s.Save(meta, frames)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := s.LoadFrames(id)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(got) != len(frames) {
		t.Fatalf("expected %d frames, got %d", len(frames), len(got))
	}
	if got[2].PhaseA != "text" {
		t.Errorf("phase column lost: %s", got[2].PhaseA)
	}
	if diff := got[1].ConvergenceA - 0.4; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("convergence column lost: %f", got[1].ConvergenceA)
	}
}

func TestList(t *testing.T) {
	s := testStore(t)
	meta, frames := sampleRun()

	if _, err := s.Save(meta, frames); err != nil {
		t.Fatal(err)
	}
	meta.Preset = ""
	if _, err := s.Save(meta, frames); err != nil {
		t.Fatal(err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestListEmptyStore(t *testing.T) {
	s := testStore(t)
	runs, err := s.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoadMissingRun(t *testing.T) {
	s := testStore(t)
	if _, err := s.Load("absent_123"); err == nil {
		t.Error("expected an error for a missing run")
	}
}

func TestSaveWritesFiles(t *testing.T) {
	s := testStore(t)
	meta, frames := sampleRun()

	id, err := s.Save(meta, frames)
	if err != nil {
		t.Fatal(err)
	}

	runDir := filepath.Join(s.baseDir, id)
	for _, name := range []string{"metadata.json", "frames.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); err != nil {
			t.Errorf("expected %s in run dir: %v", name, err)
		}
	}
}

func TestExportJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	meta, frames := sampleRun()

	if err := ExportJSON(path, &meta, frames); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)
	for _, key := range []string{"times", "conv_a", "mean_speed"} {
		if !strings.Contains(body, key) {
			t.Errorf("export missing %q", key)
		}
	}
}
