package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"zero particles", func(c *Config) { c.Particles = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -0.01 }},
		{"zero duration", func(c *Config) { c.Duration = 0 }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mut(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestValidateRejectsUnorderedTimeline(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeline = []Cue{
		{At: 10, Cmd: "flow", Pattern: "rings"},
		{At: 5, Cmd: "text", Text: "LATE"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected out-of-order timeline to fail validation")
	}

	cfg.SortTimeline()
	if err := cfg.Validate(); err != nil {
		t.Errorf("sorted timeline should validate: %v", err)
	}
	if cfg.Timeline[0].At != 5 {
		t.Errorf("sort did not reorder cues: first at %f", cfg.Timeline[0].At)
	}
}

func TestPresetsValidate(t *testing.T) {
	if len(Presets) == 0 {
		t.Fatal("expected built-in presets")
	}
	for name, cfg := range Presets {
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestGetPreset(t *testing.T) {
	if GetPreset("calm") == nil {
		t.Error("expected calm preset")
	}
	if GetPreset("nope") != nil {
		t.Error("unknown preset should be nil")
	}
	if len(ListPresets()) != len(Presets) {
		t.Error("preset list incomplete")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	hold := 4.0
	cfg := DefaultConfig()
	cfg.Particles = 50000
	cfg.Timeline = []Cue{
		{At: 0, Cmd: "flow", Pattern: "helix"},
		{At: 5, Cmd: "text", Text: "HELLO", Animation: "rainDrop", Hold: &hold},
	}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Particles != 50000 {
		t.Errorf("particles lost: %d", loaded.Particles)
	}
	if len(loaded.Timeline) != 2 {
		t.Fatalf("timeline lost: %d cues", len(loaded.Timeline))
	}
	if loaded.Timeline[1].Text != "HELLO" || loaded.Timeline[1].Animation != "rainDrop" {
		t.Errorf("cue fields lost: %+v", loaded.Timeline[1])
	}
	if loaded.Timeline[1].Hold == nil || *loaded.Timeline[1].Hold != 4.0 {
		t.Error("optional hold did not round trip")
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sparse.yaml")
	data := []byte("timeline:\n  - at: 1\n    cmd: flow\n    pattern: rings\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Particles != DefaultParticles || cfg.Dt != DefaultDt {
		t.Errorf("defaults not applied: %d particles, dt %f", cfg.Particles, cfg.Dt)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("particles: [oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestPhysicsOverridesToMacro(t *testing.T) {
	v := 0.7
	p := PhysicsOverrides{Vortex: &v}
	m := p.ToMacro()
	if m.Vortex == nil || *m.Vortex != 0.7 {
		t.Error("vortex override lost in conversion")
	}
	if m.Damping != nil {
		t.Error("unset fields should stay nil")
	}
}
