// Package config loads run configuration and authored timelines. A timeline
// is the resolved cue sheet for a track: engine commands keyed by playback
// time.
package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/glyphflow/internal/macro"
)

const (
	DefaultParticles = 200000
	DefaultDt        = 1.0 / 60.0
	DefaultDuration  = 30.0
)

type Config struct {
	Particles int     `yaml:"particles"`
	Dt        float64 `yaml:"dt"`
	Duration  float64 `yaml:"duration"`
	Backend   string  `yaml:"backend"`

	Curve    *macro.Curve `yaml:"curve,omitempty"`
	Timeline []Cue        `yaml:"timeline"`
}

// Cue is one authored command. Cmd selects the engine call; unused fields
// are ignored for that command.
type Cue struct {
	At  float64 `yaml:"at"`
	Cmd string  `yaml:"cmd"` // text, sculpture, flow, layers, mode, snap

	Text    string `yaml:"text,omitempty"`
	TextB   string `yaml:"text_b,omitempty"`
	Pattern string `yaml:"pattern,omitempty"`
	Mode    string `yaml:"mode,omitempty"`

	Animation     string     `yaml:"animation,omitempty"`
	ViewDirection []float64  `yaml:"view_direction,omitempty"`
	TargetWidth   *float64   `yaml:"target_width,omitempty"`
	Align         string     `yaml:"align,omitempty"`
	MaxConv       *float64   `yaml:"max_convergence,omitempty"`
	Hold          *float64   `yaml:"hold,omitempty"`
	ReleaseSpeed  *float64   `yaml:"release_speed,omitempty"`
	Dissolve      bool       `yaml:"dissolve,omitempty"`
	Origin        []float64  `yaml:"origin,omitempty"`
	Scale         *float64   `yaml:"scale,omitempty"`
	Background    string     `yaml:"background,omitempty"`
	TextRatio     *float64   `yaml:"text_ratio,omitempty"`
	Group         int        `yaml:"group,omitempty"`
	GroupBPattern string     `yaml:"group_b_pattern,omitempty"`
	GroupBConv    *float64   `yaml:"group_b_convergence,omitempty"`
	Layers        []CueLayer `yaml:"layers,omitempty"`

	Physics PhysicsOverrides `yaml:"physics,omitempty"`
}

type CueLayer struct {
	Pattern string    `yaml:"pattern"`
	Origin  []float64 `yaml:"origin,omitempty"`
	Scale   float64   `yaml:"scale,omitempty"`
}

// PhysicsOverrides mirrors macro.Overrides with yaml optionals.
type PhysicsOverrides struct {
	NoiseStrength *float64 `yaml:"noise_strength,omitempty"`
	NoiseScale    *float64 `yaml:"noise_scale,omitempty"`
	Spring        *float64 `yaml:"spring,omitempty"`
	Damping       *float64 `yaml:"damping,omitempty"`
	Vortex        *float64 `yaml:"vortex,omitempty"`
	Wave          *float64 `yaml:"wave,omitempty"`
	Gravity       *float64 `yaml:"gravity,omitempty"`
	PointScale    *float64 `yaml:"point_scale,omitempty"`
	ConvUp        *float64 `yaml:"conv_up,omitempty"`
	ConvDown      *float64 `yaml:"conv_down,omitempty"`
	LerpRate      *float64 `yaml:"lerp_rate,omitempty"`
}

func (p PhysicsOverrides) ToMacro() macro.Overrides {
	return macro.Overrides{
		NoiseStrength: p.NoiseStrength,
		NoiseScale:    p.NoiseScale,
		Spring:        p.Spring,
		Damping:       p.Damping,
		Vortex:        p.Vortex,
		Wave:          p.Wave,
		Gravity:       p.Gravity,
		PointScale:    p.PointScale,
		ConvUp:        p.ConvUp,
		ConvDown:      p.ConvDown,
		LerpRate:      p.LerpRate,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Particles: DefaultParticles,
		Dt:        DefaultDt,
		Duration:  DefaultDuration,
		Backend:   "cpu",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("particles must be positive, got %d", c.Particles)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	for i := 1; i < len(c.Timeline); i++ {
		if c.Timeline[i].At < c.Timeline[i-1].At {
			return fmt.Errorf("timeline cue %d out of order (at=%.2f)", i, c.Timeline[i].At)
		}
	}
	return nil
}

// SortTimeline orders cues by time; loaders accept unordered hand-edited
// files when validation is skipped.
func (c *Config) SortTimeline() {
	sort.SliceStable(c.Timeline, func(i, j int) bool {
		return c.Timeline[i].At < c.Timeline[j].At
	})
}
