// Package macro holds the time-keyed tension curve that shapes the ambient
// physics over a track, and the continuously-eased parameter state derived
// from it. Values are authored content: any monotonically-segmented table
// with a silence/buildup/climax/release arc works.
package macro

import "gopkg.in/yaml.v3"

// Params is one bundle of physics scalars.
type Params struct {
	NoiseStrength float64 `yaml:"noise_strength"`
	NoiseScale    float64 `yaml:"noise_scale"`
	Spring        float64 `yaml:"spring"`
	Damping       float64 `yaml:"damping"`
	Vortex        float64 `yaml:"vortex"`
	Wave          float64 `yaml:"wave"`
	Gravity       float64 `yaml:"gravity"`
	ConvUp        float64 `yaml:"conv_up"`
	ConvDown      float64 `yaml:"conv_down"`
	PointScale    float64 `yaml:"point_scale"`
}

// Segment holds until End (authored playback seconds).
type Segment struct {
	End    float64 `yaml:"end"`
	Params Params  `yaml:"params"`
}

type Curve struct {
	Segments []Segment `yaml:"segments"`
}

// DefaultCurve is the 8-row authored arc: near-silence early, buildup,
// chaotic climax mid-track, subtractive stillness late.
func DefaultCurve() Curve {
	return Curve{Segments: []Segment{
		{End: 18, Params: Params{0.12, 0.30, 0.010, 0.955, 0.02, 0.02, 0.000, 0.020, 0.012, 1.0}},
		{End: 42, Params: Params{0.30, 0.40, 0.014, 0.950, 0.10, 0.08, 0.002, 0.025, 0.014, 1.1}},
		{End: 70, Params: Params{0.55, 0.55, 0.018, 0.945, 0.22, 0.15, 0.004, 0.030, 0.016, 1.2}},
		{End: 96, Params: Params{0.90, 0.70, 0.022, 0.940, 0.40, 0.28, 0.006, 0.035, 0.018, 1.35}},
		{End: 124, Params: Params{1.40, 0.85, 0.026, 0.935, 0.65, 0.45, 0.010, 0.040, 0.022, 1.5}},
		{End: 150, Params: Params{1.10, 0.75, 0.022, 0.940, 0.45, 0.30, 0.008, 0.035, 0.020, 1.3}},
		{End: 178, Params: Params{0.50, 0.50, 0.016, 0.950, 0.18, 0.12, 0.004, 0.028, 0.016, 1.15}},
		{End: 1e9, Params: Params{0.15, 0.30, 0.010, 0.958, 0.04, 0.03, 0.001, 0.020, 0.012, 1.0}},
	}}
}

// Active returns the first segment whose End exceeds t.
func (c Curve) Active(t float64) Params {
	for _, s := range c.Segments {
		if t < s.End {
			return s.Params
		}
	}
	if len(c.Segments) == 0 {
		return DefaultCurve().Segments[0].Params
	}
	return c.Segments[len(c.Segments)-1].Params
}

// ParseCurve loads a curve from yaml. Segments must be in ascending End
// order; the caller decides whether to fall back to the default on error.
func ParseCurve(data []byte) (Curve, error) {
	var c Curve
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Curve{}, err
	}
	return c, nil
}

// Overrides carries per-command parameter pins. Nil fields defer to the
// curve; set fields replace the curve target and ease faster.
type Overrides struct {
	NoiseStrength *float64
	NoiseScale    *float64
	Spring        *float64
	Damping       *float64
	Vortex        *float64
	Wave          *float64
	Gravity       *float64
	ConvUp        *float64
	ConvDown      *float64
	PointScale    *float64
	LerpRate      *float64 // ease rate while an override is active
}

func (o Overrides) Empty() bool {
	return o.NoiseStrength == nil && o.NoiseScale == nil && o.Spring == nil &&
		o.Damping == nil && o.Vortex == nil && o.Wave == nil && o.Gravity == nil &&
		o.ConvUp == nil && o.ConvDown == nil && o.PointScale == nil
}

const defaultEaseRate = 0.005

// State is the continuously-eased parameter set fed to the kernel.
type State struct {
	Params
}

func NewState(c Curve) State {
	return State{Params: c.Active(0)}
}

// Tick eases every scalar toward its target: the active curve row, or the
// override where one is pinned (at the override's faster rate).
func (s *State) Tick(c Curve, musicTime float64, ov Overrides) {
	row := c.Active(musicTime)
	ovRate := defaultEaseRate
	if ov.LerpRate != nil && *ov.LerpRate > 0 {
		ovRate = *ov.LerpRate
	}

	ease := func(cur *float64, rowVal float64, pin *float64) {
		target, rate := rowVal, defaultEaseRate
		if pin != nil {
			target, rate = *pin, ovRate
		}
		*cur += (target - *cur) * rate
	}

	ease(&s.NoiseStrength, row.NoiseStrength, ov.NoiseStrength)
	ease(&s.NoiseScale, row.NoiseScale, ov.NoiseScale)
	ease(&s.Spring, row.Spring, ov.Spring)
	ease(&s.Damping, row.Damping, ov.Damping)
	ease(&s.Vortex, row.Vortex, ov.Vortex)
	ease(&s.Wave, row.Wave, ov.Wave)
	ease(&s.Gravity, row.Gravity, ov.Gravity)
	ease(&s.ConvUp, row.ConvUp, ov.ConvUp)
	ease(&s.ConvDown, row.ConvDown, ov.ConvDown)
	ease(&s.PointScale, row.PointScale, ov.PointScale)
}
