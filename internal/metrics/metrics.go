// Package metrics aggregates per-frame engine stats over a run.
package metrics

import "github.com/san-kum/glyphflow/internal/engine"

type Metric interface {
	Name() string
	Observe(s engine.Stats, t float64)
	Value() float64
	Reset()
}

// Convergence averages group A convergence over the run.
type Convergence struct {
	sum     float64
	samples int
}

func NewConvergence() *Convergence { return &Convergence{} }

func (c *Convergence) Name() string { return "mean_convergence" }

func (c *Convergence) Observe(s engine.Stats, t float64) {
	c.sum += s.ConvergenceA
	c.samples++
}

func (c *Convergence) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *Convergence) Reset() {
	c.sum = 0
	c.samples = 0
}

// Kinetic averages the sampled per-particle kinetic energy.
type Kinetic struct {
	sum     float64
	samples int
}

func NewKinetic() *Kinetic { return &Kinetic{} }

func (k *Kinetic) Name() string { return "mean_kinetic" }

func (k *Kinetic) Observe(s engine.Stats, t float64) {
	k.sum += s.KineticEnergy
	k.samples++
}

func (k *Kinetic) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.sum / float64(k.samples)
}

func (k *Kinetic) Reset() {
	k.sum = 0
	k.samples = 0
}

// Spread tracks the peak cloud spread seen during the run; a collapsed
// population shows up as a spread near zero.
type Spread struct {
	max float64
}

func NewSpread() *Spread { return &Spread{} }

func (s *Spread) Name() string { return "max_spread" }

func (s *Spread) Observe(st engine.Stats, t float64) {
	if st.Spread > s.max {
		s.max = st.Spread
	}
}

func (s *Spread) Value() float64 { return s.max }

func (s *Spread) Reset() { s.max = 0 }

// Defaults is the standard run metric set.
func Defaults() []Metric {
	return []Metric{NewConvergence(), NewKinetic(), NewSpread()}
}
