package metrics

import (
	"testing"

	"github.com/san-kum/glyphflow/internal/engine"
)

func TestConvergenceMean(t *testing.T) {
	m := NewConvergence()
	if m.Value() != 0 {
		t.Error("empty metric should report 0")
	}

	m.Observe(engine.Stats{ConvergenceA: 0.2}, 0)
	m.Observe(engine.Stats{ConvergenceA: 0.8}, 1)

	if diff := m.Value() - 0.5; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected mean 0.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("reset did not clear the metric")
	}
}

func TestKineticMean(t *testing.T) {
	m := NewKinetic()
	m.Observe(engine.Stats{KineticEnergy: 1.0}, 0)
	m.Observe(engine.Stats{KineticEnergy: 3.0}, 1)

	if diff := m.Value() - 2.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected mean 2.0, got %f", m.Value())
	}
}

func TestSpreadPeak(t *testing.T) {
	m := NewSpread()
	m.Observe(engine.Stats{Spread: 4.0}, 0)
	m.Observe(engine.Stats{Spread: 9.0}, 1)
	m.Observe(engine.Stats{Spread: 2.0}, 2)

	if m.Value() != 9.0 {
		t.Errorf("expected peak 9.0, got %f", m.Value())
	}
}

func TestDefaultsDistinctNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Defaults() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric name %s", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected 3 default metrics, got %d", len(seen))
	}
}
