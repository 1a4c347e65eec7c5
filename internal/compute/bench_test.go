package compute

import (
	"testing"

	"github.com/san-kum/glyphflow/internal/particle"
	"github.com/san-kum/glyphflow/internal/vecmath"
)

func benchUniforms() *Uniforms {
	u := &Uniforms{
		Dt:     1.0 / 60,
		Camera: vecmath.Vec3{X: 0, Y: 0, Z: 55},
		Split:  1 << 30,
		Macro: Macro{
			NoiseStrength: 0.9,
			NoiseScale:    0.55,
			Spring:        0.018,
			Damping:       0.945,
			Vortex:        0.22,
			Wave:          0.15,
		},
	}
	u.Groups[0] = GroupState{Convergence: 0.4, Sweep: vecmath.Vec3{X: 1, Y: 0, Z: 0}, PatternScale: 1}
	u.Groups[1] = GroupState{PatternScale: 1}
	return u
}

func benchIntegrate(b *testing.B, n int) {
	buf := particle.NewBuffers(n)
	backend := NewCPUBackend()
	u := benchUniforms()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		u.Elapsed = float32(i) / 60
		backend.Integrate(buf, u)
	}
}

func BenchmarkIntegrate10k(b *testing.B)  { benchIntegrate(b, 10_000) }
func BenchmarkIntegrate100k(b *testing.B) { benchIntegrate(b, 100_000) }
func BenchmarkIntegrate1M(b *testing.B)   { benchIntegrate(b, 1_000_000) }

func BenchmarkIntegrateSerial(b *testing.B) {
	buf := particle.NewBuffers(100_000)
	backend := &CPUBackend{workers: 1}
	u := benchUniforms()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		u.Elapsed = float32(i) / 60
		backend.Integrate(buf, u)
	}
}
