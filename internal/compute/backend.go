// Package compute executes the per-particle force integration. The kernel is
// described once as an ordered sequence of arithmetic steps over the SoA
// buffers; the CPU backend runs it as a worker-chunked parallel loop, the
// OpenGL backend dispatches the same steps as a compute shader. Host-side
// uniform and target writes always complete before Integrate is called for a
// tick, so backends need no internal synchronization beyond their own join.
package compute

import (
	"github.com/san-kum/glyphflow/internal/particle"
	"github.com/san-kum/glyphflow/internal/vecmath"
)

// GroupState is the per-group slice of the uniforms.
type GroupState struct {
	Convergence float32
	Sweep       vecmath.Vec3
	Flatten     bool // non-anamorphic text: hard-bias z toward target
	Dissolve    bool // boosted gravity while releasing
	Releasing   bool

	PatternID     int // 0 = keep stored target
	PatternOrigin vecmath.Vec3
	PatternScale  float32
}

// Layer is one multi-layer flow assignment. PatternID 0 disables the slot.
type Layer struct {
	PatternID int
	Origin    vecmath.Vec3
	Scale     float32
}

// Macro carries the eased physics scalars for this tick.
type Macro struct {
	NoiseStrength float32
	NoiseScale    float32
	Spring        float32
	Damping       float32
	Vortex        float32
	Wave          float32
	Gravity       float32
}

// Uniforms is the full simulation context for one tick. It is assembled by
// the engine on the host and read-only inside the kernel.
type Uniforms struct {
	Dt      float32
	Elapsed float32

	Camera vecmath.Vec3
	Ortho  bool

	Split  int // group A is [0,Split), group B is [Split,N)
	Groups [2]GroupState

	LayerCount        int
	Layers            [4]Layer
	BackgroundPattern int // pattern for background-split particles, 0 = none

	Macro Macro
}

// Backend integrates all particles for one tick.
type Backend interface {
	Name() string
	Available() bool
	Integrate(b *particle.Buffers, u *Uniforms)
	Cleanup()
}

// Select returns the backend for name, falling back to CPU. The OpenGL
// backend needs a current GL context, so it is only picked when explicitly
// requested and initialized.
func Select(name string, n int) Backend {
	if name == "opengl" {
		gl := NewOpenGLBackend(n)
		if gl.Available() {
			return gl
		}
	}
	return NewCPUBackend()
}
