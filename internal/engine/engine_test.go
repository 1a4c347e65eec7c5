package engine

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/glyphflow/internal/pattern"
	"github.com/san-kum/glyphflow/internal/phase"
	"github.com/san-kum/glyphflow/internal/vecmath"
)

const testDt = 1.0 / 60

func tick(e *Engine, from, seconds float64) float64 {
	t := from
	steps := int(seconds / testDt)
	for i := 0; i < steps; i++ {
		t += testDt
		e.Update(TickContext{
			Delta:     testDt,
			Elapsed:   t,
			MusicTime: t,
			CameraPos: vecmath.Vec3{X: 0, Y: 0, Z: 55},
		})
	}
	return t
}

func TestNewStartsInFlow(t *testing.T) {
	g := NewWithT(t)
	e := New(5000, "cpu")

	g.Expect(e.Group(0).Phase).To(Equal(phase.Flow))
	g.Expect(e.SplitIndex()).To(Equal(5000))
	g.Expect(e.Group(0).TargetConvergence).To(Equal(phase.DefaultFlowConvergence))
}

func TestSetTextDirectSnap(t *testing.T) {
	g := NewWithT(t)
	e := New(5000, "cpu")

	e.SetText("HI", Options{Animation: "directSnap"})
	g.Expect(e.Group(0).Phase).To(Equal(phase.Text))
	g.Expect(e.Group(0).TargetConvergence).To(Equal(1.0))
}

func TestSetTextFormsThenReveals(t *testing.T) {
	g := NewWithT(t)
	e := New(5000, "cpu")

	e.SetText("AB", Options{Animation: "typewriter"})
	g.Expect(e.Group(0).Phase).To(Equal(phase.Forming))

	// typewriter: delay 0.1, stagger 0.35, so both reveals land within 0.5s.
	tick(e, 0, 1.0)
	g.Expect(e.Group(0).Phase).To(Equal(phase.Text))
}

func TestHoldThenReleaseThenFlow(t *testing.T) {
	g := NewWithT(t)
	e := New(5000, "cpu")

	hold := 0.5
	e.SetText("X", Options{Animation: "directSnap", HoldDuration: &hold})
	now := tick(e, 0, 1.0)
	g.Expect(e.Group(0).Phase).To(Equal(phase.Releasing))

	// Release decays convergence below the threshold, then flow resumes with
	// the loose ambient target.
	tick(e, now, 30)
	g.Expect(e.Group(0).Phase).To(Equal(phase.Flow))
	g.Expect(e.Group(0).TargetConvergence).To(Equal(phase.DefaultFlowConvergence))
	g.Expect(e.Group(0).HoldDuration).To(Equal(phase.DefaultHold))
}

func TestDeferredFlowDuringHold(t *testing.T) {
	g := NewWithT(t)
	e := New(5000, "cpu")

	hold := 0.5
	e.SetText("X", Options{Animation: "directSnap", HoldDuration: &hold})
	e.SetFlowTargets("helix", Options{})

	// The request must not scatter the held text.
	g.Expect(e.Group(0).Phase).To(Equal(phase.Text))
	g.Expect(e.Group(0).Pending).NotTo(BeNil())
	g.Expect(e.Group(0).Pending.Pattern).To(Equal("helix"))

	tick(e, 0, 40)
	g.Expect(e.Group(0).Phase).To(Equal(phase.Flow))
	g.Expect(e.Group(0).Pending).To(BeNil())
}

func TestSetFlowTargetsImmediateInFlow(t *testing.T) {
	g := NewWithT(t)
	e := New(5000, "cpu")

	e.SetFlowTargets("galaxySpin", Options{})
	g.Expect(e.Group(0).Phase).To(Equal(phase.Flow))
	g.Expect(e.Group(0).Pending).To(BeNil())
}

func TestGroupBSplit(t *testing.T) {
	g := NewWithT(t)
	e := New(6000, "cpu")

	e.SetText("B", Options{Animation: "directSnap", ParticleGroup: 1})
	g.Expect(e.SplitIndex()).To(Equal(3000))
	g.Expect(e.Group(1).Phase).To(Equal(phase.Text))
	// Group A keeps flowing.
	g.Expect(e.Group(0).Phase).To(Equal(phase.Flow))

	// A group-A command without groupB options merges B back.
	e.SetFlowTargets("rings", Options{})
	g.Expect(e.SplitIndex()).To(Equal(6000))
	g.Expect(e.Group(1).Phase).To(Equal(phase.Flow))
}

func TestGroupBPatternKeepsTextInGroupA(t *testing.T) {
	g := NewWithT(t)
	e := New(6000, "cpu")

	e.SetText("ABCD", Options{Animation: "directSnap", GroupBPattern: "helix"})
	g.Expect(e.SplitIndex()).To(Equal(3000))

	// Every character record must sit inside group A's range; anything past
	// the split would be driven by the group-B pattern instead of the glyphs.
	last := e.chars[0][len(e.chars[0])-1]
	g.Expect(last.Start + last.Count).To(BeNumerically("<=", e.SplitIndex()))

	glyphTgt := e.Buffers().TgtAt(100)
	tick(e, 0, testDt)
	g.Expect(e.Buffers().TgtAt(100)).To(Equal(glyphTgt))

	want, _ := pattern.Eval(pattern.IDHelix, 4500, 6000, float32(testDt))
	g.Expect(e.Buffers().TgtAt(4500)).To(Equal(want))
}

func TestGroupBFlowActivatesSplit(t *testing.T) {
	g := NewWithT(t)
	e := New(6000, "cpu")

	e.SetFlowTargets("helix", Options{ParticleGroup: 1})
	g.Expect(e.SplitIndex()).To(Equal(3000))
	g.Expect(e.Group(1).Phase).To(Equal(phase.Flow))

	// The pattern actually drives group B's particles.
	tick(e, 0, testDt)
	want, _ := pattern.Eval(pattern.IDHelix, 4000, 6000, float32(testDt))
	g.Expect(e.Buffers().TgtAt(4000)).To(Equal(want))
}

func TestSpaceSlotsScatter(t *testing.T) {
	g := NewWithT(t)
	e := New(3000, "cpu")

	e.SetText("A B", Options{Animation: "directSnap"})
	rec := e.chars[0][1]
	g.Expect(rec.Targets).To(BeEmpty())

	// Space particles get loose scatter targets, not one stale clump.
	var maxDist float32
	first := e.Buffers().TgtAt(rec.Start)
	for j := 1; j < rec.Count; j++ {
		d := e.Buffers().TgtAt(rec.Start + j).Sub(first).Length()
		if d > maxDist {
			maxDist = d
		}
	}
	g.Expect(maxDist).To(BeNumerically(">", 5))
}

func TestGroupBPatternUnderText(t *testing.T) {
	g := NewWithT(t)
	e := New(6000, "cpu")

	conv := 0.3
	e.SetText("A", Options{
		Animation:         "directSnap",
		GroupBPattern:     "helix",
		GroupBConvergence: &conv,
	})
	g.Expect(e.SplitIndex()).To(Equal(3000))
	g.Expect(e.Group(0).Phase).To(Equal(phase.Text))
	g.Expect(e.Group(1).TargetConvergence).To(Equal(0.3))
}

func TestMultiLayer(t *testing.T) {
	g := NewWithT(t)
	e := New(5000, "cpu")

	e.SetFlowTargetsMultiLayer([]LayerSpec{
		{Pattern: "helix"},
		{Pattern: "rings", Scale: 2},
		{Pattern: "organic"}, // point set: substituted with a procedural stand-in
	})

	g.Expect(e.LayerCount()).To(Equal(3))
	g.Expect(e.Layer(0).PatternID).To(Equal(pattern.IDHelix))
	g.Expect(e.Layer(0).Scale).To(Equal(float32(1)))
	g.Expect(e.Layer(1).PatternID).To(Equal(pattern.IDRings))
	g.Expect(e.Layer(1).Scale).To(Equal(float32(2)))
	g.Expect(e.Layer(2).PatternID).To(Equal(pattern.IDNoiseFlow))
}

func TestMultiLayerCapsAtFour(t *testing.T) {
	g := NewWithT(t)
	e := New(5000, "cpu")

	specs := make([]LayerSpec, 6)
	for i := range specs {
		specs[i] = LayerSpec{Pattern: "helix"}
	}
	e.SetFlowTargetsMultiLayer(specs)
	g.Expect(e.LayerCount()).To(Equal(4))
}

func TestSnapToTargets(t *testing.T) {
	g := NewWithT(t)
	e := New(3000, "cpu")

	e.SetText("GO", Options{Animation: "waveSweep"})
	g.Expect(e.Group(0).Phase).To(Equal(phase.Forming))

	e.SnapToTargets()
	g.Expect(e.Group(0).Phase).To(Equal(phase.Text))
	g.Expect(e.Group(0).Convergence).To(Equal(1.0))

	buf := e.Buffers()
	for i := 0; i < buf.N; i += 97 {
		g.Expect(buf.PosAt(i)).To(Equal(buf.TgtAt(i)))
		g.Expect(buf.VelAt(i)).To(Equal(vecmath.Vec3{}))
	}
}

func TestMaxConvergenceCap(t *testing.T) {
	g := NewWithT(t)
	e := New(3000, "cpu")

	limit := 0.5
	e.SetText("DIM", Options{Animation: "directSnap", MaxConvergence: &limit})
	tick(e, 0, 2)
	g.Expect(e.Group(0).Convergence).To(BeNumerically("<=", 0.5))
}

func TestEmptyTextIgnored(t *testing.T) {
	g := NewWithT(t)
	e := New(3000, "cpu")

	e.SetText("", Options{Animation: "directSnap"})
	g.Expect(e.Group(0).Phase).To(Equal(phase.Flow))
}

func TestShadowSculpture(t *testing.T) {
	g := NewWithT(t)
	e := New(4000, "cpu")

	e.SetShadowSculptureTarget("HI", "NO", Options{Animation: "directSnap"})
	g.Expect(e.Group(0).Phase).To(Equal(phase.Text))

	// The sculpture keeps its authored depth: targets span z.
	buf := e.Buffers()
	var minZ, maxZ float32
	for i := 0; i < buf.N; i++ {
		z := buf.TgtAt(i).Z
		if z < minZ {
			minZ = z
		}
		if z > maxZ {
			maxZ = z
		}
	}
	g.Expect(maxZ - minZ).To(BeNumerically(">", 0.5))
}

func TestStatsAfterUpdate(t *testing.T) {
	g := NewWithT(t)
	e := New(3000, "cpu")

	tick(e, 0, 0.5)
	st := e.GetStats()
	g.Expect(st.ParticleCount).To(Equal(3000))
	g.Expect(st.PhaseA).To(Equal("flow"))
	g.Expect(st.Spread).To(BeNumerically(">", 0))
}

func TestAlignShiftsTargets(t *testing.T) {
	g := NewWithT(t)

	left := New(3000, "cpu")
	center := New(3000, "cpu")
	left.SetText("AA", Options{Animation: "directSnap", Align: "left"})
	center.SetText("AA", Options{Animation: "directSnap"})

	var sumL, sumC float32
	for i := 0; i < 3000; i++ {
		sumL += left.Buffers().TgtAt(i).X
		sumC += center.Buffers().TgtAt(i).X
	}
	g.Expect(sumL / 3000).To(BeNumerically(">", sumC/3000+1))
}
