package compute

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.3-core/gl"

	"github.com/san-kum/glyphflow/internal/particle"
)

//go:embed kernel.comp
var kernelSource string

// OpenGLBackend dispatches the integration kernel as a GLSL compute shader
// over shader storage buffers. It requires a current GL context (created by
// the gui window) before Init. When the renderer shares the position SSBO,
// readback can be skipped; the standalone path reads positions back so the
// host-side buffers stay authoritative.
type OpenGLBackend struct {
	program uint32
	ssbo    [6]uint32
	n       int32

	roleScratch []uint32
	initialized bool
	initErr     error
}

func NewOpenGLBackend(n int) *OpenGLBackend {
	return &OpenGLBackend{n: int32(n)}
}

func (o *OpenGLBackend) Name() string { return "opengl" }

func (o *OpenGLBackend) Available() bool {
	if o.initialized {
		return true
	}
	if o.initErr != nil {
		return false
	}
	return o.Init() == nil
}

// Init compiles the kernel and allocates the storage buffers. Must be called
// with a current GL context.
func (o *OpenGLBackend) Init() error {
	if err := gl.Init(); err != nil {
		o.initErr = fmt.Errorf("init opengl: %w", err)
		return o.initErr
	}

	program, err := compileCompute(kernelSource)
	if err != nil {
		o.initErr = err
		return err
	}
	o.program = program

	sizes := [6]int{
		int(o.n) * 3 * 4, // pos
		int(o.n) * 3 * 4, // vel
		int(o.n) * 3 * 4, // tgt
		int(o.n) * 4,     // life remaining
		int(o.n) * 4,     // life total
		int(o.n) * 4,     // role
	}
	gl.GenBuffers(6, &o.ssbo[0])
	for i, size := range sizes {
		gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, o.ssbo[i])
		gl.BufferData(gl.SHADER_STORAGE_BUFFER, size, nil, gl.DYNAMIC_DRAW)
		gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, uint32(i), o.ssbo[i])
	}

	o.roleScratch = make([]uint32, o.n)
	o.initialized = true
	return nil
}

func (o *OpenGLBackend) Integrate(b *particle.Buffers, u *Uniforms) {
	if !o.initialized {
		// Not usable without a context; the engine falls back to CPU before
		// this can happen, but guard anyway.
		NewCPUBackend().Integrate(b, u)
		return
	}

	upload := func(idx int, size int, ptr interface{}) {
		gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, o.ssbo[idx])
		gl.BufferSubData(gl.SHADER_STORAGE_BUFFER, 0, size, gl.Ptr(ptr))
	}
	for i := range b.Role {
		o.roleScratch[i] = uint32(b.Role[i])
	}
	upload(0, len(b.Pos)*4, b.Pos)
	upload(1, len(b.Vel)*4, b.Vel)
	upload(2, len(b.Tgt)*4, b.Tgt)
	upload(3, len(b.LifeRem)*4, b.LifeRem)
	upload(4, len(b.LifeTot)*4, b.LifeTot)
	upload(5, len(o.roleScratch)*4, o.roleScratch)

	gl.UseProgram(o.program)
	o.setUniforms(b, u)

	groups := (uint32(b.N) + 255) / 256
	gl.DispatchCompute(groups, 1, 1)
	gl.MemoryBarrier(gl.SHADER_STORAGE_BARRIER_BIT)

	readback := func(idx int, size int, ptr interface{}) {
		gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, o.ssbo[idx])
		gl.GetBufferSubData(gl.SHADER_STORAGE_BUFFER, 0, size, gl.Ptr(ptr))
	}
	readback(0, len(b.Pos)*4, b.Pos)
	readback(1, len(b.Vel)*4, b.Vel)
	readback(2, len(b.Tgt)*4, b.Tgt)
	readback(3, len(b.LifeRem)*4, b.LifeRem)
}

func (o *OpenGLBackend) setUniforms(b *particle.Buffers, u *Uniforms) {
	loc := func(name string) int32 {
		return gl.GetUniformLocation(o.program, gl.Str(name+"\x00"))
	}

	gl.Uniform1f(loc("uDt"), u.Dt)
	gl.Uniform1f(loc("uTime"), u.Elapsed)
	gl.Uniform1i(loc("uCount"), int32(b.N))
	gl.Uniform1i(loc("uSplit"), int32(u.Split))
	gl.Uniform3f(loc("uCamera"), u.Camera.X, u.Camera.Y, u.Camera.Z)
	gl.Uniform1i(loc("uOrtho"), boolInt(u.Ortho))

	var conv, pscale [2]float32
	var sweep [6]float32
	var flatten, dissolve, releasing, pid [2]int32
	var porigin [6]float32
	for g := 0; g < 2; g++ {
		gs := u.Groups[g]
		conv[g] = gs.Convergence
		pscale[g] = gs.PatternScale
		sweep[3*g], sweep[3*g+1], sweep[3*g+2] = gs.Sweep.X, gs.Sweep.Y, gs.Sweep.Z
		porigin[3*g], porigin[3*g+1], porigin[3*g+2] = gs.PatternOrigin.X, gs.PatternOrigin.Y, gs.PatternOrigin.Z
		flatten[g] = boolInt(gs.Flatten)
		dissolve[g] = boolInt(gs.Dissolve)
		releasing[g] = boolInt(gs.Releasing)
		pid[g] = int32(gs.PatternID)
	}
	gl.Uniform1fv(loc("uConvergence"), 2, &conv[0])
	gl.Uniform3fv(loc("uSweep"), 2, &sweep[0])
	gl.Uniform1iv(loc("uFlatten"), 2, &flatten[0])
	gl.Uniform1iv(loc("uDissolve"), 2, &dissolve[0])
	gl.Uniform1iv(loc("uReleasing"), 2, &releasing[0])
	gl.Uniform1iv(loc("uPatternID"), 2, &pid[0])
	gl.Uniform3fv(loc("uPatternOrigin"), 2, &porigin[0])
	gl.Uniform1fv(loc("uPatternScale"), 2, &pscale[0])

	var lpid [4]int32
	var lorigin [12]float32
	var lscale [4]float32
	for l := 0; l < 4; l++ {
		lpid[l] = int32(u.Layers[l].PatternID)
		lorigin[3*l], lorigin[3*l+1], lorigin[3*l+2] = u.Layers[l].Origin.X, u.Layers[l].Origin.Y, u.Layers[l].Origin.Z
		lscale[l] = u.Layers[l].Scale
	}
	gl.Uniform1i(loc("uLayerCount"), int32(u.LayerCount))
	gl.Uniform1iv(loc("uLayerPattern"), 4, &lpid[0])
	gl.Uniform3fv(loc("uLayerOrigin"), 4, &lorigin[0])
	gl.Uniform1fv(loc("uLayerScale"), 4, &lscale[0])
	gl.Uniform1i(loc("uBackgroundPattern"), int32(u.BackgroundPattern))

	gl.Uniform1f(loc("uNoiseStrength"), u.Macro.NoiseStrength)
	gl.Uniform1f(loc("uNoiseScale"), u.Macro.NoiseScale)
	gl.Uniform1f(loc("uSpring"), u.Macro.Spring)
	gl.Uniform1f(loc("uDamping"), u.Macro.Damping)
	gl.Uniform1f(loc("uVortex"), u.Macro.Vortex)
	gl.Uniform1f(loc("uWave"), u.Macro.Wave)
	gl.Uniform1f(loc("uGravity"), u.Macro.Gravity)
}

func (o *OpenGLBackend) Cleanup() {
	if !o.initialized {
		return
	}
	gl.DeleteProgram(o.program)
	gl.DeleteBuffers(6, &o.ssbo[0])
	o.initialized = false
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func compileCompute(source string) (uint32, error) {
	shader := gl.CreateShader(gl.COMPUTE_SHADER)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("compile kernel: %v", log)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, shader)
	gl.LinkProgram(program)
	gl.DeleteShader(shader)

	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("link kernel: %v", log)
	}
	return program, nil
}
