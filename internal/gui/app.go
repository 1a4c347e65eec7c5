// Package gui is the raylib preview window: an orbit camera around the cloud
// with keyboard control over text and flow commands.
package gui

import (
	"fmt"
	"math"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/glyphflow/internal/engine"
	"github.com/san-kum/glyphflow/internal/formation"
	"github.com/san-kum/glyphflow/internal/pattern"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

type App struct {
	Eng     *engine.Engine
	Time    float64
	Dt      float64
	Running bool

	Camera     rl.Camera3D
	Yaw, Pitch float64
	Dist       float64

	Patterns   []string
	PatternSel int
	Anims      []string
	AnimSel    int

	Typing    bool
	TextInput string

	DrawStride int
	Font       rl.Font
}

func initWindow() {
	rl.InitWindow(1280, 720, "glyphflow")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(eng *engine.Engine, dt float64) *App {
	stride := eng.Buffers().N / 60000
	if stride < 1 {
		stride = 1
	}
	return &App{
		Eng:     eng,
		Dt:      dt,
		Running: true,
		Camera: rl.NewCamera3D(
			rl.NewVector3(0, 0, 55),
			rl.NewVector3(0, 0, 0),
			rl.NewVector3(0, 1, 0),
			45.0,
			rl.CameraPerspective,
		),
		Dist:       55,
		Patterns:   pattern.Names(),
		Anims:      formation.Names(),
		DrawStride: stride,
		Font:       loadFont(),
	}
}

// Run opens the window and blocks until it closes.
func Run(eng *engine.Engine, dt float64) {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp(eng, dt)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

func (a *App) eye() rl.Vector3 {
	cp, sp := math.Cos(a.Pitch), math.Sin(a.Pitch)
	cy, sy := math.Cos(a.Yaw), math.Sin(a.Yaw)
	return rl.NewVector3(
		float32(a.Dist*cp*sy),
		float32(a.Dist*sp),
		float32(a.Dist*cp*cy),
	)
}

func (a *App) Update() {
	if a.Typing {
		a.updateTyping()
	} else {
		if rl.IsKeyPressed(rl.KeyQ) {
			rl.CloseWindow()
			return
		}
		if rl.IsKeyPressed(rl.KeySpace) {
			a.Running = !a.Running
		}
		if rl.IsKeyPressed(rl.KeyT) {
			a.Typing = true
			a.TextInput = ""
		}
		if rl.IsKeyPressed(rl.KeyP) {
			a.PatternSel = (a.PatternSel + 1) % len(a.Patterns)
			a.Eng.SetFlowTargets(a.Patterns[a.PatternSel], engine.Options{})
		}
		if rl.IsKeyPressed(rl.KeyF) {
			a.AnimSel = (a.AnimSel + 1) % len(a.Anims)
		}
		if rl.IsKeyPressed(rl.KeyS) {
			a.Eng.SnapToTargets()
		}
	}

	// Orbit with right mouse drag, zoom with wheel.
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		a.Yaw += float64(delta.X) * 0.005
		a.Pitch += float64(delta.Y) * 0.005
		limit := math.Pi/2 - 0.05
		if a.Pitch > limit {
			a.Pitch = limit
		}
		if a.Pitch < -limit {
			a.Pitch = -limit
		}
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.Dist -= float64(wheel) * 3.0
		if a.Dist < 10 {
			a.Dist = 10
		}
		if a.Dist > 200 {
			a.Dist = 200
		}
	}

	target := a.eye()
	lerp := float32(8.0 * a.Dt)
	if lerp > 1.0 {
		lerp = 1.0
	}
	a.Camera.Position = rl.Vector3Lerp(a.Camera.Position, target, lerp)

	if a.Running {
		a.Time += a.Dt
		pos := a.Camera.Position
		a.Eng.Update(engine.TickContext{
			Delta:     a.Dt,
			Elapsed:   a.Time,
			MusicTime: a.Time,
			CameraPos: vec3FromRl(pos),
		})
	}
}

func (a *App) updateTyping() {
	for {
		ch := rl.GetCharPressed()
		if ch == 0 {
			break
		}
		if ch >= 32 && ch < 127 && len(a.TextInput) < 24 {
			a.TextInput += string(ch)
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(a.TextInput) > 0 {
		a.TextInput = a.TextInput[:len(a.TextInput)-1]
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.Typing = false
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		if a.TextInput != "" {
			a.Eng.SetText(strings.ToUpper(a.TextInput), engine.Options{
				Animation: a.Anims[a.AnimSel],
			})
		}
		a.Typing = false
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(a.Camera)
	a.RenderCloud()
	rl.EndMode3D()

	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	a.drawText("glyphflow", 30, 30, 24, ColSelect)

	st := a.Eng.GetStats()
	a.drawText(fmt.Sprintf(":: %s", st.PhaseA), 170, 34, 16, ColText)

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	a.drawText(status, 1150, 30, 16, col)

	a.drawText(fmt.Sprintf("conv %.2f  speed %.3f  spread %.1f",
		st.ConvergenceA, st.MeanSpeed, st.Spread), 30, 60, 14, ColText)
	a.drawText(fmt.Sprintf("pattern: %s  formation: %s",
		a.Patterns[a.PatternSel], a.Anims[a.AnimSel]), 30, 80, 14, ColTextDim)

	if a.Typing {
		a.drawText("TEXT> "+a.TextInput+"_", 30, 620, 20, ColAccent)
	}

	a.drawText("[SPACE] PAUSE  [T] TEXT  [P] PATTERN  [F] FORMATION  [S] SNAP  [Q] QUIT", 560, 680, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
