package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/glyphflow/internal/engine"
	"github.com/san-kum/glyphflow/internal/formation"
	"github.com/san-kum/glyphflow/internal/pattern"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	drawStride      = 97 // co-prime with common buffer sizes, avoids banding
)

type TickMsg time.Time

// Model drives the engine at frame rate and renders a projected slice of the
// cloud next to a stats panel.
type Model struct {
	eng    *engine.Engine
	canvas *Canvas
	camera *Camera

	t, dt   float64
	running bool

	patterns   []string
	patternIdx int
	anims      []string
	animIdx    int

	convHistory []float64

	typing    bool
	textInput string

	recording bool
	frames    []*image.Paletted

	showHelp bool
}

func NewModel(eng *engine.Engine, dt float64) Model {
	return Model{
		eng:         eng,
		canvas:      NewCanvas(width, height),
		camera:      NewCamera(),
		dt:          dt,
		running:     true,
		patterns:    pattern.Names(),
		anims:       formation.Names(),
		convHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the engine.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.typing {
			return m.updateTyping(msg), nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "t":
			m.typing = true
			m.textInput = ""
		case "p":
			m.patternIdx = (m.patternIdx + 1) % len(m.patterns)
			m.eng.SetFlowTargets(m.patterns[m.patternIdx], engine.Options{})
		case "f":
			m.animIdx = (m.animIdx + 1) % len(m.anims)
		case "s":
			m.eng.SnapToTargets()
		case "left", "h":
			m.camera.Orbit(-0.1, 0)
		case "right", "l":
			m.camera.Orbit(0.1, 0)
		case "up", "k":
			m.camera.Orbit(0, 0.1)
		case "down", "j":
			m.camera.Orbit(0, -0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m Model) updateTyping(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "enter":
		if m.textInput != "" {
			m.eng.SetText(strings.ToUpper(m.textInput), engine.Options{
				Animation: m.anims[m.animIdx],
			})
		}
		m.typing = false
	case "esc":
		m.typing = false
	case "backspace":
		if len(m.textInput) > 0 {
			m.textInput = m.textInput[:len(m.textInput)-1]
		}
	default:
		if len(msg.String()) == 1 && len(m.textInput) < 24 {
			m.textInput += msg.String()
		}
	}
	return m
}

func (m *Model) step() {
	m.t += m.dt
	m.eng.Update(engine.TickContext{
		Delta:     m.dt,
		Elapsed:   m.t,
		MusicTime: m.t,
		CameraPos: m.camera.Eye(),
	})

	st := m.eng.GetStats()
	m.convHistory = append(m.convHistory, st.ConvergenceA)
	if len(m.convHistory) > historyCapacity {
		m.convHistory = m.convHistory[1:]
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	buf := m.eng.Buffers()
	sw, sh := width*2, height*4
	for i := 0; i < buf.N; i += drawStride {
		x, y, ok := m.camera.Project(buf.PosAt(i), sw, sh)
		if ok {
			m.canvas.Set(x, y)
		}
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	st := m.eng.GetStats()

	var s strings.Builder
	s.WriteString(headerStyle.Render("GLYPHFLOW") + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.recording {
		status += " ● REC"
	}
	s.WriteString(status + "\n\n")

	if len(m.convHistory) > 1 {
		chart := asciigraph.Plot(m.convHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Convergence"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", st.ParticleCount)) + "\n")
	s.WriteString(labelStyle.Render("Phase A") + phaseStyle.Render(st.PhaseA) + "\n")
	if st.SplitIndex < st.ParticleCount {
		s.WriteString(labelStyle.Render("Phase B") + phaseStyle.Render(st.PhaseB) + "\n")
	}
	s.WriteString(labelStyle.Render("Conv A") + valueStyle.Render(ProgressBar(st.ConvergenceA, 10)+fmt.Sprintf(" %.2f", st.ConvergenceA)) + "\n")
	if st.SplitIndex < st.ParticleCount {
		s.WriteString(labelStyle.Render("Conv B") + valueStyle.Render(ProgressBar(st.ConvergenceB, 10)+fmt.Sprintf(" %.2f", st.ConvergenceB)) + "\n")
	}
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%.3f", st.MeanSpeed)) + "\n")
	s.WriteString(labelStyle.Render("Spread") + valueStyle.Render(fmt.Sprintf("%.2f", st.Spread)) + "\n")
	s.WriteString(labelStyle.Render("Pattern") + valueStyle.Render(m.patterns[m.patternIdx]) + "\n")
	s.WriteString(labelStyle.Render("Formation") + valueStyle.Render(m.anims[m.animIdx]) + "\n")

	if m.typing {
		s.WriteString("\n" + promptStyle.Render("TEXT> "+m.textInput+"_") + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause T:Text P:Pattern F:Formation\nS:Snap G:Record ←→↑↓:Orbit ?:Help Q:Quit"))

	canvasView := canvasStyle.Render(m.canvas.String())
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS           ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  T        - Type text, Enter commits ║
║  P        - Cycle flow patterns      ║
║  F        - Cycle formations         ║
║  S        - Snap to targets          ║
║  G        - Toggle GIF recording     ║
║  Arrows   - Orbit camera             ║
║  + / -    - Zoom                     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func (m *Model) captureFrame() {
	charW, charH := 8, 16
	imgW, imgH := width*charW, height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, color.White})
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			r := m.canvas.Cell(row, col)
			if r <= brailleBlank {
				continue
			}
			pat := r - brailleBlank
			dotW, dotH := charW/2, charH/4
			baseX, baseY := col*charW, row*charH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pat&dotBits[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, 1)
						}
					}
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 3)
	}
	f, err := os.Create("glyphflow.gif")
	if err != nil {
		return
	}
	defer f.Close()
	gif.EncodeAll(f, &anim)
}
