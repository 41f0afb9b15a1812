package viz

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spheres/internal/config"
	"github.com/san-kum/spheres/internal/export"
	"github.com/san-kum/spheres/internal/scene"
	"github.com/san-kum/spheres/internal/vec"
)

const (
	historyCapacity = 300

	// tiltStep and tiltMax are in accelerometer units (m/s²).
	tiltStep = 2.0
	tiltMax  = 9.8

	// the canvas is offset by canvasStyle's padding
	padLeft = 2
	padTop  = 1
)

type TickMsg time.Time

// LiveOptions size the arena on screen. Cols and Rows are the braille cell
// size of the canvas in landscape; portrait rotations swap them.
type LiveOptions struct {
	Cols      int
	Rows      int
	DrawRate  float64
	Theme     string
	ExportDir string
}

func DefaultLiveOptions() LiveOptions {
	return LiveOptions{Cols: 48, Rows: 18, DrawRate: 25, ExportDir: "."}
}

// SurfaceSize is the landscape surface in dots, the unit the scene treats as
// screen pixels.
func (o LiveOptions) SurfaceSize() (width, height int) {
	return o.Cols * 2, o.Rows * 4
}

// Scale fits an arena twelve world units tall onto the surface.
func (o LiveOptions) Scale() float64 {
	_, h := o.SurfaceSize()
	return float64(h) / 12
}

// Model is the live terminal host: it drives the scene at the draw rate,
// turns mouse input into touches and arrow keys into device tilt, and draws
// the published sprites.
type Model struct {
	scene    *scene.Scene
	opts     LiveOptions
	canvas   *Canvas
	running  bool
	pressed  bool
	tilt     vec.Vec2
	energy   []float64
	stats    scene.Stats
	theme    Theme
	showHelp bool
	message  string
}

func NewModel(sc *scene.Scene, opts LiveOptions) Model {
	m := Model{
		scene:   sc,
		opts:    opts,
		running: true,
		energy:  make([]float64, 0, historyCapacity),
		theme:   GetTheme(opts.Theme),
	}
	m.resizeCanvas()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	period := time.Duration(float64(time.Second) / m.opts.DrawRate)
	return tea.Tick(period, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "up", "k":
		m.addTilt(vec.Vec2{Y: -tiltStep})
	case "down", "j":
		m.addTilt(vec.Vec2{Y: tiltStep})
	case "left", "h":
		m.addTilt(vec.Vec2{X: -tiltStep})
	case "right", "l":
		m.addTilt(vec.Vec2{X: tiltStep})
	case "0":
		m.tilt = vec.Vec2{}
		m.applyTilt()
	case "o":
		m.scene.SetRotation(m.scene.Mapper().Rotation.Next())
		m.resizeCanvas()
		m.applyTilt()
	case "t":
		names := ThemeNames()
		for i, name := range names {
			if name == m.theme.Name {
				m.theme = GetTheme(names[(i+1)%len(names)])
				break
			}
		}
	case "e":
		m.exportSVG()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	p := cellToScreen(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.pressed = true
		m.scene.TouchDown(p)
	case tea.MouseActionMotion:
		if m.pressed {
			m.scene.TouchMove(p)
		}
	case tea.MouseActionRelease:
		if m.pressed {
			m.pressed = false
			m.scene.TouchUp(p)
		}
	}
}

// cellToScreen maps a terminal cell to the centre of its dots on the canvas.
func cellToScreen(x, y int) vec.Vec2 {
	return vec.Vec2{
		X: float64((x-padLeft)*2 + 1),
		Y: float64((y-padTop)*4 + 2),
	}
}

// addTilt tips the device toward a screen direction.
func (m *Model) addTilt(d vec.Vec2) {
	m.tilt = m.tilt.Add(d).ClampLength(tiltMax)
	m.applyTilt()
}

// applyTilt converts the screen-space tilt into the raw accelerometer sample
// the device would report in the current rotation.
func (m *Model) applyTilt() {
	mp := m.scene.Mapper()
	g, _ := mp.ToWorld(m.tilt).Sub(mp.ToWorld(vec.Vec2{})).Normalize()
	g = g.Scale(m.tilt.Length())
	m.scene.Tilt(-g.Y, g.X)
}

func (m *Model) step() {
	if err := m.scene.Update(); err != nil {
		m.message = err.Error()
		return
	}
	st, err := m.scene.Stats()
	if err != nil {
		return
	}
	m.stats = st
	m.energy = append(m.energy, st.KineticEnergy)
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
}

func (m *Model) resizeCanvas() {
	cols, rows := m.opts.Cols, m.opts.Rows
	if m.scene.Mapper().Rotation.Portrait() {
		w, h := m.opts.SurfaceSize()
		cols, rows = (h+1)/2, (w+3)/4
	}
	m.canvas = NewCanvas(cols, rows)
}

func (m *Model) exportSVG() {
	mp := m.scene.Mapper()
	w, h := mp.ScreenSize()
	svg := export.SpritesToSVG(m.scene.Sprites(), w, h, string(m.theme.Balls))
	path := filepath.Join(m.opts.ExportDir, fmt.Sprintf("spheres_%d.svg", time.Now().Unix()))
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		m.message = err.Error()
		return
	}
	m.message = "saved " + path
}

// draw renders the published sprites, the only state the view reads.
func (m *Model) draw() {
	m.canvas.Clear()
	w, h := m.scene.Mapper().ScreenSize()
	m.canvas.DrawRect(0, 0, int(w)-1, int(h)-1)
	for _, s := range m.scene.Sprites() {
		cx, cy := int(math.Round(s.Position.X)), int(math.Round(s.Position.Y))
		m.canvas.DrawCircle(cx, cy, int(math.Round(s.Radius)))
		m.canvas.DrawSpoke(cx, cy, s.Radius, s.Angle)
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Foreground(m.theme.Balls).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Foreground(m.theme.Accent).Render("SPHERES") + "\n")
	if m.running {
		s.WriteString(statusRunning.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(statusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	mp := m.scene.Mapper()
	g := m.scene.Gravity()
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Foreground(m.theme.Text).Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", float64(m.stats.Tick)/m.opts.DrawRate))
	row("Balls", fmt.Sprintf("%d", m.scene.BallCount()))
	row("Policy", m.scene.PolicyName())
	row("Rotation", mp.Rotation.String())
	row("Arena", fmt.Sprintf("%.1f x %.1f", m.stats.Width, m.stats.Height))
	row("Energy", fmt.Sprintf("%.3f", m.stats.KineticEnergy))
	row("Peak", fmt.Sprintf("%.2f u/s", m.stats.PeakSpeed))
	row("Gravity", fmt.Sprintf("(%.1f, %.1f)", g.X, g.Y))
	s.WriteString(labelStyle.Render("Tilt") + LevelBar(m.tilt.Length()/tiltMax, 16) + "\n")
	if !m.stats.Contained {
		row("Contained", "no")
	}
	if m.message != "" {
		s.WriteString("\n" + valueStyle.Render(m.message) + "\n")
	}

	s.WriteString(helpStyle.Foreground(m.theme.Muted).Render("─────────────────────") + "\n")
	s.WriteString(keyHints("SP", "pause", "O", "rotate", "Q", "quit") + "\n")
	s.WriteString(keyHints("←↑↓→", "tilt", "0", "level", "E", "svg") + "\n")
	s.WriteString(keyHints("T", "theme", "?", "help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.BorderForeground(m.theme.Walls).Render(s.String()))
	if m.showHelp {
		return mainView + "\n" + helpText
	}
	return mainView
}

const helpText = `
  Mouse      touch the arena (press, drag, release)
  Arrows/hjkl tilt the device toward that edge
  0          level the device
  O          rotate the device 90°
  Space      pause/resume
  E          export the current frame as SVG
  T          cycle themes
  Q          quit
`

// RunLive plays sc in the terminal until the user quits.
func RunLive(sc *scene.Scene, opts LiveOptions) error {
	_, err := tea.NewProgram(NewModel(sc, opts), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// NewLiveScene builds a scene from cfg sized to the live canvas.
func NewLiveScene(cfg *config.Config, opts LiveOptions, logger *log.Logger) (*scene.Scene, error) {
	so, err := cfg.SceneOptions()
	if err != nil {
		return nil, err
	}
	so.Scale = opts.Scale()
	sc, err := scene.New(so, logger)
	if err != nil {
		return nil, err
	}
	w, h := opts.SurfaceSize()
	if _, err := sc.Resize(w, h); err != nil {
		return nil, err
	}
	return sc, nil
}
