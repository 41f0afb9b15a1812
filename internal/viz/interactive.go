package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/san-kum/spheres/internal/config"
	"github.com/san-kum/spheres/internal/touch"
)

var presetInfo = map[string]string{
	"wallpaper": "radial push, strong tilt",
	"drag":      "grab and drag a ball",
	"classic":   "drag with earth-like tilt",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// field is one editable knob on the config screen.
type field struct {
	name string
	step float64
	ptr  func(*config.Config) *float64
}

var fields = []field{
	{"radius_ratio", 0.01, func(c *config.Config) *float64 { return &c.Balls.RadiusRatio }},
	{"friction_min", 0.05, func(c *config.Config) *float64 { return &c.Balls.FrictionMin }},
	{"friction_max", 0.05, func(c *config.Config) *float64 { return &c.Balls.FrictionMax }},
	{"restitution", 0.05, func(c *config.Config) *float64 { return &c.Balls.Restitution }},
	{"gravity", 0.5, func(c *config.Config) *float64 { return &c.Gravity.Factor }},
	{"smoothing", 0.05, func(c *config.Config) *float64 { return &c.Gravity.Smoothing }},
	{"max_speed", 5, func(c *config.Config) *float64 { return &c.MaxSpeed }},
}

type model struct {
	state, cursor int
	presets       []string
	selected      string
	cfg           *config.Config
	fieldCursor   int
	editing       bool
	editBuf       string
	err           error
	opts          LiveOptions
	logger        *log.Logger
	liveModel     Model
}

func NewInteractiveApp(opts LiveOptions, logger *log.Logger) *model {
	return &model{
		state:   stateMenu,
		presets: config.ListPresets(),
		opts:    opts,
		logger:  logger,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.cfg = config.GetPreset(m.selected)
		m.state, m.fieldCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			if val, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				*fields[m.fieldCursor].ptr(m.cfg) = val
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case "down", "j":
		if m.fieldCursor < len(fields)-1 {
			m.fieldCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, strconv.FormatFloat(*fields[m.fieldCursor].ptr(m.cfg), 'f', -1, 64)
	case "p":
		if m.cfg.Policy == touch.RadialName {
			m.cfg.Policy = touch.DragName
		} else {
			m.cfg.Policy = touch.RadialName
		}
	case "s":
		cmd := m.start()
		return m, cmd
	case "left", "h":
		f := fields[m.fieldCursor]
		*f.ptr(m.cfg) -= f.step
	case "right", "l":
		f := fields[m.fieldCursor]
		*f.ptr(m.cfg) += f.step
	}
	return m, nil
}

func (m *model) start() tea.Cmd {
	if err := m.cfg.Validate(); err != nil {
		m.err = err
		return nil
	}
	sc, err := NewLiveScene(m.cfg, m.opts, m.logger)
	if err != nil {
		m.err = err
		return nil
	}
	opts := m.opts
	opts.DrawRate = m.cfg.DrawRate
	m.liveModel = NewModel(sc, opts)
	m.state, m.err = stateSim, nil
	return m.liveModel.Init()
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("SPHERES") + "\n    " + menuSubtle.Render("touch-reactive bouncing balls") + "\n    " + menuSubtle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-12s", name)), menuDesc.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuIdle.Render(fmt.Sprintf("  %-12s", name)), menuIdle.Render(desc)))
		}
	}
	b.WriteString("\n    " + keyHints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render(strings.ToUpper(m.selected)) + "\n    " + menuSubtle.Render("policy: "+m.cfg.Policy) + "\n    " + menuSubtle.Render("─────────────────────────") + "\n\n")
	for i, f := range fields {
		valStr := fmt.Sprintf("%8.3f", *f.ptr(m.cfg))
		if m.editing && i == m.fieldCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.fieldCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-14s", f.name)), menuDesc.Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", menuIdle.Render(fmt.Sprintf("  %-14s", f.name)), menuIdle.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + barHigh.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHints("j/k", "select", "h/l", "adjust", "p", "policy", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive opens the preset picker and plays the chosen arena.
func RunInteractive(opts LiveOptions, logger *log.Logger) error {
	_, err := tea.NewProgram(NewInteractiveApp(opts, logger), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
