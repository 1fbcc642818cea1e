// Package tui is the interactive diagram explorer. Keystrokes move the
// view window; sampling runs off the UI goroutine and results arrive as
// messages, so a slow deep zoom never blocks panning away from it.
package tui

import (
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/san-kum/citsigol/internal/bifurc"
	"github.com/san-kum/citsigol/internal/diagram"
	"github.com/san-kum/citsigol/internal/dynmap"
	"github.com/san-kum/citsigol/internal/viz"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

const (
	panStep    = 0.1
	zoomIn     = 0.5
	zoomOut    = 2.0
	minPlotW   = 40
	minPlotH   = 10
	chromeRows = 7
	chromeCols = 4
)

// resultMsg carries a finished sampling pass into the UI loop.
type resultMsg struct {
	mode       bifurc.Mode
	generation uint64
	res        *bifurc.Result
}

// programSurface forwards controller deliveries to the bubbletea
// program. The program pointer is set once the program exists; earlier
// deliveries are dropped.
type programSurface struct {
	mu   sync.Mutex
	p    *tea.Program
	mode bifurc.Mode
}

func (s *programSurface) attach(p *tea.Program) {
	s.mu.Lock()
	s.p = p
	s.mu.Unlock()
}

func (s *programSurface) PointsReady(generation uint64, res *bifurc.Result) {
	s.mu.Lock()
	p := s.p
	s.mu.Unlock()
	if p != nil {
		p.Send(resultMsg{mode: s.mode, generation: generation, res: res})
	}
}

type model struct {
	mapName string
	mode    bifurc.Mode

	// one controller per mode so toggling keeps both caches warm
	forward *diagram.Controller
	reverse *diagram.Controller

	window bifurc.Window
	home   bifurc.Window

	result   *bifurc.Result
	sampling bool

	width  int
	height int
}

func (m model) controller() *diagram.Controller {
	if m.mode == bifurc.ModeReverse {
		return m.reverse
	}
	return m.forward
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.window.Cols, m.window.Rows = m.resolution()
		m.home.Cols, m.home.Rows = m.window.Cols, m.window.Rows
		m.request()
		return m, nil
	case resultMsg:
		if msg.mode != m.mode {
			return m, nil
		}
		m.result = msg.res
		m.sampling = false
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "escape":
		return m, tea.Quit
	case "left", "h":
		m.window = m.window.Pan(-panStep, 0)
		m.request()
	case "right", "l":
		m.window = m.window.Pan(panStep, 0)
		m.request()
	case "up", "k":
		m.window = m.window.Pan(0, panStep)
		m.request()
	case "down", "j":
		m.window = m.window.Pan(0, -panStep)
		m.request()
	case "+", "=":
		m.window = m.window.Zoom(zoomIn)
		m.request()
	case "-", "_":
		m.window = m.window.Zoom(zoomOut)
		m.request()
	case "m":
		if m.mode == bifurc.ModeForward {
			m.mode = bifurc.ModeReverse
		} else {
			m.mode = bifurc.ModeForward
		}
		m.request()
	case "r":
		m.window = m.home
		m.request()
	}
	return m, nil
}

// request hands the current window to the active controller. A newer
// request supersedes any in-flight pass.
func (m *model) request() {
	m.sampling = true
	m.controller().ViewChanged(m.window)
}

func (m model) plotSize() (w, h int) {
	w = m.width - chromeCols
	h = m.height - chromeRows
	if w < minPlotW {
		w = minPlotW
	}
	if h < minPlotH {
		h = minPlotH
	}
	return w, h
}

func (m model) resolution() (cols, rows int) {
	w, h := m.plotSize()
	return w * 2, h * 4
}

func (m model) View() string {
	plotW, plotH := m.plotSize()

	var b strings.Builder

	status := green.Render("● idle")
	if m.sampling {
		status = yellow.Render("○ sampling")
	}
	b.WriteString(fmt.Sprintf(" %s  %s  %s\n",
		cyan.Render(m.mapName), dim.Render(m.mode.String()), status))

	b.WriteString(dim.Render(fmt.Sprintf(" r ∈ [%.9g, %.9g]   x ∈ [%.9g, %.9g]",
		m.window.RMin, m.window.RMax, m.window.XMin, m.window.XMax)))
	b.WriteString("\n")

	if m.result != nil {
		canvas := viz.Plot(m.result, plotW, plotH)
		b.WriteString(dimmer.Render(" ┌" + strings.Repeat("─", plotW) + "┐\n"))
		plot := strings.Split(strings.TrimRight(canvas.String(), "\n"), "\n")
		for _, line := range plot {
			b.WriteString(dimmer.Render(" │") + white.Render(line) + dimmer.Render("│") + "\n")
		}
		b.WriteString(dimmer.Render(" └" + strings.Repeat("─", plotW) + "┘\n"))

		info := fmt.Sprintf(" depth %d   points %d", m.result.Depth, len(m.result.Points))
		b.WriteString(dim.Render(info))
		if m.result.PrecisionLimited {
			b.WriteString("   " + yellow.Render("precision limit reached"))
		}
		b.WriteString("\n")
	} else {
		for i := 0; i < plotH+3; i++ {
			b.WriteString("\n")
		}
	}

	b.WriteString(dim.Render(" ←→↑↓ pan   +- zoom   m mode   r reset   q quit") + "\n")

	return b.String()
}

// Run opens the explorer on the given map and initial window. It blocks
// until the user quits.
func Run(dm dynmap.Map, cfg bifurc.Config, w bifurc.Window, log *zerolog.Logger) error {
	fwdCfg, revCfg := cfg, cfg
	fwdCfg.Mode = bifurc.ModeForward
	revCfg.Mode = bifurc.ModeReverse

	fwdSurface := &programSurface{mode: bifurc.ModeForward}
	revSurface := &programSurface{mode: bifurc.ModeReverse}

	fwdSampler := bifurc.New(dm, fwdCfg)
	revSampler := bifurc.New(dm, revCfg)
	defer fwdSampler.Close()
	defer revSampler.Close()

	fwd := diagram.NewController(fwdSampler, fwdSurface, log)
	rev := diagram.NewController(revSampler, revSurface, log)
	defer fwd.Close()
	defer rev.Close()

	m := model{
		mapName: dm.Name(),
		mode:    cfg.Mode,
		forward: fwd,
		reverse: rev,
		window:  w,
		home:    w,
		width:   80,
		height:  24,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	fwdSurface.attach(p)
	revSurface.attach(p)

	_, err := p.Run()
	return err
}
