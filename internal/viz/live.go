package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/hrsim/internal/neuron"
	"github.com/san-kum/hrsim/internal/plugin"
	"github.com/san-kum/hrsim/internal/stimulus"
)

const (
	canvasWidth     = 40
	canvasHeight    = 16
	historyCapacity = 600
	frameRate       = 30
)

// tunables are the parameters the view lets the user adjust, with the
// additive step for one key press.
var tunables = []struct {
	key  string
	step float64
}{
	{neuron.KeyE, 0.05},
	{neuron.InputSynaptic, 0.05},
	{neuron.KeyMu, 0.0005},
	{neuron.KeyS, 0.1},
}

type TickMsg time.Time

// Live is the bubbletea model of the interactive view.
type Live struct {
	node   *plugin.Instance
	stim   stimulus.Stimulus
	period float64

	// ticksPerFrame host ticks are processed for each rendered frame.
	ticksPerFrame int

	tick     uint64
	input    float64
	extra    float64
	running  bool
	selected int
	theme    Theme
	canvas   *Canvas

	trace []float64
	xs    []float64
	zs    []float64
	err   error
}

// NewLive builds a view over node. stim may be nil; the i_syn tunable is
// added to whatever it produces.
func NewLive(node *plugin.Instance, stim stimulus.Stimulus, periodSeconds float64, ticksPerFrame int) *Live {
	if stim == nil {
		stim = stimulus.None{}
	}
	if ticksPerFrame < 1 {
		ticksPerFrame = 1
	}
	return &Live{
		node:          node,
		stim:          stim,
		period:        periodSeconds,
		ticksPerFrame: ticksPerFrame,
		running:       true,
		theme:         Themes[0],
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		trace:         make([]float64, 0, historyCapacity),
		xs:            make([]float64, 0, historyCapacity),
		zs:            make([]float64, 0, historyCapacity),
	}
}

func (m *Live) Init() tea.Cmd { return nextFrame() }

func nextFrame() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.restart()
		case "tab":
			m.selected = (m.selected + 1) % len(tunables)
		case "up", "k":
			m.adjust(1)
		case "down", "j":
			m.adjust(-1)
		case "t":
			m.theme = NextTheme(m.theme.Name)
		}
	case TickMsg:
		if m.running {
			m.advance(m.ticksPerFrame)
		}
		return m, nextFrame()
	}
	return m, nil
}

// advance processes n host ticks and records the last sample of each.
func (m *Live) advance(n int) {
	for i := 0; i < n; i++ {
		t := float64(m.tick) * m.period
		var u float64
		if fb, ok := m.stim.(stimulus.Feedback); ok {
			u = fb.Respond(t, m.node.Output(neuron.OutputX))
		} else {
			u = m.stim.Current(t)
		}
		m.input = u + m.extra
		m.node.SetInput(neuron.InputSynaptic, m.input)
		m.node.Process(m.tick, m.period)
		m.tick++
	}

	snap := m.node.Snapshot()
	m.trace = pushBounded(m.trace, snap.State.X*1000)
	m.xs = pushBounded(m.xs, snap.State.X)
	m.zs = pushBounded(m.zs, snap.State.Z)
	if err := m.node.Fault(); err != nil {
		m.err = err
		m.running = false
	}
}

func pushBounded(buf []float64, v float64) []float64 {
	if len(buf) == historyCapacity {
		copy(buf, buf[1:])
		buf = buf[:len(buf)-1]
	}
	return append(buf, v)
}

func (m *Live) adjust(dir float64) {
	t := tunables[m.selected]
	if t.key == neuron.InputSynaptic {
		m.extra += dir * t.step
		return
	}
	cur := m.node.GetParams()[t.key]
	if err := m.node.SetParam(t.key, cur+dir*t.step); err != nil {
		m.err = err
	}
}

func (m *Live) restart() {
	m.node.Restart()
	m.tick = 0
	m.trace = m.trace[:0]
	m.xs = m.xs[:0]
	m.zs = m.zs[:0]
	m.err = nil
	m.running = true
}

// value reports the current setting of a tunable.
func (m *Live) value(key string) float64 {
	if key == neuron.InputSynaptic {
		return m.extra
	}
	return m.node.GetParams()[key]
}

func (m *Live) View() string {
	th := m.theme
	title := lipgloss.NewStyle().Bold(true).Foreground(th.Accent)
	label := lipgloss.NewStyle().Foreground(th.Muted).Width(10)
	value := lipgloss.NewStyle().Foreground(th.Text)
	active := lipgloss.NewStyle().Foreground(th.Accent).Bold(true)

	var s strings.Builder
	s.WriteString(title.Render(strings.ToUpper(m.node.Variant().Name)) + "\n")

	status := lipgloss.NewStyle().Bold(true).Foreground(th.Trace).Render("RUNNING")
	if m.err != nil {
		status = lipgloss.NewStyle().Bold(true).Foreground(th.Warn).Render("FAULT: " + m.err.Error())
	} else if !m.running {
		status = lipgloss.NewStyle().Bold(true).Foreground(th.Warn).Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	s.WriteString(label.Render("tick") + value.Render(fmt.Sprintf("%d", m.tick)) + "\n")
	s.WriteString(label.Render("host t") + value.Render(fmt.Sprintf("%.3fs", float64(m.tick)*m.period)) + "\n")
	s.WriteString(label.Render("i_syn") + value.Render(fmt.Sprintf("%+.3f", m.input)) + "\n")
	if n := len(m.trace); n > 0 {
		s.WriteString(label.Render("V") + value.Render(fmt.Sprintf("%+.1f mV", m.trace[n-1])) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	for i, t := range tunables {
		line := fmt.Sprintf("%-6s %+.4f", t.key, m.value(t.key))
		if i == m.selected {
			s.WriteString(active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + value.Render(line) + "\n")
		}
	}
	s.WriteString(lipgloss.NewStyle().Foreground(th.Muted).Render(
		"\nSP:pause R:restart TAB:select ↑↓:tune T:theme Q:quit"))

	m.canvas.Clear()
	m.canvas.Trajectory(m.xs, m.zs)
	phase := lipgloss.NewStyle().Foreground(th.Phase).Padding(1, 2).Render(
		"x-z plane\n" + m.canvas.String())

	side := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(th.Muted).
		Padding(1, 2).
		Width(36).
		Render(s.String())

	top := lipgloss.JoinHorizontal(lipgloss.Top, phase, side)
	if len(m.trace) < 2 {
		return top
	}
	chart := asciigraph.Plot(m.trace,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("membrane potential (mV)"))
	return lipgloss.JoinVertical(lipgloss.Left, top,
		lipgloss.NewStyle().Foreground(th.Trace).Render(chart))
}

// RunLive starts the interactive view on the terminal.
func RunLive(node *plugin.Instance, stim stimulus.Stimulus, periodSeconds float64, ticksPerFrame int) error {
	p := tea.NewProgram(NewLive(node, stim, periodSeconds, ticksPerFrame), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
