package ui

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/specgram/internal/util"
	"github.com/olivier-w/specgram/internal/visualizer"
)

const (
	margin     = 2 // columns left of the plot
	headerRows = 2
	statusRows = 3 // blank, status line, gauge
	gainStep   = 1.0
	offsetStep = 1.0
)

// Options tunes the TUI.
type Options struct {
	View         visualizer.View
	BacklogLimit float64 // seconds at which the gauge is full
	AutoStart    bool
}

// finisher is implemented by sources that can run out of audio or fail
// while feeding.
type finisher interface {
	Finished() bool
	Err() error
}

// screen caches the encoded plot between repaints.
type screen struct {
	blit   *blitter
	canvas *image.RGBA
	out    string
	dirty  bool
	cols   int
	rows   int
	view   visualizer.View
}

func (s *screen) frame(an *visualizer.Analyzer, v visualizer.View, cols, rows int) string {
	if !s.dirty && s.cols == cols && s.rows == rows && s.view == v && s.out != "" {
		return s.out
	}
	an.Render(s.canvas, v)
	s.out = s.blit.Render(s.canvas, cols, rows)
	s.cols, s.rows, s.view = cols, rows, v
	s.dirty = false
	return s.out
}

// Model is the Bubbletea model for the specgram TUI.
type Model struct {
	an    *visualizer.Analyzer
	sched *Scheduler
	keys  keyMap
	help  help.Model
	gauge *gauge
	scr   *screen
	now   func() time.Time

	view         visualizer.View
	backlogLimit float64

	width     int
	height    int
	elapsed   time.Duration // completed running spans
	startedAt time.Time
	message   string
	quitting  bool
}

// New creates a Model around an analyzer whose driver was built with
// sched. The analyzer must already be connected.
func New(an *visualizer.Analyzer, sched *Scheduler, opts Options) Model {
	if opts.BacklogLimit <= 0 {
		opts.BacklogLimit = visualizer.DefaultBacklogLimit
	}
	scr := &screen{
		blit:   newBlitter(detectColorMode()),
		canvas: an.NewCanvas(),
		dirty:  true,
	}
	an.OnRepaint(func() { scr.dirty = true })

	m := Model{
		an:           an,
		sched:        sched,
		keys:         defaultKeys(),
		help:         help.New(),
		gauge:        newGauge(),
		scr:          scr,
		now:          time.Now,
		view:         opts.View,
		backlogLimit: opts.BacklogLimit,
	}
	if opts.AutoStart {
		m.start()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(statusTickCmd(), tea.SetWindowTitle(m.windowTitle()), m.sched.Flush())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.handleMsg(msg)
	return next, tea.Batch(cmd, m.sched.Flush())
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scheduledMsg:
		msg.fn()
		return m, nil

	case statusTickMsg:
		m.gauge.Update(m.an.BacklogSeconds() / m.backlogLimit)
		return m, statusTickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width - margin
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.press(msg.X, msg.Y)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.an.Stop()
		_ = m.an.Close()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case key.Matches(msg, m.keys.Toggle):
		if m.an.IsRunning() {
			m.stop()
		} else {
			m.start()
		}
		return m, tea.SetWindowTitle(m.windowTitle())

	case key.Matches(msg, m.keys.Step):
		if m.an.IsRunning() {
			return m, nil
		}
		if err := m.an.Step(); err != nil {
			m.message = err.Error()
		} else {
			m.message = ""
		}

	case key.Matches(msg, m.keys.View):
		m.view = m.view.Next()

	case key.Matches(msg, m.keys.GainUp):
		m.an.SetGain(m.view, m.an.Params(m.view).DBMax+gainStep)
	case key.Matches(msg, m.keys.GainDown):
		m.an.SetGain(m.view, m.an.Params(m.view).DBMax-gainStep)
	case key.Matches(msg, m.keys.OffsetUp):
		m.an.SetOffset(m.view, m.an.Params(m.view).DBOffset+offsetStep)
	case key.Matches(msg, m.keys.OffsetDown):
		m.an.SetOffset(m.view, m.an.Params(m.view).DBOffset-offsetStep)

	case key.Matches(msg, m.keys.Clear):
		m.an.ClearClick()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) start() {
	m.an.Start()
	m.startedAt = m.now()
	m.message = ""
}

func (m *Model) stop() {
	m.an.Stop()
	m.elapsed += m.now().Sub(m.startedAt)
}

// press forwards a click inside the plot to the analyzer in canvas pixels.
func (m *Model) press(x, y int) {
	cols, rows := m.plotSize()
	col := x - margin
	row := y - headerRows
	if col < 0 || row < 0 || col >= cols || row >= rows {
		return
	}
	cw, ch := m.an.CanvasSize()
	px, py := cellToPixel(col, row, cols, rows, cw, ch)
	m.an.OnMousePress(px, py)
}

// runTime is the total time spent running.
func (m Model) runTime() time.Duration {
	d := m.elapsed
	if m.an.IsRunning() {
		d += m.now().Sub(m.startedAt)
	}
	return d
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w < 30 {
		w = 80
	}
	if h < 10 {
		h = 24
	}
	return w, h
}

// plotSize is the plot area in cells.
func (m Model) plotSize() (int, int) {
	w, h := m.size()
	cols := w - 2*margin
	rows := h - headerRows - statusRows - lipgloss.Height(m.help.View(m.keys))
	if cols < 8 {
		cols = 8
	}
	if rows < 2 {
		rows = 2
	}
	return cols, rows
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	cols, rows := m.plotSize()
	pad := spaces(margin)

	var b strings.Builder
	b.WriteString(pad + headerStyle.Render("specgram") + "  " + titleStyle.Render(m.an.SourceName()) + "\n\n")

	plot := m.scr.frame(m.an, m.view, cols, rows)
	for _, line := range strings.Split(plot, "\n") {
		b.WriteString(pad + line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(pad + m.statusLine(cols) + "\n")
	b.WriteString(pad + m.gaugeLine(cols) + "\n")
	b.WriteString(pad + m.help.View(m.keys))
	return b.String()
}

// sourceErr is the error that stopped the source's feed, if any.
func (m Model) sourceErr() error {
	if f, ok := m.an.Source().(finisher); ok {
		return f.Err()
	}
	return nil
}

func (m Model) state() (icon, text string) {
	if m.sourceErr() != nil {
		return "✖", "failed"
	}
	if m.an.IsRunning() {
		if f, ok := m.an.Source().(finisher); ok && f.Finished() {
			return "■", "ended"
		}
		return "▶", "running"
	}
	return "❚❚", "stopped"
}

func (m Model) statusLine(width int) string {
	icon, text := m.state()
	p := m.an.Params(m.view)

	left := fmt.Sprintf("%s  %s", icon, text)
	switch {
	case m.sourceErr() != nil:
		left = errorStyle.Render(left)
	case m.an.IsRunning():
		left = runningStyle.Render(left)
	default:
		left = statusStyle.Render(left)
	}
	mid := statusStyle.Render(fmt.Sprintf("  %s  gain %.0f dB  offset %+.0f dB", m.view, p.DBMax, p.DBOffset))
	switch err := m.sourceErr(); {
	case err != nil:
		mid += "  " + errorStyle.Render(err.Error())
	case m.message != "":
		mid += "  " + errorStyle.Render(m.message)
	}
	clock := timeStyle.Render(util.FormatDuration(m.runTime()))

	gap := width - lipgloss.Width(left) - lipgloss.Width(mid) - lipgloss.Width(clock)
	if gap < 2 {
		gap = 2
	}
	return left + mid + spaces(gap) + clock
}

func (m Model) gaugeLine(width int) string {
	label := statusStyle.Render("backlog ")
	secs := timeStyle.Render(" " + util.FormatSeconds(m.an.BacklogSeconds()))
	barWidth := width - lipgloss.Width(label) - lipgloss.Width(secs)
	return label + m.gauge.View(barWidth) + secs
}

func (m Model) windowTitle() string {
	icon, _ := m.state()
	return icon + " " + m.an.SourceName() + " · specgram"
}

func spaces(n int) string {
	if n < 0 {
		n = 0
	}
	return strings.Repeat(" ", n)
}
