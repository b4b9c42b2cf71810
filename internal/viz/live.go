package viz

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravpaint/internal/level"
	"github.com/san-kum/gravpaint/internal/sim"
	"github.com/san-kum/gravpaint/internal/world"
)

const (
	// Portrait levels fit a 34x30 cell canvas with little slack.
	defaultWidth    = 34
	defaultHeight   = 30
	historyCapacity = 600

	// Rows above the canvas in View; mouse rows are offset by this.
	canvasTop = 1

	// arrowSwipe is the length in level pixels of a keyboard stroke.
	arrowSwipe = 400.0
)

var (
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Italic(true).Width(38)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type ModelOption func(*Model)

func WithLogger(l *log.Logger) ModelOption {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

func WithCanvasSize(w, h int) ModelOption {
	return func(m *Model) {
		if w > 0 && h > 0 {
			m.width, m.height = w, h
		}
	}
}

func WithTheme(name string) ModelOption {
	return func(m *Model) { m.theme = GetTheme(name) }
}

// Model plays one level at a time. Completing a builtin level unlocks "n"
// for the next one in the same mode.
type Model struct {
	logger  *log.Logger
	session *sim.Session
	mode    level.Mode

	width, height int
	canvas        *Canvas
	proj          Projection
	theme         Theme

	running  bool
	showHelp bool
	energy   []float64
	drag     []r2.Vec
	message  string

	recording bool
	frames    []*image.Paletted
}

func NewModel(l *level.Level, mode level.Mode, opts ...ModelOption) (Model, error) {
	m := Model{
		logger: log.New(io.Discard),
		mode:   mode,
		width:  defaultWidth,
		height: defaultHeight,
		theme:  ThemeNeon,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.canvas = NewCanvas(m.width, m.height)

	s, err := sim.NewSession(l, sim.WithLogger(m.logger))
	if err != nil {
		return Model{}, err
	}
	m.session = s
	m.running = true
	m.energy = make([]float64, 0, historyCapacity)
	m.draw()
	return m, nil
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Session() *sim.Session { return m.session }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.session.Close()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.restart()
		case "n":
			m.nextLevel()
		case "t":
			m.theme = m.theme.Next()
		case "?":
			m.showHelp = !m.showHelp
		case "g":
			m.toggleRecording()
		case "up", "k":
			m.arrowStroke(r2.Vec{Y: -1})
		case "down", "j":
			m.arrowStroke(r2.Vec{Y: 1})
		case "left", "h":
			m.arrowStroke(r2.Vec{X: -1})
		case "right", "l":
			m.arrowStroke(r2.Vec{X: 1})
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	if m.session.Outcome().Ended() {
		return
	}
	m.session.Step(world.FixedStep)

	m.energy = append(m.energy, m.session.Frame().Energy)
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
}

func (m *Model) commit(points []r2.Vec) {
	if _, err := m.session.Commit(points); err != nil {
		m.message = err.Error()
		return
	}
	m.message = ""
}

// arrowStroke paints a stroke through the level center along dir.
func (m *Model) arrowStroke(dir r2.Vec) {
	l := m.session.Level()
	c := r2.Vec{X: l.Width / 2, Y: l.Height / 2}
	half := r2.Scale(arrowSwipe/2, dir)
	m.commit([]r2.Vec{r2.Sub(c, half), c, r2.Add(c, half)})
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	p := m.cellToLevel(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.drag = append(m.drag[:0], p)
	case tea.MouseActionMotion:
		if len(m.drag) > 0 {
			m.drag = append(m.drag, p)
		}
	case tea.MouseActionRelease:
		if len(m.drag) == 0 {
			return
		}
		m.drag = append(m.drag, p)
		m.commit(m.drag)
		m.drag = nil
	}
}

// cellToLevel maps a terminal cell to the level point under its center dot.
func (m *Model) cellToLevel(x, y int) r2.Vec {
	return m.proj.Point(x*2+1, (y-canvasTop)*4+2)
}

func (m *Model) restart() {
	if err := m.session.Restart(); err != nil {
		m.message = err.Error()
		return
	}
	m.energy = m.energy[:0]
	m.drag = nil
	m.message = ""
	m.running = true
}

func (m *Model) nextLevel() {
	if m.session.Outcome() != sim.Completed {
		return
	}
	id := m.session.Level().ID
	if id < 0 || id >= level.TotalLevels {
		m.message = "no next level"
		return
	}
	l, err := level.Builtin(id+1, m.mode)
	if err == nil {
		var s *sim.Session
		if s, err = sim.NewSession(l, sim.WithLogger(m.logger)); err == nil {
			m.session.Close()
			m.session = s
			m.energy = m.energy[:0]
			m.message = ""
			return
		}
	}
	m.message = err.Error()
}

func (m *Model) draw() {
	m.proj = DrawScene(m.canvas, m.session.World().Snapshot(), m.session.Level(), m.session.Strokes(), m.theme)
	for i := 1; i < len(m.drag); i++ {
		ax, ay := m.proj.Dot(m.drag[i-1])
		bx, by := m.proj.Dot(m.drag[i])
		m.canvas.DrawLine(ax, ay, bx, by, m.theme.Accent)
	}
}

func (m Model) status() string {
	switch m.session.Outcome() {
	case sim.Completed:
		return StatusPlaying.Render("COMPLETE ") + StarRating(m.session.Stars())
	case sim.Failed:
		return StatusFailed.Render("FAILED")
	}
	if !m.running {
		return StatusPaused.Render("PAUSED")
	}
	if m.recording {
		return StatusFailed.Render("● REC")
	}
	return StatusPlaying.Render("PLAYING")
}

func (m Model) View() string {
	s := m.session
	l := s.Level()

	var b strings.Builder
	b.WriteString(m.status() + "\n\n")
	b.WriteString(valueStyle.Render(s.Objective().Description()) + "\n")
	b.WriteString(ProgressBar(s.Objective().Progress(), 30) + "\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time left", fmt.Sprintf("%.1fs", s.Remaining()))
	row("Strokes", fmt.Sprintf("%d/%d", s.StrokesUsed(), l.MaxStrokes))
	row("In goal", fmt.Sprintf("%d/%d", s.World().GoalCount(), len(l.Spawns)))
	if s.Outcome() == sim.Completed {
		row("Score", fmt.Sprintf("%d", s.Score()))
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		b.WriteString(graphStyle.Render(chart) + "\n")
	}
	if hint := s.TutorialHint(); hint != "" {
		b.WriteString(hintStyle.Render(hint) + "\n")
	}
	if m.message != "" {
		b.WriteString(StatusFailed.Render(m.message) + "\n")
	}
	b.WriteString(helpStyle.Render("SP:Pause R:Restart N:Next Q:Quit\nArrows/Drag:Stroke T:Theme ?:Help"))

	title := headerStyle.Render(fmt.Sprintf("LEVEL %d  %s", l.ID, strings.ToUpper(l.Name)))
	mainView := title + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.String(), statsStyle.Render(b.String()))
	if m.showHelp {
		return helpOverlay + "\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Arrows   - Stroke through center    ║
║  Drag     - Paint a stroke           ║
║  Space    - Pause/Resume             ║
║  R        - Restart level            ║
║  N        - Next level               ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = m.frames[:0]
		return
	}
	m.recording = false
	if err := m.saveGIF("gravpaint.gif"); err != nil {
		m.message = err.Error()
	}
	m.frames = nil
}

// captureFrame rasterizes the braille grid, one 4x4 block per dot.
func (m *Model) captureFrame() {
	const dot = 4
	img := image.NewPaletted(image.Rect(0, 0, m.canvas.DotsX()*dot, m.canvas.DotsY()*dot), color.Palette{color.Black, color.White})
	for y := range m.canvas.DotsY() {
		for x := range m.canvas.DotsX() {
			if !m.canvas.IsSet(x, y) {
				continue
			}
			for py := range dot {
				for px := range dot {
					img.SetColorIndex(x*dot+px, y*dot+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

var errNoFrames = errors.New("viz: nothing recorded")

func (m *Model) saveGIF(path string) error {
	if len(m.frames) == 0 {
		return errNoFrames
	}
	anim := gif.GIF{}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

// RunLive plays a single level full screen with mouse support.
func RunLive(l *level.Level, mode level.Mode, opts ...ModelOption) error {
	m, err := NewModel(l, mode, opts...)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
