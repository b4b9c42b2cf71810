package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/san-kum/gravpaint/internal/level"
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

const (
	// menuRows is how many levels the picker shows at once.
	menuRows     = 14
	randomChoice = level.TotalLevels + 1
)

var (
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	idleDesc    = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	appTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	appSubtitle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
)

type setting struct {
	name string
	// format renders the current value; adjust moves it by one notch.
	format func(*app) string
	adjust func(*app, int)
}

var settings = []setting{
	{"mode", func(a *app) string { return a.mode.String() }, func(a *app, d int) {
		a.mode = level.Mode((int(a.mode) + d + 3) % 3)
	}},
	{"gravity", func(a *app) string { return fmt.Sprintf("%.1fx", a.gravity) }, func(a *app, d int) {
		a.gravity = max(0.1, a.gravity+0.1*float64(d))
	}},
	{"difficulty", func(a *app) string { return fmt.Sprintf("%d", a.difficulty) }, func(a *app, d int) {
		a.difficulty = min(max(a.difficulty+d, 1), 10)
	}},
	{"seed", func(a *app) string { return fmt.Sprintf("%d", a.seed) }, func(a *app, d int) {
		a.seed = uint64(max(int64(a.seed)+int64(d), 0))
	}},
}

// app is the level picker wrapped around a Model.
type app struct {
	logger  *log.Logger
	state   int
	cursor  int
	setting int

	mode       level.Mode
	gravity    float64
	difficulty int
	seed       uint64

	message string
	live    Model
}

func NewInteractiveApp(logger *log.Logger) *app {
	return &app{
		logger:     logger,
		state:      stateMenu,
		mode:       level.Medium,
		gravity:    1,
		difficulty: 3,
		seed:       1,
	}
}

func (a app) Init() tea.Cmd { return nil }

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state == stateSim {
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		if a.state == stateMenu {
			return a.menuKey(key)
		}
		return a.configKey(key)
	}
	return a, nil
}

func (a app) menuKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		a.cursor = max(a.cursor-1, 0)
	case "down", "j":
		a.cursor = min(a.cursor+1, randomChoice)
	case "enter", " ":
		a.state, a.setting, a.message = stateConfig, 0, ""
	}
	return a, nil
}

func (a app) visibleSettings() []setting {
	if a.cursor == randomChoice {
		return settings
	}
	return settings[:2]
}

func (a app) configKey(msg tea.KeyMsg) (app, tea.Cmd) {
	visible := a.visibleSettings()
	switch msg.String() {
	case "q", "esc":
		a.state = stateMenu
	case "up", "k":
		a.setting = max(a.setting-1, 0)
	case "down", "j":
		a.setting = min(a.setting+1, len(visible)-1)
	case "left", "h":
		visible[a.setting].adjust(&a, -1)
	case "right", "l":
		visible[a.setting].adjust(&a, 1)
	case "s", "enter":
		cmd := a.start()
		return a, cmd
	}
	return a, nil
}

func (a *app) selectedLevel() (*level.Level, error) {
	var l *level.Level
	if a.cursor == randomChoice {
		l = level.Random(a.difficulty, a.seed)
	} else {
		var err error
		if l, err = level.Builtin(a.cursor, a.mode); err != nil {
			return nil, err
		}
	}
	l.GravityScale *= a.gravity
	return l, nil
}

func (a *app) start() tea.Cmd {
	l, err := a.selectedLevel()
	if err == nil {
		a.live, err = NewModel(l, a.mode, WithLogger(a.logger))
	}
	if err != nil {
		a.message = err.Error()
		return nil
	}
	a.state = stateSim
	return a.live.Init()
}

func (a app) View() string {
	switch a.state {
	case stateConfig:
		return a.viewConfig()
	case stateSim:
		return a.live.View()
	}
	return a.viewMenu()
}

func entryName(i int) (string, string) {
	switch {
	case i == 0:
		return "tutorial", "learn to paint gravity"
	case i == randomChoice:
		return "random", "seeded level"
	}
	return fmt.Sprintf("level %02d", i), fmt.Sprintf("difficulty %d", level.Difficulty(i))
}

func keyHints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (a app) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + appTitle.Render("GRAVPAINT") + "\n    " + appSubtitle.Render("paint gravity, guide the shapes") + "\n    " + appSubtitle.Render("─────────────────────────") + "\n\n")

	first := min(max(a.cursor-menuRows/2, 0), randomChoice+1-menuRows)
	for i := first; i < first+menuRows; i++ {
		name, desc := entryName(i)
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-12s", name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-12s", name)), idleDesc.Render(desc)))
		}
	}
	b.WriteString("\n    " + keyHints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (a app) viewConfig() string {
	name, desc := entryName(a.cursor)
	var b strings.Builder
	b.WriteString("\n\n    " + appTitle.Render(strings.ToUpper(name)) + "\n    " + appSubtitle.Render(desc) + "\n    " + appSubtitle.Render("─────────────────────────") + "\n\n")

	for i, s := range a.visibleSettings() {
		val := fmt.Sprintf("%8s", s.format(&a))
		if i == a.setting {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-10s", s.name)), descStyle.Bold(true).Render(val)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-10s", s.name)), idleDesc.Render(val)))
		}
	}
	if a.message != "" {
		b.WriteString("\n    " + StatusFailed.Render(a.message) + "\n")
	}
	b.WriteString("\n    " + keyHints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive opens the level picker.
func RunInteractive(logger *log.Logger) error {
	_, err := tea.NewProgram(NewInteractiveApp(logger), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
