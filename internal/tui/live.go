// Package tui prints headless runs to a plain terminal as they happen.
package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravpaint/internal/sim"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

var glyphs = map[string]rune{
	"ball":     'O',
	"box":      '#',
	"triangle": 'A',
	"star":     '*',
	"blob":     '@',
}

// LiveRenderer draws each session step as an ASCII frame. A frameRate of
// zero or less draws every step.
type LiveRenderer struct {
	out           io.Writer
	width, height int
	frameRate     int
	lastFrame     time.Time
	canvas        [][]rune
	frames        int
}

func NewLiveRenderer(out io.Writer, width, height, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		out:       out,
		width:     width,
		height:    height,
		frameRate: frameRate,
		canvas:    canvas,
	}
}

// Frames is how many frames have been written.
func (r *LiveRenderer) Frames() int { return r.frames }

func (r *LiveRenderer) OnStep(s *sim.Session) {
	if r.frameRate > 0 {
		if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
		r.lastFrame = time.Now()
	}

	r.clear()
	r.draw(s)
	r.render(s)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) line(x1, y1, x2, y2 int, c rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		r.set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func (r *LiveRenderer) draw(s *sim.Session) {
	l := s.Level()
	sx := float64(r.width-1) / l.Width
	sy := float64(r.height-1) / l.Height
	cell := func(v r2.Vec) (int, int) {
		return int(math.Round(v.X * sx)), int(math.Round(v.Y * sy))
	}

	snap := s.World().Snapshot()
	if g := snap.Goal; g != nil {
		x0, y0 := cell(g.Min.Vec())
		x1, y1 := cell(g.Max.Vec())
		for x := x0; x <= x1; x++ {
			r.set(x, y0, '=')
			r.set(x, y1, '=')
		}
	}

	for _, o := range l.Obstacles {
		half := r2.Scale(0.5, o.Size.Vec())
		x0, y0 := cell(r2.Sub(o.Position.Vec(), half))
		x1, y1 := cell(r2.Add(o.Position.Vec(), half))
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				r.set(x, y, 'X')
			}
		}
	}

	for _, st := range s.Strokes() {
		for i := 1; i < len(st.Points); i++ {
			ax, ay := cell(st.Points[i-1])
			bx, by := cell(st.Points[i])
			r.line(ax, ay, bx, by, '~')
		}
	}

	for _, o := range snap.Objects {
		for _, p := range o.Trail {
			x, y := cell(p.Vec())
			r.set(x, y, '.')
		}
	}
	for _, o := range snap.Objects {
		g, ok := glyphs[o.Kind]
		if !ok {
			g = 'o'
		}
		x, y := cell(o.Position.Vec())
		r.set(x, y, g)
	}
}

func (r *LiveRenderer) render(s *sim.Session) {
	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "  level %d %s  t=%.2fs  %s\n", s.Level().ID, s.Level().Name, s.Time(), s.Outcome())
	b.WriteString("  +" + strings.Repeat("-", r.width) + "+\n")

	for _, row := range r.canvas {
		b.WriteString("  |")
		b.WriteString(string(row))
		b.WriteString("|\n")
	}

	b.WriteString("  +" + strings.Repeat("-", r.width) + "+\n")
	fmt.Fprintf(&b, "  goal %d/%d  strokes %d  progress %3.0f%%\n",
		s.World().GoalCount(), len(s.Level().Spawns), s.StrokesUsed(), 100*s.Objective().Progress())
	if hint := s.TutorialHint(); hint != "" {
		b.WriteString("  " + hint + "\n")
	}

	io.WriteString(r.out, b.String())
	r.frames++
}

func (r *LiveRenderer) Start() { io.WriteString(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { io.WriteString(r.out, showCursor) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
