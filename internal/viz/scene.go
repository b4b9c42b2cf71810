package viz

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravpaint/internal/gravity"
	"github.com/san-kum/gravpaint/internal/level"
	"github.com/san-kum/gravpaint/internal/world"
)

// Projection maps level pixels onto canvas dots with a uniform scale,
// centering the level in whichever axis has slack.
type Projection struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

func NewProjection(c *Canvas, levelW, levelH float64) Projection {
	if levelW <= 0 || levelH <= 0 {
		return Projection{Scale: 1}
	}
	dx, dy := float64(c.DotsX()), float64(c.DotsY())
	s := math.Min(dx/levelW, dy/levelH)
	return Projection{
		Scale:   s,
		OffsetX: (dx - levelW*s) / 2,
		OffsetY: (dy - levelH*s) / 2,
	}
}

func (p Projection) Dot(v r2.Vec) (int, int) {
	return int(math.Round(v.X*p.Scale + p.OffsetX)), int(math.Round(v.Y*p.Scale + p.OffsetY))
}

// Point maps a dot back to level pixels.
func (p Projection) Point(x, y int) r2.Vec {
	return r2.Vec{X: (float64(x) - p.OffsetX) / p.Scale, Y: (float64(y) - p.OffsetY) / p.Scale}
}

func (p Projection) Length(px float64) int { return int(math.Round(px * p.Scale)) }

// DrawScene renders a snapshot. Obstacles come from the level since the
// snapshot only carries dynamic state.
func DrawScene(c *Canvas, snap world.Snapshot, l *level.Level, strokes []*gravity.Stroke, th Theme) Projection {
	c.Clear()
	proj := NewProjection(c, l.Width, l.Height)

	x0, y0 := proj.Dot(r2.Vec{})
	x1, y1 := proj.Dot(r2.Vec{X: l.Width, Y: l.Height})
	c.DrawRect(x0, y0, x1-1, y1-1, th.Wall)

	if g := snap.Goal; g != nil {
		gx0, gy0 := proj.Dot(g.Min.Vec())
		gx1, gy1 := proj.Dot(g.Max.Vec())
		c.DrawRect(gx0, gy0, gx1, gy1, th.Goal)
	}

	for _, o := range l.Obstacles {
		col := th.Wall
		if o.Color != "" {
			col = lipgloss.Color(o.Color)
		}
		cx, cy := proj.Dot(o.Position.Vec())
		if o.Circle {
			c.FillCircle(cx, cy, proj.Length(max(o.Size.X, o.Size.Y)/2), col)
			continue
		}
		drawRotatedRect(c, proj, o.Position.Vec(), o.Size.Vec(), o.Rotation, col)
	}

	for _, f := range snap.Fields {
		from := f.Position.Vec()
		to := r2.Add(from, r2.Scale(f.Radius/2, f.Direction.Vec()))
		ax, ay := proj.Dot(from)
		bx, by := proj.Dot(to)
		c.DrawLine(ax, ay, bx, by, lipgloss.Color(f.Color))
	}

	for _, s := range snap.Surfaces {
		for _, sp := range s.Springs {
			ax, ay := proj.Dot(s.Nodes[sp[0]].Vec())
			bx, by := proj.Dot(s.Nodes[sp[1]].Vec())
			c.DrawLine(ax, ay, bx, by, th.Surface)
		}
	}

	for _, st := range strokes {
		if st.Alpha() <= 0 {
			continue
		}
		for i := 1; i < len(st.Points); i++ {
			ax, ay := proj.Dot(st.Points[i-1])
			bx, by := proj.Dot(st.Points[i])
			c.DrawLine(ax, ay, bx, by, th.Stroke)
		}
	}

	for _, o := range snap.Objects {
		col := lipgloss.Color(o.Color)
		for _, p := range o.Trail {
			tx, ty := proj.Dot(p.Vec())
			c.Set(tx, ty, th.Muted)
		}
		cx, cy := proj.Dot(o.Position.Vec())
		c.FillCircle(cx, cy, proj.Length(world.PixelRadius(o.Size)), col)
	}
	return proj
}

func drawRotatedRect(c *Canvas, proj Projection, center, size r2.Vec, angle float64, col lipgloss.Color) {
	hw, hh := size.X/2, size.Y/2
	corners := [4]r2.Vec{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
	sin, cos := math.Sincos(angle)
	var dots [4][2]int
	for i, k := range corners {
		v := r2.Vec{X: center.X + k.X*cos - k.Y*sin, Y: center.Y + k.X*sin + k.Y*cos}
		dots[i][0], dots[i][1] = proj.Dot(v)
	}
	for i := range dots {
		j := (i + 1) % len(dots)
		c.DrawLine(dots[i][0], dots[i][1], dots[j][0], dots[j][1], col)
	}
}
