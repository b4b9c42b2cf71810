// Package export renders scenes to SVG.
package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravpaint/internal/level"
	"github.com/san-kum/gravpaint/internal/viz"
	"github.com/san-kum/gravpaint/internal/world"
)

const background = "#0a0a0a"

// CanvasToSVG converts a braille canvas to dots, keeping each cell's color.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.DotsX()) * scale
	height := float64(canvas.DotsY()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	dotRadius := scale * 0.4
	for y := range canvas.DotsY() {
		for x := range canvas.DotsX() {
			if !canvas.IsSet(x, y) {
				continue
			}
			fill := string(canvas.Colors[y/4][x/2])
			if fill == "" {
				fill = "#00ff00"
			}
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius, fill)
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SceneToSVG draws a snapshot in level pixels scaled by scale. Obstacles
// come from the level.
func SceneToSVG(snap world.Snapshot, l *level.Level, scale float64) string {
	if scale <= 0 {
		scale = 1
	}
	w, h := l.Width*scale, l.Height*scale
	px := func(v float64) float64 { return v * scale }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, background)

	if g := snap.Goal; g != nil {
		fmt.Fprintf(&sb, `<rect class="goal" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#64ff64" fill-opacity="0.2" stroke="#64ff64"/>
`, px(g.Min.X), px(g.Min.Y), px(g.Max.X-g.Min.X), px(g.Max.Y-g.Min.Y))
	}

	for _, o := range l.Obstacles {
		fill := o.Color
		if fill == "" {
			fill = "#505064"
		}
		if o.Circle {
			fmt.Fprintf(&sb, `<circle class="obstacle" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, px(o.Position.X), px(o.Position.Y), px(math.Max(o.Size.X, o.Size.Y)/2), fill)
			continue
		}
		fmt.Fprintf(&sb, `<rect class="obstacle" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" transform="rotate(%.2f %.1f %.1f)"/>
`, px(o.Position.X-o.Size.X/2), px(o.Position.Y-o.Size.Y/2), px(o.Size.X), px(o.Size.Y), fill,
			o.Rotation*180/math.Pi, px(o.Position.X), px(o.Position.Y))
	}

	for _, f := range snap.Fields {
		to := r2.Add(f.Position.Vec(), r2.Scale(f.Radius/2, f.Direction.Vec()))
		fmt.Fprintf(&sb, `<circle class="field" cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-opacity="0.4"/>
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>
`, px(f.Position.X), px(f.Position.Y), px(f.Radius), f.Color,
			px(f.Position.X), px(f.Position.Y), px(to.X), px(to.Y), f.Color)
	}

	for _, s := range snap.Surfaces {
		for _, sp := range s.Springs {
			a, b := s.Nodes[sp[0]], s.Nodes[sp[1]]
			fmt.Fprintf(&sb, `<line class="surface" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#00ccff"/>
`, px(a.X), px(a.Y), px(b.X), px(b.Y))
		}
	}

	for _, o := range snap.Objects {
		if len(o.Trail) > 1 {
			sb.WriteString(`<path class="trail" fill="none" stroke-opacity="0.5" stroke="` + o.Color + `" d="M`)
			for i, p := range o.Trail {
				if i > 0 {
					sb.WriteString(" L")
				}
				fmt.Fprintf(&sb, "%.1f,%.1f", px(p.X), px(p.Y))
			}
			sb.WriteString("\"/>\n")
		}
		fmt.Fprintf(&sb, `<circle class="object" data-kind="%s" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, o.Kind, px(o.Position.X), px(o.Position.Y), px(world.PixelRadius(o.Size)), o.Color)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func WriteSVG(out io.Writer, snap world.Snapshot, l *level.Level, scale float64) error {
	_, err := io.WriteString(out, SceneToSVG(snap, l, scale))
	return err
}

func ExportSVG(path string, snap world.Snapshot, l *level.Level, scale float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteSVG(f, snap, l, scale)
}
