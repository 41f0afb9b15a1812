package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/spheres/internal/snapshot"
	"github.com/san-kum/spheres/internal/vec"
)

const background = "#0a0a0a"

// SpritesToSVG draws one snapshot read as an SVG of the given screen size.
// Each ball gets a circle and a spoke showing its orientation.
func SpritesToSVG(sprites []snapshot.Sprite, width, height float64, fill string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s" stroke="%s" stroke-width="1">
`, width, height, width, height, background, fill, background)

	for _, s := range sprites {
		ex := s.Position.X + s.Radius*math.Cos(s.Angle)
		ey := s.Position.Y + s.Radius*math.Sin(s.Angle)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>
<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, s.Position.X, s.Position.Y, s.Radius, s.Position.X, s.Position.Y, ex, ey)
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrackToSVG draws the path of a ball through an arena of the given world
// size. World y points up, so it is flipped for the image.
func TrackToSVG(points []vec.Vec2, arenaW, arenaH, pxPerUnit float64, stroke string) string {
	if len(points) < 2 || arenaW <= 0 || arenaH <= 0 || pxPerUnit <= 0 {
		return ""
	}

	width, height := arenaW*pxPerUnit, arenaH*pxPerUnit

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s" stroke="#444466" stroke-width="2"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, stroke)

	for i, p := range points {
		x := p.X * pxPerUnit
		y := height - p.Y*pxPerUnit

		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
