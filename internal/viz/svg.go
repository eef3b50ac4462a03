package viz

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/synodic/internal/analysis"
)

// OrbitSVG draws the orbit paths of p as an SVG document of size x size
// pixels, centred on the central mass.
func OrbitSVG(p *analysis.OrbitPortrait, size int, t Theme) string {
	extent := p.Extent() * 1.1
	if extent == 0 {
		extent = 1
	}
	half := float64(size) / 2
	scale := half / extent

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size))

	colors := []string{string(t.Primary), string(t.Warning)}
	for b, path := range p.Paths {
		if len(path) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1" d="M`, colors[b%len(colors)]))
		for i, pt := range path {
			x := half + pt.X*scale
			y := half - pt.Y*scale
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
</svg>`, half, half, string(t.Accent)))
	return sb.String()
}

func SaveOrbitSVG(path string, p *analysis.OrbitPortrait, size int, t Theme) error {
	return os.WriteFile(path, []byte(OrbitSVG(p, size, t)), 0644)
}
