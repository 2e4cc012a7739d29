package canvas

import (
	"fmt"
	"io"
	"strings"
)

// flashPeriod is the duration of one flashing pen cycle
const flashPeriod = "1s"

// WriteSVG renders the display list as a standalone SVG document
func (c *Canvas) WriteSVG(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		c.width, c.height, c.width, c.height)
	b.WriteString(`  <rect width="100%" height="100%" fill="white"/>` + "\n")

	for _, s := range c.shapes {
		writeShape(&b, s)
	}
	b.WriteString("</svg>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// SVG returns the rendered document
func (c *Canvas) SVG() string {
	var b strings.Builder
	_ = c.WriteSVG(&b)
	return b.String()
}

func writeShape(b *strings.Builder, s Shape) {
	var element, geometry string
	switch s.Kind {
	case KindLine:
		element = "line"
		geometry = fmt.Sprintf(`x1="%d" y1="%d" x2="%d" y2="%d"`, s.Points[0].X, s.Points[0].Y, s.Points[1].X, s.Points[1].Y)
	case KindCircle:
		element = "circle"
		geometry = fmt.Sprintf(`cx="%d" cy="%d" r="%d"`, s.Points[0].X, s.Points[0].Y, s.Radius)
	case KindRect:
		element = "rect"
		geometry = fmt.Sprintf(`x="%d" y="%d" width="%d" height="%d"`, s.Points[0].X, s.Points[0].Y, s.Width, s.Height)
	case KindTriangle:
		element = "polygon"
		points := make([]string, len(s.Points))
		for i, p := range s.Points {
			points[i] = fmt.Sprintf("%d,%d", p.X, p.Y)
		}
		geometry = fmt.Sprintf(`points="%s"`, strings.Join(points, " "))
	default:
		return
	}

	fill := "none"
	if s.Filled {
		fill = string(s.Pen.Primary)
	}

	fmt.Fprintf(b, `  <%s %s stroke="%s" fill="%s"`, element, geometry, s.Pen.Primary, fill)
	if !s.Pen.Flashing() {
		b.WriteString("/>\n")
		return
	}

	b.WriteString(">\n")
	writeFlash(b, "stroke", s.Pen)
	if s.Filled {
		writeFlash(b, "fill", s.Pen)
	}
	fmt.Fprintf(b, "  </%s>\n", element)
}

func writeFlash(b *strings.Builder, attribute string, pen Pen) {
	fmt.Fprintf(b, `    <animate attributeName="%s" values="%s;%s" dur="%s" calcMode="discrete" repeatCount="indefinite"/>`+"\n",
		attribute, pen.Primary, pen.Alternate, flashPeriod)
}
