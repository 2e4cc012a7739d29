// Package canvas is the reference drawing host for canvas scripts.
//
// A Canvas keeps a pen (position, colour, fill flag) and a display list of
// shapes. Scripts reach it only through the commands returned by
// Commands, dispatched by name through core/command.
package canvas

import (
	"fmt"

	"github.com/KevinPriv/canvas-lang/core/invariant"
)

// Default canvas size
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// Colour is an SVG colour keyword
type Colour string

const (
	Black  Colour = "black"
	White  Colour = "white"
	Red    Colour = "red"
	Green  Colour = "green"
	Blue   Colour = "blue"
	Yellow Colour = "yellow"
)

// Pen is the stroke colour. An Alternate colour makes the pen flash between
// Primary and Alternate.
type Pen struct {
	Primary   Colour
	Alternate Colour
}

// Flashing reports whether the pen alternates between two colours
func (p Pen) Flashing() bool {
	return p.Alternate != ""
}

func (p Pen) String() string {
	if p.Flashing() {
		return fmt.Sprintf("%s/%s", p.Primary, p.Alternate)
	}
	return string(p.Primary)
}

// MaxPen is the highest pen number scripts may select
const MaxPen = 6

// palette maps pen numbers to pens. Pen 0 keeps the current pen.
var palette = [MaxPen + 1]Pen{
	1: {Primary: Red},
	2: {Primary: Green},
	3: {Primary: Blue},
	4: {Primary: Green, Alternate: Blue},
	5: {Primary: Blue, Alternate: Yellow},
	6: {Primary: Black, Alternate: White},
}

// PenNumber returns the pen selected by n. ok is false for 0 and for
// numbers outside the palette.
func PenNumber(n int) (pen Pen, ok bool) {
	if n < 1 || n > MaxPen {
		return Pen{}, false
	}
	return palette[n], true
}

// Kind identifies a shape
type Kind string

const (
	KindLine     Kind = "line"
	KindCircle   Kind = "circle"
	KindRect     Kind = "rect"
	KindTriangle Kind = "triangle"
)

// Point is a canvas coordinate, origin top left
type Point struct {
	X, Y int
}

// Shape is one entry of the display list.
//
// Points holds both ends of a line, the centre of a circle, the top left
// corner of a rectangle or the three vertices of a triangle.
type Shape struct {
	Kind   Kind
	Points []Point
	Radius int
	Width  int
	Height int
	Pen    Pen
	Filled bool
}

// Option configures a Canvas
type Option func(*Canvas)

// WithSize sets the drawing area
func WithSize(width, height int) Option {
	return func(c *Canvas) {
		c.width = width
		c.height = height
	}
}

// WithPen selects the starting pen by number. Numbers outside the palette
// leave the default black pen.
func WithPen(n int) Option {
	return func(c *Canvas) {
		if pen, ok := PenNumber(n); ok {
			c.pen = pen
		}
	}
}

// Canvas is an in-memory drawing surface. It is not safe for concurrent
// use; scripts run single threaded.
type Canvas struct {
	width  int
	height int

	pen    Pen
	fill   bool
	cursor Point
	shapes []Shape
}

// New creates a blank canvas with the pen at the origin
func New(opts ...Option) *Canvas {
	c := &Canvas{
		width:  DefaultWidth,
		height: DefaultHeight,
		pen:    Pen{Primary: Black},
	}
	for _, opt := range opts {
		opt(c)
	}

	invariant.Precondition(c.width > 0 && c.height > 0, "canvas size must be positive, got %dx%d", c.width, c.height)
	return c
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// Position returns the pen position
func (c *Canvas) Position() Point { return c.cursor }

// Pen returns the current pen
func (c *Canvas) Pen() Pen { return c.pen }

// Filled reports whether closed shapes are filled
func (c *Canvas) Filled() bool { return c.fill }

// Shapes returns a copy of the display list in drawing order
func (c *Canvas) Shapes() []Shape {
	result := make([]Shape, len(c.shapes))
	copy(result, c.shapes)
	return result
}

// MoveTo moves the pen without drawing
func (c *Canvas) MoveTo(x, y int) {
	c.cursor = Point{X: x, Y: y}
}

// DrawTo draws a line from the pen to (x, y) and moves the pen there
func (c *Canvas) DrawTo(x, y int) {
	to := Point{X: x, Y: y}
	c.add(Shape{Kind: KindLine, Points: []Point{c.cursor, to}})
	c.cursor = to
}

// Circle draws a circle of radius r centred on the pen
func (c *Canvas) Circle(r int) {
	c.add(Shape{Kind: KindCircle, Points: []Point{c.cursor}, Radius: r, Filled: c.fill})
}

// Rectangle draws a w by h rectangle with its top left corner at the pen
func (c *Canvas) Rectangle(w, h int) {
	c.add(Shape{Kind: KindRect, Points: []Point{c.cursor}, Width: w, Height: h, Filled: c.fill})
}

// Triangle draws the triangle between the pen, (x1, y1) and (x2, y2)
func (c *Canvas) Triangle(x1, y1, x2, y2 int) {
	c.add(Shape{
		Kind:   KindTriangle,
		Points: []Point{c.cursor, {X: x1, Y: y1}, {X: x2, Y: y2}},
		Filled: c.fill,
	})
}

// Clear empties the display list. The pen is untouched.
func (c *Canvas) Clear() {
	c.shapes = nil
}

// Reset moves the pen back to the origin
func (c *Canvas) Reset() {
	c.cursor = Point{}
}

// SetPen selects pen n. Pen 0 keeps the current pen.
func (c *Canvas) SetPen(n int) {
	if pen, ok := PenNumber(n); ok {
		c.pen = pen
	}
}

// SetFill turns filling of closed shapes on or off
func (c *Canvas) SetFill(on bool) {
	c.fill = on
}

func (c *Canvas) add(s Shape) {
	s.Pen = c.pen
	c.shapes = append(c.shapes, s)
}
