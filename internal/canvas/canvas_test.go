package canvas

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KevinPriv/canvas-lang/core/command"
	"github.com/KevinPriv/canvas-lang/runtime"
)

func run(t *testing.T, c *Canvas, script string) error {
	t.Helper()
	return runtime.Execute(script, c.Dispatcher())
}

func TestScriptDrawsShapes(t *testing.T) {
	c := New()
	err := run(t, c, `moveto 10, 20
drawto 30, 40
pen 1
circle 5
fill 1
rect 10, 10
triangle 0, 0, 50, 60
`)
	require.NoError(t, err)

	black := Pen{Primary: Black}
	red := Pen{Primary: Red}
	expected := []Shape{
		{Kind: KindLine, Points: []Point{{10, 20}, {30, 40}}, Pen: black},
		{Kind: KindCircle, Points: []Point{{30, 40}}, Radius: 5, Pen: red},
		{Kind: KindRect, Points: []Point{{30, 40}}, Width: 10, Height: 10, Pen: red, Filled: true},
		{Kind: KindTriangle, Points: []Point{{30, 40}, {0, 0}, {50, 60}}, Pen: red, Filled: true},
	}
	if diff := cmp.Diff(expected, c.Shapes()); diff != "" {
		t.Errorf("display list mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Point{30, 40}, c.Position())
	assert.True(t, c.Filled())
}

func TestMethodsDrawThroughCommands(t *testing.T) {
	c := New()
	err := run(t, c, `radius = 10
Method Ring(r)
circle r
Endmethod
While radius < 40
Ring(radius)
radius = radius + 10
Endloop
`)
	require.NoError(t, err)

	var radii []int
	for _, s := range c.Shapes() {
		require.Equal(t, KindCircle, s.Kind)
		radii = append(radii, s.Radius)
	}
	assert.Equal(t, []int{10, 20, 30}, radii)
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		target error
	}{
		{"circle too large", "circle 1000", command.ErrSchemaViolation},
		{"circle arity", "circle 1, 2", command.ErrArgumentCount},
		{"moveto outside canvas", "moveto 641, 0", command.ErrSchemaViolation},
		{"moveto negative", "x = 0 - 1\nmoveto x, 0", command.ErrSchemaViolation},
		{"moveto arity", "moveto 1", command.ErrArgumentCount},
		{"rect past edge", "moveto 600, 400\nrect 50, 10", command.ErrOutOfBounds},
		{"rect negative", "x = 0 - 5\nrect x, 1", command.ErrOutOfBounds},
		{"triangle past edge", "moveto 600, 0\ntriangle 10, 10, 41, 10", command.ErrOutOfBounds},
		{"triangle arity", "triangle 1, 2, 3", command.ErrArgumentCount},
		{"pen out of palette", "pen 7", command.ErrOutOfBounds},
		{"fill not boolean", "fill 2", command.ErrInvalidArgument},
		{"clear takes nothing", "clear 1", command.ErrArgumentCount},
		{"reset takes nothing", "reset 1", command.ErrArgumentCount},
		{"unknown command", "cicle 10", command.ErrInvalidCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(t, New(), tt.script)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestUnknownCommandSuggestion(t *testing.T) {
	err := run(t, New(), "cicle 10")

	var invalid *command.InvalidCommandError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "cicle", invalid.Name)
	assert.Equal(t, "circle", invalid.Suggestion)
}

func TestFailedCommandLeavesCanvas(t *testing.T) {
	c := New()
	err := run(t, c, "circle 5\npen 9\ncircle 6")
	require.Error(t, err)

	require.Len(t, c.Shapes(), 1)
	assert.Equal(t, 5, c.Shapes()[0].Radius)
}

func TestClearAndReset(t *testing.T) {
	c := New()
	require.NoError(t, run(t, c, "moveto 5, 5\ncircle 1\nclear"))
	assert.Empty(t, c.Shapes())
	assert.Equal(t, Point{5, 5}, c.Position(), "clear keeps the pen")

	require.NoError(t, run(t, c, "reset"))
	assert.Equal(t, Point{}, c.Position())
}

func TestPenSelection(t *testing.T) {
	c := New(WithPen(3))
	assert.Equal(t, Pen{Primary: Blue}, c.Pen())

	c.SetPen(0)
	assert.Equal(t, Pen{Primary: Blue}, c.Pen(), "pen 0 keeps the current pen")

	c.SetPen(5)
	assert.True(t, c.Pen().Flashing())
	assert.Equal(t, "blue/yellow", c.Pen().String())

	_, ok := PenNumber(0)
	assert.False(t, ok)
	_, ok = PenNumber(MaxPen + 1)
	assert.False(t, ok)

	assert.Equal(t, Pen{Primary: Black}, New(WithPen(42)).Pen())
}

func TestFillAcceptsWords(t *testing.T) {
	c := New()
	fill, ok := c.Registry().Lookup("fill")
	require.True(t, ok)

	require.NoError(t, fill.Execute(context.Background(), []string{"on"}))
	assert.True(t, c.Filled())
	require.NoError(t, fill.Execute(context.Background(), []string{"OFF"}))
	assert.False(t, c.Filled())
}

func TestRegistry(t *testing.T) {
	reg := New().Registry()

	rect, ok := reg.Lookup("rect")
	require.True(t, ok)
	assert.Equal(t, "rectangle", rect.Name())

	for _, cmd := range reg.Commands() {
		d, ok := cmd.(command.Describer)
		require.True(t, ok, cmd.Name())
		assert.NotEmpty(t, d.Usage(), cmd.Name())
	}
}

func TestSVG(t *testing.T) {
	c := New(WithSize(100, 50))
	require.NoError(t, run(t, c, `moveto 10, 10
circle 5
pen 4
drawto 20, 20
`))

	expected := `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50" viewBox="0 0 100 50">
  <rect width="100%" height="100%" fill="white"/>
  <circle cx="10" cy="10" r="5" stroke="black" fill="none"/>
  <line x1="10" y1="10" x2="20" y2="20" stroke="green" fill="none">
    <animate attributeName="stroke" values="green;blue" dur="1s" calcMode="discrete" repeatCount="indefinite"/>
  </line>
</svg>
`
	if diff := cmp.Diff(expected, c.SVG()); diff != "" {
		t.Errorf("SVG mismatch (-want +got):\n%s", diff)
	}
}

func TestSVGFilledShapes(t *testing.T) {
	c := New(WithSize(100, 100))
	c.SetFill(true)
	c.SetPen(2)
	c.Rectangle(4, 6)
	c.Triangle(10, 0, 0, 10)

	svg := c.SVG()
	assert.Contains(t, svg, `<rect x="0" y="0" width="4" height="6" stroke="green" fill="green"/>`)
	assert.Contains(t, svg, `<polygon points="0,0 10,0 0,10" stroke="green" fill="green"/>`)
}

func TestNewRejectsEmptyCanvas(t *testing.T) {
	assert.Panics(t, func() { New(WithSize(0, 10)) })
}
