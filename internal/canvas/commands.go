package canvas

import (
	"context"
	"fmt"

	"github.com/KevinPriv/canvas-lang/core/command"
)

// Commands returns the drawing commands bound to c, in registration order.
// Coordinate bounds are read from the canvas at execution time, so commands
// bounded by the pen position see where the pen is when they run.
func (c *Canvas) Commands() []command.Command {
	return []command.Command{
		command.New("circle", nil, c.circle,
			command.WithUsage("circle r: circle of radius r centred on the pen"),
			command.WithSchema(command.Schema{
				"type":  "array",
				"items": coordinate(c.width),
			})),
		command.New("moveto", nil, c.moveTo,
			command.WithUsage("moveto x,y: move the pen"),
			command.WithSchema(pointSchema(c.width, c.height))),
		command.New("drawto", nil, c.drawTo,
			command.WithUsage("drawto x,y: draw a line from the pen and move it"),
			command.WithSchema(pointSchema(c.width, c.height))),
		command.New("rectangle", []string{"rect"}, c.rectangle,
			command.WithUsage("rectangle w,h: rectangle with its top left corner at the pen")),
		command.New("triangle", nil, c.triangle,
			command.WithUsage("triangle x1,y1,x2,y2: triangle between the pen and two points")),
		command.New("clear", nil, c.clear,
			command.WithUsage("clear: erase the drawing")),
		command.New("reset", nil, c.reset,
			command.WithUsage("reset: move the pen to the origin")),
		command.New("pen", nil, c.penCommand,
			command.WithUsage(fmt.Sprintf("pen c: select pen 1-%d, 0 keeps the current pen", MaxPen))),
		command.New("fill", nil, c.fillCommand,
			command.WithUsage("fill on|off: fill closed shapes")),
	}
}

// Registry returns a registry holding c's commands
func (c *Canvas) Registry() *command.Registry {
	return command.NewRegistry(c.Commands()...)
}

// Dispatcher returns a dispatcher that draws on c
func (c *Canvas) Dispatcher() *command.RegistryDispatcher {
	return command.NewDispatcher(c.Registry())
}

func coordinate(limit int) command.Schema {
	return command.Schema{"type": "integer", "minimum": 0, "maximum": limit}
}

func pointSchema(width, height int) command.Schema {
	return command.Schema{
		"type":        "array",
		"prefixItems": []any{coordinate(width), coordinate(height)},
	}
}

// intArgs checks the argument count, then validates args[i] against
// ranges[i]
func intArgs(args []string, ranges ...command.IntRange) ([]int, error) {
	if err := command.ExpectArgs(args, len(ranges)); err != nil {
		return nil, err
	}

	values := make([]int, len(ranges))
	for i, r := range ranges {
		v, err := r.Validate(args[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		values[i] = v
	}
	return values, nil
}

func (c *Canvas) circle(_ context.Context, args []string) error {
	if err := command.ExpectArgs(args, 1); err != nil {
		return err
	}
	r, err := command.ValidateAll[int](command.IntRange{Max: c.width}, args)
	if err != nil {
		return err
	}
	c.Circle(r[0])
	return nil
}

func (c *Canvas) moveTo(_ context.Context, args []string) error {
	v, err := intArgs(args, command.IntRange{Max: c.width}, command.IntRange{Max: c.height})
	if err != nil {
		return err
	}
	c.MoveTo(v[0], v[1])
	return nil
}

func (c *Canvas) drawTo(_ context.Context, args []string) error {
	v, err := intArgs(args, command.IntRange{Max: c.width}, command.IntRange{Max: c.height})
	if err != nil {
		return err
	}
	c.DrawTo(v[0], v[1])
	return nil
}

func (c *Canvas) rectangle(_ context.Context, args []string) error {
	v, err := intArgs(args,
		command.IntRange{Max: c.width - c.cursor.X},
		command.IntRange{Max: c.height - c.cursor.Y})
	if err != nil {
		return err
	}
	c.Rectangle(v[0], v[1])
	return nil
}

func (c *Canvas) triangle(_ context.Context, args []string) error {
	xs := command.IntRange{Max: c.width - c.cursor.X}
	ys := command.IntRange{Max: c.height - c.cursor.Y}

	v, err := intArgs(args, xs, ys, xs, ys)
	if err != nil {
		return err
	}
	c.Triangle(v[0], v[1], v[2], v[3])
	return nil
}

func (c *Canvas) clear(_ context.Context, args []string) error {
	if err := command.ExpectArgs(args, 0); err != nil {
		return err
	}
	c.Clear()
	return nil
}

func (c *Canvas) reset(_ context.Context, args []string) error {
	if err := command.ExpectArgs(args, 0); err != nil {
		return err
	}
	c.Reset()
	return nil
}

func (c *Canvas) penCommand(_ context.Context, args []string) error {
	v, err := intArgs(args, command.IntRange{Max: MaxPen})
	if err != nil {
		return err
	}
	c.SetPen(v[0])
	return nil
}

func (c *Canvas) fillCommand(_ context.Context, args []string) error {
	if err := command.ExpectArgs(args, 1); err != nil {
		return err
	}
	on, err := command.Bool{}.Validate(args[0])
	if err != nil {
		return err
	}
	c.SetFill(on)
	return nil
}
