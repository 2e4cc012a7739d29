package command

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a command that records every invocation
type recorder struct {
	name    string
	aliases []string
	calls   [][]string
	err     error
}

func (r *recorder) Name() string      { return r.name }
func (r *recorder) Aliases() []string { return r.aliases }

func (r *recorder) Execute(_ context.Context, args []string) error {
	r.calls = append(r.calls, args)
	return r.err
}

func TestRegistryLookup(t *testing.T) {
	rect := &recorder{name: "rectangle", aliases: []string{"rect"}}
	circle := &recorder{name: "circle"}
	shadow := &recorder{name: "rect"}
	reg := NewRegistry(rect, circle, shadow)

	tests := []struct {
		name     string
		lookup   string
		expected Command
		found    bool
	}{
		{"primary name", "rectangle", rect, true},
		{"alias", "rect", rect, true},
		{"second command", "circle", circle, true},
		{"case sensitive", "Circle", nil, false},
		{"unknown", "cicle", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := reg.Lookup(tt.lookup)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Same(t, tt.expected, cmd)
			} else {
				assert.Nil(t, cmd)
			}
		})
	}
}

func TestRegistryOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&recorder{name: "moveto"}, &recorder{name: "rectangle", aliases: []string{"rect"}})
	reg.Register(&recorder{name: "clear"})

	assert.Equal(t, []string{"moveto", "rectangle", "rect", "clear"}, reg.Names())

	cmds := reg.Commands()
	require.Len(t, cmds, 3)
	assert.Equal(t, "clear", cmds[2].Name())

	// The returned slice is a copy
	cmds[0] = nil
	assert.NotNil(t, reg.Commands()[0])
}

func TestRegisterNilPanics(t *testing.T) {
	reg := NewRegistry()
	assert.Panics(t, func() { reg.Register(nil) })
}

func TestDispatch(t *testing.T) {
	circle := &recorder{name: "circle"}
	d := NewDispatcher(NewRegistry(circle))

	require.NoError(t, d.Dispatch(context.Background(), "circle", []string{"11"}))
	require.NoError(t, d.Dispatch(context.Background(), "circle", nil))

	expected := [][]string{{"11"}, nil}
	if diff := cmp.Diff(expected, circle.calls); diff != "" {
		t.Errorf("calls mismatch (-expected +actual):\n%s", diff)
	}
}

func TestDispatchPropagatesCommandErrors(t *testing.T) {
	boom := errors.New("boom")
	d := NewDispatcher(NewRegistry(&recorder{name: "fail", err: boom}))

	err := d.Dispatch(context.Background(), "fail", nil)
	assert.Same(t, boom, err)
}

func TestDispatchUnknownCommand(t *testing.T) {
	reg := NewRegistry(
		&recorder{name: "circle"},
		&recorder{name: "moveto"},
		&recorder{name: "rectangle", aliases: []string{"rect"}},
	)
	d := NewDispatcher(reg)

	err := d.Dispatch(context.Background(), "cicle", []string{"10"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCommand))

	var invalid *InvalidCommandError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "cicle", invalid.Name)
	assert.Equal(t, "circle", invalid.Suggestion)
	assert.Equal(t, `invalid command "cicle" (did you mean "circle"?)`, err.Error())

	err = d.Dispatch(context.Background(), "zzz", nil)
	require.True(t, errors.As(err, &invalid))
	assert.Empty(t, invalid.Suggestion)
	assert.Equal(t, `invalid command "zzz"`, err.Error())
}

func TestFindClosestMatch(t *testing.T) {
	tests := []struct {
		target     string
		candidates []string
		expected   string
	}{
		{"cicle", []string{"moveto", "circle"}, "circle"},
		{"rct", []string{"rectangle", "rect"}, "rect"},
		{"", []string{"circle"}, ""},
		{"circle", nil, ""},
		{"xyz", []string{"circle"}, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, findClosestMatch(tt.target, tt.candidates), "target %q", tt.target)
	}
}

func TestFuncCommand(t *testing.T) {
	var got []string
	cmd := New("pen", []string{"colour"}, func(_ context.Context, args []string) error {
		got = args
		return nil
	}, WithUsage("pen c"))

	assert.Equal(t, "pen", cmd.Name())
	assert.Equal(t, []string{"colour"}, cmd.Aliases())
	assert.Equal(t, "pen c", cmd.(Describer).Usage())
	assert.Nil(t, cmd.(SchemaProvider).ArgSchema())
	assert.Equal(t, "pen (colour)", cmd.(interface{ String() string }).String())

	d := NewDispatcher(NewRegistry(cmd))
	require.NoError(t, d.Dispatch(context.Background(), "colour", []string{"3"}))
	assert.Equal(t, []string{"3"}, got)
}

func TestIntRange(t *testing.T) {
	r := IntRange{Min: 0, Max: 640}

	tests := []struct {
		arg      string
		expected int
		err      error
	}{
		{"0", 0, nil},
		{"640", 640, nil},
		{" 42 ", 42, nil},
		{"641", 0, ErrOutOfBounds},
		{"-1", 0, ErrOutOfBounds},
		{"abc", 0, ErrInvalidArgument},
		{"", 0, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			n, err := r.Validate(tt.arg)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n)
		})
	}

	_, err := r.Validate("700")
	assert.EqualError(t, err, "argument out of bounds: integer 700 was not within the bounds of 0 and 640")
}

func TestBool(t *testing.T) {
	for _, arg := range []string{"on", "TRUE", "1"} {
		v, err := Bool{}.Validate(arg)
		require.NoError(t, err)
		assert.True(t, v, arg)
	}
	for _, arg := range []string{"off", "False", "0"} {
		v, err := Bool{}.Validate(arg)
		require.NoError(t, err)
		assert.False(t, v, arg)
	}
	_, err := Bool{}.Validate("2")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestExpectArgs(t *testing.T) {
	assert.NoError(t, ExpectArgs([]string{"1", "2"}, 2))

	err := ExpectArgs([]string{"1"}, 2)
	assert.ErrorIs(t, err, ErrArgumentCount)
	assert.EqualError(t, err, "expected 2 arguments, received 1")

	var countErr *ArgumentCountError
	require.True(t, errors.As(err, &countErr))
	assert.Equal(t, 2, countErr.Expected)
	assert.Equal(t, 1, countErr.Received)
}

func TestValidateAll(t *testing.T) {
	values, err := ValidateAll[int](IntRange{Min: 0, Max: 10}, []string{"1", "2", "10"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 10}, values)

	_, err = ValidateAll[int](IntRange{Min: 0, Max: 10}, []string{"1", "11"})
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.Contains(t, err.Error(), "argument 2")
}

func TestSchemaValidation(t *testing.T) {
	circle := &schemaRecorder{
		recorder: recorder{name: "circle"},
		schema: Schema{
			"type":     "array",
			"minItems": 1,
			"maxItems": 1,
			"items":    Schema{"type": "integer", "minimum": 0, "maximum": 640},
		},
	}
	d := NewDispatcher(NewRegistry(circle))
	ctx := context.Background()

	require.NoError(t, d.Dispatch(ctx, "circle", []string{"20"}))

	tests := []struct {
		name string
		args []string
	}{
		{"too large", []string{"700"}},
		{"negative", []string{"-5"}},
		{"missing", nil},
		{"too many", []string{"1", "2"}},
		{"not an integer", []string{"abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.Dispatch(ctx, "circle", tt.args)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchemaViolation)

			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, "circle", schemaErr.Command)
		})
	}

	// Rejected dispatches never reach the command
	assert.Len(t, circle.calls, 1)
	// Compiled once, reused afterwards
	assert.Len(t, d.schemas.cache, 1)
}

func TestInvalidSchema(t *testing.T) {
	bad := &schemaRecorder{
		recorder: recorder{name: "bad"},
		schema:   Schema{"type": 12},
	}
	d := NewDispatcher(NewRegistry(bad))

	err := d.Dispatch(context.Background(), "bad", []string{"1"})
	assert.ErrorIs(t, err, ErrSchemaViolation)
	assert.Empty(t, bad.calls)
}

type schemaRecorder struct {
	recorder
	schema Schema
}

func (s *schemaRecorder) ArgSchema() Schema { return s.schema }
