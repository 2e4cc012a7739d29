package astfmt_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KevinPriv/canvas-lang/core/ast"
	"github.com/KevinPriv/canvas-lang/core/astfmt"
	"github.com/KevinPriv/canvas-lang/runtime/parser"
)

const sample = `radius = 11
Method DrawCircle(r)
circle r
Endmethod
While radius < 20
If radius != 15
DrawCircle(radius)
Endif
radius = radius + 2 * 1
Endloop
moveto 10, radius
`

func parse(t *testing.T, script string) *ast.Block {
	t.Helper()
	program, err := parser.ParseString(script)
	require.NoError(t, err)
	return program
}

func encode(t *testing.T, program *ast.Block) []byte {
	t.Helper()
	cp, err := astfmt.Canonicalize(program)
	require.NoError(t, err)
	data, err := cp.MarshalBinary()
	require.NoError(t, err)
	return data
}

// TestCanonicalFormByteStability verifies that the same program always
// encodes to the same bytes
func TestCanonicalFormByteStability(t *testing.T) {
	first := encode(t, parse(t, sample))
	for i := 0; i < 100; i++ {
		again := encode(t, parse(t, sample))
		if !bytes.Equal(first, again) {
			t.Fatalf("run %d: canonical form not stable\nwant: %x\ngot:  %x", i, first, again)
		}
	}
}

func TestFingerprintIgnoresLayout(t *testing.T) {
	compact := "x = 1\ncircle x"
	spaced := "\n\nx   =  1\n\n\ncircle   x\n"

	a, err := astfmt.Fingerprint(parse(t, compact))
	require.NoError(t, err)
	b, err := astfmt.Fingerprint(parse(t, spaced))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "blake2b:"))
	assert.Len(t, a, len("blake2b:")+64)
}

func TestFingerprintDistinguishesPrograms(t *testing.T) {
	scripts := []string{
		"",
		"x = 1",
		"x = 2",
		"y = 1",
		"circle 1",
		"circle x",
		"x = 1 + 2",
		"x = 1 - 2",
		"If 1 == 1\nEndif",
		"While 1 == 1\nEndloop",
		"Method M(a)\nEndmethod",
		"Method M(b)\nEndmethod",
		"M(1)",
	}

	seen := make(map[string]string)
	for _, script := range scripts {
		fp, err := astfmt.Fingerprint(parse(t, script))
		require.NoError(t, err)
		if prev, dup := seen[fp]; dup {
			t.Errorf("%q and %q share fingerprint %s", prev, script, fp)
		}
		seen[fp] = script
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	program := parse(t, sample)

	decoded, err := astfmt.Decode(encode(t, program))
	require.NoError(t, err)

	opts := cmp.Options{
		cmpopts.EquateEmpty(),
		cmpopts.IgnoreFields(ast.If{}, "Line"),
		cmpopts.IgnoreFields(ast.While{}, "Line"),
		cmpopts.IgnoreFields(ast.Assignment{}, "Line"),
		cmpopts.IgnoreFields(ast.MethodDef{}, "Line"),
		cmpopts.IgnoreFields(ast.MethodInvoke{}, "Line"),
		cmpopts.IgnoreFields(ast.CommandInvoke{}, "Line"),
	}
	if diff := cmp.Diff(program, decoded, opts); diff != "" {
		t.Errorf("round trip changed the AST (-original +decoded):\n%s", diff)
	}
	assert.Equal(t, program.String(), decoded.String())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := astfmt.Decode([]byte{0xff, 0x00})
	assert.Error(t, err)

	// Wrong version
	cp := &astfmt.CanonicalProgram{Version: astfmt.Version + 1}
	data, err := cp.MarshalBinary()
	require.NoError(t, err)
	_, err = astfmt.Decode(data)
	assert.ErrorContains(t, err, "unsupported canonical format version")

	// A statement where an expression belongs
	cp = &astfmt.CanonicalProgram{
		Version: astfmt.Version,
		Body: []astfmt.CanonicalNode{
			{Type: astfmt.TypeAssign, Name: "x", Expr: &astfmt.CanonicalNode{Type: astfmt.TypeCommand, Name: "clear"}},
		},
	}
	data, err = cp.MarshalBinary()
	require.NoError(t, err)
	_, err = astfmt.Decode(data)
	assert.ErrorContains(t, err, `"command" is not an expression`)
}

func TestCanonicalShape(t *testing.T) {
	cp, err := astfmt.Canonicalize(parse(t, "x = 2 + 3\nclear"))
	require.NoError(t, err)

	expected := &astfmt.CanonicalProgram{
		Version: astfmt.Version,
		Body: []astfmt.CanonicalNode{
			{
				Type: astfmt.TypeAssign,
				Name: "x",
				Expr: &astfmt.CanonicalNode{
					Type:     astfmt.TypeBinary,
					Operator: "+",
					Left:     &astfmt.CanonicalNode{Type: astfmt.TypeInteger, Value: 2},
					Right:    &astfmt.CanonicalNode{Type: astfmt.TypeInteger, Value: 3},
				},
			},
			{Type: astfmt.TypeCommand, Name: "clear"},
		},
	}
	if diff := cmp.Diff(expected, cp); diff != "" {
		t.Errorf("canonical form mismatch (-expected +actual):\n%s", diff)
	}
}
