package formatter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KevinPriv/canvas-lang/core/ast"
	"github.com/KevinPriv/canvas-lang/runtime/parser"
)

func TestFormatTree_EmptyProgram(t *testing.T) {
	var buf bytes.Buffer
	FormatTree(&buf, "empty.cvs", &ast.Block{}, false)

	expected := "empty.cvs:\n(no statements)\n"
	if diff := cmp.Diff(expected, buf.String()); diff != "" {
		t.Errorf("Output mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatTree_Nested(t *testing.T) {
	program, err := parser.ParseString(`radius = 11
Method DrawCircle(r)
circle r
Endmethod
While radius < 20
If radius != 15
DrawCircle(radius)
Endif
radius = radius + 1
Endloop
clear`)
	require.NoError(t, err)

	var buf bytes.Buffer
	FormatTree(&buf, "demo", program, false)

	expected := `demo:
├─ radius = 11 [line 1]
├─ Method DrawCircle(r) [line 2]
│  └─ circle r [line 3]
├─ While radius < 20 [line 5]
│  ├─ If radius != 15 [line 6]
│  │  └─ DrawCircle(radius) [line 7]
│  └─ radius = radius + 1 [line 9]
└─ clear [line 11]
`
	if diff := cmp.Diff(expected, buf.String()); diff != "" {
		t.Errorf("Output mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatTree_Color(t *testing.T) {
	program := &ast.Block{Statements: []ast.Statement{
		&ast.CommandInvoke{Name: "circle", Args: []ast.Expression{&ast.Integer{Value: 5}}, Line: 1},
	}}

	var buf bytes.Buffer
	FormatTree(&buf, "c", program, true)

	output := buf.String()
	assert.Contains(t, output, ColorGreen+"circle"+ColorReset+" 5")
	assert.Contains(t, output, ColorGray+"[line 1]"+ColorReset)

	buf.Reset()
	FormatTree(&buf, "c", program, false)
	assert.False(t, strings.Contains(buf.String(), "\033["), "no escape codes without color")
}

func TestFormatTree_NoLines(t *testing.T) {
	program := &ast.Block{Statements: []ast.Statement{
		&ast.MethodInvoke{Name: "M", Args: []ast.Expression{&ast.Identifier{Name: "a"}}},
	}}

	var buf bytes.Buffer
	FormatTree(&buf, "decoded", program, false)
	assert.Equal(t, "decoded:\n└─ M(a)\n", buf.String())
}

func TestColorize(t *testing.T) {
	assert.Equal(t, "x", Colorize("x", ColorRed, false))
	assert.Equal(t, ColorRed+"x"+ColorReset, Colorize("x", ColorRed, true))
}
