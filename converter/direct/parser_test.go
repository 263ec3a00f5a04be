package direct

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darkpdf/converter/colors"
)

func TestParser_FindsDeviceColorOperators(t *testing.T) {
	p := NewParser()
	content := "1 1 1 rg 0 0 0 RG 0.5 g 0 G 0 0 0 1 k 0.1 0.2 0.3 0.4 K"

	ops := p.FindColorOperators(content)

	require.Len(t, ops, 6)

	assert.Equal(t, colors.SpaceRGB, ops[0].Space)
	assert.Equal(t, []string{"1", "1", "1"}, ops[0].Values)
	assert.False(t, ops[0].IsStroke)

	assert.Equal(t, "RG", ops[1].Operator)
	assert.True(t, ops[1].IsStroke)

	assert.Equal(t, colors.SpaceGray, ops[2].Space)
	assert.Equal(t, []string{"0.5"}, ops[2].Values)

	assert.Equal(t, colors.SpaceGray, ops[3].Space)
	assert.True(t, ops[3].IsStroke)

	assert.Equal(t, colors.SpaceCMYK, ops[4].Space)
	assert.Equal(t, []string{"0", "0", "0", "1"}, ops[4].Values)

	assert.Equal(t, colors.SpaceCMYK, ops[5].Space)
	assert.True(t, ops[5].IsStroke)
}

func TestParser_OperatorsOrderedByPosition(t *testing.T) {
	p := NewParser()
	content := "0 0 0 1 k BT 0.5 g ET 1 0 0 rg"

	ops := p.FindColorOperators(content)

	require.Len(t, ops, 3)
	assert.Equal(t, colors.SpaceCMYK, ops[0].Space)
	assert.Equal(t, colors.SpaceGray, ops[1].Space)
	assert.Equal(t, colors.SpaceRGB, ops[2].Space)
	assert.Less(t, ops[0].StartPos, ops[1].StartPos)
	assert.Less(t, ops[1].StartPos, ops[2].StartPos)
}

func TestParser_ScnOperandCountWins(t *testing.T) {
	p := NewParser()

	// Three operands: one RGB match, no spurious gray match on the last one.
	ops := p.FindColorOperators("0 0 1 scn")
	require.Len(t, ops, 1)
	assert.Equal(t, colors.SpaceRGB, ops[0].Space)
	assert.Equal(t, []string{"0", "0", "1"}, ops[0].Values)

	ops = p.FindColorOperators("0.2 0.3 0.1 0.9 SCN")
	require.Len(t, ops, 1)
	assert.Equal(t, colors.SpaceCMYK, ops[0].Space)
	assert.True(t, ops[0].IsStroke)

	ops = p.FindColorOperators("/DeviceGray cs 0.75 sc")
	require.Len(t, ops, 1)
	assert.Equal(t, colors.SpaceGray, ops[0].Space)
}

func TestParser_SingleOperandScnNeedsGraySpace(t *testing.T) {
	p := NewParser()

	// A lone operand is an ink tint unless a gray device space was selected.
	cases := []struct {
		name    string
		content string
		want    colors.Space
	}{
		{"no cs at all", "1 scn", colors.SpaceUnsupported},
		{"separation tint", "/Sep0 cs 1 scn", colors.SpaceUnsupported},
		{"device gray fill", "/DeviceGray cs 0 sc", colors.SpaceGray},
		{"cal gray fill", "/CalGray cs 0.5 scn", colors.SpaceGray},
		{"device gray stroke", "/DeviceGray CS 1 SCN", colors.SpaceGray},
		{"fill space does not govern stroke", "/DeviceGray cs 1 SCN", colors.SpaceUnsupported},
		{"later cs wins", "/DeviceGray cs /Sep0 cs 1 scn", colors.SpaceUnsupported},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ops := p.FindColorOperators(tc.content)
			require.Len(t, ops, 1)
			assert.Equal(t, tc.want, ops[0].Space)
		})
	}
}

func TestParser_StringLiteralsNotMatched(t *testing.T) {
	p := NewParser()

	content := "BT (see fig 3 g) Tj ET 0 g"
	ops := p.FindColorOperators(content)
	require.Len(t, ops, 1)
	assert.Equal(t, strings.Index(content, "0 g"), ops[0].StartPos)

	rewritten, changed := p.Rewrite(content, func(op ColorOperator) string {
		return "0.98 " + op.Operator
	})
	assert.Equal(t, 1, changed)
	assert.Contains(t, rewritten, "(see fig 3 g) Tj")
	assert.Contains(t, rewritten, "0.98 g")

	// Nested and escaped parens stay literal text.
	ops = p.FindColorOperators(`(outer (1 1 1 rg) inner) Tj`)
	assert.Empty(t, ops)
	ops = p.FindColorOperators(`(escaped \( 0 0 0 1 k) Tj`)
	assert.Empty(t, ops)
}

func TestParser_NoGrayInsideRGB(t *testing.T) {
	p := NewParser()

	ops := p.FindColorOperators("0.1 0.2 0.3 rg")

	require.Len(t, ops, 1)
	assert.Equal(t, colors.SpaceRGB, ops[0].Space)
}

func TestParser_IgnoresNonColorOperators(t *testing.T) {
	p := NewParser()
	content := "BT /F1 12 Tf 72 720 Td (Hello World) Tj ET 10 10 100 100 re W n"

	ops := p.FindColorOperators(content)

	assert.Empty(t, ops)
}

func TestParser_RewritePreservesSurroundingBytes(t *testing.T) {
	p := NewParser()
	content := "q BT /F1 12 Tf 0 g (text) Tj ET Q 1 1 1 rg 0 0 612 792 re f"

	identity, changed := p.Rewrite(content, func(op ColorOperator) string {
		return op.FullMatch
	})
	assert.Equal(t, content, identity)
	assert.Zero(t, changed)

	rewritten, changed := p.Rewrite(content, func(op ColorOperator) string {
		if op.Space == colors.SpaceGray {
			return "0.98 " + op.Operator
		}
		return op.FullMatch
	})
	assert.Equal(t, 1, changed)
	assert.Contains(t, rewritten, "0.98 g")
	assert.Contains(t, rewritten, "(text) Tj")
	assert.Contains(t, rewritten, "1 1 1 rg")
	assert.Contains(t, rewritten, "0 0 612 792 re f")
}

func TestParser_DecimalFormsMatched(t *testing.T) {
	p := NewParser()

	ops := p.FindColorOperators(".5 .25 1.0 rg")

	require.Len(t, ops, 1)
	assert.Equal(t, []string{".5", ".25", "1.0"}, ops[0].Values)
}
