package direct

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darkpdf/converter/colors"
)

func TestRewriter_TextOperatorsUntouched(t *testing.T) {
	rw := NewRewriter(colors.NewTransformer(colors.SchemeClassic))

	content := "BT /F1 12 Tf 72 720 Td 0 g (Hello, dark mode) Tj 0 -14 Td (second line) Tj ET"
	rewritten, changed := rw.RewriteStream(content)

	assert.Equal(t, 1, changed)

	// Every text-showing and positioning instruction survives byte-identical.
	assert.Contains(t, rewritten, "BT /F1 12 Tf 72 720 Td")
	assert.Contains(t, rewritten, "(Hello, dark mode) Tj")
	assert.Contains(t, rewritten, "0 -14 Td (second line) Tj ET")
	assert.Equal(t, strings.Count(content, "Tj"), strings.Count(rewritten, "Tj"))
	assert.NotContains(t, rewritten, "0 g (")
}

func TestRewriter_WhiteFillBecomesBlack(t *testing.T) {
	rw := NewRewriter(colors.NewTransformer(colors.SchemeClassic))

	rewritten, changed := rw.RewriteStream("1 1 1 rg 0 0 612 792 re f")

	assert.Equal(t, 1, changed)
	assert.Contains(t, rewritten, "0.0000 0.0000 0.0000 rg")
	assert.Contains(t, rewritten, "0 0 612 792 re f")
}

func TestRewriter_BlackGrayBecomesNearWhite(t *testing.T) {
	rw := NewRewriter(colors.NewTransformer(colors.SchemeClassic))

	rewritten, changed := rw.RewriteStream("0 g")

	assert.Equal(t, 1, changed)
	assert.Equal(t, "0.9804 g", rewritten)
}

func TestRewriter_GrayPromotedToRGBForTintedScheme(t *testing.T) {
	rw := NewRewriter(colors.NewTransformer(colors.SchemeClaude))

	// White paper becomes the tinted claude background, which device gray
	// cannot express; the operator is promoted to rg.
	rewritten, _ := rw.RewriteStream("1 g")
	assert.True(t, strings.HasSuffix(rewritten, " rg"), "got %q", rewritten)

	rewritten, _ = rw.RewriteStream("1 G")
	assert.True(t, strings.HasSuffix(rewritten, " RG"), "got %q", rewritten)
}

func TestRewriter_ScnGrayStaysInFamily(t *testing.T) {
	rw := NewRewriter(colors.NewTransformer(colors.SchemeClaude))

	// An scn operand belongs to whatever space cs selected; it must not be
	// promoted to a device RGB operator.
	rewritten, changed := rw.RewriteStream("/DeviceGray cs 1 scn")
	assert.Equal(t, 1, changed)
	assert.True(t, strings.HasSuffix(rewritten, " scn"), "got %q", rewritten)
	require.NotContains(t, rewritten, " rg")
}

func TestRewriter_SeparationTintPassesThrough(t *testing.T) {
	rw := NewRewriter(colors.NewTransformer(colors.SchemeClassic))

	// A Separation operand is ink coverage, not a gray level; remapping it
	// could blank out the ink entirely.
	rewritten, changed := rw.RewriteStream("/Sep0 cs 1 scn 0.5 0.2 0.9 rg")
	assert.Zero(t, strings.Index(rewritten, "/Sep0 cs 1 scn"))
	assert.Equal(t, 1, changed)
}

func TestRewriter_CMYKStaysCMYK(t *testing.T) {
	rw := NewRewriter(colors.NewTransformer(colors.SchemeClassic))

	rewritten, changed := rw.RewriteStream("0 0 0 1 k")

	assert.Equal(t, 1, changed)
	assert.True(t, strings.HasSuffix(rewritten, " k"), "got %q", rewritten)

	fields := strings.Fields(rewritten)
	require.Len(t, fields, 5)
	assert.Equal(t, "0.0000", fields[0])
	assert.Equal(t, "0.0196", fields[3])
}

func TestRewriter_UnsupportedSpacePassesThrough(t *testing.T) {
	rw := NewRewriter(colors.NewTransformer(colors.SchemeClassic))

	op := ColorOperator{
		FullMatch: "/Pattern cs",
		Space:     colors.SpaceUnsupported,
	}

	assert.Equal(t, "/Pattern cs", rw.RewriteOperator(op))
}

func TestRewriter_StrokeAndFillIndependent(t *testing.T) {
	rw := NewRewriter(colors.NewTransformer(colors.SchemeClassic))

	rewritten, changed := rw.RewriteStream("0 0 0 RG 1 1 1 rg")

	assert.Equal(t, 2, changed)
	assert.Contains(t, rewritten, "RG")
	assert.Contains(t, rewritten, "rg")
	// Black stroke turns light, white fill turns black.
	assert.Contains(t, rewritten, "0.9804 0.9804 0.9804 RG")
	assert.Contains(t, rewritten, "0.0000 0.0000 0.0000 rg")
}
