package direct

import (
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"

	"darkpdf/converter/colors"
)

func TestUnderlay_CoversMediaBox(t *testing.T) {
	mb := types.NewRectangle(0, 0, 612, 792)

	content := string(Underlay(mb, colors.SchemeClassic))

	assert.Contains(t, content, "q 0.0000 0.0000 0.0000 rg 0.00 0.00 612.00 792.00 re f Q")
	// Default fill and stroke colors follow the restored state, so pages that
	// never set a color still draw light.
	assert.Contains(t, content, "0.9804 0.9804 0.9804 rg 0.9804 0.9804 0.9804 RG")
}

func TestUnderlay_TintedBackgroundAndOffsetOrigin(t *testing.T) {
	mb := types.NewRectangle(10, 20, 605, 780)

	content := string(Underlay(mb, colors.SchemeClaude))

	assert.Contains(t, content, "10.00 20.00 595.00 760.00 re f")
	assert.Contains(t, content, "0.1647") // claude background red channel, 42/255
}

func TestResolveMediaBox(t *testing.T) {
	t.Run("from page dict", func(t *testing.T) {
		d := types.Dict{
			"MediaBox": types.Array{
				types.Integer(0), types.Integer(0),
				types.Integer(595), types.Integer(842),
			},
		}
		r := resolveMediaBox(d, nil)
		assert.InDelta(t, 595, r.Width(), 0.001)
		assert.InDelta(t, 842, r.Height(), 0.001)
	})

	t.Run("letter fallback", func(t *testing.T) {
		r := resolveMediaBox(types.Dict{}, nil)
		assert.InDelta(t, 612, r.Width(), 0.001)
		assert.InDelta(t, 792, r.Height(), 0.001)
	})
}
