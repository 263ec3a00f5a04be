package direct

import (
	"fmt"
	"math"
	"strconv"

	"darkpdf/converter/colors"
)

// Rewriter replaces color operands in content-stream operators with their
// dark mode equivalents. Operators it does not understand are returned
// unchanged, never dropped.
type Rewriter struct {
	parser      *Parser
	transformer *colors.Transformer
}

// NewRewriter creates a rewriter for the given transformer
func NewRewriter(t *colors.Transformer) *Rewriter {
	return &Rewriter{
		parser:      NewParser(),
		transformer: t,
	}
}

// RewriteStream rewrites every color operator in a content stream. Returns
// the new stream and the number of operators transformed.
func (rw *Rewriter) RewriteStream(content string) (string, int) {
	return rw.parser.Rewrite(content, rw.RewriteOperator)
}

// RewriteOperator transforms a single color operator, keeping the color
// space family where it can represent the result and switching g/G to rg/RG
// when a tinted scheme produces a chromatic replacement.
func (rw *Rewriter) RewriteOperator(op ColorOperator) string {
	switch op.Space {
	case colors.SpaceRGB:
		return rw.rewriteRGB(op)
	case colors.SpaceGray:
		return rw.rewriteGray(op)
	case colors.SpaceCMYK:
		return rw.rewriteCMYK(op)
	default:
		return op.FullMatch
	}
}

func (rw *Rewriter) rewriteRGB(op ColorOperator) string {
	r := parseFloat(op.Values[0])
	g := parseFloat(op.Values[1])
	b := parseFloat(op.Values[2])

	nr, ng, nb := rw.transformer.RGB(r, g, b)
	return fmt.Sprintf("%.4f %.4f %.4f %s", nr, ng, nb, op.Operator)
}

func (rw *Rewriter) rewriteGray(op ColorOperator) string {
	gray := parseFloat(op.Values[0])

	// Run the gray through the RGB path so tinted scheme colors survive
	nr, ng, nb := rw.transformer.RGB(gray, gray, gray)

	if isAchromatic(nr, ng, nb) {
		return fmt.Sprintf("%.4f %s", colors.Brightness(nr, ng, nb), op.Operator)
	}

	// Only the device gray operators can be promoted to device RGB; an
	// sc/scn operand belongs to whatever space the current cs selected.
	rgbOp, ok := grayToRGBOperator(op.Operator)
	if !ok {
		return fmt.Sprintf("%.4f %s", rw.transformer.Gray(gray), op.Operator)
	}
	return fmt.Sprintf("%.4f %.4f %.4f %s", nr, ng, nb, rgbOp)
}

func (rw *Rewriter) rewriteCMYK(op ColorOperator) string {
	c := parseFloat(op.Values[0])
	m := parseFloat(op.Values[1])
	y := parseFloat(op.Values[2])
	k := parseFloat(op.Values[3])

	nc, nm, ny, nk := rw.transformer.CMYK(c, m, y, k)
	return fmt.Sprintf("%.4f %.4f %.4f %.4f %s", nc, nm, ny, nk, op.Operator)
}

// isAchromatic checks if RGB values are approximately equal (grayscale)
func isAchromatic(r, g, b float64) bool {
	const threshold = 0.02
	return math.Abs(r-g) < threshold && math.Abs(g-b) < threshold && math.Abs(r-b) < threshold
}

// grayToRGBOperator converts a device gray operator to its RGB equivalent
func grayToRGBOperator(grayOp string) (string, bool) {
	switch grayOp {
	case "g":
		return "rg", true
	case "G":
		return "RG", true
	default:
		return grayOp, false
	}
}

// parseFloat parses a content-stream number, tolerating the no-leading-digit form
func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
