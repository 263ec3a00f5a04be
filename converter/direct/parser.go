package direct

import (
	"regexp"
	"sort"
	"strings"

	"darkpdf/converter/colors"
)

// ColorOperator represents a color-setting operation in a PDF content stream
type ColorOperator struct {
	FullMatch string       // The complete matched string
	Values    []string     // Color operands (numbers, as written)
	Operator  string       // The operator (rg, RG, g, G, k, K, sc, SC, scn, SCN)
	Space     colors.Space // Color space derived from operator and operand count
	IsStroke  bool         // True for stroke (uppercase), false for fill
	StartPos  int          // Position in the content stream
	EndPos    int          // End position in the content stream
}

type pattern struct {
	re    *regexp.Regexp
	space colors.Space
	nvals int
}

// Parser finds color operators in PDF content streams
type Parser struct {
	patterns []pattern
	cs       *regexp.Regexp
}

// NewParser creates a new content stream parser
func NewParser() *Parser {
	// Number pattern: matches integers and decimals, with or without leading digit
	num := `[-+]?(?:\d+\.?\d*|\.\d+)`
	ws := `\s+`

	return &Parser{
		cs: regexp.MustCompile(`/([^\s/<>\[\]()]+)` + ws + `(cs|CS)\b`),
		patterns: []pattern{
			// CMYK: four numbers followed by k or K
			{regexp.MustCompile(`(` + num + `)` + ws + `(` + num + `)` + ws + `(` + num + `)` + ws + `(` + num + `)` + ws + `(k|K)\b`), colors.SpaceCMYK, 4},
			// RGB: three numbers followed by rg or RG
			{regexp.MustCompile(`(` + num + `)` + ws + `(` + num + `)` + ws + `(` + num + `)` + ws + `(rg|RG)\b`), colors.SpaceRGB, 3},
			// Grayscale: one number followed by g or G
			{regexp.MustCompile(`(` + num + `)` + ws + `(g|G)\b`), colors.SpaceGray, 1},
			// sc/SC/scn/SCN with 4, 3 or 1 operands (space inferred from count)
			{regexp.MustCompile(`(` + num + `)` + ws + `(` + num + `)` + ws + `(` + num + `)` + ws + `(` + num + `)` + ws + `(scn?|SCN?)\b`), colors.SpaceCMYK, 4},
			{regexp.MustCompile(`(` + num + `)` + ws + `(` + num + `)` + ws + `(` + num + `)` + ws + `(scn?|SCN?)\b`), colors.SpaceRGB, 3},
			{regexp.MustCompile(`(` + num + `)` + ws + `(scn?|SCN?)\b`), colors.SpaceGray, 1},
		},
	}
}

// FindColorOperators finds all color operators in a content stream, ordered
// by position. A match that overlaps an earlier, longer match is dropped, as
// is a match whose first operand is glued to a preceding number: both are
// truncated views of a larger operand list ("1 scn" inside "0 0 1 scn").
// Matches inside string literals are never operators, only shown text.
func (p *Parser) FindColorOperators(content string) []ColorOperator {
	literals := stringLiteralRanges(content)

	var candidates []ColorOperator

	for _, pat := range p.patterns {
		for _, match := range pat.re.FindAllStringSubmatchIndex(content, -1) {
			if insideLiteral(literals, match[0], match[1]) {
				continue
			}
			if match[0] > 0 {
				prev := content[match[0]-1]
				if prev >= '0' && prev <= '9' || prev == '.' {
					continue
				}
			}

			vals := make([]string, pat.nvals)
			for i := 0; i < pat.nvals; i++ {
				vals[i] = content[match[2+2*i]:match[3+2*i]]
			}
			operator := content[match[2+2*pat.nvals]:match[3+2*pat.nvals]]

			candidates = append(candidates, ColorOperator{
				FullMatch: content[match[0]:match[1]],
				Values:    vals,
				Operator:  operator,
				Space:     pat.space,
				IsStroke:  operator == strings.ToUpper(operator),
				StartPos:  match[0],
				EndPos:    match[1],
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].StartPos != candidates[j].StartPos {
			return candidates[i].StartPos < candidates[j].StartPos
		}
		return candidates[i].EndPos > candidates[j].EndPos
	})

	var operators []ColorOperator
	lastEnd := -1
	for _, op := range candidates {
		if op.StartPos < lastEnd {
			continue
		}
		operators = append(operators, op)
		lastEnd = op.EndPos
	}

	p.resolveScnSpaces(content, operators)

	return operators
}

// resolveScnSpaces corrects the space of single-operand sc/scn operators.
// The operand count pins down the three and four operand forms, but one
// operand is only a gray level when the selected color space is a gray
// device space. A Separation or DeviceN operand is an ink tint; remapping
// it can erase content, so anything else becomes SpaceUnsupported and
// passes through untouched.
func (p *Parser) resolveScnSpaces(content string, ops []ColorOperator) {
	selections := p.cs.FindAllStringSubmatchIndex(content, -1)

	for i := range ops {
		op := &ops[i]
		if op.Space != colors.SpaceGray || op.Operator == "g" || op.Operator == "G" {
			continue
		}

		name, found := "", false
		for _, m := range selections {
			if m[0] >= op.StartPos {
				break
			}
			if (content[m[4]:m[5]] == "CS") == op.IsStroke {
				name = content[m[2]:m[3]]
				found = true
			}
		}
		if !found || !grayDeviceSpace(name) {
			op.Space = colors.SpaceUnsupported
		}
	}
}

func grayDeviceSpace(name string) bool {
	return name == "DeviceGray" || name == "CalGray" || name == "G"
}

// stringLiteralRanges returns the spans of parenthesized string literals,
// honoring backslash escapes and balanced nesting.
func stringLiteralRanges(content string) [][2]int {
	var spans [][2]int

	for i := 0; i < len(content); i++ {
		if content[i] != '(' {
			continue
		}
		start := i
		depth := 0
		for ; i < len(content); i++ {
			switch content[i] {
			case '\\':
				i++
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 {
				break
			}
		}
		end := i + 1
		if end > len(content) {
			end = len(content)
		}
		spans = append(spans, [2]int{start, end})
	}

	return spans
}

// insideLiteral reports whether [start,end) overlaps any literal span.
func insideLiteral(spans [][2]int, start, end int) bool {
	n := sort.Search(len(spans), func(i int) bool { return spans[i][1] > start })
	return n < len(spans) && spans[n][0] < end
}

// Rewrite applies fn to every color operator and splices the results back by
// position. Content outside the matched operators passes through
// byte-identical, so non-color instructions are never touched. Returns the
// rewritten stream and the number of operators that changed.
func (p *Parser) Rewrite(content string, fn func(ColorOperator) string) (string, int) {
	operators := p.FindColorOperators(content)
	if len(operators) == 0 {
		return content, 0
	}

	var sb strings.Builder
	sb.Grow(len(content) + len(content)/8)

	changed := 0
	last := 0
	for _, op := range operators {
		sb.WriteString(content[last:op.StartPos])
		replacement := fn(op)
		if replacement != op.FullMatch {
			changed++
		}
		sb.WriteString(replacement)
		last = op.EndPos
	}
	sb.WriteString(content[last:])

	return sb.String(), changed
}
