package colors

import (
	"image/color"
	"math"
)

// Space identifies the color space a value is expressed in. The set is
// closed: anything the transformer cannot interpret is SpaceUnsupported and
// passes through unchanged.
type Space int

const (
	SpaceGray Space = iota
	SpaceRGB
	SpaceCMYK
	SpaceIndexed
	SpaceUnsupported
)

func (s Space) String() string {
	switch s {
	case SpaceGray:
		return "gray"
	case SpaceRGB:
		return "rgb"
	case SpaceCMYK:
		return "cmyk"
	case SpaceIndexed:
		return "indexed"
	default:
		return "unsupported"
	}
}

// Curve holds the tunable thresholds of the brightness remap. Brightness is
// perceptual (0.299R + 0.587G + 0.114B). Source colors brighter than
// Background become the scheme background; darker than Text with saturation
// below TextSaturation become the scheme text color; everything else is
// remapped through a piecewise value curve in HSV so hue survives.
type Curve struct {
	Background     float64 // brightness above this is treated as page background
	Text           float64 // brightness below this is treated as body text/ink
	TextSaturation float64 // saturation below this marks a color as grayscale ink
	Dark           float64 // upper bound of the "dark color" band
	Mid            float64 // upper bound of the "medium" band
}

// DefaultCurve returns the curve constants the converter ships with.
func DefaultCurve() Curve {
	return Curve{
		Background:     0.93,
		Text:           0.15,
		TextSaturation: 0.3,
		Dark:           0.4,
		Mid:            0.6,
	}
}

// Transformer maps source colors to their dark mode equivalents for one
// scheme. It is hue-preserving and never darkens a color below the Mid band.
type Transformer struct {
	scheme Scheme
	curve  Curve
}

// NewTransformer creates a transformer with the default curve.
func NewTransformer(scheme Scheme) *Transformer {
	return &Transformer{scheme: scheme, curve: DefaultCurve()}
}

// NewTransformerWithCurve creates a transformer with custom thresholds.
func NewTransformerWithCurve(scheme Scheme, curve Curve) *Transformer {
	return &Transformer{scheme: scheme, curve: curve}
}

// Scheme returns the scheme the transformer was built with.
func (t *Transformer) Scheme() Scheme {
	return t.scheme
}

// RGB transforms a normalized RGB color.
func (t *Transformer) RGB(r, g, b float64) (float64, float64, float64) {
	brightness := Brightness(r, g, b)

	// Page background -> scheme background
	if brightness > t.curve.Background {
		bg := t.scheme.Background
		return bg.R, bg.G, bg.B
	}

	h, s, v := RGBToHSV(r, g, b)

	// Grayscale ink -> scheme text color
	if brightness < t.curve.Text && s < t.curve.TextSaturation {
		txt := t.scheme.Text
		return txt.R, txt.G, txt.B
	}

	switch {
	case brightness < t.curve.Text:
		// Dark saturated color: lift well above mid-brightness, keep hue
		v = 0.65 + (v/t.curve.Text)*0.2
		s = math.Min(s*1.1, 1.0)
	case brightness < t.curve.Dark:
		v = 0.75 + (v-t.curve.Text)*0.8
		s *= 0.85
	case brightness < t.curve.Mid:
		v = 0.65 + (v - t.curve.Dark)
		s *= 0.9
	default:
		v = 0.5 + v*0.5
	}

	nr, ng, nb := HSVToRGB(h, s, v)
	return clamp01(nr), clamp01(ng), clamp01(nb)
}

// Gray transforms a grayscale value (0 = black, 1 = white).
func (t *Transformer) Gray(gray float64) float64 {
	if gray > t.curve.Background {
		bg := t.scheme.Background
		return Brightness(bg.R, bg.G, bg.B)
	}
	if gray < t.curve.Text {
		txt := t.scheme.Text
		return Brightness(txt.R, txt.G, txt.B)
	}
	switch {
	case gray < t.curve.Dark:
		return 0.75 + (gray-t.curve.Text)*0.8
	case gray < t.curve.Mid:
		return 0.65 + (gray - t.curve.Dark)
	default:
		return clamp01(0.5 + gray*0.5)
	}
}

// CMYK transforms a CMYK color by round-tripping through RGB, so CMYK and
// RGB content in the same document land on consistent output colors.
func (t *Transformer) CMYK(c, m, y, k float64) (float64, float64, float64, float64) {
	r, g, b := CMYKToRGB(c, m, y, k)
	nr, ng, nb := t.RGB(r, g, b)
	return RGBToCMYK(nr, ng, nb)
}

// Pixel transforms a single decoded image pixel, preserving alpha.
func (t *Transformer) Pixel(c color.Color) color.Color {
	r, g, b, a := c.RGBA()
	nr, ng, nb := t.RGB(float64(r)/65535, float64(g)/65535, float64(b)/65535)
	return color.RGBA{
		R: uint8(nr*255 + 0.5),
		G: uint8(ng*255 + 0.5),
		B: uint8(nb*255 + 0.5),
		A: uint8(a >> 8),
	}
}

// Brightness returns perceived brightness of a normalized RGB color.
func Brightness(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}

// Saturation returns HSV saturation of a normalized RGB color.
func Saturation(r, g, b float64) float64 {
	_, s, _ := RGBToHSV(r, g, b)
	return s
}

// RGBToHSV converts normalized RGB to HSV, hue normalized to 0-1.
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	diff := max - min

	switch {
	case diff == 0:
		h = 0
	case max == r:
		h = math.Mod(60*((g-b)/diff)+360, 360)
	case max == g:
		h = math.Mod(60*((b-r)/diff)+120, 360)
	default:
		h = math.Mod(60*((r-g)/diff)+240, 360)
	}

	if max > 0 {
		s = diff / max
	}
	return h / 360, s, max
}

// HSVToRGB converts HSV (hue 0-1) back to normalized RGB.
func HSVToRGB(h, s, v float64) (r, g, b float64) {
	if s == 0 {
		return v, v, v
	}

	h = h * 360
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return r + m, g + m, b + m
}

// CMYKToRGB converts normalized CMYK to normalized RGB.
func CMYKToRGB(c, m, y, k float64) (r, g, b float64) {
	r = (1 - c) * (1 - k)
	g = (1 - m) * (1 - k)
	b = (1 - y) * (1 - k)
	return
}

// RGBToCMYK converts normalized RGB to normalized CMYK.
func RGBToCMYK(r, g, b float64) (c, m, y, k float64) {
	k = 1 - math.Max(r, math.Max(g, b))
	if k == 1 {
		return 0, 0, 0, 1
	}
	c = (1 - r - k) / (1 - k)
	m = (1 - g - k) / (1 - k)
	y = (1 - b - k) / (1 - k)
	return
}

func clamp01(f float64) float64 {
	return math.Min(1, math.Max(0, f))
}
