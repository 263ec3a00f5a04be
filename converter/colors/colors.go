package colors

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"
)

// Scheme represents a color scheme for dark mode conversion
type Scheme struct {
	Name       string
	Background Color // Dark background color
	Text       Color // Light text color
}

// Color represents a color with both normalized (0-1) and 8-bit (0-255) values
type Color struct {
	R8, G8, B8 uint8   // 8-bit values (0-255)
	R, G, B    float64 // Normalized values (0-1)
}

// NewColorFromHex creates a Color from a hex string (e.g., "#1a1a1a" or "1a1a1a")
func NewColorFromHex(hex string) (Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid hex color: %s (expected 6 characters)", hex)
	}

	r, err := strconv.ParseUint(hex[0:2], 16, 8)
	if err != nil {
		return Color{}, fmt.Errorf("invalid red component in hex: %s", hex)
	}
	g, err := strconv.ParseUint(hex[2:4], 16, 8)
	if err != nil {
		return Color{}, fmt.Errorf("invalid green component in hex: %s", hex)
	}
	b, err := strconv.ParseUint(hex[4:6], 16, 8)
	if err != nil {
		return Color{}, fmt.Errorf("invalid blue component in hex: %s", hex)
	}

	return NewColorFromRGB8(uint8(r), uint8(g), uint8(b)), nil
}

// NewColorFromRGB8 creates a Color from 8-bit RGB values
func NewColorFromRGB8(r, g, b uint8) Color {
	return Color{
		R8: r, G8: g, B8: b,
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
}

// ToRGBA converts to Go's color.RGBA
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{R: c.R8, G: c.G8, B: c.B8, A: 255}
}

// Hex returns the hex string representation
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R8, c.G8, c.B8)
}

// lightText is the near-white used for converted body text in every scheme.
var lightText = NewColorFromRGB8(250, 250, 250)

// Predefined color schemes
var (
	// SchemeClassic is the default: true black background, near-white text
	SchemeClassic = Scheme{
		Name:       "classic",
		Background: NewColorFromRGB8(0, 0, 0),
		Text:       lightText,
	}

	// SchemeClaude is a warm dark brown
	SchemeClaude = Scheme{
		Name:       "claude",
		Background: NewColorFromRGB8(42, 37, 34), // #2a2522
		Text:       lightText,
	}

	// SchemeChatGPT is a dark blue-gray
	SchemeChatGPT = Scheme{
		Name:       "chatgpt",
		Background: NewColorFromRGB8(52, 53, 65), // #343541
		Text:       lightText,
	}

	// SchemeSepia is a warm sepia tone
	SchemeSepia = Scheme{
		Name:       "sepia",
		Background: NewColorFromRGB8(40, 35, 25), // #282319
		Text:       lightText,
	}

	// SchemeMidnight is a cool midnight blue
	SchemeMidnight = Scheme{
		Name:       "midnight",
		Background: NewColorFromRGB8(25, 30, 45), // #191e2d
		Text:       lightText,
	}

	// SchemeForest is a dark natural green
	SchemeForest = Scheme{
		Name:       "forest",
		Background: NewColorFromRGB8(25, 35, 30), // #19231e
		Text:       lightText,
	}

	// AvailableSchemes maps scheme names to their definitions
	AvailableSchemes = map[string]Scheme{
		"classic":  SchemeClassic,
		"claude":   SchemeClaude,
		"chatgpt":  SchemeChatGPT,
		"sepia":    SchemeSepia,
		"midnight": SchemeMidnight,
		"forest":   SchemeForest,
	}
)

// GetScheme returns a scheme by name, or an error if not found
func GetScheme(name string) (Scheme, error) {
	name = strings.ToLower(name)
	if scheme, ok := AvailableSchemes[name]; ok {
		return scheme, nil
	}
	return Scheme{}, fmt.Errorf("unknown color scheme: %s", name)
}

// ListSchemes returns a sorted list of available scheme names
func ListSchemes() []string {
	names := make([]string, 0, len(AvailableSchemes))
	for name := range AvailableSchemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewCustomScheme creates a custom scheme from hex colors
func NewCustomScheme(bgHex, textHex string) (Scheme, error) {
	bg, err := NewColorFromHex(bgHex)
	if err != nil {
		return Scheme{}, fmt.Errorf("invalid background color: %w", err)
	}
	text, err := NewColorFromHex(textHex)
	if err != nil {
		return Scheme{}, fmt.Errorf("invalid text color: %w", err)
	}
	return Scheme{
		Name:       "custom",
		Background: bg,
		Text:       text,
	}, nil
}

// DefaultScheme returns the default classic scheme
func DefaultScheme() Scheme {
	return SchemeClassic
}
