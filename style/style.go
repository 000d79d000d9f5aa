// Package style defines the resolved-style model consumed by the layout
// adapter and the reference flow engine, plus the Resolver that maps a
// node's class attribute to a Style.
//
// The core never parses styling syntax: a Resolver is a pure mapping from
// a class string (and interaction state) to explicit style properties.
// The Sheet resolver in this package reads those properties from a YAML
// stylesheet or programmatic definitions.
package style

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DimMode identifies how a dimension value is interpreted.
type DimMode uint8

const (
	// DimAuto sizes from content (the zero value).
	DimAuto DimMode = iota
	// DimPx is an absolute pixel value.
	DimPx
	// DimPercent is a percentage of the parent's corresponding extent.
	DimPercent
)

// Dim is a single sizing dimension (width, height, min/max variants).
type Dim struct {
	Mode  DimMode
	Value float32
}

// Px returns an absolute pixel dimension.
func Px(v float32) Dim { return Dim{Mode: DimPx, Value: v} }

// Percent returns a percentage dimension (0-100).
func Percent(v float32) Dim { return Dim{Mode: DimPercent, Value: v} }

// Auto is the content-sized dimension.
var Auto = Dim{}

// IsAuto reports whether the dimension is content-sized.
func (d Dim) IsAuto() bool { return d.Mode == DimAuto }

// Resolve converts the dimension to pixels given the parent extent.
// Auto resolves to the provided fallback.
func (d Dim) Resolve(parent, fallback float32) float32 {
	switch d.Mode {
	case DimPx:
		return d.Value
	case DimPercent:
		return parent * d.Value / 100
	default:
		return fallback
	}
}

func (d *Dim) UnmarshalYAML(value *yaml.Node) error {
	s := strings.TrimSpace(value.Value)
	if value.Tag == "!!str" {
		if s == "auto" {
			*d = Auto
			return nil
		}
		if strings.HasSuffix(s, "%") {
			v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 32)
			if err != nil {
				return fmt.Errorf("invalid percent dimension %q: %w", s, err)
			}
			*d = Percent(float32(v))
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return fmt.Errorf("invalid dimension %q: %w", value.Value, err)
	}
	*d = Px(float32(v))
	return nil
}

// Edges holds per-side spacing in top, right, bottom, left order.
type Edges [4]float32

// Top, Right, Bottom and Left index an Edges value.
const (
	Top = iota
	Right
	Bottom
	Left
)

// Uniform returns equal spacing on all four sides.
func Uniform(v float32) Edges { return Edges{v, v, v, v} }

// Horizontal returns left + right.
func (e Edges) Horizontal() float32 { return e[Left] + e[Right] }

// Vertical returns top + bottom.
func (e Edges) Vertical() float32 { return e[Top] + e[Bottom] }

func (e *Edges) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		v, err := strconv.ParseFloat(value.Value, 32)
		if err != nil {
			return fmt.Errorf("invalid edge value %q: %w", value.Value, err)
		}
		*e = Uniform(float32(v))
		return nil
	}
	var vals []float32
	if err := value.Decode(&vals); err != nil {
		return err
	}
	switch len(vals) {
	case 1:
		*e = Uniform(vals[0])
	case 2:
		*e = Edges{vals[0], vals[1], vals[0], vals[1]}
	case 4:
		*e = Edges{vals[0], vals[1], vals[2], vals[3]}
	default:
		return fmt.Errorf("edges want 1, 2 or 4 values, got %d", len(vals))
	}
	return nil
}

// Color is a packed 0xRRGGBBAA color.
type Color uint32

// RGBA unpacks the color channels.
func (c Color) RGBA() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	s := strings.TrimSpace(value.Value)
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		switch len(hex) {
		case 3: // #rgb
			var out uint32
			for _, ch := range hex {
				v, err := strconv.ParseUint(string(ch), 16, 8)
				if err != nil {
					return fmt.Errorf("invalid color %q", s)
				}
				out = out<<8 | uint32(v*17)
			}
			*c = Color(out<<8 | 0xFF)
			return nil
		case 6: // #rrggbb
			v, err := strconv.ParseUint(hex, 16, 32)
			if err != nil {
				return fmt.Errorf("invalid color %q", s)
			}
			*c = Color(uint32(v)<<8 | 0xFF)
			return nil
		case 8: // #rrggbbaa
			v, err := strconv.ParseUint(hex, 16, 32)
			if err != nil {
				return fmt.Errorf("invalid color %q", s)
			}
			*c = Color(v)
			return nil
		default:
			return fmt.Errorf("invalid color %q", s)
		}
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return fmt.Errorf("invalid color %q: %w", value.Value, err)
	}
	*c = Color(v)
	return nil
}

// Direction is the main axis for stacking children.
type Direction uint8

const (
	// DirectionColumn stacks children top to bottom (the zero value).
	DirectionColumn Direction = iota
	// DirectionRow stacks children left to right.
	DirectionRow
)

func (d *Direction) UnmarshalYAML(value *yaml.Node) error {
	switch value.Value {
	case "column", "":
		*d = DirectionColumn
	case "row":
		*d = DirectionRow
	default:
		return fmt.Errorf("invalid direction %q", value.Value)
	}
	return nil
}

// Overflow controls content that exceeds a box's bounds on one axis.
type Overflow uint8

const (
	// OverflowVisible lets content spill out (the zero value).
	OverflowVisible Overflow = iota
	// OverflowHidden clips content without scrolling.
	OverflowHidden
	// OverflowScroll clips content and allows scrolling.
	OverflowScroll
	// OverflowAuto behaves like scroll when content overflows.
	OverflowAuto
)

// Scrollable reports whether the overflow mode accepts scroll input.
func (o Overflow) Scrollable() bool { return o == OverflowScroll || o == OverflowAuto }

func (o *Overflow) UnmarshalYAML(value *yaml.Node) error {
	switch value.Value {
	case "visible", "":
		*o = OverflowVisible
	case "hidden":
		*o = OverflowHidden
	case "scroll":
		*o = OverflowScroll
	case "auto":
		*o = OverflowAuto
	default:
		return fmt.Errorf("invalid overflow %q", value.Value)
	}
	return nil
}

func (o Overflow) String() string {
	switch o {
	case OverflowHidden:
		return "hidden"
	case OverflowScroll:
		return "scroll"
	case OverflowAuto:
		return "auto"
	default:
		return "visible"
	}
}

// Style is a fully resolved set of style properties. A node owns exactly
// one Style, replaced wholesale on restyle; callers treat resolved styles
// as immutable because resolvers may share cached instances.
type Style struct {
	// Sizing
	Width     Dim
	Height    Dim
	MinWidth  Dim
	MinHeight Dim
	MaxWidth  Dim
	MaxHeight Dim

	// Spacing
	Padding Edges
	Margin  Edges
	Gap     float32

	// Child flow
	Direction Direction

	// Overflow
	OverflowX Overflow
	OverflowY Overflow

	// Typography
	FontSize   float32
	LineHeight float32 // Multiplier over the font's natural line height
	FontFamily string

	// Paint properties, opaque to the core, consumed by the host's renderer
	TextColor       Color
	BackgroundColor Color
	BorderColor     Color
	BorderWidth     float32
	CornerRadius    float32
	Opacity         float32
}

// Default returns the base style that class definitions merge over.
func Default() Style {
	return Style{
		FontSize:   14,
		LineHeight: 1.2,
		TextColor:  0x000000FF,
		Opacity:    1,
	}
}

// Partial is a mergeable subset of style properties. Nil fields leave the
// target untouched. Class definitions and state variants are Partials.
type Partial struct {
	Width     *Dim `yaml:"width,omitempty"`
	Height    *Dim `yaml:"height,omitempty"`
	MinWidth  *Dim `yaml:"min-width,omitempty"`
	MinHeight *Dim `yaml:"min-height,omitempty"`
	MaxWidth  *Dim `yaml:"max-width,omitempty"`
	MaxHeight *Dim `yaml:"max-height,omitempty"`

	Padding *Edges   `yaml:"padding,omitempty"`
	Margin  *Edges   `yaml:"margin,omitempty"`
	Gap     *float32 `yaml:"gap,omitempty"`

	Direction *Direction `yaml:"direction,omitempty"`

	OverflowX *Overflow `yaml:"overflow-x,omitempty"`
	OverflowY *Overflow `yaml:"overflow-y,omitempty"`

	FontSize   *float32 `yaml:"font-size,omitempty"`
	LineHeight *float32 `yaml:"line-height,omitempty"`
	FontFamily *string  `yaml:"font-family,omitempty"`

	TextColor       *Color   `yaml:"text-color,omitempty"`
	BackgroundColor *Color   `yaml:"background-color,omitempty"`
	BorderColor     *Color   `yaml:"border-color,omitempty"`
	BorderWidth     *float32 `yaml:"border-width,omitempty"`
	CornerRadius    *float32 `yaml:"corner-radius,omitempty"`
	Opacity         *float32 `yaml:"opacity,omitempty"`
}

// ApplyTo merges the partial's set fields into dst.
func (p *Partial) ApplyTo(dst *Style) {
	if p == nil {
		return
	}
	if p.Width != nil {
		dst.Width = *p.Width
	}
	if p.Height != nil {
		dst.Height = *p.Height
	}
	if p.MinWidth != nil {
		dst.MinWidth = *p.MinWidth
	}
	if p.MinHeight != nil {
		dst.MinHeight = *p.MinHeight
	}
	if p.MaxWidth != nil {
		dst.MaxWidth = *p.MaxWidth
	}
	if p.MaxHeight != nil {
		dst.MaxHeight = *p.MaxHeight
	}
	if p.Padding != nil {
		dst.Padding = *p.Padding
	}
	if p.Margin != nil {
		dst.Margin = *p.Margin
	}
	if p.Gap != nil {
		dst.Gap = *p.Gap
	}
	if p.Direction != nil {
		dst.Direction = *p.Direction
	}
	if p.OverflowX != nil {
		dst.OverflowX = *p.OverflowX
	}
	if p.OverflowY != nil {
		dst.OverflowY = *p.OverflowY
	}
	if p.FontSize != nil {
		dst.FontSize = *p.FontSize
	}
	if p.LineHeight != nil {
		dst.LineHeight = *p.LineHeight
	}
	if p.FontFamily != nil {
		dst.FontFamily = *p.FontFamily
	}
	if p.TextColor != nil {
		dst.TextColor = *p.TextColor
	}
	if p.BackgroundColor != nil {
		dst.BackgroundColor = *p.BackgroundColor
	}
	if p.BorderColor != nil {
		dst.BorderColor = *p.BorderColor
	}
	if p.BorderWidth != nil {
		dst.BorderWidth = *p.BorderWidth
	}
	if p.CornerRadius != nil {
		dst.CornerRadius = *p.CornerRadius
	}
	if p.Opacity != nil {
		dst.Opacity = *p.Opacity
	}
}
