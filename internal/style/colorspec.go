// Package style parses prompt style configuration and turns it into
// lipgloss styles.
package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI indexes for the named palette. Bright variants are index+8.
var namedColors = map[string]int{
	"black":   0,
	"red":     1,
	"green":   2,
	"yellow":  3,
	"blue":    4,
	"magenta": 5,
	"cyan":    6,
	"white":   7,
}

// ColorSpec is a parsed style token: a named palette color or a 24-bit RGB
// value, plus modifier flags.
type ColorSpec struct {
	name string // palette color name, empty when rgb is set
	rgb  string // "#rrggbb", empty when name is set

	bold   bool
	dim    bool
	italic bool
	bright bool
}

// ParseColorSpec parses a token of the form [modifier_]*<color>, where
// color is one of the eight named palette colors or #rrggbb and modifiers
// are bold_, dim_, italic_ and bright_ in any order.
func ParseColorSpec(token string) (ColorSpec, error) {
	var spec ColorSpec
	rest := strings.ToLower(strings.TrimSpace(token))

modifiers:
	for {
		switch {
		case strings.HasPrefix(rest, "bold_"):
			spec.bold, rest = true, strings.TrimPrefix(rest, "bold_")
		case strings.HasPrefix(rest, "dim_"):
			spec.dim, rest = true, strings.TrimPrefix(rest, "dim_")
		case strings.HasPrefix(rest, "italic_"):
			spec.italic, rest = true, strings.TrimPrefix(rest, "italic_")
		case strings.HasPrefix(rest, "bright_"):
			spec.bright, rest = true, strings.TrimPrefix(rest, "bright_")
		default:
			break modifiers
		}
	}

	if strings.HasPrefix(rest, "#") {
		if len(rest) != 7 {
			return ColorSpec{}, fmt.Errorf("rgb color %q must be #rrggbb", rest)
		}
		if _, err := strconv.ParseUint(rest[1:], 16, 32); err != nil {
			return ColorSpec{}, fmt.Errorf("rgb color %q must be #rrggbb", rest)
		}
		spec.rgb = rest
		return spec, nil
	}

	if _, ok := namedColors[rest]; !ok {
		return ColorSpec{}, fmt.Errorf("unknown color %q", rest)
	}
	spec.name = rest
	return spec, nil
}

// Style renders the spec into a lipgloss style bound to the given
// renderer. bright selects the high-intensity variant of a named color;
// combined with an RGB color it degrades to bold, since RGB has no bright
// palette in terminal semantics.
func (s ColorSpec) Style(r *lipgloss.Renderer) lipgloss.Style {
	st := r.NewStyle()

	switch {
	case s.rgb != "":
		st = st.Foreground(lipgloss.Color(s.rgb))
		if s.bright {
			st = st.Bold(true)
		}
	case s.name != "":
		index := namedColors[s.name]
		if s.bright {
			index += 8
		}
		st = st.Foreground(lipgloss.Color(strconv.Itoa(index)))
	}

	if s.bold {
		st = st.Bold(true)
	}
	if s.dim {
		st = st.Faint(true)
	}
	if s.italic {
		st = st.Italic(true)
	}
	return st
}
