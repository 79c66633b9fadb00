package style

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/lumenedit/internal/renderer/core"
)

// Blend mixes two colors in perceptually-uniform Lab space, weighted by t
// (0 = entirely base, 1 = entirely overlay). Used for soft overlay layers
// (search highlight, diff preview) that should tint the base style rather
// than fully replace it the way LayerCursor/LayerSelection do.
//
// Indexed and Default colors have no RGB to blend; Blend returns the
// overlay color unchanged in that case, matching the resolver's existing
// priority-replace behavior for non-true-color terminals.
func Blend(base, overlay core.Color, t float64) core.Color {
	if base.Indexed || base.Default || overlay.Indexed || overlay.Default {
		if t >= 0.5 {
			return overlay
		}
		return base
	}
	if t <= 0 {
		return base
	}
	if t >= 1 {
		return overlay
	}

	baseC := colorful.Color{R: float64(base.R) / 255, G: float64(base.G) / 255, B: float64(base.B) / 255}
	overlayC := colorful.Color{R: float64(overlay.R) / 255, G: float64(overlay.G) / 255, B: float64(overlay.B) / 255}
	mixed := baseC.BlendLab(overlayC, t)

	r, g, b := mixed.Clamped().RGB255()
	return core.Color{R: r, G: g, B: b}
}

// DiagnosticSeverityTint returns a perceptually-even color ramp between
// the theme's hint color and its error color for a given severity level
// in [0,1] (0 = hint, 1 = error), used to tint the gutter/underline for
// severities the theme doesn't define an exact color for.
func DiagnosticSeverityTint(hint, errorColor core.Color, severity float64) core.Color {
	if severity < 0 {
		severity = 0
	}
	if severity > 1 {
		severity = 1
	}
	return Blend(hint, errorColor, severity)
}
