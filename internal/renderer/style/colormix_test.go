package style

import (
	"testing"

	"github.com/dshills/lumenedit/internal/renderer/core"
)

func TestBlendEndpoints(t *testing.T) {
	base := core.Color{R: 255, G: 0, B: 0}
	overlay := core.Color{R: 0, G: 0, B: 255}

	if got := Blend(base, overlay, 0); got != base {
		t.Fatalf("t=0 should return base, got %+v", got)
	}
	if got := Blend(base, overlay, 1); got != overlay {
		t.Fatalf("t=1 should return overlay, got %+v", got)
	}
}

func TestBlendIndexedFallsBackToReplace(t *testing.T) {
	base := core.Color{Indexed: true, R: 1}
	overlay := core.Color{R: 200, G: 200, B: 200}

	if got := Blend(base, overlay, 0.7); got != overlay {
		t.Fatalf("expected overlay at t=0.7 for indexed base, got %+v", got)
	}
	if got := Blend(base, overlay, 0.3); got != base {
		t.Fatalf("expected base at t=0.3 for indexed base, got %+v", got)
	}
}

func TestDiagnosticSeverityTintClampsRange(t *testing.T) {
	hint := core.Color{R: 0, G: 255, B: 0}
	errColor := core.Color{R: 255, G: 0, B: 0}

	if got := DiagnosticSeverityTint(hint, errColor, -1); got != hint {
		t.Fatalf("severity below 0 should clamp to hint, got %+v", got)
	}
	if got := DiagnosticSeverityTint(hint, errColor, 2); got != errColor {
		t.Fatalf("severity above 1 should clamp to error, got %+v", got)
	}
}
