package selection

import (
	"testing"

	"github.com/dshills/lumenedit/internal/renderer/core"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		selType Type
		want    string
	}{
		{TypeNormal, "normal"},
		{TypeLine, "line"},
		{TypeBlock, "block"},
		{Type(99), "normal"}, // Unknown
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.selType.String(); got != tt.want {
				t.Errorf("Type.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeFromString(t *testing.T) {
	tests := []struct {
		input string
		want  Type
	}{
		{"normal", TypeNormal},
		{"character", TypeNormal},
		{"char", TypeNormal},
		{"line", TypeLine},
		{"linewise", TypeLine},
		{"block", TypeBlock},
		{"column", TypeBlock},
		{"rectangular", TypeBlock},
		{"unknown", TypeNormal},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := TypeFromString(tt.input); got != tt.want {
				t.Errorf("TypeFromString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRangeIsEmpty(t *testing.T) {
	empty := Range{
		Start: Position{Line: 5, Column: 10},
		End:   Position{Line: 5, Column: 10},
	}
	if !empty.IsEmpty() {
		t.Error("Range with same start and end should be empty")
	}

	nonEmpty := Range{
		Start: Position{Line: 5, Column: 10},
		End:   Position{Line: 5, Column: 11},
	}
	if nonEmpty.IsEmpty() {
		t.Error("Range with different start and end should not be empty")
	}
}

func TestRangeNormalize(t *testing.T) {
	// Already normalized
	r1 := Range{
		Start: Position{Line: 1, Column: 0},
		End:   Position{Line: 2, Column: 5},
	}
	norm1 := r1.Normalize()
	if norm1.Start != r1.Start || norm1.End != r1.End {
		t.Error("Already normalized range should be unchanged")
	}

	// Reversed
	r2 := Range{
		Start: Position{Line: 5, Column: 10},
		End:   Position{Line: 2, Column: 5},
	}
	norm2 := r2.Normalize()
	if norm2.Start.Line != 2 || norm2.End.Line != 5 {
		t.Error("Reversed range should be normalized")
	}

	// Same line, reversed columns
	r3 := Range{
		Start: Position{Line: 5, Column: 10},
		End:   Position{Line: 5, Column: 5},
	}
	norm3 := r3.Normalize()
	if norm3.Start.Column != 5 || norm3.End.Column != 10 {
		t.Error("Same line reversed should be normalized")
	}
}

func TestRangeContainsNormal(t *testing.T) {
	r := Range{
		Start: Position{Line: 2, Column: 5},
		End:   Position{Line: 4, Column: 10},
		Type:  TypeNormal,
	}

	tests := []struct {
		line, col uint32
		want      bool
	}{
		{1, 0, false},  // Before start line
		{2, 4, false},  // On start line, before start col
		{2, 5, true},   // Start position
		{2, 10, true},  // On start line, after start col
		{3, 0, true},   // Middle line
		{3, 100, true}, // Middle line, any col
		{4, 0, true},   // End line, before end col
		{4, 9, true},   // End line, before end col
		{4, 10, false}, // End position (exclusive)
		{4, 11, false}, // After end col
		{5, 0, false},  // After end line
	}

	for _, tt := range tests {
		got := r.Contains(tt.line, tt.col)
		if got != tt.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", tt.line, tt.col, got, tt.want)
		}
	}
}

func TestRangeContainsLine(t *testing.T) {
	r := Range{
		Start: Position{Line: 2, Column: 5},
		End:   Position{Line: 4, Column: 10},
		Type:  TypeLine,
	}

	tests := []struct {
		line, col uint32
		want      bool
	}{
		{1, 0, false},
		{2, 0, true},   // Start line, col 0
		{2, 100, true}, // Start line, any col
		{3, 50, true},  // Middle line
		{4, 0, true},   // End line
		{5, 0, false},  // After end line
	}

	for _, tt := range tests {
		got := r.Contains(tt.line, tt.col)
		if got != tt.want {
			t.Errorf("Line Contains(%d, %d) = %v, want %v", tt.line, tt.col, got, tt.want)
		}
	}
}

func TestRangeContainsBlock(t *testing.T) {
	r := Range{
		Start: Position{Line: 2, Column: 5},
		End:   Position{Line: 4, Column: 10},
		Type:  TypeBlock,
	}

	tests := []struct {
		line, col uint32
		want      bool
	}{
		{1, 7, false},  // Before start line
		{2, 4, false},  // On line, before block
		{2, 5, true},   // Top-left corner
		{2, 7, true},   // Inside block
		{2, 9, true},   // Before end col
		{2, 10, false}, // End col (exclusive)
		{3, 6, true},   // Middle of block
		{4, 5, true},   // Bottom-left
		{4, 11, false}, // After block
		{5, 7, false},  // After end line
	}

	for _, tt := range tests {
		got := r.Contains(tt.line, tt.col)
		if got != tt.want {
			t.Errorf("Block Contains(%d, %d) = %v, want %v", tt.line, tt.col, got, tt.want)
		}
	}
}

func TestRangeContainsEmpty(t *testing.T) {
	r := Range{
		Start: Position{Line: 5, Column: 10},
		End:   Position{Line: 5, Column: 10},
	}

	if r.Contains(5, 10) {
		t.Error("Empty range should not contain any position")
	}
}

func TestRangeLineRange(t *testing.T) {
	r := Range{
		Start: Position{Line: 10, Column: 5},
		End:   Position{Line: 5, Column: 10},
	}

	start, end := r.LineRange()
	if start != 5 || end != 10 {
		t.Errorf("LineRange() = (%d, %d), want (5, 10)", start, end)
	}
}

func TestManagerNew(t *testing.T) {
	m := NewManager()

	if m == nil {
		t.Fatal("NewManager() returned nil")
	}
	if m.IsActive() {
		t.Error("New manager should not have active selection")
	}
}

func TestManagerSetPrimary(t *testing.T) {
	m := NewManager()

	sel := Range{
		Start: Position{Line: 1, Column: 0},
		End:   Position{Line: 2, Column: 5},
		Type:  TypeNormal,
	}
	m.SetPrimary(sel)

	got := m.Primary()
	if got.Start != sel.Start || got.End != sel.End {
		t.Error("Primary() should return set selection")
	}
	if !m.IsActive() {
		t.Error("Should be active after SetPrimary")
	}
}

func TestManagerSetPrimaryEmpty(t *testing.T) {
	m := NewManager()

	// Set a non-empty selection first
	m.SetPrimary(Range{
		Start: Position{Line: 1, Column: 0},
		End:   Position{Line: 2, Column: 5},
	})

	// Set empty selection
	m.SetPrimary(Range{
		Start: Position{Line: 5, Column: 5},
		End:   Position{Line: 5, Column: 5},
	})

	if m.IsActive() {
		t.Error("Should not be active with empty selection")
	}
}

func TestManagerStartSelection(t *testing.T) {
	m := NewManager()

	m.StartSelection(5, 10, TypeLine)

	primary := m.Primary()
	if primary.Start.Line != 5 || primary.Start.Column != 10 {
		t.Errorf("StartSelection position = (%d, %d), want (5, 10)", primary.Start.Line, primary.Start.Column)
	}
	if primary.Type != TypeLine {
		t.Error("Selection type should be TypeLine")
	}
	// Start with same start/end should not be "active" (empty)
	// But internally we track active = true, so IsActive may return true
	_ = m.IsActive() // result depends on internal implementation
}

func TestManagerExtendSelection(t *testing.T) {
	m := NewManager()

	m.StartSelection(5, 10, TypeNormal)
	m.ExtendSelection(10, 20)

	primary := m.Primary()
	if primary.End.Line != 10 || primary.End.Column != 20 {
		t.Errorf("ExtendSelection end = (%d, %d), want (10, 20)", primary.End.Line, primary.End.Column)
	}
	if m.IsActive() != true {
		t.Error("Should be active after extending")
	}
}

func TestManagerExtendSelectionInactive(t *testing.T) {
	m := NewManager()

	m.ExtendSelection(10, 20)

	primary := m.Primary()
	if primary.End.Line != 0 {
		t.Error("ExtendSelection on inactive should do nothing")
	}
}

func TestManagerClear(t *testing.T) {
	m := NewManager()

	m.StartSelection(5, 10, TypeNormal)
	m.ExtendSelection(10, 20)
	m.AddSecondary(Range{
		Start: Position{Line: 20, Column: 0},
		End:   Position{Line: 21, Column: 0},
	})

	m.Clear()

	if m.IsActive() {
		t.Error("Should not be active after Clear")
	}
	if len(m.Secondary()) != 0 {
		t.Error("Secondary selections should be cleared")
	}
}

func TestManagerAddSecondary(t *testing.T) {
	m := NewManager()

	m.AddSecondary(Range{
		Start: Position{Line: 10, Column: 0},
		End:   Position{Line: 11, Column: 0},
	})

	secondary := m.Secondary()
	if len(secondary) != 1 {
		t.Fatalf("Secondary() returned %d selections, want 1", len(secondary))
	}
}

func TestManagerAllSelections(t *testing.T) {
	m := NewManager()

	m.SetPrimary(Range{
		Start: Position{Line: 1, Column: 0},
		End:   Position{Line: 2, Column: 0},
	})
	m.AddSecondary(Range{
		Start: Position{Line: 10, Column: 0},
		End:   Position{Line: 11, Column: 0},
	})

	all := m.AllSelections()
	if len(all) != 2 {
		t.Errorf("AllSelections() returned %d, want 2", len(all))
	}
}

func TestManagerAllSelectionsEmpty(t *testing.T) {
	m := NewManager()

	all := m.AllSelections()
	if all != nil {
		t.Error("AllSelections on empty manager should return nil")
	}
}

func TestManagerClearSecondary(t *testing.T) {
	m := NewManager()

	m.SetPrimary(Range{
		Start: Position{Line: 1, Column: 0},
		End:   Position{Line: 2, Column: 0},
	})
	m.AddSecondary(Range{
		Start: Position{Line: 10, Column: 0},
		End:   Position{Line: 11, Column: 0},
	})

	m.ClearSecondary()

	if len(m.Secondary()) != 0 {
		t.Error("Secondary should be empty after ClearSecondary")
	}
	if !m.IsActive() {
		t.Error("Primary should remain active")
	}
}

func TestManagerContains(t *testing.T) {
	m := NewManager()

	m.SetPrimary(Range{
		Start: Position{Line: 5, Column: 0},
		End:   Position{Line: 5, Column: 10},
		Type:  TypeNormal,
	})
	m.AddSecondary(Range{
		Start: Position{Line: 10, Column: 0},
		End:   Position{Line: 10, Column: 5},
		Type:  TypeNormal,
	})

	if !m.Contains(5, 5) {
		t.Error("Should contain primary selection position")
	}
	if !m.Contains(10, 3) {
		t.Error("Should contain secondary selection position")
	}
	if m.Contains(7, 0) {
		t.Error("Should not contain position outside selections")
	}
}

func TestManagerSelectionsOnLine(t *testing.T) {
	m := NewManager()

	m.SetPrimary(Range{
		Start: Position{Line: 5, Column: 5},
		End:   Position{Line: 7, Column: 10},
		Type:  TypeNormal,
	})

	// Line 5 - start of selection
	sels := m.SelectionsOnLine(5)
	if len(sels) != 1 {
		t.Fatalf("SelectionsOnLine(5) returned %d, want 1", len(sels))
	}
	if sels[0].StartCol != 5 {
		t.Errorf("StartCol = %d, want 5", sels[0].StartCol)
	}
	if !sels[0].SelectToEnd {
		t.Error("First line should select to end")
	}

	// Line 6 - middle of selection
	sels = m.SelectionsOnLine(6)
	if len(sels) != 1 {
		t.Fatalf("SelectionsOnLine(6) returned %d, want 1", len(sels))
	}
	if sels[0].StartCol != 0 {
		t.Error("Middle line should start at 0")
	}
	if !sels[0].SelectToEnd {
		t.Error("Middle line should select to end")
	}

	// Line 7 - end of selection
	sels = m.SelectionsOnLine(7)
	if len(sels) != 1 {
		t.Fatalf("SelectionsOnLine(7) returned %d, want 1", len(sels))
	}
	if sels[0].StartCol != 0 || sels[0].EndCol != 10 {
		t.Errorf("End line selection = (%d, %d), want (0, 10)", sels[0].StartCol, sels[0].EndCol)
	}

	// Line 10 - no selection
	sels = m.SelectionsOnLine(10)
	if len(sels) != 0 {
		t.Error("Should return no selections for line outside range")
	}
}

func TestManagerSelectionsOnLineSingleLine(t *testing.T) {
	m := NewManager()

	m.SetPrimary(Range{
		Start: Position{Line: 5, Column: 5},
		End:   Position{Line: 5, Column: 15},
		Type:  TypeNormal,
	})

	sels := m.SelectionsOnLine(5)
	if len(sels) != 1 {
		t.Fatalf("SelectionsOnLine returned %d, want 1", len(sels))
	}
	if sels[0].StartCol != 5 || sels[0].EndCol != 15 {
		t.Errorf("Single line selection = (%d, %d), want (5, 15)", sels[0].StartCol, sels[0].EndCol)
	}
	if sels[0].SelectToEnd {
		t.Error("Single line should not select to end")
	}
}

func TestManagerSelectionsOnLineType(t *testing.T) {
	m := NewManager()

	m.SetPrimary(Range{
		Start: Position{Line: 5, Column: 5},
		End:   Position{Line: 7, Column: 10},
		Type:  TypeLine,
	})

	sels := m.SelectionsOnLine(5)
	if len(sels) != 1 {
		t.Fatalf("SelectionsOnLine returned %d, want 1", len(sels))
	}
	if sels[0].StartCol != 0 {
		t.Error("Line selection should start at 0")
	}
	if !sels[0].SelectToEnd {
		t.Error("Line selection should select to end")
	}
}

func TestManagerSelectionsOnLineBlock(t *testing.T) {
	m := NewManager()

	m.SetPrimary(Range{
		Start: Position{Line: 5, Column: 5},
		End:   Position{Line: 7, Column: 15},
		Type:  TypeBlock,
	})

	sels := m.SelectionsOnLine(6)
	if len(sels) != 1 {
		t.Fatalf("SelectionsOnLine returned %d, want 1", len(sels))
	}
	if sels[0].StartCol != 5 || sels[0].EndCol != 15 {
		t.Errorf("Block selection = (%d, %d), want (5, 15)", sels[0].StartCol, sels[0].EndCol)
	}
}

func TestManagerSetType(t *testing.T) {
	m := NewManager()
	m.StartSelection(0, 0, TypeNormal)

	m.SetType(TypeBlock)

	if m.Type() != TypeBlock {
		t.Error("Type should be TypeBlock")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.PrimaryColor.IsDefault() {
		t.Error("PrimaryColor should not be default")
	}
	if cfg.SecondaryColor.IsDefault() {
		t.Error("SecondaryColor should not be default")
	}
}

func TestRendererApplySelection(t *testing.T) {
	r := NewRenderer(DefaultConfig())

	cell := core.Cell{
		Rune:  'A',
		Width: 1,
		Style: core.DefaultStyle(),
	}

	result := r.ApplySelection(cell, true)

	// Should change background color
	if result.Style.Background.IsDefault() {
		t.Error("Selection should change background color")
	}
	if result.Rune != 'A' {
		t.Error("Rune should be preserved")
	}
}

func TestRendererConfig(t *testing.T) {
	cfg := Config{
		PrimaryColor:   core.ColorRed,
		SecondaryColor: core.ColorGreen,
	}
	r := NewRenderer(cfg)

	got := r.Config()
	if got.PrimaryColor != core.ColorRed {
		t.Error("Config should preserve primary color")
	}

	newCfg := Config{
		PrimaryColor: core.ColorYellow,
	}
	r.SetConfig(newCfg)

	got = r.Config()
	if got.PrimaryColor != core.ColorYellow {
		t.Error("SetConfig should update config")
	}
}

func TestMergeOverlapping(t *testing.T) {
	ranges := []Range{
		{Start: Position{Line: 0, Column: 0}, End: Position{Line: 2, Column: 5}},
		{Start: Position{Line: 1, Column: 0}, End: Position{Line: 3, Column: 0}},
		{Start: Position{Line: 10, Column: 0}, End: Position{Line: 11, Column: 0}},
	}

	merged := MergeOverlapping(ranges)

	if len(merged) != 2 {
		t.Fatalf("MergeOverlapping returned %d ranges, want 2", len(merged))
	}

	// First merged range should span 0-3
	if merged[0].Start.Line != 0 || merged[0].End.Line != 3 {
		t.Errorf("First merged range = (%d, %d), want (0, 3)", merged[0].Start.Line, merged[0].End.Line)
	}

	// Second range should be unchanged
	if merged[1].Start.Line != 10 {
		t.Error("Second range should be separate")
	}
}

func TestMergeOverlappingEmpty(t *testing.T) {
	var ranges []Range
	merged := MergeOverlapping(ranges)
	if merged != nil {
		t.Error("MergeOverlapping of nil should return nil")
	}
}

func TestMergeOverlappingSingle(t *testing.T) {
	ranges := []Range{
		{Start: Position{Line: 0, Column: 0}, End: Position{Line: 2, Column: 5}},
	}

	merged := MergeOverlapping(ranges)
	if len(merged) != 1 {
		t.Error("Single range should be returned unchanged")
	}
}

func TestMergeOverlappingAdjacent(t *testing.T) {
	ranges := []Range{
		{Start: Position{Line: 0, Column: 0}, End: Position{Line: 2, Column: 5}},
		{Start: Position{Line: 2, Column: 5}, End: Position{Line: 4, Column: 0}},
	}

	merged := MergeOverlapping(ranges)

	if len(merged) != 1 {
		t.Fatalf("Adjacent ranges should merge, got %d", len(merged))
	}
	if merged[0].Start.Line != 0 || merged[0].End.Line != 4 {
		t.Error("Adjacent ranges merged incorrectly")
	}
}
