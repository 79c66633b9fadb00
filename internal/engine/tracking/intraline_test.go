package tracking

import "testing"

func TestIntralineDiffHighlightsChangedWord(t *testing.T) {
	spans := IntralineDiff("let x = 1;", "let x = 2;")
	if len(spans) == 0 {
		t.Fatal("expected at least one changed span")
	}
	foundInsert := false
	for _, s := range spans {
		if s.Type == DiffInsert {
			foundInsert = true
		}
	}
	if !foundInsert {
		t.Error("expected an insert span for the changed digit")
	}
}

func TestIntralineDiffIdenticalLines(t *testing.T) {
	spans := IntralineDiff("same line", "same line")
	if len(spans) != 0 {
		t.Fatalf("expected no spans for identical lines, got %d", len(spans))
	}
}
