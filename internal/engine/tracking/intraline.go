package tracking

import (
	diffmatchpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// IntralineSpan marks a changed region within one line, in byte columns.
type IntralineSpan struct {
	Type       DiffType
	StartCol   int
	EndCol     int
}

// IntralineDiff computes word-level change spans between a replaced pair
// of lines, for rendering the teacher's line-level diff hunks (DiffInsert
// paired with a DiffDelete at the same position, i.e. a "modified" line)
// with finer-grained highlighting than ComputeLineDiff's whole-line
// granularity — e.g. highlighting just the changed identifier in
// `let x = 1` -> `let x = 2` instead of the whole line.
func IntralineDiff(oldLine, newLine string) []IntralineSpan {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldLine, newLine, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var spans []IntralineSpan
	col := 0
	for _, d := range diffs {
		n := len(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			col += n
		case diffmatchpatch.DiffInsert:
			spans = append(spans, IntralineSpan{Type: DiffInsert, StartCol: col, EndCol: col + n})
			col += n
		case diffmatchpatch.DiffDelete:
			spans = append(spans, IntralineSpan{Type: DiffDelete, StartCol: col, EndCol: col + n})
			// Deleted text doesn't advance the column in the new line's
			// coordinate space.
		}
	}
	return spans
}
