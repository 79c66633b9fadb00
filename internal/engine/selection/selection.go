// Package selection implements the editor's universal editing primitive:
// an ordered, non-empty set of anchored Ranges with one primary, normalized
// under the merge-on-touch policy and preserved across edits via the
// transaction package's position map.
//
// Grounded on internal/engine/cursor (Selection/CursorSet), generalized so
// the primary is tracked through merges by identity (the old primary's
// head) rather than always collapsing to index 0.
package selection

import (
	"fmt"
	"sort"

	"github.com/dshills/lumenedit/internal/engine/rope"
)

// Assoc biases which side of an insertion at an exact offset a Position
// binds to.
type Assoc uint8

const (
	// Before binds to the left of an insertion at this offset.
	Before Assoc = iota
	// After binds to the right of an insertion at this offset.
	After
)

// Position is a byte offset plus an insertion-side bias.
type Position struct {
	Offset rope.ByteOffset
	Assoc  Assoc
}

// Before is a convenience constructor for a Before-biased position.
func AtBefore(offset rope.ByteOffset) Position { return Position{Offset: offset, Assoc: Before} }

// AtAfter is a convenience constructor for an After-biased position.
func AtAfter(offset rope.ByteOffset) Position { return Position{Offset: offset, Assoc: After} }

// Range is an anchored span: Anchor is where the selection started, Head is
// the current cursor. Head == Anchor is a zero-width cursor.
type Range struct {
	Anchor Position
	Head   Position
}

// NewCursor returns a zero-width Range at offset, head-biased After (the
// conventional bias for a point the user is about to type at).
func NewCursor(offset rope.ByteOffset) Range {
	p := Position{Offset: offset, Assoc: After}
	return Range{Anchor: p, Head: p}
}

// NewRange returns a forward Range [anchorOffset, headOffset) with the
// anchor bound Before (stays put on insert-at-anchor) and the head bound
// After (grows to include insert-at-head), matching the Document-level
// default bias described in spec §3's invariants.
func NewRange(anchorOffset, headOffset rope.ByteOffset) Range {
	return Range{
		Anchor: Position{Offset: anchorOffset, Assoc: Before},
		Head:   Position{Offset: headOffset, Assoc: After},
	}
}

// IsEmpty reports whether this is a zero-width cursor.
func (r Range) IsEmpty() bool { return r.Anchor.Offset == r.Head.Offset }

// Min returns the lower bound offset.
func (r Range) Min() rope.ByteOffset {
	if r.Anchor.Offset <= r.Head.Offset {
		return r.Anchor.Offset
	}
	return r.Head.Offset
}

// Max returns the upper bound offset.
func (r Range) Max() rope.ByteOffset {
	if r.Anchor.Offset >= r.Head.Offset {
		return r.Anchor.Offset
	}
	return r.Head.Offset
}

// IsForward reports whether anchor <= head.
func (r Range) IsForward() bool { return r.Anchor.Offset <= r.Head.Offset }

// Flip swaps anchor and head.
func (r Range) Flip() Range { return Range{Anchor: r.Head, Head: r.Anchor} }

// EnsureForward returns r unchanged if already forward, else flipped.
func (r Range) EnsureForward() Range {
	if r.IsForward() {
		return r
	}
	return r.Flip()
}

// Collapse collapses the range to a zero-width cursor at the head.
func (r Range) Collapse() Range { return Range{Anchor: r.Head, Head: r.Head} }

// WithHead returns a copy of r with the head moved, anchor unchanged.
func (r Range) WithHead(p Position) Range { return Range{Anchor: r.Anchor, Head: p} }

// Touches reports whether r and other overlap or are adjacent
// (r.Max() >= other.Min() && other.Max() >= r.Min()), the merge-on-touch
// test used by Normalize.
func (r Range) Touches(other Range) bool {
	return r.Max() >= other.Min() && other.Max() >= r.Min()
}

// Merge returns the forward Range spanning both r and other. Direction and
// per-range Assoc information from the narrower range is not preserved,
// matching the teacher's cursor.Selection.Merge.
func (r Range) Merge(other Range) Range {
	min := r.Min()
	if other.Min() < min {
		min = other.Min()
	}
	max := r.Max()
	if other.Max() > max {
		max = other.Max()
	}
	return NewRange(min, max)
}

func (r Range) String() string {
	if r.IsEmpty() {
		return fmt.Sprintf("Cursor(%d)", r.Head.Offset)
	}
	return fmt.Sprintf("Range(%d..%d)", r.Anchor.Offset, r.Head.Offset)
}

// Selection is a non-empty, sorted, merge-on-touch-normalized set of
// Ranges plus a primary index.
type Selection struct {
	ranges  []Range
	primary int
}

// New constructs and normalizes a Selection from ranges, with primary
// pointing at primaryIdx before normalization (clamped into range).
func New(ranges []Range, primaryIdx int) Selection {
	if len(ranges) == 0 {
		ranges = []Range{NewCursor(0)}
	}
	if primaryIdx < 0 || primaryIdx >= len(ranges) {
		primaryIdx = 0
	}
	s := Selection{ranges: append([]Range(nil), ranges...), primary: primaryIdx}
	s.Normalize()
	return s
}

// Single returns a Selection containing exactly one range.
func Single(r Range) Selection {
	return Selection{ranges: []Range{r}, primary: 0}
}

// Ranges returns a copy of the selection's ranges, in sorted order.
func (s Selection) Ranges() []Range {
	out := make([]Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// Len returns the number of ranges.
func (s Selection) Len() int { return len(s.ranges) }

// Primary returns the primary range.
func (s Selection) Primary() Range { return s.ranges[s.primary] }

// PrimaryIndex returns the index of the primary range.
func (s Selection) PrimaryIndex() int { return s.primary }

// Get returns the range at i.
func (s Selection) Get(i int) Range { return s.ranges[i] }

// WithPrimaryIndex returns a copy with a different primary index (no
// re-normalization; index must already be valid).
func (s Selection) WithPrimaryIndex(i int) Selection {
	if i < 0 || i >= len(s.ranges) {
		i = s.primary
	}
	out := s.clone()
	out.primary = i
	return out
}

// Normalize implements spec §4.B's algorithm:
//  1. sort by (min, max)
//  2. sweep-merge ranges that touch (prev.max >= next.min) — merge-on-touch
//  3. track primary identity through merges by the pre-normalization
//     primary's head offset
//  4. if normalization would empty the selection, restore a single cursor
//     at the pre-normalization primary's head
func (s *Selection) Normalize() {
	if len(s.ranges) == 0 {
		s.ranges = []Range{NewCursor(0)}
		s.primary = 0
		return
	}

	primaryHead := s.ranges[s.primary].Head.Offset

	sorted := append([]Range(nil), s.ranges...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Min() != sorted[j].Min() {
			return sorted[i].Min() < sorted[j].Min()
		}
		return sorted[i].Max() < sorted[j].Max()
	})

	merged := make([]Range, 0, len(sorted))
	merged = append(merged, sorted[0])
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if last.Touches(r) {
			*last = last.Merge(r)
		} else {
			merged = append(merged, r)
		}
	}

	if len(merged) == 0 {
		merged = []Range{NewCursor(primaryHead)}
	}

	newPrimary := 0
	for i, r := range merged {
		if primaryHead >= r.Min() && primaryHead <= r.Max() {
			newPrimary = i
			break
		}
	}

	s.ranges = merged
	s.primary = newPrimary
}

func (s Selection) clone() Selection {
	return Selection{ranges: append([]Range(nil), s.ranges...), primary: s.primary}
}

// Push appends a range and re-normalizes.
func (s Selection) Push(r Range) Selection {
	out := s.clone()
	out.ranges = append(out.ranges, r)
	out.Normalize()
	return out
}

// MapRanges applies f to every range (in original, pre-normalization
// order) and returns a new, re-normalized Selection. Used by motion
// commands (§4.J) that derive a new Selection from the current one.
func (s Selection) MapRanges(f func(Range) Range) Selection {
	out := s.clone()
	for i, r := range out.ranges {
		out.ranges[i] = f(r)
	}
	out.Normalize()
	return out
}

// RotateForward moves the primary index forward by n (mod len), without
// touching range contents.
func (s Selection) RotateForward(n int) Selection {
	out := s.clone()
	l := len(out.ranges)
	out.primary = ((out.primary+n)%l + l) % l
	return out
}

// Clamp clamps every range's offsets into [0, maxOffset] and re-normalizes.
func (s Selection) Clamp(maxOffset rope.ByteOffset) Selection {
	clampOffset := func(o rope.ByteOffset) rope.ByteOffset {
		if o < 0 {
			return 0
		}
		if o > maxOffset {
			return maxOffset
		}
		return o
	}
	return s.MapRanges(func(r Range) Range {
		r.Anchor.Offset = clampOffset(r.Anchor.Offset)
		r.Head.Offset = clampOffset(r.Head.Offset)
		return r
	})
}

// CollapseAll collapses every range to a cursor at its head.
func (s Selection) CollapseAll() Selection {
	return s.MapRanges(Range.Collapse)
}
