package transaction

import (
	"github.com/dshills/lumenedit/internal/engine/rope"
	"github.com/dshills/lumenedit/internal/engine/selection"
)

// Map implements spec §4.C's position map: walks the op stream tracking
// oldPos/newPos, per the documented tie-break —
//
//	at a Retain(n): both advance by n
//	at a Delete(n): pos inside the deleted span collapses to newPos;
//	  otherwise oldPos advances past it
//	at an Insert(k): newPos advances by k; if pos == oldPos (the insertion
//	  point), Before binds left (stays at the pre-insert newPos) and After
//	  binds right (moves past the inserted text) — anchors conventionally
//	  use Before, heads conventionally use After, per spec §3.
//
// This tie-break is part of the public, testable contract (spec §4.C).
func (c ChangeSet) Map(pos selection.Position) selection.Position {
	var oldPos, newPos rope.ByteOffset

	for _, op := range c.Ops {
		switch op.Kind {
		case OpRetain:
			if pos.Offset >= oldPos && pos.Offset < oldPos+op.N {
				return selection.Position{Offset: newPos + (pos.Offset - oldPos), Assoc: pos.Assoc}
			}
			oldPos += op.N
			newPos += op.N

		case OpDelete:
			if pos.Offset >= oldPos && pos.Offset < oldPos+op.N {
				return selection.Position{Offset: newPos, Assoc: pos.Assoc}
			}
			oldPos += op.N

		case OpInsert:
			k := rope.ByteOffset(len(op.Text))
			if pos.Offset == oldPos {
				if pos.Assoc == selection.After {
					return selection.Position{Offset: newPos + k, Assoc: pos.Assoc}
				}
				return selection.Position{Offset: newPos, Assoc: pos.Assoc}
			}
			newPos += k
		}
	}

	// pos is at or past the end of the pre-image.
	return selection.Position{Offset: newPos + (pos.Offset - oldPos), Assoc: pos.Assoc}
}

// MapRange maps both endpoints of a selection.Range.
func (c ChangeSet) MapRange(r selection.Range) selection.Range {
	return selection.Range{Anchor: c.Map(r.Anchor), Head: c.Map(r.Head)}
}

// MapSelection maps every range of a Selection, preserving the primary
// index (merges, if any result from the mapped ranges overlapping, are
// resolved by Selection.Normalize's identity tracking).
func (c ChangeSet) MapSelection(s selection.Selection) selection.Selection {
	ranges := s.Ranges()
	mapped := make([]selection.Range, len(ranges))
	for i, r := range ranges {
		mapped[i] = c.MapRange(r)
	}
	return selection.New(mapped, s.PrimaryIndex())
}
