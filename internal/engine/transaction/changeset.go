// Package transaction implements spec §4.C's ChangeSet/Transaction model:
// an edit described as a Retain/Delete/Insert op stream, composable and
// invertible, carrying a position map parameterized by insertion bias.
//
// The teacher's internal/engine/buffer.Edit/Change types describe a single
// edit range plus its inverse; they are the primitive ChangeSet.Apply
// compiles down to (mirroring how history.Command wraps a buffer.Edit).
// ChangeSet itself — the op-stream, composition, and bias-aware position
// map — has no teacher analogue and is built fresh against spec §4.C.
package transaction

import (
	"errors"
	"fmt"

	"github.com/dshills/lumenedit/internal/engine/buffer"
	"github.com/dshills/lumenedit/internal/engine/rope"
	"github.com/dshills/lumenedit/internal/engine/selection"
)

// ErrLengthMismatch is returned by Apply when the ChangeSet's retain+delete
// length does not equal the pre-image rope's byte length.
var ErrLengthMismatch = errors.New("transaction: changeset length does not match base rope")

// OpKind distinguishes the three ChangeSet operations.
type OpKind uint8

const (
	OpRetain OpKind = iota
	OpDelete
	OpInsert
)

// Op is one operation in a ChangeSet's op stream.
type Op struct {
	Kind OpKind
	N    rope.ByteOffset // byte length, for Retain/Delete
	Text string          // inserted text, for Insert
}

func (o Op) String() string {
	switch o.Kind {
	case OpRetain:
		return fmt.Sprintf("Retain(%d)", o.N)
	case OpDelete:
		return fmt.Sprintf("Delete(%d)", o.N)
	case OpInsert:
		return fmt.Sprintf("Insert(%q)", o.Text)
	default:
		return "?"
	}
}

// ChangeSet is an ordered list of Retain/Delete/Insert ops over a base
// rope of byte length BaseLen. The retain+delete lengths sum to BaseLen.
type ChangeSet struct {
	BaseLen rope.ByteOffset
	Ops     []Op
}

// Builder accumulates ops with run-length coalescing, mirroring the
// rope package's chunk-coalescing style.
type Builder struct {
	baseLen rope.ByteOffset
	ops     []Op
}

// NewBuilder creates a Builder over a pre-image of the given byte length.
func NewBuilder(baseLen rope.ByteOffset) *Builder {
	return &Builder{baseLen: baseLen}
}

// Retain appends (or coalesces into) a Retain op.
func (b *Builder) Retain(n rope.ByteOffset) *Builder {
	if n <= 0 {
		return b
	}
	if l := len(b.ops); l > 0 && b.ops[l-1].Kind == OpRetain {
		b.ops[l-1].N += n
		return b
	}
	b.ops = append(b.ops, Op{Kind: OpRetain, N: n})
	return b
}

// Delete appends (or coalesces into) a Delete op.
func (b *Builder) Delete(n rope.ByteOffset) *Builder {
	if n <= 0 {
		return b
	}
	if l := len(b.ops); l > 0 && b.ops[l-1].Kind == OpDelete {
		b.ops[l-1].N += n
		return b
	}
	b.ops = append(b.ops, Op{Kind: OpDelete, N: n})
	return b
}

// Insert appends (or coalesces into) an Insert op.
func (b *Builder) Insert(text string) *Builder {
	if text == "" {
		return b
	}
	if l := len(b.ops); l > 0 && b.ops[l-1].Kind == OpInsert {
		b.ops[l-1].Text += text
		return b
	}
	b.ops = append(b.ops, Op{Kind: OpInsert, Text: text})
	return b
}

// Build finalizes the ChangeSet. It implicitly retains any remaining
// unconsumed suffix of the base rope.
func (b *Builder) Build() ChangeSet {
	retained := rope.ByteOffset(0)
	for _, op := range b.ops {
		if op.Kind == OpRetain || op.Kind == OpDelete {
			retained += op.N
		}
	}
	if rest := b.baseLen - retained; rest > 0 {
		b.Retain(rest)
	}
	return ChangeSet{BaseLen: b.baseLen, Ops: b.ops}
}

// Identity returns a no-op ChangeSet retaining the entire base.
func Identity(baseLen rope.ByteOffset) ChangeSet {
	return NewBuilder(baseLen).Build()
}

// FromSingleEdit builds a ChangeSet equivalent to replacing [start,end)
// with text, grounded on buffer.Edit's single-range model.
func FromSingleEdit(baseLen rope.ByteOffset, edit buffer.Edit) ChangeSet {
	b := NewBuilder(baseLen)
	b.Retain(rope.ByteOffset(edit.Range.Start))
	b.Delete(rope.ByteOffset(edit.Range.Len()))
	b.Insert(edit.NewText)
	return b.Build()
}

// retainDeleteLen returns the sum of Retain+Delete op lengths (the
// pre-image length the ChangeSet expects).
func (c ChangeSet) retainDeleteLen() rope.ByteOffset {
	var n rope.ByteOffset
	for _, op := range c.Ops {
		if op.Kind == OpRetain || op.Kind == OpDelete {
			n += op.N
		}
	}
	return n
}

// PostLen returns the byte length of the post-image produced by applying c.
func (c ChangeSet) PostLen() rope.ByteOffset {
	var n rope.ByteOffset
	for _, op := range c.Ops {
		switch op.Kind {
		case OpRetain:
			n += op.N
		case OpInsert:
			n += rope.ByteOffset(len(op.Text))
		}
	}
	return n
}

// IsEmpty reports whether c is a no-op (nothing but retains).
func (c ChangeSet) IsEmpty() bool {
	for _, op := range c.Ops {
		if op.Kind != OpRetain {
			return false
		}
	}
	return true
}

// Apply applies c to r, producing the post-image rope. Returns
// ErrLengthMismatch (an InvariantError-class failure per spec §4.E) if the
// retain+delete lengths don't sum to r.Len().
func (c ChangeSet) Apply(r rope.Rope) (rope.Rope, error) {
	if c.retainDeleteLen() != r.Len() || c.BaseLen != r.Len() {
		return rope.Rope{}, ErrLengthMismatch
	}

	var pos rope.ByteOffset
	out := rope.New()
	for _, op := range c.Ops {
		switch op.Kind {
		case OpRetain:
			out = out.Concat(rope.FromString(r.Slice(pos, pos+op.N)))
			pos += op.N
		case OpDelete:
			pos += op.N
		case OpInsert:
			out = out.Concat(rope.FromString(op.Text))
		}
	}
	return out, nil
}

// Invert computes the ChangeSet that undoes c, given the pre-image rope it
// was computed against. Delete ops become Insert of the deleted span;
// Retain passes through; Insert becomes Delete (only meaningful once the
// post-image exists, per spec §4.C).
func (c ChangeSet) Invert(pre rope.Rope) ChangeSet {
	out := make([]Op, 0, len(c.Ops))
	var pos rope.ByteOffset
	for _, op := range c.Ops {
		switch op.Kind {
		case OpRetain:
			out = append(out, Op{Kind: OpRetain, N: op.N})
			pos += op.N
		case OpDelete:
			out = append(out, Op{Kind: OpInsert, Text: pre.Slice(pos, pos+op.N)})
			pos += op.N
		case OpInsert:
			out = append(out, Op{Kind: OpDelete, N: rope.ByteOffset(len(op.Text))})
		}
	}
	return ChangeSet{BaseLen: c.PostLen(), Ops: out}
}

// opReader walks a ChangeSet's ops, splitting them as needed so two
// ChangeSets can be composed/compared op-by-op.
type opReader struct {
	ops []Op
	idx int
	// consumed is how much of ops[idx] has already been taken (only
	// meaningful for Retain/Delete; Insert is always taken whole).
	consumed rope.ByteOffset
}

func newOpReader(ops []Op) *opReader { return &opReader{ops: ops} }

func (r *opReader) done() bool { return r.idx >= len(r.ops) }

// peek returns the kind and remaining length of the current op (Insert
// ops report their full text each time; callers consuming partial inserts
// use takeInsert).
func (r *opReader) peekKind() (OpKind, bool) {
	if r.done() {
		return 0, false
	}
	return r.ops[r.idx].Kind, true
}

func (r *opReader) remaining() rope.ByteOffset {
	if r.done() {
		return 0
	}
	return r.ops[r.idx].N - r.consumed
}

func (r *opReader) takeLen(n rope.ByteOffset) {
	r.consumed += n
	if r.consumed >= r.ops[r.idx].N {
		r.idx++
		r.consumed = 0
	}
}

func (r *opReader) takeInsertText() string {
	text := r.ops[r.idx].Text
	r.idx++
	return text
}

// Compose computes the ChangeSet equivalent to "apply a, then apply b",
// per spec §4.C's table: walks both op streams simultaneously.
func Compose(a, b ChangeSet) ChangeSet {
	out := NewBuilder(a.BaseLen)
	ra := newOpReader(a.Ops)
	rb := newOpReader(b.Ops)

	for !ra.done() || !rb.done() {
		// b's Inserts have no counterpart in a; emit them verbatim and
		// advance only b.
		if kb, ok := rb.peekKind(); ok && kb == OpInsert {
			out.Insert(rb.takeInsertText())
			continue
		}
		// a's Deletes have no counterpart in b (b never sees deleted
		// text); emit them and advance only a.
		if ka, ok := ra.peekKind(); ok && ka == OpDelete {
			out.Delete(ra.remaining())
			ra.takeLen(ra.remaining())
			continue
		}
		// a's Inserts are consumed by b's Retain (kept) or Delete
		// (cancelled); walk byte-by-byte against b.
		if ka, ok := ra.peekKind(); ok && ka == OpInsert {
			text := a.Ops[ra.idx].Text
			ra.idx++
			consumed := rope.ByteOffset(0)
			for consumed < rope.ByteOffset(len(text)) {
				kb, ok := rb.peekKind()
				if !ok {
					// Nothing left in b to consume the rest of the
					// insert; treat as retained (identity tail).
					out.Insert(text[consumed:])
					break
				}
				switch kb {
				case OpInsert:
					out.Insert(rb.takeInsertText())
				case OpRetain:
					n := rb.remaining()
					if n > rope.ByteOffset(len(text))-consumed {
						n = rope.ByteOffset(len(text)) - consumed
					}
					out.Insert(text[consumed : consumed+n])
					rb.takeLen(n)
					consumed += n
				case OpDelete:
					n := rb.remaining()
					if n > rope.ByteOffset(len(text))-consumed {
						n = rope.ByteOffset(len(text)) - consumed
					}
					rb.takeLen(n)
					consumed += n
				}
			}
			continue
		}
		// Both are Retain (or a is exhausted and b is Retain, impossible
		// by length invariant, but guarded) — take the min.
		if !ra.done() {
			ka, _ := ra.peekKind()
			kb, okb := rb.peekKind()
			if ka == OpRetain && (!okb || kb == OpRetain) {
				n := ra.remaining()
				if okb && rb.remaining() < n {
					n = rb.remaining()
				}
				out.Retain(n)
				ra.takeLen(n)
				if okb {
					rb.takeLen(n)
				}
				continue
			}
		}
		// a exhausted, b has a trailing Retain with nothing left to
		// retain against (shouldn't happen under the length invariant);
		// break defensively.
		break
	}

	return out.Build()
}
