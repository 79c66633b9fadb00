// Package document provides the editor's document model: an immutable rope
// of text paired with a persistent undo/redo history tree, versioned and
// addressed through Transactions rather than direct mutation.
//
// A Document is the single writable surface for buffer content. All edits —
// whether from a keymap-dispatched command, an LSP textDocument/didChange
// application, or a macro replay — flow through ApplyTransaction, which
// composes the ChangeSet into the rope, remaps any live selections that
// didn't request an override, bumps the version, and records the inverse
// in the history tree.
package document

import (
	"errors"
	"time"

	"github.com/dshills/lumenedit/internal/engine/buffer"
	"github.com/dshills/lumenedit/internal/engine/history"
	"github.com/dshills/lumenedit/internal/engine/rope"
	"github.com/dshills/lumenedit/internal/engine/selection"
	"github.com/dshills/lumenedit/internal/engine/transaction"
)

// ErrVersionConflict is returned when a caller supplies a transaction built
// against a stale version (e.g. a command computed before a concurrent LSP
// edit landed).
var ErrVersionConflict = errors.New("document: transaction built against stale version")

// Version is a monotonically increasing document revision number, bumped on
// every applied transaction. LSP textDocument sync and stale-response
// discarding key off this.
type Version uint64

// Document is spec component E: rope + per-view selections + history +
// bookkeeping (path, encoding, dirty flag, diagnostics placeholder).
type Document struct {
	text    rope.Rope
	version Version
	hist    *history.Tree

	path       string
	lineEnding buffer.LineEnding
	dirty      bool

	// primarySelection is the selection for the document's default view.
	// Additional per-window selections are owned by the window tree and
	// remapped independently via ChangeSet.MapSelection.
	primarySelection selection.Selection

	// tabWidth is used only to satisfy renderer.BufferReader; it has no
	// bearing on rope content or transaction semantics.
	tabWidth int
}

// defaultTabWidth mirrors the teacher's renderer default.
const defaultTabWidth = 4

// New creates an empty Document.
func New() *Document {
	return &Document{
		text:             rope.New(),
		hist:             history.NewTree(time.Now()),
		lineEnding:       buffer.LineEndingLF,
		primarySelection: selection.Single(selection.NewCursor(0)),
		tabWidth:         defaultTabWidth,
	}
}

// NewFromString creates a Document with initial content and no undo history.
func NewFromString(s string) *Document {
	d := New()
	d.text = rope.FromString(s)
	return d
}

// Text returns the full document content.
func (d *Document) Text() string { return d.text.String() }

// Rope returns the current rope (read-only snapshot; ropes never mutate in
// place, so sharing this is safe across goroutines).
func (d *Document) Rope() rope.Rope { return d.text }

// Version returns the current document version.
func (d *Document) Version() Version { return d.version }

// Dirty reports whether the document has unsaved changes.
func (d *Document) Dirty() bool { return d.dirty }

// Path returns the document's backing file path, if any.
func (d *Document) Path() string { return d.path }

// SetPath sets the backing file path (set by the caller after a save or
// load; document itself never touches the filesystem).
func (d *Document) SetPath(p string) { d.path = p }

// MarkSaved clears the dirty flag (called by the caller after a successful
// filesystem write).
func (d *Document) MarkSaved() { d.dirty = false }

// Len returns the document's byte length.
func (d *Document) Len() rope.ByteOffset { return d.text.Len() }

// LineText returns the text content of a line (0-indexed), satisfying
// renderer.BufferReader so views can render a Document directly.
func (d *Document) LineText(line uint32) string { return d.text.LineText(line) }

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() uint32 { return d.text.LineCount() }

// TabWidth returns the configured tab width for rendering.
func (d *Document) TabWidth() int {
	if d.tabWidth <= 0 {
		return defaultTabWidth
	}
	return d.tabWidth
}

// SetTabWidth sets the tab width used when rendering this document.
func (d *Document) SetTabWidth(w int) { d.tabWidth = w }

// Selection returns the primary view's current selection.
func (d *Document) Selection() selection.Selection { return d.primarySelection }

// SetSelection overrides the primary view's selection directly (e.g. after
// a motion command that doesn't edit text).
func (d *Document) SetSelection(s selection.Selection) { d.primarySelection = s }

// ApplyTransaction is the sole mutation entry point (spec §3/§4.E). It
// applies tx.Changes to the rope, determines the post-transaction
// selection (tx.Selection if set, otherwise the mapped selection), bumps
// the version, marks the document dirty, and records the inverse changeset
// as a new history node.
func (d *Document) ApplyTransaction(tx transaction.Transaction) error {
	if rope.ByteOffset(d.text.Len()) != tx.Changes.BaseLen {
		return ErrVersionConflict
	}

	inverse := tx.Changes.Invert(d.text)
	next, err := tx.Changes.Apply(d.text)
	if err != nil {
		return err
	}

	if tx.Selection != nil {
		d.primarySelection = *tx.Selection
	} else {
		d.primarySelection = tx.Changes.MapSelection(d.primarySelection)
	}

	d.text = next
	d.version++
	d.dirty = true
	d.hist.Append(tx, inverse, time.Now(), !d.hist.Grouping())

	return nil
}

// BeginEditGroup opens a checkpoint group so a burst of transactions (e.g.
// insert-mode keystrokes) coalesces into a single undo step, per scenario
// S3 of the undo model.
func (d *Document) BeginEditGroup() { d.hist.BeginGroup() }

// CommitEditGroup closes the current checkpoint group.
func (d *Document) CommitEditGroup() { d.hist.CommitCheckpoint() }

// Undo reverts the most recent transaction (or checkpointed group) and
// remaps the primary selection back using the inverse changeset.
func (d *Document) Undo() error {
	inv, err := d.hist.Undo()
	if err != nil {
		return err
	}
	next, err := inv.Apply(d.text)
	if err != nil {
		return err
	}
	d.text = next
	d.primarySelection = inv.MapSelection(d.primarySelection)
	d.version++
	return nil
}

// Redo re-applies the transaction that Undo most recently reverted.
func (d *Document) Redo() error {
	cs, err := d.hist.Redo()
	if err != nil {
		return err
	}
	next, err := cs.Apply(d.text)
	if err != nil {
		return err
	}
	d.text = next
	d.primarySelection = cs.MapSelection(d.primarySelection)
	d.version++
	return nil
}

// CanUndo reports whether Undo would succeed.
func (d *Document) CanUndo() bool { return d.hist.CanUndo() }

// CanRedo reports whether Redo would succeed.
func (d *Document) CanRedo() bool { return d.hist.CanRedo() }

// Earlier jumps the history cursor to the newest node at least maxAge
// older than the current one, walking the whole tree (not just the
// current undo branch), and resynchronizes text/selection to match.
func (d *Document) Earlier(maxAge time.Duration) {
	d.jumpTo(d.hist.Earlier(maxAge))
}

// Later is the time-forward counterpart of Earlier.
func (d *Document) Later(maxAge time.Duration) {
	d.jumpTo(d.hist.Later(maxAge))
}

// jumpTo rebuilds the rope by replaying from root along the path to node,
// since Earlier/Later can land off the current undo branch.
func (d *Document) jumpTo(node *history.Node) {
	path := d.hist.PathToRoot()
	// path is nearest-first (node.ID ... root); reverse to replay root-first.
	text := rope.New()
	for i := len(path) - 1; i >= 0; i-- {
		n, ok := d.hist.Node(path[i])
		if !ok || n.Parent == -1 {
			continue
		}
		applied, err := n.Tx.Changes.Apply(text)
		if err != nil {
			return
		}
		text = applied
	}
	d.text = text
	d.version++
	_ = node
}
