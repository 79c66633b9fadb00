package editor

import (
	"github.com/dshills/lumenedit/internal/engine/rope"
	"github.com/dshills/lumenedit/internal/engine/selection"
)

// jumplistCap bounds the ring so an unbounded session doesn't grow the
// jumplist forever; the oldest entry is evicted once full, matching the
// teacher's viewport scroll-animation state being similarly bounded by a
// fixed set of fields rather than a growing history.
const jumplistCap = 100

// JumpEntry records where a view was before a "large" motion (search,
// goto-line, goto-definition, buffer switch) so Back/Forward can return
// to it. Position is a byte offset into the document current at the time
// of the jump; callers are responsible for mapping it forward through
// any transactions applied since (via transaction.ChangeSet.Map) before
// trusting it as still valid.
type JumpEntry struct {
	DocumentID string
	Position   rope.ByteOffset
}

// Jumplist is a per-view ring buffer of JumpEntry with a cursor, supporting
// Back (Ctrl-O) / Forward (Ctrl-I) navigation the way the teacher's
// viewport tracks scroll position — bounded state, not unbounded history.
type Jumplist struct {
	entries []JumpEntry
	cursor  int // index of the "current" position; Back decrements, Forward increments
}

// NewJumplist creates an empty jumplist.
func NewJumplist() *Jumplist {
	return &Jumplist{}
}

// Push records a jump-from position, truncating any forward history (a
// fresh jump after Back invalidates the old "future", matching standard
// browser/editor jumplist semantics).
func (j *Jumplist) Push(e JumpEntry) {
	if j.cursor < len(j.entries) {
		j.entries = j.entries[:j.cursor]
	}
	j.entries = append(j.entries, e)
	if len(j.entries) > jumplistCap {
		j.entries = j.entries[len(j.entries)-jumplistCap:]
	}
	j.cursor = len(j.entries)
}

// Back moves to the previous jump entry, if any.
func (j *Jumplist) Back() (JumpEntry, bool) {
	if j.cursor == 0 {
		return JumpEntry{}, false
	}
	j.cursor--
	return j.entries[j.cursor], true
}

// Forward moves to the next jump entry, if any.
func (j *Jumplist) Forward() (JumpEntry, bool) {
	if j.cursor >= len(j.entries)-1 {
		return JumpEntry{}, false
	}
	j.cursor++
	return j.entries[j.cursor], true
}

// View is one window pane's editing state: which document it shows, the
// view-local selection (distinct views on the same document can select
// different ranges), and its jumplist.
type View struct {
	ID         string
	DocumentID string
	Selection  selection.Selection
	Jumplist   *Jumplist
}

// NewView creates a view over documentID at the default single-cursor
// selection.
func NewView(id, documentID string) *View {
	return &View{
		ID:         id,
		DocumentID: documentID,
		Selection:  selection.Single(selection.NewCursor(0)),
		Jumplist:   NewJumplist(),
	}
}
