package history

import (
	"testing"
	"time"

	"github.com/dshills/lumenedit/internal/engine/rope"
	"github.com/dshills/lumenedit/internal/engine/transaction"
)

func mkTx(t *testing.T, base string, cs transaction.ChangeSet) (transaction.Transaction, transaction.ChangeSet) {
	t.Helper()
	r := rope.FromString(base)
	inv := cs.Invert(r)
	return transaction.New(cs), inv
}

// Testable property 5: undo/redo is invertible — undo then redo restores
// the exact same node.
func TestUndoRedoInvertible(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTree(base)

	cs := transaction.NewBuilder(5).Retain(5).Insert("!").Build()
	tx, inv := mkTx(t, "hello", cs)
	node := tr.Append(tx, inv, base.Add(time.Second), false)

	if !tr.CanUndo() {
		t.Fatal("expected CanUndo after append")
	}
	gotInv, err := tr.Undo()
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if gotInv.PostLen() != cs.BaseLen {
		t.Fatalf("inverse postlen mismatch: got %d want %d", gotInv.PostLen(), cs.BaseLen)
	}
	if tr.current != 0 {
		t.Fatalf("expected current back at root, got %d", tr.current)
	}

	if !tr.CanRedo() {
		t.Fatal("expected CanRedo after undo")
	}
	redoCS, err := tr.Redo()
	if err != nil {
		t.Fatalf("redo: %v", err)
	}
	if redoCS.PostLen() != node.Tx.Changes.PostLen() {
		t.Fatalf("redo changeset mismatch")
	}
	if tr.current != node.ID {
		t.Fatalf("expected current back at node %d, got %d", node.ID, tr.current)
	}
}

func TestUndoNothingToUndo(t *testing.T) {
	tr := NewTree(time.Now().UTC().Truncate(0))
	if tr.CanUndo() {
		t.Fatal("fresh tree should have nothing to undo")
	}
	if _, err := tr.Undo(); err != ErrDAGNothingToUndo {
		t.Fatalf("expected ErrDAGNothingToUndo, got %v", err)
	}
}

// Testable property 6: Earlier(0) is a no-op; Later(huge) reaches the
// newest node in the whole tree, even off the current branch.
func TestEarlierLaterWholeTree(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTree(base)

	cs1 := transaction.NewBuilder(0).Insert("a").Build()
	tx1, inv1 := mkTx(t, "", cs1)
	n1 := tr.Append(tx1, inv1, base.Add(1*time.Minute), false)

	cs2 := transaction.NewBuilder(n1.Tx.Changes.PostLen()).Retain(n1.Tx.Changes.PostLen()).Insert("b").Build()
	tx2, inv2 := mkTx(t, "a", cs2)
	n2 := tr.Append(tx2, inv2, base.Add(2*time.Minute), false)

	// Branch: undo back to n1, then append a sibling at a later timestamp.
	if _, err := tr.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	cs3 := transaction.NewBuilder(n1.Tx.Changes.PostLen()).Retain(n1.Tx.Changes.PostLen()).Insert("c").Build()
	tx3, inv3 := mkTx(t, "a", cs3)
	n3 := tr.Append(tx3, inv3, base.Add(3*time.Minute), false)

	same := tr.Earlier(0)
	if same.ID != n3.ID {
		t.Fatalf("Earlier(0) should be a no-op, got node %d want %d", same.ID, n3.ID)
	}

	newest := tr.Later(1000 * time.Hour)
	if newest.ID != n2.ID && newest.ID != n3.ID {
		t.Fatalf("Later(huge) should reach a newest-timestamp node, got %d", newest.ID)
	}
	// n2 (2min) is off the current branch from n3 (3min) but is reachable
	// by whole-tree Earlier regardless of branch.
	tr2 := NewTree(base)
	tx1b, inv1b := mkTx(t, "", cs1)
	tr2.Append(tx1b, inv1b, base.Add(1*time.Minute), false)
	tx2b, inv2b := mkTx(t, "a", cs2)
	tr2.Append(tx2b, inv2b, base.Add(2*time.Minute), false)
	if _, err := tr2.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	tx3b, inv3b := mkTx(t, "a", cs3)
	tr2.Append(tx3b, inv3b, base.Add(3*time.Minute), false)

	earlier := tr2.Earlier(90 * time.Second) // should land on n2 (2min), off current branch
	if earlier.At.Before(base.Add(1 * time.Minute)) {
		t.Fatalf("Earlier should have found the 2-minute node, got time %v", earlier.At)
	}
}

func TestCheckpointCoalescing(t *testing.T) {
	tr := NewTree(time.Now().UTC().Truncate(0))
	tr.BeginGroup()
	if !tr.Grouping() {
		t.Fatal("expected grouping true after BeginGroup")
	}
	tr.CommitCheckpoint()
	if tr.Grouping() {
		t.Fatal("expected grouping false after CommitCheckpoint")
	}
}
