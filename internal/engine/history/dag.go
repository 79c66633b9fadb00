package history

import (
	"errors"
	"time"

	"github.com/dshills/lumenedit/internal/engine/transaction"
)

// Errors returned by Tree operations.
var (
	ErrDAGNothingToUndo = errors.New("history: nothing to undo")
	ErrDAGNothingToRedo = errors.New("history: nothing to redo")
)

// Node is one entry in the history DAG: a transaction, its inverse, a
// parent link, and the wall-clock time it was applied. Children are kept
// so Undo can branch — an Undo followed by a different edit does not
// discard the old future, it becomes an inert sibling branch, and
// Earlier/Later can still reach it.
type Node struct {
	ID       int
	Parent   int // -1 for the root
	Children []int
	LastChild int // -1 if none; which child Redo() would choose
	Tx       transaction.Transaction
	Inverse  transaction.ChangeSet
	At       time.Time
	Checkpoint bool
}

// Tree is spec §4.D's "persistent tree of (transaction, parent-id,
// timestamp)". The "present" is the path from root to Current.
type Tree struct {
	nodes   []Node
	current int // index of the current node (0 is always the synthetic root)

	grouping   bool
	groupStart int // node id the group began at (so CancelGroup can unwind)
}

// NewTree creates a history DAG with a synthetic root node (no transaction,
// representing "before any edits").
func NewTree(now time.Time) *Tree {
	root := Node{ID: 0, Parent: -1, LastChild: -1, At: now}
	return &Tree{nodes: []Node{root}, current: 0}
}

// Current returns the current node.
func (t *Tree) Current() Node { return t.nodes[t.current] }

// Append records a new transaction as a child of the current node and
// makes it current. This is how Document.ApplyTransaction feeds the DAG.
func (t *Tree) Append(tx transaction.Transaction, inverse transaction.ChangeSet, at time.Time, checkpoint bool) *Node {
	id := len(t.nodes)
	node := Node{
		ID:         id,
		Parent:     t.current,
		LastChild:  -1,
		Tx:         tx,
		Inverse:    inverse,
		At:         at,
		Checkpoint: checkpoint,
	}
	t.nodes = append(t.nodes, node)

	parent := &t.nodes[t.current]
	parent.Children = append(parent.Children, id)
	parent.LastChild = id

	t.current = id
	return &t.nodes[id]
}

// CanUndo reports whether the current node has a parent.
func (t *Tree) CanUndo() bool { return t.nodes[t.current].Parent != -1 }

// CanRedo reports whether the current node has a recorded last child.
func (t *Tree) CanRedo() bool { return t.nodes[t.current].LastChild != -1 }

// Undo returns the inverse ChangeSet of the current node and moves current
// to its parent. Per spec §4.D: "if current.parent exists, apply
// current.inverse, set current := parent; record branch choice on parent"
// — the branch choice is already recorded (it's how we got here).
func (t *Tree) Undo() (transaction.ChangeSet, error) {
	cur := &t.nodes[t.current]
	if cur.Parent == -1 {
		return transaction.ChangeSet{}, ErrDAGNothingToUndo
	}
	inv := cur.Inverse
	t.current = cur.Parent
	return inv, nil
}

// Redo returns the transaction's ChangeSet for the current node's last
// child and moves current to it.
func (t *Tree) Redo() (transaction.ChangeSet, error) {
	cur := &t.nodes[t.current]
	if cur.LastChild == -1 {
		return transaction.ChangeSet{}, ErrDAGNothingToRedo
	}
	child := &t.nodes[cur.LastChild]
	t.current = child.ID
	return child.Tx.Changes, nil
}

// Earlier walks the entire tree (not just the current branch) toward the
// node with the newest timestamp strictly older than the current node's,
// breaking ties by node ID (testable property 6: Earlier(0) is a no-op).
// The returned changeset sequence needed to get there is not computed here
// — callers re-derive the document by replaying from root, or (cheaper)
// diff via the node's stored Tx/Inverse chain; Earlier/Later only relocate
// `current` and report which node was reached.
func (t *Tree) Earlier(maxAge time.Duration) *Node {
	cutoff := t.nodes[t.current].At.Add(-maxAge)
	var best *Node
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.ID == t.current {
			continue
		}
		if n.At.After(cutoff) {
			continue
		}
		if best == nil || n.At.After(best.At) || (n.At.Equal(best.At) && n.ID > best.ID) {
			best = n
		}
	}
	if best == nil {
		return &t.nodes[t.current]
	}
	t.current = best.ID
	return best
}

// Later walks the entire tree toward the newest node reachable, subject to
// being no more than maxAge newer than the current node (Later(∞) reaches
// the globally newest node, per testable property 6).
func (t *Tree) Later(maxAge time.Duration) *Node {
	ceiling := t.nodes[t.current].At.Add(maxAge)
	var best *Node
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.ID == t.current {
			continue
		}
		if n.At.Before(t.nodes[t.current].At) {
			continue
		}
		if n.At.After(ceiling) {
			continue
		}
		if best == nil || n.At.After(best.At) {
			best = n
		} else if n.At.Equal(best.At) && n.ID > best.ID {
			best = n
		}
	}
	if best == nil {
		return &t.nodes[t.current]
	}
	t.current = best.ID
	return best
}

// PathToRoot returns node IDs from the current node back to the root,
// inclusive, nearest-first. Useful for reconstructing a document by
// replaying transactions from root.
func (t *Tree) PathToRoot() []int {
	var path []int
	id := t.current
	for id != -1 {
		path = append(path, id)
		id = t.nodes[id].Parent
	}
	return path
}

// Node looks up a node by id.
func (t *Tree) Node(id int) (Node, bool) {
	if id < 0 || id >= len(t.nodes) {
		return Node{}, false
	}
	return t.nodes[id], true
}

// BeginGroup starts checkpoint coalescing: subsequent Append calls until
// CommitCheckpoint are expected to be merged by the caller (Document) into
// a single undo step by composing their ChangeSets before calling Append,
// rather than appending one DAG node per keystroke. Tree itself only
// tracks whether a group is open so Document can decide whether to start
// a fresh node or compose into the last one.
func (t *Tree) BeginGroup() {
	t.grouping = true
	t.groupStart = t.current
}

// CommitCheckpoint forces a checkpoint boundary, ending any open group.
func (t *Tree) CommitCheckpoint() {
	t.grouping = false
	if t.current != t.groupStart {
		t.nodes[t.current].Checkpoint = true
	}
}

// Grouping reports whether a checkpoint group is currently open.
func (t *Tree) Grouping() bool { return t.grouping }
