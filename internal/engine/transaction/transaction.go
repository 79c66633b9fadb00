package transaction

import "github.com/dshills/lumenedit/internal/engine/selection"

// ViewHint describes a view-motion side effect a Transaction wants applied
// after the edit lands (e.g. "scroll to keep the primary cursor visible").
type ViewHint struct {
	EnsureCursorInView bool
}

// Transaction is spec §3's "only way text changes": a ChangeSet plus an
// optional post-image Selection override and an optional view-motion hint.
type Transaction struct {
	Changes    ChangeSet
	Selection  *selection.Selection // nil => selections are derived via Changes.MapSelection
	ViewMotion *ViewHint
}

// New builds a Transaction from a ChangeSet with no selection override.
func New(cs ChangeSet) Transaction {
	return Transaction{Changes: cs}
}

// WithSelection returns a copy of t carrying an explicit post-image
// Selection (bypassing position-map remapping for that view).
func (t Transaction) WithSelection(s selection.Selection) Transaction {
	t.Selection = &s
	return t
}

// WithViewMotion attaches a view-motion hint.
func (t Transaction) WithViewMotion(h ViewHint) Transaction {
	t.ViewMotion = &h
	return t
}
