// Package editor implements the spec's top-level Editor: the arena that
// owns documents, the window tree, registers, the clipboard bridge, and
// modal/macro state. It generalizes the teacher's internal/app.App.
package editor

import (
	"sync"

	"github.com/dshills/lumenedit/internal/input/vim"
)

// maxRegisterDepth bounds the unnamed-register undo-chain stack so a long
// session of successive small deletes into "- doesn't grow unbounded;
// only the most recent maxRegisterDepth entries are kept per register.
const maxRegisterDepth = 100

// Entry is one register's content plus its shape (charwise/linewise/blockwise),
// mirroring the teacher's vim.Register but keyed into a depth-bounded stack so
// Registers.Pop can support multi-level paste-and-cycle (`"1p`, `"2p`, ...).
type Entry struct {
	Content   string
	Linewise  bool
	Blockwise bool
}

// Registers is the spec §4.H register bank: single runes ("/_/+/*///:/ @ /
// 0-9) each backing a small bounded stack, with "+ and "* bridged to the
// external clipboard provider rather than stored locally.
type Registers struct {
	mu        sync.RWMutex
	stacks    map[rune][]Entry
	clipboard Provider
	legacy    *vim.RegisterStore // kept as the single-slot compatibility view consumed by existing vim-mode handlers
}

// NewRegisters creates an empty register bank.
func NewRegisters() *Registers {
	return &Registers{
		stacks: make(map[rune][]Entry),
		legacy: vim.NewRegisterStore(),
	}
}

// SetClipboardProvider wires the external clipboard bridge; "+ and "* reads
// and writes are forwarded to it instead of the local stack.
func (r *Registers) SetClipboardProvider(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clipboard = p
}

// Set pushes content onto name's stack (bounded to maxRegisterDepth),
// except for the black hole register "_ which discards everything.
func (r *Registers) Set(name rune, e Entry) error {
	if name == '_' {
		return nil
	}
	if (name == '+' || name == '*') && r.clipboardAvailable() {
		return r.clipboard.Set(e.Content)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	stack := r.stacks[name]
	stack = append(stack, e)
	if len(stack) > maxRegisterDepth {
		stack = stack[len(stack)-maxRegisterDepth:]
	}
	r.stacks[name] = stack
	return nil
}

// Get returns the top entry for name without popping it.
func (r *Registers) Get(name rune) (Entry, bool) {
	if (name == '+' || name == '*') && r.clipboardAvailable() {
		text, err := r.clipboard.Get()
		if err != nil {
			return Entry{}, false
		}
		return Entry{Content: text}, true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	stack := r.stacks[name]
	if len(stack) == 0 {
		return Entry{}, false
	}
	return stack[len(stack)-1], true
}

// Pop returns and removes the top entry for name, supporting the numbered
// ring's shift-on-delete semantics ("1 holds the most recent delete, "2
// the one before, etc., each successive pop from "1 shifting the chain).
func (r *Registers) Pop(name rune) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stack := r.stacks[name]
	if len(stack) == 0 {
		return Entry{}, false
	}
	e := stack[len(stack)-1]
	r.stacks[name] = stack[:len(stack)-1]
	return e, true
}

func (r *Registers) clipboardAvailable() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clipboard != nil
}

// Legacy exposes the teacher's single-slot RegisterStore for vim-mode
// handlers that haven't migrated to the bounded-stack API yet.
func (r *Registers) Legacy() *vim.RegisterStore { return r.legacy }
