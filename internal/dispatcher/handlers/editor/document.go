// Package editor's handlers mutate text through two parallel writers: the
// teacher's engine.Engine (kept live for the renderer and the handler
// packages not yet migrated to the document model) and, when wired,
// document.Document via transaction.ChangeSet — the path this file builds.
package editor

import (
	"github.com/dshills/lumenedit/internal/dispatcher/execctx"
	"github.com/dshills/lumenedit/internal/engine/buffer"
	"github.com/dshills/lumenedit/internal/engine/rope"
	"github.com/dshills/lumenedit/internal/engine/transaction"
)

// applyDocDelete composes a [start,end) delete into ctx.Document as a
// transaction.ChangeSet: Retain up to start, Delete the span, and an
// implicit trailing Retain from Builder.Build. This is the same
// ascending Retain/Delete chain transaction.TestMultiCursorDeleteScenarioS1
// builds for a multi-cursor delete, applied here one selection at a time
// inside a BeginEditGroup/CommitEditGroup bracket so the whole command
// still lands as a single undo step.
func applyDocDelete(ctx *execctx.ExecutionContext, start, end buffer.ByteOffset) error {
	if ctx.Document == nil {
		return nil
	}
	base := ctx.Document.Len()
	cs := transaction.NewBuilder(base).
		Retain(rope.ByteOffset(start)).
		Delete(rope.ByteOffset(end - start)).
		Build()
	return ctx.Document.ApplyTransaction(transaction.New(cs))
}

// applyDocInsert composes an insert-at-offset into ctx.Document.
func applyDocInsert(ctx *execctx.ExecutionContext, offset buffer.ByteOffset, text string) error {
	if ctx.Document == nil {
		return nil
	}
	base := ctx.Document.Len()
	cs := transaction.NewBuilder(base).
		Retain(rope.ByteOffset(offset)).
		Insert(text).
		Build()
	return ctx.Document.ApplyTransaction(transaction.New(cs))
}

// applyDocReplace composes a [start,end) replace-with-text into ctx.Document.
func applyDocReplace(ctx *execctx.ExecutionContext, start, end buffer.ByteOffset, text string) error {
	if ctx.Document == nil {
		return nil
	}
	base := ctx.Document.Len()
	cs := transaction.NewBuilder(base).
		Retain(rope.ByteOffset(start)).
		Delete(rope.ByteOffset(end - start)).
		Insert(text).
		Build()
	return ctx.Document.ApplyTransaction(transaction.New(cs))
}

// beginDocGroup/commitDocGroup bracket a multi-selection command's series of
// single-span document edits into one history-tree undo step, the
// document-model counterpart of ctx.History.BeginGroup/EndGroup.
func beginDocGroup(ctx *execctx.ExecutionContext) {
	if ctx.Document != nil {
		ctx.Document.BeginEditGroup()
	}
}

func commitDocGroup(ctx *execctx.ExecutionContext) {
	if ctx.Document != nil {
		ctx.Document.CommitEditGroup()
	}
}
