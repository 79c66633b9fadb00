package editor

import (
	"github.com/dshills/lumenedit/internal/dispatcher/execctx"
	"github.com/dshills/lumenedit/internal/dispatcher/handler"
	"github.com/dshills/lumenedit/internal/input"
)

// Handler dispatches to the editor namespace's four sub-handlers
// (insert/delete/yank/indent) by action name. The router only keeps one
// NamespaceHandler per namespace, so this is the single registration point
// for "editor.*" actions.
type Handler struct {
	insert *InsertHandler
	delete *DeleteHandler
	yank   *YankHandler
	indent *IndentHandler
}

// NewHandler creates the combined editor namespace handler.
func NewHandler() *Handler {
	return &Handler{
		insert: NewInsertHandler(),
		delete: NewDeleteHandler(),
		yank:   NewYankHandler(),
		indent: NewIndentHandler(),
	}
}

// Namespace returns the editor namespace.
func (h *Handler) Namespace() string { return "editor" }

// CanHandle returns true if any sub-handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	return h.insert.CanHandle(actionName) ||
		h.delete.CanHandle(actionName) ||
		h.yank.CanHandle(actionName) ||
		h.indent.CanHandle(actionName)
}

// HandleAction routes the action to the sub-handler that claims it.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	switch {
	case h.insert.CanHandle(action.Name):
		return h.insert.HandleAction(action, ctx)
	case h.delete.CanHandle(action.Name):
		return h.delete.HandleAction(action, ctx)
	case h.yank.CanHandle(action.Name):
		return h.yank.HandleAction(action, ctx)
	case h.indent.CanHandle(action.Name):
		return h.indent.HandleAction(action, ctx)
	default:
		return handler.Errorf("unknown editor action: %s", action.Name)
	}
}
