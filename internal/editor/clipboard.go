package editor

import "github.com/dshills/lumenedit/internal/input/vim"

// Provider abstracts the external system clipboard, the same contract
// vim.ClipboardProvider exposes, so Registers can wire either the real OS
// clipboard or a test double.
type Provider = vim.ClipboardProvider

// DefaultClipboardProvider returns the real OS-backed clipboard
// (atotto/clipboard), or nil if this platform exposes no clipboard
// mechanism atotto/clipboard can reach (e.g. a bare SSH session with no
// X server, Wayland compositor, pbcopy, or win32yank on PATH) — callers
// should treat a nil provider as "registers work, system clipboard does
// not" rather than failing the editor to start.
func DefaultClipboardProvider() Provider {
	if !vim.Available() {
		return nil
	}
	return vim.NewOSClipboard()
}
