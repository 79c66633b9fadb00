package vim

import "github.com/atotto/clipboard"

// OSClipboard implements ClipboardProvider against the host system
// clipboard (X11/Wayland selection buffer, macOS pasteboard, or Windows
// clipboard, depending on platform) via atotto/clipboard.
type OSClipboard struct{}

// NewOSClipboard returns a ClipboardProvider backed by the real system
// clipboard. Callers should check clipboard.Unsupported before relying on
// it in a headless environment (e.g. a bare SSH session with no X server)
// and fall back to registers-only behavior.
func NewOSClipboard() *OSClipboard { return &OSClipboard{} }

// Get implements ClipboardProvider.
func (OSClipboard) Get() (string, error) { return clipboard.ReadAll() }

// Set implements ClipboardProvider.
func (OSClipboard) Set(content string) error { return clipboard.WriteAll(content) }

// Available reports whether a system clipboard mechanism was detected.
func Available() bool { return !clipboard.Unsupported }
