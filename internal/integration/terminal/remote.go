package terminal

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// RemoteBridge exposes a Terminal over a WebSocket connection, so CI can
// drive the editor's embedded terminal from a test client instead of a
// real PTY-attached process on the runner.
type RemoteBridge struct {
	manager  *Manager
	upgrader websocket.Upgrader
}

// NewRemoteBridge creates a bridge serving terminals created through manager.
func NewRemoteBridge(manager *Manager) *RemoteBridge {
	return &RemoteBridge{
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request to a WebSocket and attaches a new
// terminal to it: client->server binary frames are written to the PTY,
// PTY output is streamed back as binary frames.
func (b *RemoteBridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var writeMu sync.Mutex
	term, err := b.manager.Create(Options{
		Name: "remote",
		OnOutput: func(data []byte) {
			writeMu.Lock()
			defer writeMu.Unlock()
			_ = conn.WriteMessage(websocket.BinaryMessage, data)
		},
	})
	if err != nil {
		_ = conn.WriteMessage(websocket.TextMessage, []byte("error: "+err.Error()))
		return
	}
	defer term.Close()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.BinaryMessage && msgType != websocket.TextMessage {
			continue
		}
		if _, err := term.Write(data); err != nil {
			return
		}
	}
}
