package livehttp

import (
	"context"
	"sync"

	"github.com/MJE43/roulette-oracle-desktop/internal/session"
)

// Module owns the ingest server lifecycle for the desktop app.
type Module struct {
	mu      sync.Mutex
	history *session.History
	port    int
	token   string
	emit    Emitter
	server  *Server
	running bool
}

// IngestInfo tells the UI how to reach the ingest server.
type IngestInfo struct {
	URL          string `json:"url"`
	TokenEnabled bool   `json:"tokenEnabled"`
	Running      bool   `json:"running"`
}

// NewModule constructs the module without starting the server. Call Startup
// from the OnStartup hook. emit may be nil.
func NewModule(history *session.History, port int, token string, emit Emitter) *Module {
	return &Module{history: history, port: port, token: token, emit: emit}
}

// Startup starts the HTTP server.
func (m *Module) Startup(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.server = New(m.history, m.port, m.token, m.emit)
	if err := m.server.Start(); err != nil {
		return err
	}
	m.running = true
	return nil
}

// Shutdown stops the HTTP server.
func (m *Module) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.server == nil {
		return nil
	}
	m.running = false
	return m.server.Shutdown(ctx)
}

// IngestInfo reports the server address and state.
func (m *Module) IngestInfo() IngestInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	return IngestInfo{
		URL:          "http://" + loopbackAddr(m.port),
		TokenEnabled: m.token != "",
		Running:      m.running,
	}
}
