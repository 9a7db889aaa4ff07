package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/altamira/pos-checkout/internal/checkout"
	"github.com/altamira/pos-checkout/internal/notify"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager tracks the open sessions of this terminal service. The
// idempotency guard is shared across sessions so a committed checkout
// stays committed even if the operator reopens the view.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	cfg    Config
	client Backoffice
	guard  *checkout.KeyGuard
	sink   notify.Sink
	log    *slog.Logger
}

// NewManager creates a session manager.
func NewManager(cfg Config, client Backoffice, sink notify.Sink, log *slog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		client:   client,
		guard:    checkout.NewKeyGuard(0),
		sink:     sink,
		log:      log,
	}
}

// Open starts a new checkout session for the configured branch.
func (m *Manager) Open(ctx context.Context) (*Session, error) {
	s, err := Open(ctx, m.cfg, m.client, m.guard, m.sink, m.log)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns an open session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close discards a session. The sale record lives in the back office;
// nothing local needs flushing.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
