package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ClareAI/astra-sales-console/pkg/logger"
)

// DefaultIdleTTL is how long an untouched preview session survives before the
// sweeper drops it.
const DefaultIdleTTL = 30 * time.Minute

// Manager owns the live preview sessions for the HTTP layer: one logical
// session per browser tab, addressed by a server-minted id. Idle sessions are
// swept in the background.
type Manager struct {
	client  ChatClient
	idleTTL time.Duration

	mu       sync.RWMutex
	sessions map[string]*PreviewSession

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager creates a session manager and starts its idle sweeper.
func NewManager(client ChatClient, idleTTL time.Duration) *Manager {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		client:   client,
		idleTTL:  idleTTL,
		sessions: make(map[string]*PreviewSession),
		ctx:      ctx,
		cancel:   cancel,
	}

	go m.sweep()
	return m
}

// Create mints a new empty session and returns its id.
func (m *Manager) Create() (string, *PreviewSession) {
	id := uuid.NewString()
	sess := NewPreviewSession(m.client)

	m.mu.Lock()
	m.sessions[id] = sess
	m.mu.Unlock()

	logger.Base().Info("preview session created", zap.String("session_id", id))
	return id, sess
}

// Get returns the session for an id.
func (m *Manager) Get(id string) (*PreviewSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("preview session not found: %s", id)
	}
	return sess, nil
}

// Remove drops a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown stops the idle sweeper.
func (m *Manager) Shutdown() {
	m.cancel()
}

func (m *Manager) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-m.idleTTL)

			m.mu.Lock()
			for id, sess := range m.sessions {
				if sess.LastActivity().Before(cutoff) {
					delete(m.sessions, id)
					logger.Base().Info("idle preview session dropped", zap.String("session_id", id))
				}
			}
			m.mu.Unlock()
		}
	}
}
