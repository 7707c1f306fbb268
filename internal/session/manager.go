package session

import (
	"context"
	"log"
	"strings"
	"sync"

	"orderpad/internal/pricing"
	"orderpad/internal/service/draft"
)

// Manager hands out one session per agent identifier. The empty identifier
// maps to a shared pre-login session backed by the un-suffixed draft key.
type Manager struct {
	resolver pricing.Resolver
	drafts   *draft.Service
	logger   *log.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(resolver pricing.Resolver, drafts *draft.Service, logger *log.Logger) *Manager {
	return &Manager{
		resolver: resolver,
		drafts:   drafts,
		logger:   logger,
		sessions: map[string]*Session{},
	}
}

// Get returns the agent's session, creating and hydrating it on first use.
func (m *Manager) Get(ctx context.Context, agentID string) *Session {
	id := strings.TrimSpace(agentID)

	m.mu.Lock()
	if s, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		return s
	}
	m.mu.Unlock()

	// hydration does storage I/O, so build outside the lock and tolerate a
	// racing builder for the same agent
	s := New(ctx, id, m.resolver, m.drafts, m.logger)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		return existing
	}
	m.sessions[id] = s
	return s
}
