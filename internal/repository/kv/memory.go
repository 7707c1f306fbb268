package kv

import (
	"context"
	"sort"
	"sync"

	"orderpad/internal/domain"
)

// MemoryRepo is an in-memory Repository, used in tests and when the service
// runs without a database.
type MemoryRepo struct {
	mu      sync.Mutex
	entries map[string]string
}

func NewMemory() *MemoryRepo {
	return &MemoryRepo{entries: map[string]string{}}
}

func (r *MemoryRepo) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.entries[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (r *MemoryRepo) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = value
	return nil
}

func (r *MemoryRepo) Remove(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
	return nil
}

// MemorySnapshots is an in-memory Snapshots store.
type MemorySnapshots struct {
	mu    sync.Mutex
	snaps map[string]Snapshot
}

func NewMemorySnapshots() *MemorySnapshots {
	return &MemorySnapshots{snaps: map[string]Snapshot{}}
}

func (r *MemorySnapshots) Insert(_ context.Context, snap Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap.Payload = append([]byte(nil), snap.Payload...)
	r.snaps[snap.ID] = snap
	return nil
}

func (r *MemorySnapshots) List(_ context.Context, agentID string) ([]Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Snapshot
	for _, s := range r.snaps {
		if s.AgentID == agentID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	return out, nil
}

func (r *MemorySnapshots) Get(_ context.Context, agentID, id string) (*Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.snaps[id]
	if !ok || s.AgentID != agentID {
		return nil, domain.ErrNotFound
	}
	out := s
	out.Payload = append([]byte(nil), s.Payload...)
	return &out, nil
}

func (r *MemorySnapshots) Delete(_ context.Context, agentID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.snaps[id]
	if !ok || s.AgentID != agentID {
		return domain.ErrNotFound
	}
	delete(r.snaps, id)
	return nil
}
