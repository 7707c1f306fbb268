package kv

import (
	"context"
	"time"
)

// Repository is durable string key-value storage for cart drafts. Get
// returns domain.ErrNotFound for missing keys.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Snapshot is one saved cart draft, immutable once inserted.
type Snapshot struct {
	ID      string
	AgentID string
	Label   string
	SavedAt time.Time
	Payload []byte
}

// Snapshots stores saved drafts partitioned per agent.
type Snapshots interface {
	Insert(ctx context.Context, snap Snapshot) error
	List(ctx context.Context, agentID string) ([]Snapshot, error)
	Get(ctx context.Context, agentID, id string) (*Snapshot, error)
	Delete(ctx context.Context, agentID, id string) error
}
