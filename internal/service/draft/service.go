package draft

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"orderpad/internal/cart"
	"orderpad/internal/domain"
	"orderpad/internal/repository/kv"
)

// BaseStorageKey is the un-suffixed draft key, used when no agent is known
// (pre-login and demo mode).
const BaseStorageKey = "orderpad_cart_v1"

// StorageKey derives the draft key for one agent. Drafts are partitioned
// per agent so reps sharing a device never see each other's work.
func StorageKey(agentID string) string {
	id := strings.TrimSpace(agentID)
	if id == "" {
		return BaseStorageKey
	}
	return BaseStorageKey + "_" + id
}

// Service persists cart drafts and saved snapshots. Draft writes are
// best-effort: the in-memory cart stays authoritative for the session
// whether or not storage cooperates.
type Service struct {
	kv     kv.Repository
	snaps  kv.Snapshots
	logger *log.Logger
	now    func() time.Time
}

func New(repo kv.Repository, snaps kv.Snapshots, logger *log.Logger) *Service {
	return &Service{kv: repo, snaps: snaps, logger: logger, now: time.Now}
}

// Save serializes the cart under the agent's storage key. Failures are
// logged and swallowed.
func (s *Service) Save(ctx context.Context, agentID string, c domain.Cart) {
	data, err := json.Marshal(c)
	if err != nil {
		s.logf("marshal draft for %q: %v", agentID, err)
		return
	}
	if err := s.kv.Set(ctx, StorageKey(agentID), string(data)); err != nil {
		s.logf("save draft for %q: %v", agentID, err)
	}
}

// Load reads and sanitizes the agent's stored draft. Missing key, corrupt
// JSON, or an unusable shape all return nil; the caller starts from an
// empty cart.
func (s *Service) Load(ctx context.Context, agentID string) *domain.Cart {
	raw, err := s.kv.Get(ctx, StorageKey(agentID))
	if err != nil {
		return nil
	}
	c, err := cart.SanitizeJSON([]byte(raw))
	if err != nil {
		s.logf("corrupt draft for %q: %v", agentID, err)
		return nil
	}
	return &c
}

// Clear removes the agent's stored draft.
func (s *Service) Clear(ctx context.Context, agentID string) {
	if err := s.kv.Remove(ctx, StorageKey(agentID)); err != nil {
		s.logf("clear draft for %q: %v", agentID, err)
	}
}

// SnapshotInfo describes a saved draft without its payload.
type SnapshotInfo struct {
	ID      string    `json:"id"`
	Label   string    `json:"label,omitempty"`
	SavedAt time.Time `json:"savedAt"`
}

// SaveSnapshot stores an immutable copy of the cart for later restore.
func (s *Service) SaveSnapshot(ctx context.Context, agentID, label string, c domain.Cart) (SnapshotInfo, error) {
	payload, err := json.Marshal(c.Clone())
	if err != nil {
		return SnapshotInfo{}, err
	}
	snap := kv.Snapshot{
		ID:      uuid.NewString(),
		AgentID: strings.TrimSpace(agentID),
		Label:   label,
		SavedAt: s.now().UTC(),
		Payload: payload,
	}
	if err := s.snaps.Insert(ctx, snap); err != nil {
		return SnapshotInfo{}, err
	}
	return SnapshotInfo{ID: snap.ID, Label: snap.Label, SavedAt: snap.SavedAt}, nil
}

// ListSnapshots returns the agent's saved drafts, newest first.
func (s *Service) ListSnapshots(ctx context.Context, agentID string) ([]SnapshotInfo, error) {
	snaps, err := s.snaps.List(ctx, strings.TrimSpace(agentID))
	if err != nil {
		return nil, err
	}
	out := make([]SnapshotInfo, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, SnapshotInfo{ID: snap.ID, Label: snap.Label, SavedAt: snap.SavedAt})
	}
	return out, nil
}

// LoadSnapshot returns the sanitized cart stored in a snapshot.
func (s *Service) LoadSnapshot(ctx context.Context, agentID, id string) (domain.Cart, error) {
	snap, err := s.snaps.Get(ctx, strings.TrimSpace(agentID), id)
	if err != nil {
		return domain.Cart{}, err
	}
	c, err := cart.SanitizeJSON(snap.Payload)
	if err != nil {
		return domain.Cart{}, err
	}
	return c, nil
}

// DeleteSnapshot removes one of the agent's saved drafts.
func (s *Service) DeleteSnapshot(ctx context.Context, agentID, id string) error {
	return s.snaps.Delete(ctx, strings.TrimSpace(agentID), id)
}

func (s *Service) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
