// Package checkpoint stores the latest run state per run id so a suspended
// workflow can resume later.
package checkpoint

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Backland-Labs/courier/internal/core"
)

// ErrNotFound is returned when no checkpoint exists for a run id
var ErrNotFound = errors.New("checkpoint not found")

// Checkpoint is a snapshot of a run and the node it resumes at
type Checkpoint struct {
	RunID     string        `json:"run_id"`
	Node      string        `json:"node"`
	State     core.RunState `json:"state"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Store persists only the most recent checkpoint per run id
type Store interface {
	Get(ctx context.Context, runID string) (Checkpoint, error)
	Put(ctx context.Context, cp Checkpoint) error
	Delete(ctx context.Context, runID string) error
	List(ctx context.Context) ([]Checkpoint, error)
}

// MemoryStore is a process-local Store
type MemoryStore struct {
	mu          sync.RWMutex
	checkpoints map[string]Checkpoint
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{checkpoints: make(map[string]Checkpoint)}
}

// Get returns a deep copy of the checkpoint for runID
func (m *MemoryStore) Get(ctx context.Context, runID string) (Checkpoint, error) {
	if err := ctx.Err(); err != nil {
		return Checkpoint{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	cp, ok := m.checkpoints[runID]
	if !ok {
		return Checkpoint{}, ErrNotFound
	}
	cp.State = cp.State.Clone()
	return cp, nil
}

// Put replaces the checkpoint for cp.RunID
func (m *MemoryStore) Put(ctx context.Context, cp Checkpoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now().UTC()
	}
	cp.State = cp.State.Clone()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkpoints[cp.RunID] = cp
	return nil
}

// Delete removes the checkpoint for runID
func (m *MemoryStore) Delete(ctx context.Context, runID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.checkpoints[runID]; !ok {
		return ErrNotFound
	}
	delete(m.checkpoints, runID)
	return nil
}

// List returns every checkpoint, newest first
func (m *MemoryStore) List(ctx context.Context) ([]Checkpoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]Checkpoint, 0, len(m.checkpoints))
	for _, cp := range m.checkpoints {
		cp.State = cp.State.Clone()
		out = append(out, cp)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].State.CreatedAt.Equal(out[j].State.CreatedAt) {
			return out[i].RunID < out[j].RunID
		}
		return out[i].State.CreatedAt.After(out[j].State.CreatedAt)
	})
	return out, nil
}
