package whatif

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/probability"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// SimulationSession holds one baseline and the scenarios run against it.
type SimulationSession struct {
	ID               string                                    `json:"id"`
	BaselineFeatures dpr.ProjectFeatures                       `json:"baseline_features"`
	BaselineRisks    []dpr.RiskFactor                          `json:"baseline_risks"`
	Baseline         *probability.ProbabilityCalculationResult `json:"baseline"`
	History          []SimulationResult                        `json:"history"`
	CreatedAt        time.Time                                 `json:"created_at"`
	UpdatedAt        time.Time                                 `json:"updated_at"`
}

// Clone returns a copy that shares nothing mutable with s except the
// baseline result, which is never modified after the session starts.
func (s *SimulationSession) Clone() *SimulationSession {
	if s == nil {
		return nil
	}
	out := *s
	out.BaselineRisks = dpr.CloneRisks(s.BaselineRisks)
	if s.History != nil {
		out.History = make([]SimulationResult, len(s.History))
		copy(out.History, s.History)
	}
	return &out
}

// appendHistory adds r and drops the oldest entries beyond max.
func (s *SimulationSession) appendHistory(r SimulationResult, max int) {
	s.History = append(s.History, r)
	if max > 0 && len(s.History) > max {
		s.History = append([]SimulationResult(nil), s.History[len(s.History)-max:]...)
	}
}

// SessionStore persists sessions. Get, Update and Delete fail with SIM_001
// for an unknown id. Update never recreates a session that was deleted or
// expired after it was read.
type SessionStore interface {
	Save(ctx context.Context, s *SimulationSession) error
	Update(ctx context.Context, s *SimulationSession) error
	Get(ctx context.Context, id string) (*SimulationSession, error)
	Delete(ctx context.Context, id string) error
}

// Defaults for MemoryStore.
const (
	DefaultSessionCapacity = 1000
	DefaultSessionTTL      = 2 * time.Hour
)

// MemoryStore is a bounded, expiring in-process SessionStore. The least
// recently used session is evicted at capacity.
type MemoryStore struct {
	// mu orders Update against Delete; the cache locks itself otherwise.
	mu    sync.Mutex
	cache *expirable.LRU[string, *SimulationSession]
}

// NewMemoryStore returns a store with the given capacity and TTL. Non-positive
// values select the defaults.
func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultSessionCapacity
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemoryStore{cache: expirable.NewLRU[string, *SimulationSession](capacity, nil, ttl)}
}

// Save stores a copy of s and restarts its TTL.
func (m *MemoryStore) Save(_ context.Context, s *SimulationSession) error {
	if s == nil || s.ID == "" {
		return apperrors.New(apperrors.ErrCodeSessionStoreFailed, "session id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Add(s.ID, s.Clone())
	return nil
}

// Update stores a copy of s only while the session is still live.
func (m *MemoryStore) Update(_ context.Context, s *SimulationSession) error {
	if s == nil || s.ID == "" {
		return apperrors.New(apperrors.ErrCodeSessionStoreFailed, "session id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cache.Peek(s.ID); !ok {
		return apperrors.Newf(apperrors.ErrCodeSessionNotFound, "session %s not found", s.ID)
	}
	m.cache.Add(s.ID, s.Clone())
	return nil
}

// Get returns a copy of the stored session.
func (m *MemoryStore) Get(_ context.Context, id string) (*SimulationSession, error) {
	s, ok := m.cache.Get(id)
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	return s.Clone(), nil
}

// Delete removes the session.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.cache.Remove(id) {
		return apperrors.Newf(apperrors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	return nil
}

// Len reports the number of live sessions.
func (m *MemoryStore) Len() int { return m.cache.Len() }

//Personal.AI order the ending
