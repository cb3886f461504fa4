// Package mitigation holds the runtime registry of risk mitigation
// strategies. The simulator asks it for the strongest strategy per risk type.
package mitigation

import (
	"sort"
	"strings"
	"sync"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	domain "github.com/turtacn/DPR-Intelligence/internal/domain/mitigation"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// Registry is a concurrency-safe strategy store keyed by id.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]domain.Strategy
	logger     logging.Logger
}

var _ domain.Provider = (*Registry)(nil)

// NewRegistry seeds a registry with seed. Invalid or duplicate seeds are an
// error. A nil seed installs the default strategies.
func NewRegistry(seed []domain.Strategy, logger logging.Logger) (*Registry, error) {
	if seed == nil {
		seed = domain.DefaultStrategies()
	}
	r := &Registry{
		strategies: make(map[string]domain.Strategy, len(seed)),
		logger:     logging.OrNop(logger).Named("mitigation"),
	}
	for i := range seed {
		s := clone(seed[i])
		s.RiskType = s.RiskType.Normalize()
		if err := s.Validate(); err != nil {
			return nil, err
		}
		id := key(s.ID)
		if _, dup := r.strategies[id]; dup {
			return nil, apperrors.Newf(apperrors.ErrCodeStrategyInvalid, "duplicate strategy id %q", s.ID)
		}
		r.strategies[id] = s
	}
	return r, nil
}

// MustNewRegistry panics on an invalid seed.
func MustNewRegistry(seed []domain.Strategy, logger logging.Logger) *Registry {
	r, err := NewRegistry(seed, logger)
	if err != nil {
		panic(err)
	}
	return r
}

func key(id string) string { return strings.ToLower(strings.TrimSpace(id)) }

func clone(s domain.Strategy) domain.Strategy {
	s.Actions = append([]string(nil), s.Actions...)
	return s
}

func notFound(id string) error {
	return apperrors.Newf(apperrors.ErrCodeStrategyNotFound, "mitigation strategy %q not found", id)
}

// List returns all strategies ordered by risk type, then descending
// effectiveness, then id. An empty riskType lists every type.
func (r *Registry) List(riskType dpr.RiskType) []domain.Strategy {
	riskType = riskType.Normalize()
	r.mu.RLock()
	out := make([]domain.Strategy, 0, len(r.strategies))
	for _, s := range r.strategies {
		if riskType == "" || s.RiskType == riskType {
			out = append(out, clone(s))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].RiskType != out[j].RiskType {
			return out[i].RiskType < out[j].RiskType
		}
		if out[i].Effectiveness != out[j].Effectiveness {
			return out[i].Effectiveness > out[j].Effectiveness
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *Registry) Get(id string) (domain.Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[key(id)]
	if !ok {
		return domain.Strategy{}, notFound(id)
	}
	return clone(s), nil
}

// Create adds a new strategy. An existing id is a conflict.
func (r *Registry) Create(s domain.Strategy) (domain.Strategy, error) {
	s.RiskType = s.RiskType.Normalize()
	if err := s.Validate(); err != nil {
		return domain.Strategy{}, err
	}
	s.ID = strings.TrimSpace(s.ID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.strategies[key(s.ID)]; exists {
		return domain.Strategy{}, apperrors.Newf(apperrors.ErrCodeConflict, "mitigation strategy %q already exists", s.ID)
	}
	r.strategies[key(s.ID)] = clone(s)
	r.logger.Info("mitigation strategy created", logging.String("id", s.ID), logging.String("risk_type", string(s.RiskType)))
	return clone(s), nil
}

// Update replaces the strategy stored under id. The id in s is ignored.
func (r *Registry) Update(id string, s domain.Strategy) (domain.Strategy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.strategies[key(id)]
	if !ok {
		return domain.Strategy{}, notFound(id)
	}
	s.ID = existing.ID
	s.RiskType = s.RiskType.Normalize()
	if err := s.Validate(); err != nil {
		return domain.Strategy{}, err
	}
	r.strategies[key(id)] = clone(s)
	r.logger.Info("mitigation strategy updated", logging.String("id", s.ID))
	return clone(s), nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.strategies[key(id)]; !ok {
		return notFound(id)
	}
	delete(r.strategies, key(id))
	r.logger.Info("mitigation strategy deleted", logging.String("id", id))
	return nil
}

// BestFor returns the most effective strategy for rt. Ties go to the lower
// cost, then the lower id.
func (r *Registry) BestFor(rt dpr.RiskType) (domain.Strategy, bool) {
	rt = rt.Normalize()
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best  domain.Strategy
		found bool
	)
	for _, s := range r.strategies {
		if s.RiskType != rt {
			continue
		}
		if !found || better(s, best) {
			best, found = s, true
		}
	}
	if !found {
		return domain.Strategy{}, false
	}
	return clone(best), true
}

func better(a, b domain.Strategy) bool {
	if a.Effectiveness != b.Effectiveness {
		return a.Effectiveness > b.Effectiveness
	}
	if a.CostPercent != b.CostPercent {
		return a.CostPercent < b.CostPercent
	}
	return a.ID < b.ID
}

// Len returns the number of strategies.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.strategies)
}

//Personal.AI order the ending
