package scheme

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// MemoryRepository is a Repository held in process, keyed by upper-cased code.
// It backs the "memory" registry source and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	schemes map[string]GovernmentScheme
}

// NewMemoryRepository seeds the repository with a copy of initial. Later
// entries replace earlier ones with the same code.
func NewMemoryRepository(initial []GovernmentScheme) *MemoryRepository {
	r := &MemoryRepository{schemes: make(map[string]GovernmentScheme, len(initial))}
	for _, s := range initial {
		s := s
		r.put(&s)
	}
	return r
}

func (r *MemoryRepository) put(s *GovernmentScheme) {
	key := strings.ToUpper(strings.TrimSpace(s.Code))
	if s.ID == "" {
		s.ID = "scheme-" + strings.ToLower(key)
	}
	if s.Status == "" {
		s.Status = StatusActive
	}
	if s.VerificationStatus == "" {
		s.VerificationStatus = Pending
	}
	r.schemes[key] = *s
}

// ListAll returns every scheme ordered by code, ignoring case. The
// PostgreSQL repository uses the same order.
func (r *MemoryRepository) ListAll(_ context.Context) ([]GovernmentScheme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]GovernmentScheme, 0, len(r.schemes))
	for _, s := range r.schemes {
		out = append(out, s)
	}
	SortByCode(out)
	return out, nil
}

// SortByCode orders schemes by lower-cased code, with the raw code as the
// tiebreak.
func SortByCode(schemes []GovernmentScheme) {
	sort.SliceStable(schemes, func(i, j int) bool {
		a, b := strings.ToLower(schemes[i].Code), strings.ToLower(schemes[j].Code)
		if a != b {
			return a < b
		}
		return schemes[i].Code < schemes[j].Code
	})
}

func (r *MemoryRepository) ListActive(ctx context.Context) ([]GovernmentScheme, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterActive(all), nil
}

// GetByCode is case-insensitive.
func (r *MemoryRepository) GetByCode(_ context.Context, code string) (*GovernmentScheme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemes[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeSchemeNotFound, "scheme %q not found", code)
	}
	return &s, nil
}

func (r *MemoryRepository) Upsert(_ context.Context, s *GovernmentScheme) error {
	if s == nil || strings.TrimSpace(s.Code) == "" || strings.TrimSpace(s.Name) == "" {
		return errors.New(errors.ErrCodeValidation, "scheme code and name are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(s)
	return nil
}

var _ Repository = (*MemoryRepository)(nil)

//Personal.AI order the ending
