package gap_analyzer

import (
	"sync"

	"github.com/turtacn/DPR-Intelligence/internal/domain/checklist"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// ChecklistStore owns the installed checklist. Reads return copies; writes
// validate first and swap the whole rubric, so a failed replacement leaves
// the previous checklist in place.
type ChecklistStore struct {
	mu      sync.RWMutex
	current *checklist.Checklist
}

// NewChecklistStore installs initial, or the built-in checklist when nil.
func NewChecklistStore(initial *checklist.Checklist) (*ChecklistStore, error) {
	if initial == nil {
		initial = checklist.DefaultChecklist()
	}
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	return &ChecklistStore{current: initial.Clone()}, nil
}

// MustNewChecklistStore panics when initial is invalid.
func MustNewChecklistStore(initial *checklist.Checklist) *ChecklistStore {
	s, err := NewChecklistStore(initial)
	if err != nil {
		panic(err)
	}
	return s
}

// Get returns a copy of the installed checklist.
func (s *ChecklistStore) Get() *checklist.Checklist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Version returns the installed checklist version.
func (s *ChecklistStore) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Version
}

// Replace validates c and installs a copy of it.
func (s *ChecklistStore) Replace(c *checklist.Checklist) error {
	if c == nil {
		return apperrors.New(apperrors.ErrCodeChecklistInvalid, "checklist is required")
	}
	if err := c.Validate(); err != nil {
		return err
	}
	next := c.Clone()
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	return nil
}

//Personal.AI order the ending
