package gap_analyzer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DPR-Intelligence/internal/domain/checklist"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

func TestNewChecklistStore_DefaultsToBuiltin(t *testing.T) {
	s, err := NewChecklistStore(nil)
	require.NoError(t, err)
	assert.Equal(t, checklist.DefaultVersion, s.Version())
}

func TestNewChecklistStore_RejectsInvalid(t *testing.T) {
	bad := checklist.DefaultChecklist()
	bad.TotalWeight = 0
	_, err := NewChecklistStore(bad)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeChecklistInvalid))
	assert.Panics(t, func() { MustNewChecklistStore(bad) })
}

func TestChecklistStore_GetReturnsCopy(t *testing.T) {
	s := MustNewChecklistStore(nil)
	c := s.Get()
	c.Version = "mutated"
	c.Sections[0].Fields[0].Keywords[0] = "mutated"

	again := s.Get()
	assert.Equal(t, checklist.DefaultVersion, again.Version)
	assert.NotEqual(t, "mutated", again.Sections[0].Fields[0].Keywords[0])
}

func TestChecklistStore_Replace(t *testing.T) {
	s := MustNewChecklistStore(nil)

	err := s.Replace(nil)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeChecklistInvalid))

	next := checklist.DefaultChecklist()
	next.Version = "v2"
	require.NoError(t, s.Replace(next))
	next.Version = "changed after install"
	assert.Equal(t, "v2", s.Version())
}

func TestChecklistStore_ConcurrentAccess(t *testing.T) {
	s := MustNewChecklistStore(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c := s.Get()
				assert.NoError(t, c.Validate())
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.NoError(t, s.Replace(checklist.DefaultChecklist()))
			}
		}()
	}
	wg.Wait()
}

//Personal.AI order the ending
