package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

func TestDefaultChecklist_IsValid(t *testing.T) {
	t.Parallel()
	c := DefaultChecklist()
	require.NoError(t, c.Validate())
	assert.Len(t, c.Sections, 5)
	assert.Equal(t, 15, c.FieldCount())

	weights := make([]float64, 0, len(c.Sections))
	for _, s := range c.Sections {
		weights = append(weights, s.Weight)
	}
	assert.Equal(t, []float64{15, 25, 20, 20, 20}, weights)
}

func TestDefaultChecklist_FreshCopy(t *testing.T) {
	t.Parallel()
	a := DefaultChecklist()
	a.Sections[0].Weight = 99
	assert.Equal(t, 15.0, DefaultChecklist().Sections[0].Weight)
}

func TestChecklist_Validate_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *Checklist)
		substr string
	}{
		{
			name:   "section weights off",
			mutate: func(c *Checklist) { c.Sections[0].Weight = 16; c.Sections[0].Fields[0].Weight = 5 },
			substr: "section weights sum",
		},
		{
			name:   "field weights off",
			mutate: func(c *Checklist) { c.Sections[1].Fields[0].Weight = 1 },
			substr: "field weights sum",
		},
		{
			name:   "duplicate section id",
			mutate: func(c *Checklist) { c.Sections[1].ID = c.Sections[0].ID },
			substr: "duplicate section id",
		},
		{
			name:   "duplicate field id",
			mutate: func(c *Checklist) { c.Sections[1].Fields[0].ID = "project_name" },
			substr: "duplicate field id",
		},
		{
			name: "bad pattern",
			mutate: func(c *Checklist) {
				c.Sections[0].Fields[0].Validation = &ValidationRule{Pattern: "([a-z"}
			},
			substr: "does not compile",
		},
		{
			name:   "unknown section type",
			mutate: func(c *Checklist) { c.Sections[0].SectionType = "APPENDIX" },
			substr: "unknown section_type",
		},
		{
			name:   "unknown entity type",
			mutate: func(c *Checklist) { c.Sections[1].Fields[0].EntityTypes = []dpr.EntityType{"PERSON"} },
			substr: "unknown entity type",
		},
		{
			name:   "zero total",
			mutate: func(c *Checklist) { c.TotalWeight = 0 },
			substr: "total_weight",
		},
		{
			name:   "no sections",
			mutate: func(c *Checklist) { c.Sections = nil },
			substr: "no sections",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := DefaultChecklist()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.substr)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeChecklistInvalid))
		})
	}
}

func TestChecklist_Validate_Nil(t *testing.T) {
	t.Parallel()
	var c *Checklist
	assert.Error(t, c.Validate())
}

func TestChecklist_Clone_IsDeep(t *testing.T) {
	t.Parallel()
	orig := DefaultChecklist()
	orig.Sections[0].Fields[0].Validation.RequiredKeywords = []string{"road"}

	cp := orig.Clone()
	cp.Sections[0].Fields[0].Keywords[0] = "changed"
	cp.Sections[0].Fields[0].Validation.RequiredKeywords[0] = "bridge"
	cp.Sections[1].Fields[0].EntityTypes[0] = dpr.EntityDate

	assert.Equal(t, "project name", orig.Sections[0].Fields[0].Keywords[0])
	assert.Equal(t, "road", orig.Sections[0].Fields[0].Validation.RequiredKeywords[0])
	assert.Equal(t, dpr.EntityMonetary, orig.Sections[1].Fields[0].EntityTypes[0])
	assert.Nil(t, (*Checklist)(nil).Clone())
}

//Personal.AI order the ending
