package scheme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGovernmentScheme_IsActive(t *testing.T) {
	t.Parallel()
	assert.True(t, (&GovernmentScheme{Status: "active"}).IsActive())
	assert.False(t, (&GovernmentScheme{Status: StatusClosed}).IsActive())
}

func TestGovernmentScheme_IsNational(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		regions []string
		want    bool
	}{
		{"empty", nil, true},
		{"all", []string{"All"}, true},
		{"national", []string{" national "}, true},
		{"states", []string{"Assam", "Tripura"}, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := &GovernmentScheme{Regions: tt.regions}
			assert.Equal(t, tt.want, s.IsNational())
		})
	}
}

func TestBuiltinCatalog(t *testing.T) {
	t.Parallel()
	all := BuiltinCatalog()
	codes := make(map[string]bool, len(all))
	for _, s := range all {
		assert.NotEmpty(t, s.ID)
		assert.False(t, codes[s.Code], "duplicate code %s", s.Code)
		codes[s.Code] = true
	}
	assert.True(t, codes["PMGSY"])
	assert.True(t, codes["MGNREGA"])

	active := FilterActive(all)
	assert.Less(t, len(active), len(all))
	for _, s := range active {
		assert.True(t, s.IsActive())
	}
}

//Personal.AI order the ending
