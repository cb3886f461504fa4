package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoricalProject_Succeeded(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		p    HistoricalProject
		want bool
	}{
		{"on time", HistoricalProject{Completed: true, PlannedMonths: 24, ActualMonths: 24}, true},
		{"within tolerance", HistoricalProject{Completed: true, PlannedMonths: 20, ActualMonths: 24}, true},
		{"overrun", HistoricalProject{Completed: true, PlannedMonths: 20, ActualMonths: 25}, false},
		{"not completed", HistoricalProject{Completed: false, PlannedMonths: 20, ActualMonths: 10}, false},
		{"unknown plan", HistoricalProject{Completed: true}, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.p.Succeeded())
		})
	}
}
