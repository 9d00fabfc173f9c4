package covdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		symbols []Symbol
		want    Stats
	}{
		{"markers do not count", []Symbol{Neutral, Ignored, 2, 0, 5, 0}, Stats{Total: 4, Covered: 2, Missed: 2, Percent: 50}},
		{"only markers", []Symbol{Neutral, Ignored}, Stats{}},
		{"empty", nil, Stats{}},
		{"all covered", []Symbol{1, 1}, Stats{Total: 2, Covered: 2, Percent: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.symbols)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.Total, got.Covered+got.Missed)
		})
	}
}

func TestStats_Add(t *testing.T) {
	a := Stats{Total: 30, Covered: 30, Percent: 100}
	b := Stats{Total: 5, Covered: 3, Missed: 2, Percent: 60}
	sum := a.Add(b)
	assert.Equal(t, int64(35), sum.Total)
	assert.Equal(t, int64(33), sum.Covered)
	assert.InDelta(t, 94.2857, sum.Percent, 0.001)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, Percent(0, 0))
	assert.Equal(t, 25.0, Percent(1, 4))
}
