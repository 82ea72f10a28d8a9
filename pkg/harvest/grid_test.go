package harvest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateGrid_Ranges(t *testing.T) {
	tests := []struct {
		name      string
		grid      DateGrid
		wantLen   int
		wantFirst string
		wantDec   string
	}{
		{
			name:      "default years, all months",
			grid:      DateGrid{Scope: ScopeAll},
			wantLen:   24,
			wantFirst: "20190101-20190201",
			wantDec:   "20191201-20200101",
		},
		{
			name:      "legacy december wrap",
			grid:      DateGrid{Years: []int{2019}, Scope: ScopeAll, LegacyDecemberWrap: true},
			wantLen:   12,
			wantFirst: "20190101-20190201",
			wantDec:   "20191201-20190101",
		},
		{
			name:      "first",
			grid:      DateGrid{Years: []int{2019, 2020}, Scope: ScopeFirst},
			wantLen:   1,
			wantFirst: "20190101-20190201",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranges := tt.grid.Ranges()
			require.Len(t, ranges, tt.wantLen)
			assert.Equal(t, tt.wantFirst, ranges[0].String())
			if tt.wantDec != "" {
				assert.Equal(t, tt.wantDec, ranges[11].String())
				assert.Equal(t, "201912", ranges[11].Month())
			}
		})
	}
}

func TestDateGrid_MonthsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range (DateGrid{Years: []int{2019, 2020, 2021}}).Ranges() {
		assert.False(t, seen[r.Month()], r.Month())
		seen[r.Month()] = true
		assert.True(t, r.End.After(r.Start))
	}
	assert.Len(t, seen, 36)
}
