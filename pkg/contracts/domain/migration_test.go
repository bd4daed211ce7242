package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSexForBlock(t *testing.T) {
	tests := []struct {
		block  int
		want   Sex
		wantOK bool
	}{
		{0, "", false},
		{1, SexMale, true},
		{2, SexFemale, true},
		{3, "", false},
	}

	for _, tt := range tests {
		got, ok := SexForBlock(tt.block)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.wantOK, ok)
	}
}

func TestIsStockYear(t *testing.T) {
	for _, y := range StockYears {
		assert.True(t, IsStockYear(y))
	}
	assert.False(t, IsStockYear(1991))
	assert.False(t, IsStockYear(2025))
}

func TestRegionCodesContainSubregions(t *testing.T) {
	set := make(map[int]bool, len(RegionCodes))
	for _, c := range RegionCodes {
		set[c] = true
	}
	for _, c := range SubregionCodes {
		assert.True(t, set[c], "subregion %d missing from region codes", c)
	}
	assert.Len(t, RegionCodes, 11)
}
