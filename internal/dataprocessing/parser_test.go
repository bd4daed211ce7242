package dataprocessing

import (
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"migviz/internal/errors"
	"migviz/internal/shared/testutil"
	"migviz/pkg/contracts/domain"
)

func TestDedupeHeaders(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "repeated years",
			in:   []string{"Index", "1990", "1995", "1990", "1995", "1990"},
			want: []string{"Index", "1990", "1995", "1990.1", "1995.1", "1990.2"},
		},
		{
			name: "blank headers",
			in:   []string{"", "Name", " "},
			want: []string{"Unnamed: 0", "Name", "Unnamed: 2"},
		},
		{
			name: "numeric headers normalized",
			in:   []string{"1990.0", "1990"},
			want: []string{"1990", "1990.1"},
		},
		{
			name: "suffix collides with a real header",
			in:   []string{"A", "A.1", "A"},
			want: []string{"A", "A.1", "A.2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeHeaders(tt.in))
		})
	}
}

func TestLoadRows(t *testing.T) {
	rows := [][]string{
		{"banner"},
		{},
		{"Code", "Name", "Value"},
		{"4", "Afghanistan", "1.5"},
		{},
		{"8.0", "Albania", ".."},
		{"12", "Algeria"},
	}

	df, err := loadRows(rows, SheetOptions{
		Sheet:    "Sheet1",
		SkipRows: 2,
		Types:    map[string]series.Type{"Code": series.Int, "Value": series.Float},
	})
	require.NoError(t, err)
	require.Equal(t, 3, df.Nrow())

	codes, ok := IntColumn(df, "Code")
	assert.Equal(t, []int{4, 8, 12}, codes)
	assert.Equal(t, []bool{true, true, true}, ok)

	values := df.Col("Value")
	assert.False(t, values.Elem(0).IsNA())
	assert.True(t, values.Elem(1).IsNA(), "'..' is missing")
	assert.True(t, values.Elem(2).IsNA(), "short row is padded with missing")
}

func TestLoadRowsErrors(t *testing.T) {
	_, err := loadRows([][]string{{"a"}}, SheetOptions{Sheet: "S", SkipRows: 3})
	assert.ErrorIs(t, err, errors.ErrHeaderNotFound)

	_, err = loadRows([][]string{{"a", "b"}, {}}, SheetOptions{Sheet: "S"})
	assert.ErrorIs(t, err, errors.ErrNoRows)
}

func TestReadSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stock.xlsx")
	testutil.WriteStockWorkbook(t, path, "Table 1", 10, testutil.SampleStockRows)

	f, err := OpenWorkbook(path)
	require.NoError(t, err)
	defer f.Close()

	t.Run("loads the table below the banner", func(t *testing.T) {
		df, err := ReadSheet(f, SheetOptions{Sheet: "Table 1", SkipRows: 10, Types: StockColumnTypes})
		require.NoError(t, err)

		assert.Equal(t, len(testutil.SampleStockRows), df.Nrow())
		assert.Contains(t, df.Names(), "1990")
		assert.Contains(t, df.Names(), "1990.1")
		assert.Contains(t, df.Names(), "2020.2")
		assert.Equal(t, series.Int, df.Col(domain.SourceDestinationCode).Type())

		codes, _ := IntColumn(df, domain.SourceOriginCode)
		assert.Equal(t, 484, codes[0])
	})

	t.Run("missing sheet", func(t *testing.T) {
		_, err := ReadSheet(f, SheetOptions{Sheet: "Table 9"})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrSheetNotFound)
		assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
	})

	t.Run("wrong skip rows", func(t *testing.T) {
		_, err := ReadSheet(f, SheetOptions{Sheet: "Table 1", SkipRows: 8})
		assert.ErrorIs(t, err, errors.ErrHeaderNotFound)
	})
}

func TestOpenWorkbookMissing(t *testing.T) {
	_, err := OpenWorkbook(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
}
