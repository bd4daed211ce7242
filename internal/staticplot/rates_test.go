package staticplot

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"migviz/internal/errors"
)

func estimatesFrame(names []string, years []int, rates []float64) dataframe.DataFrame {
	return dataframe.New(
		series.New(names, series.String, "Subregion"),
		series.New(years, series.Int, "Year"),
		series.New(rates, series.Float, "Net Migration Rate"),
	)
}

func TestRateSeries(t *testing.T) {
	df := estimatesFrame(
		[]string{"Sub-Saharan Africa", "Europe and Northern America", "Europe and Northern America", "Sub-Saharan Africa"},
		[]int{1991, 1991, 1990, 1990},
		[]float64{-0.4, 2.5, 1.5, math.NaN()},
	)

	got, err := RateSeries(df)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Europe and Northern America", got[0].Subregion)
	require.Len(t, got[0].Points, 2)
	assert.Equal(t, 1990.0, got[0].Points[0].X, "points are ordered by year")
	assert.Equal(t, 2.5, got[0].Points[1].Y)

	require.Len(t, got[1].Points, 1, "missing estimates are skipped")
	assert.Equal(t, -0.4, got[1].Points[0].Y)
}

func TestRateSeriesErrors(t *testing.T) {
	_, err := RateSeries(estimatesFrame([]string{"A"}, []int{1990}, []float64{math.NaN()}))
	assert.ErrorIs(t, err, errors.ErrNoRows)

	_, err = RateSeries(dataframe.New(series.New([]string{"A"}, series.String, "Subregion")))
	assert.ErrorIs(t, err, errors.ErrColumnNotFound)
}

func TestRenderRates(t *testing.T) {
	df := estimatesFrame(
		[]string{"Europe and Northern America", "Europe and Northern America", "Latin America and the Caribbean"},
		[]int{1990, 1995, 1990},
		[]float64{1.5, 2.5, -0.5},
	)

	svg, err := RenderRates(df, DefaultWidth, DefaultHeight)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
	assert.Contains(t, string(svg), "Net Migration Rate by Subregion")
}

func TestYearTicks(t *testing.T) {
	ticks := yearTicks{}.Ticks(1990.2, 1993)
	require.Len(t, ticks, 3)
	assert.Equal(t, "1991", ticks[0].Label)

	wide := yearTicks{}.Ticks(1950, 2023)
	assert.Equal(t, "1950", wide[0].Label)
	assert.Equal(t, "2020", wide[len(wide)-1].Label)
}

func TestMustHex(t *testing.T) {
	c := mustHex("#aa4a52")
	assert.Equal(t, uint8(0xaa), c.R)
	assert.Equal(t, uint8(0xff), c.A)
	assert.Equal(t, uint8(0x80), mustHex("#00000080").A)
	assert.Panics(t, func() { mustHex("#zz") })
}
