package dataprocessing

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func estimatesFrame(names []string, years []int, rates []float64) dataframe.DataFrame {
	return dataframe.New(
		series.New(names, series.String, "Subregion"),
		series.New(years, series.Int, "Year"),
		series.New(rates, series.Float, "Net Migration Rate"),
	)
}

func TestSummarizeRates(t *testing.T) {
	df := estimatesFrame(
		[]string{"Europe", "Europe", "Europe", "Africa", "Africa", "Asia"},
		[]int{1990, 1995, 2000, 1990, 1995, 1990},
		[]float64{1.5, 2.5, 2, -0.5, math.NaN(), math.NaN()},
	)

	summaries, err := SummarizeRates(df)
	require.NoError(t, err)
	require.Len(t, summaries, 2, "a subregion without any rate is left out")

	africa, europe := summaries[0], summaries[1]
	assert.Equal(t, "Africa", africa.Subregion)
	assert.Equal(t, 1, africa.Observations)
	assert.Equal(t, -0.5, africa.Mean)
	assert.Equal(t, 0.0, africa.StdDev)
	assert.Equal(t, 1990, africa.FirstYear)
	assert.Equal(t, 1990, africa.LastYear)

	assert.Equal(t, "Europe", europe.Subregion)
	assert.Equal(t, 3, europe.Observations)
	assert.Equal(t, 2.0, europe.Mean)
	assert.Equal(t, 2.0, europe.Median)
	assert.Equal(t, 1.5, europe.Min)
	assert.Equal(t, 2.5, europe.Max)
	assert.Equal(t, 0.5, europe.StdDev)
	assert.Equal(t, 2000, europe.LastYear)
}

func TestSummarizeRatesMissingColumn(t *testing.T) {
	df := dataframe.New(series.New([]string{"x"}, series.String, "Subregion"))
	_, err := SummarizeRates(df)
	assert.Error(t, err)
}

func TestRateSummaryFrame(t *testing.T) {
	df := RateSummaryFrame([]RateSummary{
		{Subregion: "Europe", Observations: 3, FirstYear: 1990, LastYear: 2000, Mean: 2, Median: 2, Min: 1.5, Max: 2.5, StdDev: 0.5},
	})

	assert.Equal(t, 1, df.Nrow())
	assert.Equal(t, []string{"Subregion", "Observations", "First year", "Last year", "Mean", "Median", "Min", "Max", "Std dev"}, df.Names())
	assert.Equal(t, []string{"Europe"}, df.Col("Subregion").Records())
}
