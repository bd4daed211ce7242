package dataprocessing

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/montanaflynn/stats"

	"migviz/pkg/contracts/domain"
)

// RateSummary describes the net migration rate series of one subregion.
type RateSummary struct {
	Subregion    string  `json:"subregion"`
	Observations int     `json:"observations"`
	FirstYear    int     `json:"first_year"`
	LastYear     int     `json:"last_year"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	StdDev       float64 `json:"std_dev"`
}

// SummarizeRates computes descriptive statistics of the net migration rate
// per subregion of a cleaned estimates frame. Missing rates are skipped;
// subregions without any rate are left out. Results are sorted by name.
func SummarizeRates(estimates dataframe.DataFrame) ([]RateSummary, error) {
	if err := RequireColumns(estimates, "estimates", domain.ColSubregion, domain.ColYear, domain.ColNetMigrationRate); err != nil {
		return nil, err
	}

	names := estimates.Col(domain.ColSubregion).Records()
	rates := estimates.Col(domain.ColNetMigrationRate).Float()
	years, yearOK := IntColumn(estimates, domain.ColYear)

	type acc struct {
		data        stats.Float64Data
		first, last int
	}
	groups := make(map[string]*acc)
	for i, name := range names {
		if math.IsNaN(rates[i]) {
			continue
		}
		g, ok := groups[name]
		if !ok {
			g = &acc{first: math.MaxInt, last: math.MinInt}
			groups[name] = g
		}
		g.data = append(g.data, rates[i])
		if yearOK[i] {
			g.first = min(g.first, years[i])
			g.last = max(g.last, years[i])
		}
	}

	summaries := make([]RateSummary, 0, len(groups))
	for name, g := range groups {
		s, err := summarize(name, g.data)
		if err != nil {
			return nil, fmt.Errorf("summarize %s: %w", name, err)
		}
		if g.first <= g.last {
			s.FirstYear, s.LastYear = g.first, g.last
		}
		summaries = append(summaries, s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Subregion < summaries[j].Subregion
	})
	return summaries, nil
}

func summarize(name string, data stats.Float64Data) (RateSummary, error) {
	s := RateSummary{Subregion: name, Observations: data.Len()}
	var err error

	if s.Mean, err = data.Mean(); err != nil {
		return s, err
	}
	if s.Median, err = data.Median(); err != nil {
		return s, err
	}
	if s.Min, err = data.Min(); err != nil {
		return s, err
	}
	if s.Max, err = data.Max(); err != nil {
		return s, err
	}
	if s.StdDev, err = data.StandardDeviationSample(); err != nil || math.IsNaN(s.StdDev) {
		// a single observation has no sample deviation
		s.StdDev = 0
	}

	for _, v := range []*float64{&s.Mean, &s.Median, &s.StdDev} {
		if r, err := stats.Round(*v, 3); err == nil {
			*v = r
		}
	}
	return s, nil
}

// RateSummaryFrame lays summaries out as a frame for CSV export.
func RateSummaryFrame(summaries []RateSummary) dataframe.DataFrame {
	n := len(summaries)
	names := make([]string, n)
	obs := make([]int, n)
	first := make([]int, n)
	last := make([]int, n)
	mean := make([]float64, n)
	median := make([]float64, n)
	lo := make([]float64, n)
	hi := make([]float64, n)
	sd := make([]float64, n)
	for i, s := range summaries {
		names[i], obs[i], first[i], last[i] = s.Subregion, s.Observations, s.FirstYear, s.LastYear
		mean[i], median[i], lo[i], hi[i], sd[i] = s.Mean, s.Median, s.Min, s.Max, s.StdDev
	}
	return dataframe.New(
		series.New(names, series.String, domain.ColSubregion),
		series.New(obs, series.Int, "Observations"),
		series.New(first, series.Int, "First year"),
		series.New(last, series.Int, "Last year"),
		series.New(mean, series.Float, "Mean"),
		series.New(median, series.Float, "Median"),
		series.New(lo, series.Float, "Min"),
		series.New(hi, series.Float, "Max"),
		series.New(sd, series.Float, "Std dev"),
	)
}
