package dataprocessing

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"migviz/pkg/contracts/domain"
)

// FlowsForYear keeps the country flows of one year, leaving out migrants of
// unknown origin.
func FlowsForYear(totalStock dataframe.DataFrame, year int) dataframe.DataFrame {
	return totalStock.FilterAggregation(dataframe.And,
		dataframe.F{Colname: domain.ColYear, Comparator: series.Eq, Comparando: year},
		dataframe.F{Colname: domain.ColOriginCode, Comparator: series.Neq, Comparando: domain.OtherOriginCode},
	)
}

// FilterYear keeps the rows of one year.
func FilterYear(df dataframe.DataFrame, year int) dataframe.DataFrame {
	return df.Filter(dataframe.F{Colname: domain.ColYear, Comparator: series.Eq, Comparando: year})
}

// HasYear reports whether any row of df belongs to year.
func HasYear(df dataframe.DataFrame, year int) bool {
	years, ok := IntColumn(df, domain.ColYear)
	for i, y := range years {
		if ok[i] && y == year {
			return true
		}
	}
	return false
}

// SumBy sums valueCol per distinct value of the integer column key, skipping
// NaN. Keys are sorted ascending; a group of only NaN sums to zero.
// Columns: key, as.
func SumBy(df dataframe.DataFrame, key, valueCol, as string) dataframe.DataFrame {
	keys, ok := IntColumn(df, key)
	values := df.Col(valueCol).Float()

	sums := make(map[int]float64)
	for i, k := range keys {
		if !ok[i] {
			continue
		}
		if _, seen := sums[k]; !seen {
			sums[k] = 0
		}
		if !math.IsNaN(values[i]) {
			sums[k] += values[i]
		}
	}

	ordered := make([]int, 0, len(sums))
	for k := range sums {
		ordered = append(ordered, k)
	}
	sort.Ints(ordered)

	totals := make([]float64, len(ordered))
	for i, k := range ordered {
		totals[i] = sums[k]
	}
	return dataframe.New(
		series.New(ordered, series.Int, key),
		series.New(totals, series.Float, as),
	)
}

// TopOrigins returns the n largest origins per destination of flows, ranked
// by summed migration, joined with the origin country name. Destinations are
// ascending; within one, origins are by descending total, ties in origin
// code order.
// Columns: Destination code, Origin code, Immigrants, Country.
func TopOrigins(flows, countries dataframe.DataFrame, n int) dataframe.DataFrame {
	dests, destOK := IntColumn(flows, domain.ColDestinationCode)
	origins, originOK := IntColumn(flows, domain.ColOriginCode)
	values := flows.Col(domain.ColMigration).Float()

	type pair struct{ dest, origin int }
	sums := make(map[pair]float64)
	for i := range dests {
		if !destOK[i] || !originOK[i] {
			continue
		}
		p := pair{dests[i], origins[i]}
		if _, seen := sums[p]; !seen {
			sums[p] = 0
		}
		if !math.IsNaN(values[i]) {
			sums[p] += values[i]
		}
	}

	byDest := make(map[int][]pair)
	for p := range sums {
		byDest[p.dest] = append(byDest[p.dest], p)
	}
	destOrder := make([]int, 0, len(byDest))
	for d := range byDest {
		destOrder = append(destOrder, d)
	}
	sort.Ints(destOrder)

	names := make(map[int]string)
	codes, codeOK := IntColumn(countries, domain.ColNumericCode)
	countryNames := countries.Col(domain.ColCountry).Records()
	for i, c := range codes {
		if codeOK[i] {
			names[c] = countryNames[i]
		}
	}

	var outDest, outOrigin []int
	var outTotal []float64
	var outName []string
	for _, d := range destOrder {
		ps := byDest[d]
		sort.Slice(ps, func(i, j int) bool {
			si, sj := sums[ps[i]], sums[ps[j]]
			if si != sj {
				return si > sj
			}
			return ps[i].origin < ps[j].origin
		})
		if len(ps) > n {
			ps = ps[:n]
		}
		for _, p := range ps {
			outDest = append(outDest, p.dest)
			outOrigin = append(outOrigin, p.origin)
			outTotal = append(outTotal, sums[p])
			name, ok := names[p.origin]
			if !ok {
				name = "NaN"
			}
			outName = append(outName, name)
		}
	}

	return dataframe.New(
		series.New(outDest, series.Int, domain.ColDestinationCode),
		series.New(outOrigin, series.Int, domain.ColOriginCode),
		series.New(outTotal, series.Float, domain.ColImmigrants),
		series.New(outName, series.String, domain.ColCountry),
	)
}
