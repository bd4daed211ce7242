package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"migviz/internal/errors"
	"migviz/pkg/contracts/domain"
)

// StockColumnTypes types the stock sheet columns the cleaners rely on.
// Year columns stay strings until melted so ".." survives the load.
var StockColumnTypes = map[string]series.Type{
	domain.SourceDestinationCode: series.Int,
	domain.SourceOriginCode:      series.Int,
}

// EstimatesColumnTypes types the estimates sheet columns the cleaners rely on.
var EstimatesColumnTypes = map[string]series.Type{
	domain.SourceLocationCode:     series.Int,
	domain.SourceYear:             series.Int,
	domain.SourceNetMigrationRate: series.Float,
}

// stockIDColumns are the identifying columns of the country-level tables.
var stockIDColumns = []string{
	domain.ColDestination,
	domain.ColDestinationCode,
	domain.ColOrigin,
	domain.ColOriginCode,
}

// YearColumns names the year columns of one sex block of the stock sheet:
// block 0 is both sexes, 1 is male, 2 is female.
func YearColumns(block int) []string {
	cols := make([]string, len(domain.StockYears))
	for i, y := range domain.StockYears {
		cols[i] = strconv.Itoa(y)
		if block > 0 {
			cols[i] += "." + strconv.Itoa(block)
		}
	}
	return cols
}

// renameStock renames the destination and origin columns of the stock sheet.
func renameStock(stock dataframe.DataFrame, destName, originName string) dataframe.DataFrame {
	return stock.
		Rename(destName, domain.SourceDestinationName).
		Rename(domain.ColDestinationCode, domain.SourceDestinationCode).
		Rename(originName, domain.SourceOriginName).
		Rename(domain.ColOriginCode, domain.SourceOriginCode)
}

// filterCountries keeps rows where the destination is a country and the
// origin is a country or the "other" origin.
func filterCountries(stock dataframe.DataFrame, countryCodes []int) dataframe.DataFrame {
	origins := append(append(make([]int, 0, len(countryCodes)+1), countryCodes...), domain.OtherOriginCode)
	return stock.FilterAggregation(dataframe.And,
		dataframe.F{Colname: domain.ColDestinationCode, Comparator: series.In, Comparando: countryCodes},
		dataframe.F{Colname: domain.ColOriginCode, Comparator: series.In, Comparando: origins},
	)
}

func countryStock(stock dataframe.DataFrame, countryCodes []int, yearCols []string) (dataframe.DataFrame, error) {
	required := append([]string{
		domain.SourceDestinationName, domain.SourceDestinationCode,
		domain.SourceOriginName, domain.SourceOriginCode,
	}, yearCols...)
	if err := RequireColumns(stock, "stock", required...); err != nil {
		return dataframe.DataFrame{}, err
	}
	if len(countryCodes) == 0 {
		return dataframe.DataFrame{}, errors.NewValidationError("no country codes to filter stock by", errors.ErrNoRows)
	}

	df := renameStock(stock, domain.ColDestination, domain.ColOrigin)
	df = filterCountries(df, countryCodes)
	df = df.Select(append(append([]string{}, stockIDColumns...), yearCols...))
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("select stock columns: %w", df.Err)
	}
	return df, nil
}

// CleanTotalStock reshapes the both-sexes block of the stock sheet into one
// row per destination, origin and year. Rows are grouped by year in column
// order, source order within a year.
// Columns: Destination, Destination code, Origin, Origin code, Year, Migration.
func CleanTotalStock(stock dataframe.DataFrame, countryCodes []int) (dataframe.DataFrame, error) {
	yearCols := YearColumns(0)
	df, err := countryStock(stock, countryCodes, yearCols)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("clean total stock: %w", err)
	}

	long, err := Melt(df, stockIDColumns, yearCols, domain.ColYear, domain.ColMigration)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("clean total stock: %w", err)
	}
	long = long.Mutate(series.New(yearsFromLabels(long.Col(domain.ColYear).Records()), series.Int, domain.ColYear))
	if long.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("clean total stock: %w", long.Err)
	}
	return long, nil
}

// CleanSexStock reshapes the male and female blocks of the stock sheet.
// Columns: Destination, Destination code, Origin, Origin code, Year, Sex,
// Migration.
func CleanSexStock(stock dataframe.DataFrame, countryCodes []int) (dataframe.DataFrame, error) {
	yearCols := append(YearColumns(1), YearColumns(2)...)
	df, err := countryStock(stock, countryCodes, yearCols)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("clean sex stock: %w", err)
	}

	long, err := Melt(df, stockIDColumns, yearCols, "Year_Sex", domain.ColMigration)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("clean sex stock: %w", err)
	}

	labels := long.Col("Year_Sex").Records()
	years := make([]int, len(labels))
	sexes := make([]string, len(labels))
	for i, label := range labels {
		year, sex, err := splitYearSex(label)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("clean sex stock: %w", err)
		}
		years[i], sexes[i] = year, string(sex)
	}

	long = long.
		Mutate(series.New(years, series.Int, domain.ColYear)).
		Mutate(series.New(sexes, series.String, domain.ColSex)).
		Select(append(append([]string{}, stockIDColumns...), domain.ColYear, domain.ColSex, domain.ColMigration))
	if long.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("clean sex stock: %w", long.Err)
	}
	return long, nil
}

// splitYearSex parses a block column label such as "1995.2".
func splitYearSex(label string) (int, domain.Sex, error) {
	dot := strings.LastIndexByte(label, '.')
	if dot < 0 {
		return 0, "", fmt.Errorf("column %q has no sex block suffix", label)
	}
	year, err := strconv.Atoi(label[:dot])
	if err != nil {
		return 0, "", fmt.Errorf("column %q: bad year: %w", label, err)
	}
	block, err := strconv.Atoi(label[dot+1:])
	if err != nil {
		return 0, "", fmt.Errorf("column %q: bad block: %w", label, err)
	}
	sex, ok := domain.SexForBlock(block)
	if !ok {
		return 0, "", fmt.Errorf("column %q: unknown sex block %d", label, block)
	}
	return year, sex, nil
}

// CleanRegionStock keeps region-to-region flows and reshapes them by year.
// Region names are trimmed and unified with the estimates naming.
// Columns: Subregion, source, Year, value.
func CleanRegionStock(stock dataframe.DataFrame) (dataframe.DataFrame, error) {
	yearCols := YearColumns(0)
	required := append([]string{
		domain.SourceDestinationName, domain.SourceDestinationCode,
		domain.SourceOriginName, domain.SourceOriginCode,
	}, yearCols...)
	if err := RequireColumns(stock, "stock", required...); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("clean region stock: %w", err)
	}

	df := renameStock(stock, domain.ColSubregion, domain.ColSource)
	df = df.FilterAggregation(dataframe.And,
		dataframe.F{Colname: domain.ColDestinationCode, Comparator: series.In, Comparando: domain.RegionCodes},
		dataframe.F{Colname: domain.ColOriginCode, Comparator: series.In, Comparando: domain.RegionCodes},
	)
	ids := []string{domain.ColSubregion, domain.ColSource}
	df = df.Select(append(append([]string{}, ids...), yearCols...))
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("clean region stock: %w", df.Err)
	}

	long, err := Melt(df, ids, yearCols, domain.ColYear, domain.ColValue)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("clean region stock: %w", err)
	}
	long = long.Mutate(series.New(yearsFromLabels(long.Col(domain.ColYear).Records()), series.Int, domain.ColYear))
	long = TrimAndAlias(long, domain.ColSubregion, domain.NameAliases)
	long = TrimAndAlias(long, domain.ColSource, domain.NameAliases)
	if long.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("clean region stock: %w", long.Err)
	}
	return long, nil
}

// CleanEstimates keeps the net migration rate of the eight subregions.
// Columns: Subregion, Year, Net Migration Rate.
func CleanEstimates(estimates dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := RequireColumns(estimates, "estimates",
		domain.SourceLocationCode, domain.SourceRegionName, domain.SourceYear, domain.SourceNetMigrationRate,
	); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("clean estimates: %w", err)
	}

	df := FilterCodes(estimates, domain.SourceLocationCode, domain.SubregionCodes).
		Select([]string{domain.SourceRegionName, domain.SourceYear, domain.SourceNetMigrationRate}).
		Rename(domain.ColSubregion, domain.SourceRegionName).
		Rename(domain.ColNetMigrationRate, domain.SourceNetMigrationRate)
	df = TrimAndAlias(df, domain.ColSubregion, nil)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("clean estimates: %w", df.Err)
	}
	return df, nil
}

// yearsFromLabels converts melted year column labels back to ints.
func yearsFromLabels(labels []string) []int {
	years := make([]int, len(labels))
	for i, l := range labels {
		years[i], _ = strconv.Atoi(l)
	}
	return years
}
