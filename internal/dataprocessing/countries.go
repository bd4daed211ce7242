package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/go-playground/validator/v10"

	"migviz/internal/errors"
	"migviz/pkg/contracts/domain"
)

var validate = validator.New()

// LoadCountries reads the country coordinates CSV.
// Columns: Country, Numeric code, latitude, longitude.
func LoadCountries(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, errors.NewNotFoundError(fmt.Sprintf("failed to open countries file %s", path), err)
	}
	defer f.Close()

	return ReadCountries(f)
}

// ReadCountries parses country coordinates from r. Fields may be quoted and
// padded with spaces. Every row is validated; a bad row fails the load.
func ReadCountries(r io.Reader) (dataframe.DataFrame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, errors.NewParsingError("failed to read countries csv", err)
	}
	if len(rows) < 2 {
		return dataframe.DataFrame{}, errors.NewParsingError("countries csv has no data", errors.ErrNoRows)
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, name := range []string{domain.SourceCountryName, domain.SourceNumericCode, domain.SourceLatitude, domain.SourceLongitude} {
		if _, ok := index[name]; !ok {
			return dataframe.DataFrame{}, errors.ColumnNotFound("countries", name)
		}
	}

	countries := make([]domain.Country, 0, len(rows)-1)
	for line, row := range rows[1:] {
		field := func(name string) string {
			i := index[name]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		c, err := parseCountry(field)
		if err != nil {
			return dataframe.DataFrame{}, errors.NewValidationError(fmt.Sprintf("countries csv line %d", line+2), err)
		}
		countries = append(countries, c)
	}

	return CountriesFrame(countries), nil
}

func parseCountry(field func(string) string) (domain.Country, error) {
	code, err := strconv.Atoi(field(domain.SourceNumericCode))
	if err != nil {
		return domain.Country{}, fmt.Errorf("numeric code: %w", err)
	}
	lat, err := strconv.ParseFloat(field(domain.SourceLatitude), 64)
	if err != nil {
		return domain.Country{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(field(domain.SourceLongitude), 64)
	if err != nil {
		return domain.Country{}, fmt.Errorf("longitude: %w", err)
	}

	c := domain.Country{
		Name:        field(domain.SourceCountryName),
		NumericCode: code,
		Latitude:    lat,
		Longitude:   lon,
	}
	if err := validate.Struct(c); err != nil {
		return domain.Country{}, err
	}
	return c, nil
}

// CountriesFrame builds the countries frame from parsed rows.
func CountriesFrame(countries []domain.Country) dataframe.DataFrame {
	names := make([]string, len(countries))
	codes := make([]int, len(countries))
	lats := make([]float64, len(countries))
	lons := make([]float64, len(countries))
	for i, c := range countries {
		names[i], codes[i], lats[i], lons[i] = c.Name, c.NumericCode, c.Latitude, c.Longitude
	}
	return dataframe.New(
		series.New(names, series.String, domain.ColCountry),
		series.New(codes, series.Int, domain.ColNumericCode),
		series.New(lats, series.Float, domain.ColLatitude),
		series.New(lons, series.Float, domain.ColLongitude),
	)
}

// CountryCodes lists the numeric codes of the countries frame.
func CountryCodes(countries dataframe.DataFrame) []int {
	values, ok := IntColumn(countries, domain.ColNumericCode)
	codes := make([]int, 0, len(values))
	for i, v := range values {
		if ok[i] {
			codes = append(codes, v)
		}
	}
	return codes
}

// CountriesDict maps each country name to its numeric code as text. It backs
// the country search box of the dashboard.
func CountriesDict(countries dataframe.DataFrame) map[string]string {
	names := countries.Col(domain.ColCountry).Records()
	codes, ok := IntColumn(countries, domain.ColNumericCode)
	dict := make(map[string]string, len(names))
	for i, name := range names {
		if ok[i] {
			dict[name] = strconv.Itoa(codes[i])
		}
	}
	return dict
}
