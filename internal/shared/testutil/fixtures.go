package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"migviz/pkg/contracts/domain"
)

// StockRow is one data row of the stock fixture sheet. Year cells hold raw
// text; ".." marks a missing value and anything numeric is stored as a number.
type StockRow struct {
	Destination     string
	DestinationCode int
	Origin          string
	OriginCode      int
	Both            [7]string
	Male            [7]string
	Female          [7]string
}

// EstimateRow is one data row of the estimates fixture sheet.
type EstimateRow struct {
	Name         string
	LocationCode int
	Year         int
	Rate         string
}

// StockHeader is the header row of the stock sheet.
func StockHeader() []string {
	header := []string{
		"Index",
		domain.SourceDestinationName,
		"Notes of destination",
		domain.SourceDestinationCode,
		"Type of data of destination",
		domain.SourceOriginName,
		domain.SourceOriginCode,
	}
	for block := 0; block < 3; block++ {
		for _, y := range domain.StockYears {
			header = append(header, strconv.Itoa(y))
		}
	}
	return header
}

// EstimatesHeader is the header row of the estimates sheet.
func EstimatesHeader() []string {
	return []string{
		"Index",
		"Variant",
		domain.SourceRegionName,
		"Notes",
		domain.SourceLocationCode,
		"ISO3 Alpha-code",
		"Type",
		domain.SourceYear,
		"Total Population, as of 1 July (thousands)",
		domain.SourceNetMigrationRate,
	}
}

// WriteStockWorkbook writes a stock workbook with skipRows banner rows.
func WriteStockWorkbook(t testing.TB, path, sheet string, skipRows int, rows []StockRow) {
	t.Helper()

	data := make([][]interface{}, 0, len(rows))
	for i, r := range rows {
		row := []interface{}{i + 1, r.Destination, nil, r.DestinationCode, "B", r.Origin, r.OriginCode}
		for _, block := range [][7]string{r.Both, r.Male, r.Female} {
			for _, v := range block {
				row = append(row, cellValue(v))
			}
		}
		data = append(data, row)
	}

	writeSheet(t, path, sheet, skipRows, StockHeader(), data)
}

// WriteEstimatesWorkbook writes an estimates workbook with skipRows banner rows.
func WriteEstimatesWorkbook(t testing.TB, path, sheet string, skipRows int, rows []EstimateRow) {
	t.Helper()

	data := make([][]interface{}, 0, len(rows))
	for i, r := range rows {
		data = append(data, []interface{}{
			i + 1, "Estimates", r.Name, nil, r.LocationCode, "", "Subregion", r.Year, 1000, cellValue(r.Rate),
		})
	}

	writeSheet(t, path, sheet, skipRows, EstimatesHeader(), data)
}

// WriteCountriesCSV writes a coordinates file in the quoted, space padded
// layout of the published reference table.
func WriteCountriesCSV(t testing.TB, path string, countries []domain.Country) {
	t.Helper()

	var b strings.Builder
	b.WriteString(`Country,Alpha-2 code,Alpha-3 code,Numeric code,Latitude (average),Longitude (average)` + "\n")
	for _, c := range countries {
		fmt.Fprintf(&b, "%q, \"XX\", \"XXX\", \"%d\", \"%g\", \"%g\"\n", c.Name, c.NumericCode, c.Latitude, c.Longitude)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("failed to write countries fixture: %v", err)
	}
}

func writeSheet(t testing.TB, path, sheet string, skipRows int, header []string, rows [][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		t.Fatalf("failed to name sheet: %v", err)
	}

	for i := 1; i <= skipRows; i++ {
		if i%3 == 1 {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", i), "United Nations, Department of Economic and Social Affairs")
		}
	}

	headerRow := skipRows + 1
	for j, h := range header {
		cell, _ := excelize.CoordinatesToCellName(j+1, headerRow)
		if y, err := strconv.Atoi(h); err == nil {
			f.SetCellValue(sheet, cell, y)
		} else {
			f.SetCellValue(sheet, cell, h)
		}
	}

	for i, row := range rows {
		for j, v := range row {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(j+1, headerRow+1+i)
			f.SetCellValue(sheet, cell, v)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create fixture dir: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook fixture: %v", err)
	}
}

func cellValue(v string) interface{} {
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}

// Years builds a year block from seven values.
func Years(v ...string) [7]string {
	var out [7]string
	copy(out[:], v)
	return out
}

// Sample countries used by the sample inputs.
var SampleCountries = []domain.Country{
	{Name: "Mexico", NumericCode: 484, Latitude: 23, Longitude: -102},
	{Name: "United States", NumericCode: 840, Latitude: 38, Longitude: -97},
	{Name: "Canada", NumericCode: 124, Latitude: 60, Longitude: -95},
	{Name: "Germany", NumericCode: 276, Latitude: 51, Longitude: 9},
	{Name: "France", NumericCode: 250, Latitude: 46, Longitude: 2},
}

// SampleStockRows mixes country flows, aggregates that must be dropped and
// region-to-region flows.
var SampleStockRows = []StockRow{
	{"United States", 840, "Mexico", 484,
		Years("100", "110", "120", "130", "140", "150", "160"),
		Years("60", "66", "72", "78", "84", "90", "96"),
		Years("40", "44", "48", "52", "56", "60", "64")},
	{"United States", 840, "Canada", 124,
		Years("50", "50", "50", "50", "50", "50", "50"),
		Years("20", "20", "20", "20", "20", "20", "20"),
		Years("30", "30", "30", "30", "30", "30", "30")},
	{"United States", 840, "Other", domain.OtherOriginCode,
		Years("5", "5", "5", "5", "5", "5", "5"),
		Years("2", "2", "2", "2", "2", "2", "2"),
		Years("3", "3", "3", "3", "3", "3", "3")},
	{"Germany", 276, "France", 250,
		Years("30", "..", "35", "36", "37", "38", "39"),
		Years("15", "..", "17", "18", "18", "19", "19"),
		Years("15", "..", "18", "18", "19", "19", "20")},
	{"Canada", 124, "United States", 840,
		Years("20", "21", "22", "23", "24", "25", "26"),
		Years("10", "10", "11", "11", "12", "12", "13"),
		Years("10", "11", "11", "12", "12", "13", "13")},
	{"WORLD", 900, "Mexico", 484,
		Years("999", "999", "999", "999", "999", "999", "999"),
		Years("500", "500", "500", "500", "500", "500", "500"),
		Years("499", "499", "499", "499", "499", "499", "499")},
	{"United States", 840, "Latin America and the Caribbean", 1830,
		Years("700", "700", "700", "700", "700", "700", "700"),
		Years("350", "350", "350", "350", "350", "350", "350"),
		Years("350", "350", "350", "350", "350", "350", "350")},
	{" Europe and Northern America ", 1829, "Latin America and the Caribbean", 1830,
		Years("1000", "1100", "1200", "1300", "1400", "1500", "1600"),
		Years("500", "550", "600", "650", "700", "750", "800"),
		Years("500", "550", "600", "650", "700", "750", "800")},
	{"Australia and New Zealand", 927, "Europe and Northern America", 1829,
		Years("300", "310", "320", "..", "340", "350", "360"),
		Years("150", "155", "160", "..", "170", "175", "180"),
		Years("150", "155", "160", "..", "170", "175", "180")},
}

// SampleEstimateRows covers two subregions and an aggregate to be dropped.
var SampleEstimateRows = []EstimateRow{
	{"Europe and Northern America", 1829, 1990, "1.5"},
	{"Europe and Northern America", 1829, 1995, "2.5"},
	{"Europe and Northern America", 1829, 2000, "2"},
	{"Latin America and the Caribbean", 1830, 1990, "-0.5"},
	{"Latin America and the Caribbean", 1830, 1995, ".."},
	{"World", 900, 1990, "0"},
}

// SampleInputs are the paths written by WriteSampleInputs.
type SampleInputs struct {
	Dir               string
	StockWorkbook     string
	EstimatesWorkbook string
	CountriesCSV      string
}

// WriteSampleInputs writes the sample workbooks and countries file under
// dir/data using the default sheet layout.
func WriteSampleInputs(t testing.TB, dir string) SampleInputs {
	t.Helper()

	in := SampleInputs{
		Dir:               dir,
		StockWorkbook:     filepath.Join(dir, "data", "stock.xlsx"),
		EstimatesWorkbook: filepath.Join(dir, "data", "estimates.xlsx"),
		CountriesCSV:      filepath.Join(dir, "data", "country-coord.csv"),
	}
	WriteStockWorkbook(t, in.StockWorkbook, "Table 1", 10, SampleStockRows)
	WriteEstimatesWorkbook(t, in.EstimatesWorkbook, "Estimates", 16, SampleEstimateRows)
	WriteCountriesCSV(t, in.CountriesCSV, SampleCountries)
	return in
}
