package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"migviz/internal/errors"
	"migviz/pkg/contracts/domain"
)

// SheetOptions describes where the table starts in a worksheet and how its
// columns are typed. Columns absent from Types are loaded as strings.
type SheetOptions struct {
	Sheet    string
	SkipRows int
	Types    map[string]series.Type
}

// missingValues are the cell contents loaded as missing.
var missingValues = []string{domain.MissingValue, ""}

// OpenWorkbook opens an xlsx workbook for reading.
func OpenWorkbook(path string) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to open workbook %s", path), err).
			WithContext("workbook", path)
	}
	return f, nil
}

// ReadSheet loads a worksheet into a frame. The row after the skipped rows is
// the header; repeated header names get a positional suffix (the second
// "1990" becomes "1990.1", the third "1990.2") and blank headers are named
// "Unnamed: <index>". Numeric cells holding whole numbers are normalized so
// "1990.0" loads as 1990.
func ReadSheet(f *excelize.File, opts SheetOptions) (dataframe.DataFrame, error) {
	idx, err := f.GetSheetIndex(opts.Sheet)
	if err != nil || idx < 0 {
		return dataframe.DataFrame{}, errors.SheetNotFound(f.Path, opts.Sheet)
	}

	rows, err := f.GetRows(opts.Sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return dataframe.DataFrame{}, errors.NewParsingError(fmt.Sprintf("failed to read sheet %q", opts.Sheet), err).
			WithContext("sheet", opts.Sheet)
	}

	return loadRows(rows, opts)
}

// loadRows turns raw sheet rows into a typed frame.
func loadRows(rows [][]string, opts SheetOptions) (dataframe.DataFrame, error) {
	if len(rows) <= opts.SkipRows || isBlankRow(rows[opts.SkipRows]) {
		return dataframe.DataFrame{}, errors.NewParsingError(
			fmt.Sprintf("no header row after skipping %d rows in %q", opts.SkipRows, opts.Sheet),
			errors.ErrHeaderNotFound,
		).WithContext("sheet", opts.Sheet)
	}

	header := DedupeHeaders(rows[opts.SkipRows])
	width := len(header)

	records := make([][]string, 0, len(rows)-opts.SkipRows)
	records = append(records, header)
	for _, row := range rows[opts.SkipRows+1:] {
		if isBlankRow(row) {
			continue
		}
		record := make([]string, width)
		for i := 0; i < width && i < len(row); i++ {
			record[i] = normalizeCell(row[i])
		}
		records = append(records, record)
	}

	if len(records) == 1 {
		return dataframe.DataFrame{}, errors.NewParsingError(
			fmt.Sprintf("sheet %q has a header but no data", opts.Sheet),
			errors.ErrNoRows,
		).WithContext("sheet", opts.Sheet)
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(opts.Types),
		dataframe.NaNValues(missingValues),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.NewParsingError(fmt.Sprintf("failed to load sheet %q", opts.Sheet), df.Err).
			WithContext("sheet", opts.Sheet)
	}
	return df, nil
}

// DedupeHeaders makes header names unique the way spreadsheet readers
// conventionally do: later repeats of a name get ".1", ".2", ... appended.
func DedupeHeaders(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]bool, len(header))

	for i, h := range header {
		name := strings.TrimSpace(normalizeCell(h))
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		candidate := name
		for taken[candidate] {
			seen[name]++
			candidate = fmt.Sprintf("%s.%d", name, seen[name])
		}
		taken[candidate] = true
		out[i] = candidate
	}
	return out
}

// normalizeCell rewrites whole-number numerics without a fractional part.
func normalizeCell(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == domain.MissingValue {
		return v
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return v
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return v
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
