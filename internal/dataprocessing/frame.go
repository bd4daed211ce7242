package dataprocessing

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"migviz/internal/errors"
)

// RequireColumns fails with ErrColumnNotFound when df lacks any of names.
func RequireColumns(df dataframe.DataFrame, table string, names ...string) error {
	have := make(map[string]bool, df.Ncol())
	for _, n := range df.Names() {
		have[n] = true
	}
	for _, n := range names {
		if !have[n] {
			return errors.ColumnNotFound(table, n)
		}
	}
	return nil
}

// Melt reshapes df from wide to long. Every column in valueVars becomes one
// block of rows, in valueVars order, carrying the idVars columns, the source
// column name under varName and the cell under valueName. Values are coerced
// to float; anything non-numeric becomes NaN.
func Melt(df dataframe.DataFrame, idVars, valueVars []string, varName, valueName string) (dataframe.DataFrame, error) {
	if err := RequireColumns(df, "melt input", append(append([]string{}, idVars...), valueVars...)...); err != nil {
		return dataframe.DataFrame{}, err
	}
	if len(valueVars) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("melt: no value columns")
	}

	n := df.Nrow()
	cols := make([]series.Series, 0, len(idVars)+2)

	for _, id := range idVars {
		src := df.Col(id)
		col := src.Copy()
		for i := 1; i < len(valueVars); i++ {
			col = col.Concat(src)
		}
		col.Name = id
		cols = append(cols, col)
	}

	vars := make([]string, 0, n*len(valueVars))
	values := make([]float64, 0, n*len(valueVars))
	for _, v := range valueVars {
		for i := 0; i < n; i++ {
			vars = append(vars, v)
		}
		values = append(values, df.Col(v).Float()...)
	}
	cols = append(cols,
		series.New(vars, series.String, varName),
		series.New(values, series.Float, valueName),
	)

	out := dataframe.New(cols...)
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("melt: %w", out.Err)
	}
	return out, nil
}

// FilterCodes keeps rows whose integer column col holds one of codes.
func FilterCodes(df dataframe.DataFrame, col string, codes []int) dataframe.DataFrame {
	return df.Filter(dataframe.F{Colname: col, Comparator: series.In, Comparando: codes})
}

// MapStrings rewrites a string column through fn. Missing cells stay missing.
func MapStrings(df dataframe.DataFrame, col string, fn func(string) string) dataframe.DataFrame {
	src := df.Col(col)
	out := make([]string, src.Len())
	for i := 0; i < src.Len(); i++ {
		el := src.Elem(i)
		if el.IsNA() {
			out[i] = "NaN"
			continue
		}
		out[i] = fn(el.String())
	}
	return df.Mutate(series.New(out, series.String, col))
}

// TrimAndAlias trims whitespace and applies aliases to a name column.
func TrimAndAlias(df dataframe.DataFrame, col string, aliases map[string]string) dataframe.DataFrame {
	return MapStrings(df, col, func(s string) string {
		s = strings.TrimSpace(s)
		if alias, ok := aliases[s]; ok {
			return alias
		}
		return s
	})
}

// Records converts df into row maps for JSON encoding. Missing cells and NaN
// become nil.
func Records(df dataframe.DataFrame) []map[string]interface{} {
	names := df.Names()
	cols := make([]series.Series, len(names))
	for j, name := range names {
		cols[j] = df.Col(name)
	}

	rows := make([]map[string]interface{}, df.Nrow())
	for i := range rows {
		row := make(map[string]interface{}, len(names))
		for j, name := range names {
			row[name] = elementValue(cols[j].Elem(i), cols[j].Type())
		}
		rows[i] = row
	}
	return rows
}

func elementValue(el series.Element, t series.Type) interface{} {
	if el.IsNA() {
		return nil
	}
	switch t {
	case series.Int:
		v, err := el.Int()
		if err != nil {
			return nil
		}
		return v
	case series.Float:
		v := el.Float()
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return v
	case series.Bool:
		v, err := el.Bool()
		if err != nil {
			return nil
		}
		return v
	default:
		return el.String()
	}
}

// IntColumn returns col as ints, with missing cells reported as ok=false.
func IntColumn(df dataframe.DataFrame, col string) (values []int, ok []bool) {
	s := df.Col(col)
	values = make([]int, s.Len())
	ok = make([]bool, s.Len())
	for i := 0; i < s.Len(); i++ {
		el := s.Elem(i)
		if el.IsNA() {
			continue
		}
		v, err := el.Int()
		if err != nil {
			continue
		}
		values[i], ok[i] = v, true
	}
	return values, ok
}
