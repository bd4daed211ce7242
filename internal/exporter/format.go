package exporter

import (
	"math"
	"strconv"

	"github.com/go-gota/gota/series"
)

// formatElement renders one cell. NA and non-finite floats are empty.
func formatElement(el series.Element) string {
	if el.IsNA() {
		return ""
	}
	switch el.Type() {
	case series.Float:
		return formatFloat(el.Float())
	case series.Int:
		i, err := el.Int()
		if err != nil {
			return ""
		}
		return formatInt(int64(i))
	case series.Bool:
		b, err := el.Bool()
		if err != nil {
			return ""
		}
		return formatBool(b)
	default:
		return el.String()
	}
}

// formatFloat writes the shortest representation that round-trips; whole
// numbers have no decimal point.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
