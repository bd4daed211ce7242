// Package staticplot renders the net migration rate as a static SVG for
// readers without JavaScript.
package staticplot

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"migviz/internal/charts"
	"migviz/internal/dataprocessing"
	"migviz/internal/errors"
	"migviz/pkg/contracts/domain"
)

// Default image size.
const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

// Series is the rate of one subregion, ordered by year. Years without an
// estimate are left out.
type Series struct {
	Subregion string
	Points    plotter.XYs
}

// RateSeries groups the estimates by subregion, sorted by name.
func RateSeries(estimates dataframe.DataFrame) ([]Series, error) {
	if err := dataprocessing.RequireColumns(estimates, "estimates",
		domain.ColSubregion, domain.ColYear, domain.ColNetMigrationRate,
	); err != nil {
		return nil, err
	}

	names := estimates.Col(domain.ColSubregion).Records()
	years, ok := dataprocessing.IntColumn(estimates, domain.ColYear)
	rates := estimates.Col(domain.ColNetMigrationRate).Float()

	bySubregion := make(map[string]plotter.XYs)
	for i, name := range names {
		if !ok[i] || math.IsNaN(rates[i]) || name == "NaN" {
			continue
		}
		bySubregion[name] = append(bySubregion[name], plotter.XY{X: float64(years[i]), Y: rates[i]})
	}
	if len(bySubregion) == 0 {
		return nil, errors.NewValidationError("no net migration rate to plot", errors.ErrNoRows)
	}

	out := make([]Series, 0, len(bySubregion))
	for name, pts := range bySubregion {
		sort.Slice(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
		out = append(out, Series{Subregion: name, Points: pts})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subregion < out[j].Subregion })
	return out, nil
}

// RenderRates draws one line per subregion and returns the SVG document.
func RenderRates(estimates dataframe.DataFrame, width, height vg.Length) ([]byte, error) {
	series, err := RateSeries(estimates)
	if err != nil {
		return nil, fmt.Errorf("render rates: %w", err)
	}

	theme := charts.Theme()
	p := plot.New()
	p.Title.Text = "Net Migration Rate by Subregion"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.TextStyle.Color = mustHex(charts.TitleColor)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Net Migration Rate (per 1,000 population)"
	p.X.Tick.Marker = yearTicks{}
	p.BackgroundColor = mustHex(charts.BackgroundColor)
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	for i, s := range series {
		line, err := plotter.NewLine(s.Points)
		if err != nil {
			return nil, fmt.Errorf("render rates: %s: %w", s.Subregion, err)
		}
		c := mustHex(theme.Range.Category[(i+2)%len(theme.Range.Category)])
		line.Width = vg.Points(2)
		line.Color = c

		points, err := plotter.NewScatter(s.Points)
		if err != nil {
			return nil, fmt.Errorf("render rates: %s: %w", s.Subregion, err)
		}
		points.GlyphStyle.Shape = draw.CircleGlyph{}
		points.GlyphStyle.Radius = vg.Points(2)
		points.GlyphStyle.Color = c

		p.Add(line, points)
		p.Legend.Add(s.Subregion, line, points)
	}

	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	zero.Color = mustHex(charts.AxisColor)
	p.Add(zero)

	writer, err := p.WriterTo(width, height, "svg")
	if err != nil {
		return nil, fmt.Errorf("render rates: %w", err)
	}
	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render rates: %w", err)
	}
	return buf.Bytes(), nil
}

// yearTicks labels whole years only.
type yearTicks struct{}

func (yearTicks) Ticks(lo, hi float64) []plot.Tick {
	var ticks []plot.Tick
	step := 1.0
	if hi-lo > 20 {
		step = 5
	}
	for y := math.Ceil(lo/step) * step; y <= hi; y += step {
		ticks = append(ticks, plot.Tick{Value: y, Label: strconv.Itoa(int(y))})
	}
	return ticks
}

// mustHex parses #rrggbb or #rrggbbaa. The palette is constant, so a bad
// value is a programming error.
func mustHex(s string) color.NRGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 8 {
		panic(fmt.Sprintf("staticplot: bad color %q", s))
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}
