package pages

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"migviz/internal/charts"
	"migviz/internal/config"
	"migviz/internal/dataprocessing"
	"migviz/internal/shared/testutil"
)

func sampleBuild(t *testing.T) (*dataprocessing.Dataset, *config.Paths) {
	t.Helper()

	in := testutil.WriteSampleInputs(t, t.TempDir())
	cfg := config.Default()
	cfg.Inputs.BaseDir = in.Dir
	cfg.Inputs.StockWorkbook = in.StockWorkbook
	cfg.Inputs.EstimatesWorkbook = in.EstimatesWorkbook
	cfg.Inputs.CountriesCSV = in.CountriesCSV
	paths, err := config.NewPaths(cfg)
	require.NoError(t, err)

	ds, err := dataprocessing.NewProcessor(cfg.Inputs, paths, nil, nil).Run(context.Background())
	require.NoError(t, err)
	return ds, paths
}

func TestBuild(t *testing.T) {
	ds, paths := sampleBuild(t)
	logger, handler := testutil.NewTestLogger(t)

	b, err := NewBuilder(paths, nil, logger)
	require.NoError(t, err)
	res, err := b.Build(context.Background(), ds, Options{DefaultYear: 2000, StaticSVG: true})
	require.NoError(t, err)

	assert.Len(t, res.Specs, 14)
	assert.Equal(t, paths.GetSpecPath("flow", 1990), res.Specs[0])
	assert.Equal(t, paths.GetSpecPath("rate", 2020), res.Specs[13])
	for _, p := range res.Specs {
		assert.FileExists(t, p)
	}

	raw, err := os.ReadFile(paths.GetSpecPath("flow", 2000))
	require.NoError(t, err)
	var spec map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &spec))
	assert.Contains(t, spec, "hconcat")

	assert.FileExists(t, paths.GetStaticPath(config.RateSVGFile))
	require.Len(t, res.Pages, 3)

	country, err := os.ReadFile(paths.GetWWWPath(config.CountryPage))
	require.NoError(t, err)
	html := string(country)
	assert.Contains(t, html, `<option value="2000" selected>`)
	assert.Contains(t, html, `<option value="United States">`)
	assert.Contains(t, html, `"united states":"840"`)
	assert.Contains(t, html, "toLowerCase()")
	assert.Contains(t, html, charts.WorldAtlasURL)
	assert.Contains(t, html, charts.ParamCountrySearch)
	assert.Contains(t, html, "vega-embed@6")

	region, err := os.ReadFile(paths.GetWWWPath(config.RegionPage))
	require.NoError(t, err)
	assert.Contains(t, string(region), `class="controls right"`)
	assert.Contains(t, string(region), "<td>Europe and Northern America</td>")
	assert.Contains(t, string(region), `"1990":`)

	index, err := os.ReadFile(paths.GetWWWPath(config.IndexPage))
	require.NoError(t, err)
	assert.Contains(t, string(index), `src="static/net_migration_rate.svg"`)
	assert.Contains(t, string(index), `href="plots_region.html"`)

	testutil.AssertLogAttr(t, handler, "specs", int64(14))
}

func TestBuildWithoutSVGFallsBackToFirstYear(t *testing.T) {
	ds, paths := sampleBuild(t)

	b, err := NewBuilder(paths, nil, nil)
	require.NoError(t, err)
	res, err := b.Build(context.Background(), ds, Options{DefaultYear: 1991})
	require.NoError(t, err)
	assert.Empty(t, res.SVG)
	assert.NoFileExists(t, paths.GetStaticPath(config.RateSVGFile))

	index, err := os.ReadFile(filepath.Join(paths.WWWDir, config.IndexPage))
	require.NoError(t, err)
	assert.NotContains(t, string(index), "<img")

	country, err := os.ReadFile(paths.GetWWWPath(config.CountryPage))
	require.NoError(t, err)
	assert.Contains(t, string(country), `<option value="1990" selected>`)
}

func TestBuildCanceled(t *testing.T) {
	ds, paths := sampleBuild(t)
	b, err := NewBuilder(paths, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.Build(ctx, ds, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRendererEscapesData(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	r.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	out, err := r.Render(config.CountryPage, CountryData{
		Common:       r.Common("Flows"),
		Years:        []int{1990},
		DefaultYear:  1990,
		Specs:        map[string]*charts.Spec{"1990": {Description: "</script><b>"}},
		Countries:    []Country{{Name: "Côte <d'Ivoire>", Code: "384"}},
		CountryCodes: map[string]string{"Côte <d'Ivoire>": "384"},
		SearchParam:  charts.ParamCountrySearch,
	})
	require.NoError(t, err)

	html := string(out)
	assert.NotContains(t, html, "</script><b>")
	assert.NotContains(t, html, "<d'Ivoire>")
	assert.Contains(t, html, "2024-05-01 12:00 UTC")
	assert.Equal(t, 1, strings.Count(html, "<title>Flows</title>"))

	_, err = r.Render("missing.html", nil)
	assert.Error(t, err)
}

func TestSearchKeys(t *testing.T) {
	tests := []struct {
		name  string
		dict  map[string]string
		input string
		want  string
	}{
		{name: "exact", dict: map[string]string{"Mexico": "484"}, input: "mexico", want: "484"},
		{name: "upper case input", dict: map[string]string{"Mexico": "484"}, input: "MEXICO", want: "484"},
		{name: "padded name", dict: map[string]string{" United States ": "840"}, input: "united states", want: "840"},
		{name: "no match", dict: map[string]string{"Mexico": "484"}, input: "canada", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := SearchKeys(tt.dict)
			assert.Equal(t, tt.want, keys[searchKey(tt.input)])
		})
	}
}

func TestCountryOptions(t *testing.T) {
	got := CountryOptions(map[string]string{"Mexico": "484", "Canada": "124"})
	assert.Equal(t, []Country{{"Canada", "124"}, {"Mexico", "484"}}, got)
}
