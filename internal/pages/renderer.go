package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strconv"
	"strings"
	"time"

	"migviz/internal/charts"
	"migviz/internal/config"
	"migviz/internal/dataprocessing"
	"migviz/pkg/contracts"
)

//go:embed templates/*.html
var templateFS embed.FS

// Common is shared by every page.
type Common struct {
	Title       string
	Version     string
	GeneratedAt string
	Background  string
	TextColor   string
	AccentColor string
	IndexPage   string
	CountryPage string
	RegionPage  string
}

// IndexData feeds index.html.
type IndexData struct {
	Common
	FirstYear int
	LastYear  int
	StaticSVG string
}

// Country is one entry of the destination search box.
type Country struct {
	Name string
	Code string
}

// CountryData feeds plots_country.html.
type CountryData struct {
	Common
	Years        []int
	DefaultYear  int
	Specs        map[string]*charts.Spec
	Countries    []Country
	CountryCodes map[string]string
	SearchParam  string
}

// RegionData feeds plots_region.html.
type RegionData struct {
	Common
	Years       []int
	DefaultYear int
	Specs       map[string]*charts.Spec
	Summary     []dataprocessing.RateSummary
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
	now   func() time.Time
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template), now: time.Now}
	for _, page := range []string{config.IndexPage, config.CountryPage, config.RegionPage} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// Common returns the shared page fields with the given title.
func (r *Renderer) Common(title string) Common {
	return Common{
		Title:       title,
		Version:     contracts.Version,
		GeneratedAt: r.now().UTC().Format("2006-01-02 15:04 MST"),
		Background:  charts.BackgroundColor,
		TextColor:   charts.TitleColor,
		AccentColor: charts.AxisColor,
		IndexPage:   config.IndexPage,
		CountryPage: config.CountryPage,
		RegionPage:  config.RegionPage,
	}
}

// Render executes page with data.
func (r *Renderer) Render(page string, data interface{}) ([]byte, error) {
	t, ok := r.pages[page]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, page, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", page, err)
	}
	return buf.Bytes(), nil
}

// CountryOptions turns the name to code dictionary into sorted search
// entries.
func CountryOptions(dict map[string]string) []Country {
	out := make([]Country, 0, len(dict))
	for name, code := range dict {
		out = append(out, Country{Name: name, Code: code})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SearchKeys keys the name to code dictionary by the normalized form the
// search box compares against, so lookups ignore case and surrounding space.
func SearchKeys(dict map[string]string) map[string]string {
	out := make(map[string]string, len(dict))
	for name, code := range dict {
		out[searchKey(name)] = code
	}
	return out
}

func searchKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// yearKeys indexes specs by year as strings, the keys a select element
// reports.
func yearKeys(specs map[int]*charts.Spec) map[string]*charts.Spec {
	out := make(map[string]*charts.Spec, len(specs))
	for year, spec := range specs {
		out[strconv.Itoa(year)] = spec
	}
	return out
}
