package charts

import (
	"fmt"

	"migviz/internal/dataprocessing"
	"migviz/internal/errors"
	"migviz/pkg/contracts"
	"migviz/pkg/contracts/domain"
)

// WorldAtlasURL is the TopoJSON world outline drawn under the flows.
const WorldAtlasURL = "https://cdn.jsdelivr.net/npm/vega-datasets@v1.29.0/data/world-110m.json"

// Dataset names shared by the layers of one spec.
const (
	DatasetCountries   = "countries"
	DatasetFlows       = "flows"
	DatasetMigrants    = "migrants"
	DatasetTopOrigins  = "top_origins"
	DatasetEstimates   = "estimates"
	DatasetRegionStock = "region_stock"
)

// Parameter names the pages interact with.
const (
	ParamSelectCountry   = "select_country"
	ParamCountrySearch   = "country_search"
	ParamSelectSubregion = "select_subregion"
)

// TopOriginCount is the number of origin countries listed per destination.
const TopOriginCount = 5

// MigrationFlow builds the flow map of year: the world colored by total
// immigrants, with rules from each origin to the hovered destination and a
// bar chart of that destination's largest origins.
func MigrationFlow(ds *dataprocessing.Dataset, year int) (*Spec, error) {
	if !domain.IsStockYear(year) {
		return nil, errors.NewValidationError(fmt.Sprintf("migration flow for %d", year), errors.ErrUnknownYear).
			WithContext("year", year)
	}

	flows := dataprocessing.FlowsForYear(ds.TotalStock, year).
		Select([]string{domain.ColDestinationCode, domain.ColOriginCode, domain.ColMigration})
	migrants := dataprocessing.SumBy(flows, domain.ColDestinationCode, domain.ColMigration, domain.ColMigrants)
	top := dataprocessing.TopOrigins(flows, ds.Countries, TopOriginCount)

	countryFilter := Transform{Filter: Or{Or: []interface{}{
		ParamPredicate{Param: ParamSelectCountry, Empty: boolean(false)},
		searchPredicate(),
	}}}

	background := &Spec{
		Data: &Data{
			URL:    WorldAtlasURL,
			Format: &DataFormat{Type: "topojson", Feature: "countries"},
		},
		Transform: []Transform{{
			Lookup: "id",
			From: &LookupFrom{
				Data:   *named(DatasetMigrants),
				Key:    domain.ColDestinationCode,
				Fields: []string{domain.ColMigrants},
			},
		}},
		Mark: &Mark{Type: "geoshape", Stroke: "white"},
		Encoding: &Encoding{
			Color: &Channel{
				Field:  domain.ColMigrants,
				Type:   "quantitative",
				Legend: &Legend{Title: "Total Immigrants"},
			},
		},
	}

	connections := &Spec{
		Data: named(DatasetFlows),
		Transform: []Transform{
			countryFilter,
			lookupCoordinates(domain.ColDestinationCode, nil),
			lookupCoordinates(domain.ColOriginCode, []string{"lat2", "lon2"}),
		},
		Mark: &Mark{Type: "rule", Opacity: float(0.4), Color: FlowColor},
		Encoding: &Encoding{
			Latitude:   &Channel{Field: domain.ColLatitude, Type: "quantitative"},
			Longitude:  &Channel{Field: domain.ColLongitude, Type: "quantitative"},
			Latitude2:  &Channel{Field: "lat2"},
			Longitude2: &Channel{Field: "lon2"},
		},
	}

	points := &Spec{
		Data: named(DatasetFlows),
		Transform: []Transform{
			{
				Aggregate: []AggregateOp{{Op: "sum", Field: domain.ColMigration, As: domain.ColImmigrants}},
				GroupBy:   []string{domain.ColDestinationCode},
			},
			{
				Lookup: domain.ColDestinationCode,
				From: &LookupFrom{
					Data:   *named(DatasetCountries),
					Key:    domain.ColNumericCode,
					Fields: []string{domain.ColCountry, domain.ColLatitude, domain.ColLongitude},
				},
			},
		},
		Params: []Param{{
			Name: ParamSelectCountry,
			Select: &Selection{
				Type:    "point",
				On:      "pointerover",
				Nearest: true,
				Fields:  []string{domain.ColDestinationCode},
			},
		}},
		Mark: &Mark{Type: "circle", Size: float(0)},
		Encoding: &Encoding{
			Latitude:  &Channel{Field: domain.ColLatitude, Type: "quantitative"},
			Longitude: &Channel{Field: domain.ColLongitude, Type: "quantitative"},
			Order:     &Channel{Field: domain.ColImmigrants, Type: "quantitative", Sort: "descending"},
			Tooltip: []Channel{
				{Field: domain.ColCountry, Type: "nominal"},
				{Field: domain.ColImmigrants, Type: "quantitative", Format: ","},
			},
		},
	}

	bars := &Spec{
		Data:      named(DatasetTopOrigins),
		Transform: []Transform{countryFilter},
		Mark:      &Mark{Type: "bar"},
		Encoding: &Encoding{
			X: &Channel{
				Field: domain.ColImmigrants,
				Type:  "quantitative",
				Title: "Total Immigrants",
			},
			Y: &Channel{
				Field: domain.ColCountry,
				Type:  "nominal",
				Title: "Origin Country",
				Sort:  "-x",
				Axis:  &Axis{LabelLimit: 150},
			},
			Color: &Channel{Field: domain.ColCountry, Type: "nominal", Legend: NoLegend},
		},
		Width:  500,
		Height: 350,
	}

	return &Spec{
		Schema:      contracts.VegaLiteSchema,
		Description: fmt.Sprintf("International migrant flows, %d", year),
		Config:      Theme(),
		Datasets: map[string][]map[string]interface{}{
			DatasetCountries:  dataprocessing.Records(ds.Countries),
			DatasetFlows:      dataprocessing.Records(flows),
			DatasetMigrants:   dataprocessing.Records(migrants),
			DatasetTopOrigins: dataprocessing.Records(top),
		},
		Params: []Param{{Name: ParamCountrySearch, Value: ""}},
		HConcat: []*Spec{
			{
				Layer:      []*Spec{background, connections, points},
				Projection: &Projection{Type: "equalEarth"},
				Width:      800,
				Height:     450,
			},
			bars,
		},
	}, nil
}

// lookupCoordinates joins the coordinates of the country whose code is in
// field. as renames latitude and longitude when set.
func lookupCoordinates(field string, as []string) Transform {
	return Transform{
		Lookup: field,
		From: &LookupFrom{
			Data:   *named(DatasetCountries),
			Key:    domain.ColNumericCode,
			Fields: []string{domain.ColLatitude, domain.ColLongitude},
		},
		As: as,
	}
}

// searchPredicate matches the destination picked in the page's search box.
func searchPredicate() string {
	return fmt.Sprintf("datum['%s'] === toNumber(%s)", domain.ColDestinationCode, ParamCountrySearch)
}
