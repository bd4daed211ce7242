package charts

import (
	"fmt"

	"migviz/internal/dataprocessing"
	"migviz/internal/errors"
	"migviz/pkg/contracts"
	"migviz/pkg/contracts/domain"
)

// MigrationRate builds the net migration rate chart: one line per subregion
// across all estimate years, next to the region-to-region stock of year.
// Clicking a legend entry highlights its line and filters the bars.
func MigrationRate(ds *dataprocessing.Dataset, year int) (*Spec, error) {
	if !domain.IsStockYear(year) {
		return nil, errors.NewValidationError(fmt.Sprintf("migration rate for %d", year), errors.ErrUnknownYear).
			WithContext("year", year)
	}

	base := Encoding{
		X: &Channel{
			Field: domain.ColYear,
			Type:  "ordinal",
			Axis:  &Axis{Title: "Year", TickCount: 14},
		},
		Y: &Channel{
			Field: domain.ColNetMigrationRate,
			Type:  "quantitative",
			Axis:  &Axis{Title: "Net Migration Rate (per 1,000 population)"},
		},
		Color: &Channel{
			Field:  domain.ColSubregion,
			Type:   "nominal",
			Legend: &Legend{Title: "Subregion"},
		},
	}

	points := &Spec{
		Mark:     &Mark{Type: "circle", Opacity: float(0)},
		Encoding: copyEncoding(base),
		Width:    660,
		Height:   350,
	}

	lineEncoding := copyEncoding(base)
	lineEncoding.Size = &Channel{
		Condition: &Condition{Param: ParamSelectSubregion, Value: 3},
		Value:     1,
	}
	lines := &Spec{
		Params: []Param{{
			Name:   ParamSelectSubregion,
			Select: &Selection{Type: "point", Fields: []string{domain.ColSubregion}},
			Bind:   "legend",
		}},
		Mark:     &Mark{Type: "line"},
		Encoding: lineEncoding,
	}

	bars := &Spec{
		Data: named(DatasetRegionStock),
		Transform: []Transform{{
			Filter: ParamPredicate{Param: ParamSelectSubregion},
		}},
		Mark: &Mark{Type: "bar"},
		Encoding: &Encoding{
			X: &Channel{
				Field: domain.ColValue,
				Type:  "quantitative",
				Axis:  &Axis{Title: "Immigration", TickCount: 5},
			},
			Y: &Channel{
				Field: domain.ColSource,
				Type:  "nominal",
				Title: "Origin Subregion",
			},
			Color: &Channel{Field: domain.ColSubregion, Type: "nominal"},
		},
		Width:  340,
		Height: 350,
	}

	return &Spec{
		Schema:      contracts.VegaLiteSchema,
		Description: fmt.Sprintf("Net migration rate by subregion and region stock, %d", year),
		Config:      Theme(),
		Datasets: map[string][]map[string]interface{}{
			DatasetEstimates:   dataprocessing.Records(ds.Estimates),
			DatasetRegionStock: dataprocessing.Records(dataprocessing.FilterYear(ds.RegionStock, year)),
		},
		HConcat: []*Spec{
			{
				Data:  named(DatasetEstimates),
				Layer: []*Spec{points, lines},
			},
			bars,
		},
	}, nil
}

func copyEncoding(e Encoding) *Encoding {
	return &e
}
