package domain

// StockYears are the years covered by the migrant stock tables, in column order.
var StockYears = []int{1990, 1995, 2000, 2005, 2010, 2015, 2020}

// SubregionCodes are the UN location codes of the eight SDG subregions
// reported in the population estimates.
var SubregionCodes = []int{1834, 1833, 1831, 1832, 1830, 1835, 1836, 1829}

// RegionCodes extends SubregionCodes with the aggregate regions kept in the
// region-to-region stock table.
var RegionCodes = []int{947, 921, 927, 1834, 1833, 1831, 1832, 1830, 1835, 1836, 1829}

// OtherOriginCode is the location code for migrants of unknown or other origin.
// It is not a country but is kept as a valid origin by the stock cleaners.
const OtherOriginCode = 2003

// MissingValue is the placeholder the UN workbooks use for missing cells.
const MissingValue = ".."

// Source column headers in the UN workbooks.
const (
	SourceDestinationName = "Region, development group, country or area of destination"
	SourceDestinationCode = "Location code of destination"
	SourceOriginName      = "Region, development group, country or area of origin"
	SourceOriginCode      = "Location code of origin"

	SourceLocationCode     = "Location code"
	SourceRegionName       = "Region, subregion, country or area *"
	SourceYear             = "Year"
	SourceNetMigrationRate = "Net Migration Rate (per 1,000 population)"
)

// Cleaned table columns.
const (
	ColDestination     = "Destination"
	ColDestinationCode = "Destination code"
	ColOrigin          = "Origin"
	ColOriginCode      = "Origin code"
	ColYear            = "Year"
	ColMigration       = "Migration"
	ColSex             = "Sex"

	ColSubregion        = "Subregion"
	ColSource           = "source"
	ColValue            = "value"
	ColNetMigrationRate = "Net Migration Rate"

	ColCountry     = "Country"
	ColNumericCode = "Numeric code"
	ColLatitude    = "latitude"
	ColLongitude   = "longitude"

	ColMigrants   = "Migrants"
	ColImmigrants = "Immigrants"
)

// Sex labels of the by-sex stock table.
type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
)

// SexForBlock maps the occurrence index of a repeated year column (1 for the
// second block, 2 for the third) to its sex label.
func SexForBlock(block int) (Sex, bool) {
	switch block {
	case 1:
		return SexMale, true
	case 2:
		return SexFemale, true
	default:
		return "", false
	}
}

// NameAliases unify region names between the stock and the estimates tables.
var NameAliases = map[string]string{
	"Australia and New Zealand": "Australia/New Zealand",
}

// IsStockYear reports whether year has a column in the stock tables.
func IsStockYear(year int) bool {
	for _, y := range StockYears {
		if y == year {
			return true
		}
	}
	return false
}
