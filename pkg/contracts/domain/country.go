package domain

// Country is one row of the country coordinates reference table.
type Country struct {
	Name        string  `json:"Country" validate:"required"`
	NumericCode int     `json:"Numeric code" validate:"gt=0"`
	Latitude    float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Source column headers of the country coordinates CSV.
const (
	SourceCountryName = "Country"
	SourceNumericCode = "Numeric code"
	SourceLatitude    = "Latitude (average)"
	SourceLongitude   = "Longitude (average)"
)
