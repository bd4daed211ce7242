package dataprocessing

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"migviz/internal/errors"
	"migviz/internal/shared/testutil"
)

func TestLoadCountries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "country-coord.csv")
	testutil.WriteCountriesCSV(t, path, testutil.SampleCountries)

	df, err := LoadCountries(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Country", "Numeric code", "latitude", "longitude"}, df.Names())
	assert.Equal(t, len(testutil.SampleCountries), df.Nrow())

	rows := Records(df)
	assert.Equal(t, "Mexico", rows[0]["Country"])
	assert.Equal(t, 484, rows[0]["Numeric code"])
	assert.Equal(t, -102.0, rows[0]["longitude"])

	assert.Equal(t, []int{484, 840, 124, 276, 250}, CountryCodes(df))
}

func TestReadCountriesHeaderVariants(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			name: "utf-8 bom",
			csv:  "\ufeffCountry,Numeric code,Latitude (average),Longitude (average)\nMexico,484,23,-102\n",
		},
		{
			name: "padded and extra columns",
			csv:  "Alpha-2 code, Country, Numeric code, Latitude (average), Longitude (average)\nMX, \"Mexico\", 484, 23, -102\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			df, err := ReadCountries(strings.NewReader(tt.csv))
			require.NoError(t, err)

			rows := Records(df)
			require.Len(t, rows, 1)
			assert.Equal(t, "Mexico", rows[0]["Country"])
			assert.Equal(t, 484, rows[0]["Numeric code"])
			assert.Equal(t, map[string]string{"Mexico": "484"}, CountriesDict(df))
		})
	}
}

func TestCountriesDict(t *testing.T) {
	df := CountriesFrame(testutil.SampleCountries)
	dict := CountriesDict(df)

	assert.Len(t, dict, 5)
	assert.Equal(t, "840", dict["United States"])
	assert.Equal(t, "484", dict["Mexico"])
}

func TestReadCountriesErrors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr error
		errType errors.ErrorType
	}{
		{
			name:    "empty",
			csv:     "Country,Numeric code,Latitude (average),Longitude (average)\n",
			wantErr: errors.ErrNoRows,
		},
		{
			name:    "missing column",
			csv:     "Country,Numeric code,Latitude (average)\nMexico,484,23\n",
			wantErr: errors.ErrColumnNotFound,
		},
		{
			name:    "bad code",
			csv:     "Country,Numeric code,Latitude (average),Longitude (average)\nMexico,abc,23,-102\n",
			errType: errors.ErrTypeValidation,
		},
		{
			name:    "latitude out of range",
			csv:     "Country,Numeric code,Latitude (average),Longitude (average)\nMexico,484,123,-102\n",
			errType: errors.ErrTypeValidation,
		},
		{
			name:    "blank name",
			csv:     "Country,Numeric code,Latitude (average),Longitude (average)\n\"\",484,23,-102\n",
			errType: errors.ErrTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCountries(strings.NewReader(tt.csv))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.errType != "" {
				assert.True(t, errors.IsType(err, tt.errType))
			}
		})
	}
}

func TestLoadCountriesMissingFile(t *testing.T) {
	_, err := LoadCountries(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
}
