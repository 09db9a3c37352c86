package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicstats/internal/logging"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDatasets(t *testing.T) {
	covid := writeFile(t, "covid.CSV", "zip_code,etl_timestamp,fully_vaccinated\n19103,2021-05-01 10:00:00,100\n")
	pop := writeFile(t, "pop.csv", "zip_code,population\n19103,50000\n19104,30000\n")
	props := writeFile(t, "props.csv", "zip_code,market_value,total_livable_area\n19103-1234,200000,1000\n")

	var events bytes.Buffer
	ds, err := loadDatasets(options{Covid: covid, Population: pop, Properties: props}, logging.New(&events).Logger)
	require.NoError(t, err)

	assert.Len(t, ds.Vaccinations, 1)
	assert.Len(t, ds.Populations, 2)
	require.Len(t, ds.Properties, 1)
	assert.Equal(t, "19103", ds.Properties[0].Zip)
	assert.Nil(t, ds.ZipAreas)

	for _, path := range []string{covid, pop, props} {
		assert.Contains(t, events.String(), " "+path+"\n")
	}
}

func TestLoadDatasetsJSON(t *testing.T) {
	covid := writeFile(t, "covid.json", `[{"zip_code": 19103, "etl_timestamp": "2021-05-01 10:00:00", "partially_vaccinated": 4}]`)

	var events bytes.Buffer
	ds, err := loadDatasets(options{Covid: covid}, logging.New(&events).Logger)
	require.NoError(t, err)
	require.Len(t, ds.Vaccinations, 1)
	assert.Equal(t, 4, ds.Vaccinations[0].PartiallyVaccinated)
}

func TestLoadDatasetsStructuralFailureContinues(t *testing.T) {
	pop := writeFile(t, "pop.csv", "zip_code,population\n19103,\"50000\n")
	props := writeFile(t, "props.csv", "zip_code,market_value\n19103,1\n")

	var events bytes.Buffer
	ds, err := loadDatasets(options{Population: pop, Properties: props}, logging.New(&events).Logger)
	require.NoError(t, err)
	assert.Empty(t, ds.Populations)
	assert.Empty(t, ds.Properties)
	assert.Contains(t, events.String(), "ingestion failed dataset=population")
	assert.Contains(t, events.String(), "ingestion failed dataset=properties")
}

func TestLoadDatasetsOpenErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.csv")
	txt := writeFile(t, "covid.txt", "zip_code,etl_timestamp\n")

	tests := []struct {
		name string
		opts options
		want string
	}{
		{"missing covid", options{Covid: missing}, "Error opening COVID file: File does not exist: " + missing},
		{"covid format", options{Covid: txt}, "Error: Unknown COVID file format."},
		{"missing population", options{Population: missing}, "Error opening population file: File does not exist: " + missing},
		{"missing properties", options{Properties: missing}, "Error opening property file: File does not exist: " + missing},
		{"directory", options{Population: t.TempDir()}, "Error opening population file: File not readable: "},
		{"missing boundaries", options{ZipBoundaries: missing}, "Error opening ZIP boundary file: File does not exist: " + missing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var events bytes.Buffer
			_, err := loadDatasets(tt.opts, logging.New(&events).Logger)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadDatasetsUnreachableDatabase(t *testing.T) {
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", "1")
	t.Setenv("DB_USERNAME", "reader")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_TIMEOUT", "2s")

	var events bytes.Buffer
	ds, err := loadDatasets(options{PropertiesDB: "ASSESSMENTS"}, logging.New(&events).Logger)
	require.NoError(t, err)
	assert.Empty(t, ds.Properties)
	assert.Contains(t, events.String(), "ingestion failed dataset=properties-db")
}

func TestLoadDatasetsBadBoundaryFile(t *testing.T) {
	shp := writeFile(t, "zcta.shp", "not a shapefile")

	var events bytes.Buffer
	ds, err := loadDatasets(options{ZipBoundaries: shp}, logging.New(&events).Logger)
	require.NoError(t, err)
	assert.Empty(t, ds.ZipAreas)
	assert.Contains(t, events.String(), "ingestion failed dataset=zip-boundaries")
}
