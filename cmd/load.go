package main

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"civicstats/internal/boundaries"
	"civicstats/internal/database"
	"civicstats/internal/ingest"
	"civicstats/internal/types"
)

// envFile is folded into the environment before the Oracle settings are read.
const envFile = ".env"

type datasets struct {
	Vaccinations []types.VaccinationRecord
	Populations  []types.PopulationRecord
	Properties   []types.PropertyRecord
	ZipAreas     map[string]float64
}

// loadDatasets opens and ingests every dataset named in opts. A file that
// cannot be opened is fatal. A file that opens but fails ingestion is logged
// and leaves that dataset empty.
func loadDatasets(opts options, log *slog.Logger) (datasets, error) {
	var ds datasets

	if opts.Covid != "" {
		f, err := openReadable(opts.Covid)
		if err != nil {
			return ds, fmt.Errorf("Error opening COVID file: %v", err)
		}
		defer f.Close()

		var loader ingest.VaccinationLoader
		switch strings.ToLower(filepath.Ext(opts.Covid)) {
		case ".csv":
			loader = ingest.NewVaccinationCSV(bufio.NewReader(f))
		case ".json":
			loader = ingest.NewVaccinationJSON(bufio.NewReader(f))
		default:
			return ds, errors.New("Error: Unknown COVID file format.")
		}
		log.Info(opts.Covid)
		ds.Vaccinations = ingestOrWarn(log, "covid", loader.LoadAll)
	}

	if opts.Population != "" {
		f, err := openReadable(opts.Population)
		if err != nil {
			return ds, fmt.Errorf("Error opening population file: %v", err)
		}
		defer f.Close()

		log.Info(opts.Population)
		ds.Populations = ingestOrWarn(log, "population", ingest.NewPopulationCSV(bufio.NewReader(f)).LoadAll)
	}

	switch {
	case opts.Properties != "":
		f, err := openReadable(opts.Properties)
		if err != nil {
			return ds, fmt.Errorf("Error opening property file: %v", err)
		}
		defer f.Close()

		log.Info(opts.Properties)
		ds.Properties = ingestOrWarn(log, "properties", ingest.NewPropertyCSV(bufio.NewReader(f)).LoadAll)
	case opts.PropertiesDB != "":
		config, err := database.LoadDatabaseConfig(envFile)
		if err != nil {
			return ds, fmt.Errorf("Error reading database configuration: %v", err)
		}
		log.Info(opts.PropertiesDB, "host", config.Host, "service", config.Service)
		ds.Properties = ingestOrWarn(log, "properties-db", database.NewPropertySource(config, opts.PropertiesDB).LoadAll)
	}

	if opts.ZipBoundaries != "" {
		f, err := openReadable(opts.ZipBoundaries)
		if err != nil {
			return ds, fmt.Errorf("Error opening ZIP boundary file: %v", err)
		}
		f.Close()

		log.Info(opts.ZipBoundaries)
		ds.ZipAreas = ingestOrWarn(log, "zip-boundaries", func() (map[string]float64, error) {
			return boundaries.Load(opts.ZipBoundaries)
		})
	}

	return ds, nil
}

// ingestOrWarn runs load and drops its result on failure.
func ingestOrWarn[T any](log *slog.Logger, dataset string, load func() (T, error)) T {
	v, err := load()
	if err != nil {
		log.Warn("ingestion failed", "dataset", dataset, "error", err)
		var zero T
		return zero
	}
	return v
}

func openReadable(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("File does not exist: %s", path)
	}
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("File not readable: %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("File not readable: %s", path)
	}
	return f, nil
}
