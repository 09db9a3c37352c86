package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"civicstats/internal/analytics"
	"civicstats/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin, stdout *os.File) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(stdout, err)
		return 1
	}

	logger, err := logging.Open(opts.Log)
	if err != nil {
		fmt.Fprintln(stdout, "Error: Failed to initialize logger.")
		return 1
	}
	defer logger.Close()
	log := logger.With("session", uuid.NewString())

	if len(args) > 0 {
		log.Info(strings.Join(args, " "))
	}

	datasetStart := time.Now()
	ds, err := loadDatasets(opts, log)
	if err != nil {
		fmt.Fprintln(stdout, err)
		return 1
	}
	log.Debug("datasets loaded",
		"elapsed", time.Since(datasetStart).Truncate(time.Millisecond),
		"vaccinations", len(ds.Vaccinations),
		"populations", len(ds.Populations),
		"properties", len(ds.Properties),
		"zip_areas", len(ds.ZipAreas),
	)

	engine := analytics.New(ds.Vaccinations, ds.Populations, ds.Properties, analytics.WithZipAreas(ds.ZipAreas))

	con, restore := openConsole(stdin, stdout)
	defer restore()
	if err := newShell(engine, con, log).run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
