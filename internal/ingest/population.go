package ingest

import (
	"io"
	"strconv"
	"strings"

	"civicstats/internal/tabular"
	"civicstats/internal/types"
)

// PopulationCSV reads per-ZIP population counts.
type PopulationCSV struct {
	rows *tabular.Reader
}

// NewPopulationCSV returns an adapter reading from src.
func NewPopulationCSV(src io.RuneReader) *PopulationCSV {
	return &PopulationCSV{rows: tabular.NewReader(src)}
}

// LoadAll requires zip_code and population. Rows whose population is not a
// whole number are dropped.
func (a *PopulationCSV) LoadAll() ([]types.PopulationRecord, error) {
	h, err := readHeader(a.rows)
	if err != nil {
		return nil, structural(err)
	}
	idx, err := h.require(ColZip, ColPopulation)
	if err != nil {
		return nil, structural(err)
	}
	zipIdx, popIdx := idx[0], idx[1]
	maxIdx := max(zipIdx, popIdx)

	var records []types.PopulationRecord
	err = eachRow(a.rows, func(row []string) {
		if len(row) <= maxIdx {
			return
		}
		population, err := strconv.Atoi(strings.TrimSpace(row[popIdx]))
		if err != nil {
			return
		}
		rec, err := types.NewPopulationRecord(strings.TrimSpace(row[zipIdx]), population)
		if err != nil {
			return
		}
		records = append(records, rec)
	})
	if err != nil {
		return nil, structural(err)
	}
	return records, nil
}
