package ingest

import (
	"io"
	"strings"

	"civicstats/internal/tabular"
	"civicstats/internal/types"
)

// VaccinationLoader is implemented by every vaccination source.
type VaccinationLoader interface {
	LoadAll() ([]types.VaccinationRecord, error)
}

// VaccinationCSV reads vaccination events from delimited text.
type VaccinationCSV struct {
	rows *tabular.Reader
}

// NewVaccinationCSV returns an adapter reading from src.
func NewVaccinationCSV(src io.RuneReader) *VaccinationCSV {
	return &VaccinationCSV{rows: tabular.NewReader(src)}
}

// LoadAll requires zip_code and etl_timestamp. partially_vaccinated and
// fully_vaccinated are optional; a missing column or an unparsable value
// counts as 0.
func (a *VaccinationCSV) LoadAll() ([]types.VaccinationRecord, error) {
	h, err := readHeader(a.rows)
	if err != nil {
		return nil, structural(err)
	}
	idx, err := h.require(ColZip, ColTimestamp)
	if err != nil {
		return nil, structural(err)
	}
	zipIdx, tsIdx := idx[0], idx[1]
	partialIdx := h.optional(ColPartiallyVaccinated)
	fullIdx := h.optional(ColFullyVaccinated)
	maxIdx := max(zipIdx, tsIdx, partialIdx, fullIdx)

	var records []types.VaccinationRecord
	err = eachRow(a.rows, func(row []string) {
		if len(row) <= maxIdx {
			return
		}
		zip := strings.TrimSpace(row[zipIdx])
		ts := strings.TrimSpace(row[tsIdx])

		partial, full := 0, 0
		if partialIdx >= 0 {
			partial = intOrZero(row[partialIdx])
		}
		if fullIdx >= 0 {
			full = intOrZero(row[fullIdx])
		}

		rec, err := types.NewVaccinationRecord(zip, ts, partial, full)
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
