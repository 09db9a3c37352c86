package ingest

import (
	"io"

	"civicstats/internal/tabular"
	"civicstats/internal/types"
)

// PropertyCSV reads property assessments.
type PropertyCSV struct {
	rows *tabular.Reader
}

// NewPropertyCSV returns an adapter reading from src.
func NewPropertyCSV(src io.RuneReader) *PropertyCSV {
	return &PropertyCSV{rows: tabular.NewReader(src)}
}

// LoadAll requires zip_code, market_value and total_livable_area. The ZIP
// is cut to its first five characters; blank or unparsable numbers are kept
// as absent.
func (a *PropertyCSV) LoadAll() ([]types.PropertyRecord, error) {
	h, err := readHeader(a.rows)
	if err != nil {
		return nil, structural(err)
	}
	idx, err := h.require(ColZip, ColMarketValue, ColTotalLivableArea)
	if err != nil {
		return nil, structural(err)
	}
	zipIdx, valueIdx, areaIdx := idx[0], idx[1], idx[2]
	maxIdx := max(zipIdx, valueIdx, areaIdx)

	var records []types.PropertyRecord
	err = eachRow(a.rows, func(row []string) {
		if len(row) <= maxIdx {
			return
		}
		if rec, ok := PropertyFromFields(row[zipIdx], row[valueIdx], row[areaIdx]); ok {
			records = append(records, rec)
		}
	})
	if err != nil {
		return nil, structural(err)
	}
	return records, nil
}
