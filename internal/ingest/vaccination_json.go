package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"civicstats/internal/types"
)

// VaccinationJSON reads vaccination events from a JSON array of objects that
// use the same field names as the tabular format.
type VaccinationJSON struct {
	src io.Reader
}

// NewVaccinationJSON returns an adapter reading from src.
func NewVaccinationJSON(src io.Reader) *VaccinationJSON {
	return &VaccinationJSON{src: src}
}

// LoadAll decodes the whole document. A zip_code given as a JSON number is
// stringified before the 5-digit check. Counts must be JSON integers when
// present; any other value drops the object.
func (a *VaccinationJSON) LoadAll() ([]types.VaccinationRecord, error) {
	dec := json.NewDecoder(a.src)
	dec.UseNumber()

	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, structural(fmt.Errorf("decode vaccination array: %w", err))
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, structural(errors.New("unexpected data after vaccination array"))
	}

	var records []types.VaccinationRecord
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if rec, ok := vaccinationFromObject(obj); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func vaccinationFromObject(obj map[string]any) (types.VaccinationRecord, bool) {
	zip, ok := stringify(obj[ColZip])
	if !ok {
		return types.VaccinationRecord{}, false
	}
	ts, ok := obj[ColTimestamp].(string)
	if !ok {
		return types.VaccinationRecord{}, false
	}
	partial, ok := jsonCount(obj[ColPartiallyVaccinated])
	if !ok {
		return types.VaccinationRecord{}, false
	}
	full, ok := jsonCount(obj[ColFullyVaccinated])
	if !ok {
		return types.VaccinationRecord{}, false
	}

	rec, err := types.NewVaccinationRecord(zip, ts, partial, full)
	if err != nil {
		return types.VaccinationRecord{}, false
	}
	return rec, true
}

// stringify renders scalar JSON values the way they appear in the source, so
// 19103 becomes "19103" and 19103.0 stays "19103.0".
func stringify(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

// jsonCount accepts an absent or null value as 0 and an integral number as
// itself.
func jsonCount(v any) (int, bool) {
	switch v := v.(type) {
	case nil:
		return 0, true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
