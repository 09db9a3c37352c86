package ingest

import (
	"math"
	"strconv"
	"strings"

	"civicstats/internal/types"
)

// ZipPrefix takes the first five characters of a trimmed raw value and
// returns them if they are all digits. Anything after them is ignored, so
// "19103-2204" yields "19103".
func ZipPrefix(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 5 {
		return "", false
	}
	zip := raw[:5]
	return zip, types.IsZip(zip)
}

// NullableInt parses a possibly fractional number and truncates it toward
// zero. Blank, unparsable, non-finite or out-of-range input yields nil.
func NullableInt(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	f = math.Trunc(f)
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil
	}
	return types.IntPtr(int(f))
}

// intOrZero parses a whole number, defaulting to 0.
func intOrZero(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return v
}

// PropertyFromFields builds a property record from raw column values the way
// every property source does. ok is false when the ZIP cannot be salvaged.
func PropertyFromFields(zipRaw, marketRaw, areaRaw string) (types.PropertyRecord, bool) {
	zip, ok := ZipPrefix(zipRaw)
	if !ok {
		return types.PropertyRecord{}, false
	}
	rec, err := types.NewPropertyRecord(zip, NullableInt(marketRaw), NullableInt(areaRaw))
	if err != nil {
		return types.PropertyRecord{}, false
	}
	return rec, true
}
