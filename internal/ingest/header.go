package ingest

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"civicstats/internal/tabular"
)

var (
	// ErrStructural marks failures that abort ingestion of an entire file.
	ErrStructural = errors.New("structural ingestion failure")
	// ErrEmptyInput means the file has no header row.
	ErrEmptyInput = errors.New("file is empty or missing header")
	// ErrMissingColumns means one or more required header columns are absent.
	ErrMissingColumns = errors.New("missing required columns")
)

// Column names shared by the datasets.
const (
	ColZip                 = "zip_code"
	ColTimestamp           = "etl_timestamp"
	ColPartiallyVaccinated = "partially_vaccinated"
	ColFullyVaccinated     = "fully_vaccinated"
	ColPopulation          = "population"
	ColMarketValue         = "market_value"
	ColTotalLivableArea    = "total_livable_area"
)

func structural(err error) error {
	return fmt.Errorf("%w: %w", ErrStructural, err)
}

// header maps lower-cased, trimmed column names to their positions. When a
// name repeats, the last position wins.
type header map[string]int

func readHeader(rows *tabular.Reader) (header, error) {
	names, err := rows.Read()
	if err == io.EOF {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, err
	}
	h := make(header, len(names))
	for i, name := range names {
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return h, nil
}

// require returns the positions of the named columns, in order, or
// ErrMissingColumns listing every absent one.
func (h header) require(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	var missing []string
	for i, name := range names {
		pos, ok := h[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		idx[i] = pos
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return idx, nil
}

// optional returns the position of name, or -1.
func (h header) optional(name string) int {
	if pos, ok := h[name]; ok {
		return pos
	}
	return -1
}

// eachRow calls fn for every data row until the input ends. A tokenizer
// error stops the scan and is returned.
func eachRow(rows *tabular.Reader, fn func(row []string)) error {
	for {
		row, err := rows.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fn(row)
	}
}
