package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"civicstats/internal/ingest"
	"civicstats/internal/types"
)

var tableName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_$#]*(\.[A-Za-z][A-Za-z0-9_$#]*)?$`)

// rowScanner is the part of *sql.Rows that scanProperties needs.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// QueryProperties reads every assessment in table. The table must expose
// ZIP_CODE, MARKET_VALUE and TOTAL_LIVABLE_AREA columns; rows are validated
// exactly like the delimited-text source.
func (d *Database) QueryProperties(ctx context.Context, table string) ([]types.PropertyRecord, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	query := `SELECT ZIP_CODE, MARKET_VALUE, TOTAL_LIVABLE_AREA FROM ` + table

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	return scanProperties(rows)
}

func scanProperties(rows rowScanner) ([]types.PropertyRecord, error) {
	var properties []types.PropertyRecord
	for rows.Next() {
		var zip, value, area sql.NullString
		if err := rows.Scan(&zip, &value, &area); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		if rec, ok := ingest.PropertyFromFields(zip.String, value.String, area.String); ok {
			properties = append(properties, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read properties: %w", err)
	}
	return properties, nil
}

// PropertySource loads the property dataset from an Oracle table.
type PropertySource struct {
	config DBConfig
	table  string
}

// NewPropertySource returns a source reading table with config.
func NewPropertySource(config DBConfig, table string) *PropertySource {
	return &PropertySource{config: config, table: table}
}

// LoadAll connects, reads the table and disconnects. Any failure is
// structural: no records are returned.
func (s *PropertySource) LoadAll() ([]types.PropertyRecord, error) {
	ctx := context.Background()
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	db, err := NewDatabase(ctx, s.config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ingest.ErrStructural, err)
	}
	defer db.Close()

	properties, err := db.QueryProperties(ctx, s.table)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ingest.ErrStructural, err)
	}
	return properties, nil
}
