package profiles

import (
	"fmt"
	"strings"
)

// DefaultDatabaseFields are the candidate fields for adapters that have no
// entry in [DatabaseFields].
var DefaultDatabaseFields = []string{"database", "dbname", "catalog"}

// DatabaseFields maps an adapter type to the ordered list of target fields
// that name its database (or catalog). The first field that is present wins.
var DatabaseFields = map[string][]string{
	"postgres":    {"dbname", "database"},
	"redshift":    {"dbname", "database"},
	"materialize": {"dbname", "database"},

	"snowflake":  {"database"},
	"sqlserver":  {"database"},
	"synapse":    {"database"},
	"fabric":     {"database"},
	"athena":     {"database"},
	"clickhouse": {"database"},
	"mysql":      {"database"},
	"oracle":     {"database"},

	"bigquery":   {"project", "database"},
	"databricks": {"catalog", "database"},
	"spark":      {"catalog", "schema"},
	"trino":      {"database", "catalog"},
	"starburst":  {"database", "catalog"},
	"duckdb":     {"database", "path"},
}

// databaseFieldsFor returns the candidate database fields for an adapter.
func databaseFieldsFor(adapter string) []string {
	if fields, ok := DatabaseFields[strings.ToLower(adapter)]; ok {
		return fields
	}

	return DefaultDatabaseFields
}

// resolveDatabase returns the database of a target config, or nil when the
// adapter is unknown or none of its candidate fields is set.
func resolveDatabase(adapter *string, cfg TargetConfig) *string {
	if adapter == nil {
		return nil
	}

	for _, field := range databaseFieldsFor(*adapter) {
		if v := cfg.String(field); v != nil {
			return v
		}
	}

	return nil
}

// scalarString renders a scalar YAML value as a string. Nulls, empty strings
// and collections report false.
func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, val != ""
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(val), true
	}

	return "", false
}
