package sqlite

import (
	"database/sql"
	"time"

	"ecotrack/internal/domain"
)

// nullToString safely converts sql.NullString to string.
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull converts an empty string to NULL.
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// statusToNull stores StatusUnknown as NULL, keeping the unknown state
// out of the CHECK-constrained enumeration.
func statusToNull(s domain.Status) sql.NullString {
	if !s.Known() {
		return sql.NullString{}
	}
	return sql.NullString{String: string(s), Valid: true}
}

// nullToStatus maps NULL back to StatusUnknown.
func nullToStatus(ns sql.NullString) domain.Status {
	if !ns.Valid {
		return domain.StatusUnknown
	}
	return domain.Status(ns.String)
}

// idToNull converts an optional row id to a nullable column value.
func idToNull(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

// nullToID converts a nullable column value back to an optional row id.
func nullToID(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	id := ni.Int64
	return &id
}

// timestampLayouts covers the formats SQLite emits for datetime('now')
// plus RFC3339 for rows written by external tooling.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// parseTimestamp converts a stored timestamp into time.Time, returning
// the zero time for NULL or unparseable values.
func parseTimestamp(ns sql.NullString) time.Time {
	if !ns.Valid || ns.String == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return t
		}
	}
	return time.Time{}
}
