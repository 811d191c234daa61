// Package sqltime stores timestamps in SQLite TEXT columns. Values are
// written in UTC with a fixed nine-digit fraction so that string order is
// time order and equal instants compare equal.
package sqltime

import (
	"database/sql"
	"time"
)

const Layout = "2006-01-02T15:04:05.000000000Z07:00"

func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// FormatPtr returns nil for a nil time so the column is stored as NULL.
func FormatPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return Format(*t)
}

func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func ParseNull(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := Parse(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// NullString maps a nullable column into an optional string.
func NullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
