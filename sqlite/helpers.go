package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// parseRFC3339 converts a stored timestamp column back to time.Time.
// Resource rows persist created_at/updated_at as RFC3339 strings; a column
// that fails to parse reports which field was bad.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// appendPagination adds LIMIT/OFFSET to a resource listing query.
// Zero values mean unbounded and add no clause.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
