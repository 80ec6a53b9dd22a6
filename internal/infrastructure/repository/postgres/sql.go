package postgres

import (
	"database/sql"
	"strings"
	"time"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// isBindParameterMismatch detects pq 08P01 errors from poolers that
// cache prepared statements across differently-shaped queries.
func isBindParameterMismatch(err error) bool {
	if err == nil {
		return false
	}
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "bind message supplies") &&
		strings.Contains(text, "prepared statement")
}

func isUnnamedPreparedStatementMissing(err error) bool {
	if err == nil {
		return false
	}
	text := strings.ToLower(err.Error())
	if strings.Contains(text, "26000") {
		return true
	}
	return strings.Contains(text, "unnamed prepared statement") &&
		strings.Contains(text, "does not exist")
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
