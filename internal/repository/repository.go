package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNoRowsUpdated is returned when a status update matched no rows, so the
// caller can tell "nothing happened" apart from a store failure.
var ErrNoRowsUpdated = errors.New("no rows updated")

// IsUniqueViolation reports whether err comes from a uniqueness constraint.
// gorm translates driver errors when TranslateError is set; the string checks
// cover raw-SQL paths the translator misses.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// conn scopes a query to the transaction when one is passed, otherwise to the
// base connection.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
