package persistence

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique-constraint failure from any supported driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	// sqlite without TranslateError
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isNotFound reports whether err is gorm's record-not-found
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
