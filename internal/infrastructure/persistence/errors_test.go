package persistence

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm translated", fmt.Errorf("insert bill: %w", gorm.ErrDuplicatedKey), true},
		{"postgres 23505", &pgconn.PgError{Code: "23505", ConstraintName: "idx_bills_bill_number"}, true},
		{"postgres check violation", &pgconn.PgError{Code: "23514"}, false},
		{"sqlite message", errors.New("UNIQUE constraint failed: bills.bill_number"), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(gorm.ErrRecordNotFound))
	assert.False(t, isNotFound(errors.New("x")))
}
