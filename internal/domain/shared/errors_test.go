package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := NewDomainError("INSUFFICIENT_STOCK", "Only 2 left for size 8")

	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Only 2 left for size 8", err.Error())
}

func TestDomainError_IsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create bill: %w", ErrDuplicateBillNumber)

	assert.True(t, errors.Is(wrapped, ErrDuplicateBillNumber))

	var de *DomainError
	assert.True(t, errors.As(wrapped, &de))
	assert.Equal(t, "DUPLICATE_BILL_NUMBER", de.Code)
}

func TestNewTransactionFailure(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := NewTransactionFailure(cause)

	assert.True(t, errors.Is(err, ErrTransactionFailed))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "Transaction failed", err.Error())
	assert.NotContains(t, err.Error(), "connection reset")
}
