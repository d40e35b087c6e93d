package billing

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solepos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to ItemStatus
		want     bool
	}{
		{ItemStatusSold, ItemStatusReturned, true},
		{ItemStatusReturned, ItemStatusReturned, false},
		{ItemStatusReturned, ItemStatusSold, false},
		{ItemStatusSold, ItemStatusSold, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
	assert.False(t, ItemStatus("void").IsValid())
}

func TestNewBillItem(t *testing.T) {
	billID := uuid.New()
	rate := decimal.NewFromInt(12)

	t.Run("computes total and freezes rate", func(t *testing.T) {
		item, err := NewBillItem(billID, LineInput{
			ProductID: uuid.New(),
			Size:      " 9 ",
			Quantity:  2,
			Price:     decimal.NewFromInt(750),
		}, &rate)
		require.NoError(t, err)
		assert.Equal(t, "9", item.Size)
		assert.True(t, item.Total.Equal(decimal.NewFromInt(1500)))
		assert.Equal(t, ItemStatusSold, item.Status)
		require.NotNil(t, item.GSTPercent)
		assert.True(t, item.GSTPercent.Equal(rate))

		rate = decimal.NewFromInt(18)
		assert.True(t, item.GSTPercent.Equal(decimal.NewFromInt(12)), "frozen rate must not alias caller value")
	})

	t.Run("rejects mismatched total", func(t *testing.T) {
		_, err := NewBillItem(billID, LineInput{
			ProductID: uuid.New(),
			Size:      "8",
			Quantity:  2,
			Price:     decimal.NewFromInt(100),
			Total:     decimal.NewFromInt(150),
		}, nil)
		require.Error(t, err)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewBillItem(billID, LineInput{ProductID: uuid.New(), Size: "8", Price: decimal.NewFromInt(1)}, nil)
		require.Error(t, err)
	})
}

func TestBillItem_MarkReturned(t *testing.T) {
	item, err := NewBillItem(uuid.New(), LineInput{
		ProductID:     uuid.New(),
		Size:          "8",
		Quantity:      1,
		Price:         decimal.NewFromInt(1000),
		PurchasePrice: decimal.NewFromInt(600),
	}, nil)
	require.NoError(t, err)
	assert.True(t, item.Profit().Equal(decimal.NewFromInt(400)))

	require.NoError(t, item.MarkReturned())
	assert.True(t, item.IsReturned())

	err = item.MarkReturned()
	assert.True(t, errors.Is(err, shared.ErrAlreadyReturned))
}
