package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		quantity   int64
		wantBuy    bool
		wantShares int64
		wantTotal  string
	}{
		{"buy", 10, true, 10, "2500.5"},
		{"sell", -4, false, 4, "1000.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tx := Transaction{Quantity: tt.quantity, Price: decimal.RequireFromString("250.05")}
			assert.Equal(t, tt.wantBuy, tx.IsBuy())
			assert.Equal(t, tt.wantShares, tx.Shares())
			assert.True(t, tx.Total().Equal(decimal.RequireFromString(tt.wantTotal)), "total = %s", tx.Total())
		})
	}
}
