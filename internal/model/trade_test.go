package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tahirturgut/exchange/internal/model"
)

func TestNewTrade(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		quantity int64
		want     string
	}{
		{"whole price", "200.00", 5, "1000"},
		{"cents", "150.50", 10, "1505"},
		{"single share", "45.75", 1, "45.75"},
		{"no float drift", "0.10", 3, "0.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			trade := model.NewTrade(model.TradeBuy, "p", "i", tt.quantity, decimal.RequireFromString(tt.price), at)

			if !trade.Total.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Total = %s, want %s", trade.Total, tt.want)
			}
			if trade.Status != model.TradeCompleted {
				t.Errorf("Status = %s, want COMPLETED", trade.Status)
			}
			if trade.ID == "" {
				t.Error("Expected generated ID")
			}
		})
	}
}
