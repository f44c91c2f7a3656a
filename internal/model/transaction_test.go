package model_test

import (
	"testing"

	"github.com/madxrebel/MStock/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestTransactionIsFinalized(t *testing.T) {
	tests := []struct {
		name  string
		items []model.LineItem
		want  bool
	}{
		{
			name:  "no items",
			items: nil,
			want:  false,
		},
		{
			name:  "all unlocked",
			items: []model.LineItem{{Locked: false}, {Locked: false}},
			want:  false,
		},
		{
			name:  "partially locked",
			items: []model.LineItem{{Locked: true}, {Locked: false}},
			want:  false,
		},
		{
			name:  "all locked",
			items: []model.LineItem{{Locked: true}, {Locked: true}},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transaction := model.Transaction{Items: tt.items}
			assert.Equal(t, tt.want, transaction.IsFinalized())
		})
	}
}

func TestProductIsLowStock(t *testing.T) {
	assert.True(t, (&model.Product{PackedStock: model.LowStockThreshold - 1}).IsLowStock())
	assert.False(t, (&model.Product{PackedStock: model.LowStockThreshold}).IsLowStock())
}
