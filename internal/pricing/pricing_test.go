package pricing

import (
	"testing"

	"github.com/chooseyourcart/storefront/internal/models"
	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestEffectivePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		price     string
		salePrice *string
		want      float64
		onSale    bool
	}{
		{name: "no sale price", price: "1000", salePrice: nil, want: 1000, onSale: false},
		{name: "empty sale price", price: "1000", salePrice: strptr(""), want: 1000, onSale: false},
		{name: "sale below listed", price: "1000", salePrice: strptr("800"), want: 800, onSale: true},
		{name: "sale equal to listed", price: "1000", salePrice: strptr("1000"), want: 1000, onSale: false},
		{name: "sale above listed", price: "1000", salePrice: strptr("1200"), want: 1000, onSale: false},
		{name: "decimal prices", price: "999.99", salePrice: strptr("749.50"), want: 749.50, onSale: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := models.Product{Price: tt.price, SalePrice: tt.salePrice}
			assert.Equal(t, tt.want, EffectivePrice(p))
			assert.Equal(t, tt.onSale, IsOnSale(p))
		})
	}
}
