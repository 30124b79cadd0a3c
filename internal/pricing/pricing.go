// Package pricing resolves the unit price a customer actually pays.
package pricing

import (
	"strconv"

	"github.com/chooseyourcart/storefront/internal/models"
)

// EffectivePrice returns the sale price when one is set and strictly
// below the listed price, otherwise the listed price.
func EffectivePrice(p models.Product) float64 {
	price := parse(p.Price)
	if p.SalePrice == nil || *p.SalePrice == "" {
		return price
	}
	sale := parse(*p.SalePrice)
	if sale < price {
		return sale
	}
	return price
}

// IsOnSale reports whether EffectivePrice would pick the sale price.
func IsOnSale(p models.Product) bool {
	if p.SalePrice == nil || *p.SalePrice == "" {
		return false
	}
	return parse(*p.SalePrice) < parse(p.Price)
}

func parse(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
