package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chooseyourcart/storefront/internal/models"
	"github.com/chooseyourcart/storefront/internal/repo"
)

func newTestRepo(t *testing.T) *repo.Store {
	t.Helper()

	s, err := repo.Open(context.Background(), filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func strptr(s string) *string { return &s }

func testProduct(id int, name, price string, salePrice *string) models.Product {
	return models.Product{
		ID:        id,
		Name:      name,
		Slug:      name,
		Price:     price,
		SalePrice: salePrice,
		Stock:     10,
	}
}
