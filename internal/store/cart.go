// Package store holds the client-side state containers: cart, wishlist,
// session and the announcement gate. Each store owns its in-memory list
// and its persisted mirror; every mutation writes through to the
// repository.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chooseyourcart/storefront/internal/models"
	"github.com/chooseyourcart/storefront/internal/pricing"
	"github.com/chooseyourcart/storefront/internal/repo"
)

const cartKey = "cart"

type Cart struct {
	mu    sync.Mutex
	items []models.CartItem
	repo  *repo.Store
	now   func() time.Time
}

// NewCart loads the persisted cart. A corrupt record has already been
// discarded by the repository, so the cart simply starts empty.
func NewCart(ctx context.Context, r *repo.Store) (*Cart, error) {
	c := &Cart{repo: r, now: time.Now}
	if _, err := r.Load(ctx, cartKey, &c.items); err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return c, nil
}

func (c *Cart) persist(ctx context.Context) error {
	return c.repo.Save(ctx, cartKey, c.items)
}

// Add merges into an existing entry for the same product, otherwise
// appends a new one stamped with the current time.
func (c *Cart) Add(ctx context.Context, product models.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID == product.ID {
			c.items[i].Quantity += quantity
			return c.persist(ctx)
		}
	}

	c.items = append(c.items, models.CartItem{
		Product:  product,
		Quantity: quantity,
		AddedAt:  c.now(),
	})
	return c.persist(ctx)
}

// Remove deletes the entry for productID; absent ids are a no-op.
func (c *Cart) Remove(ctx context.Context, productID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0]
	for _, item := range c.items {
		if item.Product.ID != productID {
			kept = append(kept, item)
		}
	}
	c.items = kept
	return c.persist(ctx)
}

// UpdateQuantity replaces the quantity for productID. Zero or negative
// removes the entry.
func (c *Cart) UpdateQuantity(ctx context.Context, productID, quantity int) error {
	if quantity <= 0 {
		return c.Remove(ctx, productID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity = quantity
			break
		}
	}
	return c.persist(ctx)
}

func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	return c.persist(ctx)
}

func (c *Cart) Contains(productID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range c.items {
		if item.Product.ID == productID {
			return true
		}
	}
	return false
}

func (c *Cart) ItemQuantity(productID int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range c.items {
		if item.Product.ID == productID {
			return item.Quantity
		}
	}
	return 0
}

// ItemTotal is the effective unit price times the quantity.
func ItemTotal(item models.CartItem) float64 {
	return pricing.EffectivePrice(item.Product) * float64(item.Quantity)
}

func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0.0
	for _, item := range c.items {
		total += ItemTotal(item)
	}
	return total
}

func (c *Cart) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}
