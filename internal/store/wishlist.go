package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chooseyourcart/storefront/internal/models"
	"github.com/chooseyourcart/storefront/internal/repo"
)

var (
	ErrLoginRequired     = errors.New("login required")
	ErrAlreadyInWishlist = errors.New("already in wishlist")
)

// Wishlist is scoped to the signed-in user; each user's list persists
// under its own key, and signing out swaps to an empty, unpersisted
// list.
type Wishlist struct {
	mu     sync.Mutex
	userID int
	items  []models.Product
	repo   *repo.Store
}

func NewWishlist(r *repo.Store) *Wishlist {
	return &Wishlist{repo: r}
}

func wishlistKey(userID int) string {
	return fmt.Sprintf("wishlist_%d", userID)
}

// SetUser switches the active list. userID 0 means signed out.
func (w *Wishlist) SetUser(ctx context.Context, userID int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.userID = userID
	w.items = nil
	if userID == 0 {
		return nil
	}
	if _, err := w.repo.Load(ctx, wishlistKey(userID), &w.items); err != nil {
		return fmt.Errorf("load wishlist: %w", err)
	}
	return nil
}

func (w *Wishlist) persist(ctx context.Context) error {
	return w.repo.Save(ctx, wishlistKey(w.userID), w.items)
}

// Add rejects unauthenticated callers and duplicates without touching
// the list.
func (w *Wishlist) Add(ctx context.Context, product models.Product) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.userID == 0 {
		return fmt.Errorf("add to wishlist: %w", ErrLoginRequired)
	}
	for _, item := range w.items {
		if item.ID == product.ID {
			return fmt.Errorf("%s: %w", product.Name, ErrAlreadyInWishlist)
		}
	}

	w.items = append(w.items, product)
	return w.persist(ctx)
}

// Remove reports the removed product so callers can name it in their
// notice; nil when the id was not present.
func (w *Wishlist) Remove(ctx context.Context, productID int) (*models.Product, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.userID == 0 {
		return nil, fmt.Errorf("remove from wishlist: %w", ErrLoginRequired)
	}

	var removed *models.Product
	kept := w.items[:0]
	for _, item := range w.items {
		if item.ID == productID {
			it := item
			removed = &it
			continue
		}
		kept = append(kept, item)
	}
	w.items = kept
	if removed == nil {
		return nil, nil
	}
	return removed, w.persist(ctx)
}

func (w *Wishlist) Clear(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.userID == 0 {
		return fmt.Errorf("clear wishlist: %w", ErrLoginRequired)
	}
	w.items = nil
	return w.persist(ctx)
}

func (w *Wishlist) Contains(productID int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, item := range w.items {
		if item.ID == productID {
			return true
		}
	}
	return false
}

func (w *Wishlist) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.items)
}

func (w *Wishlist) Items() []models.Product {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]models.Product, len(w.items))
	copy(out, w.items)
	return out
}
