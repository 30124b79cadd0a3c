package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/chooseyourcart/storefront/internal/logging"
	"github.com/chooseyourcart/storefront/internal/models"
	"github.com/chooseyourcart/storefront/internal/store"
)

type WishlistHTTP struct {
	Wishlist *store.Wishlist
}

type wishlistView struct {
	Items  []models.Product `json:"items"`
	Count  int              `json:"count"`
	Notice string           `json:"notice,omitempty"`
}

func (h *WishlistHTTP) GetWishlist(c echo.Context) error {
	return c.JSON(http.StatusOK, wishlistView{
		Items: h.Wishlist.Items(),
		Count: h.Wishlist.Count(),
	})
}

func (h *WishlistHTTP) AddToWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.add")

	var req struct {
		Product models.Product `json:"product"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_wishlist_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}
	if req.Product.ID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "product required"})
	}

	if err := h.Wishlist.Add(ctx, req.Product); err != nil {
		switch {
		case errors.Is(err, store.ErrLoginRequired):
			l.Warn("add_to_wishlist_error", "status", 401, "reason", "login required")
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Please log in to add items to your wishlist."})
		case errors.Is(err, store.ErrAlreadyInWishlist):
			l.Info("add_to_wishlist_duplicate", "product_id", req.Product.ID)
			return c.JSON(http.StatusConflict, map[string]string{
				"message": fmt.Sprintf("%s is already in your wishlist.", req.Product.Name),
			})
		default:
			l.Error("add_to_wishlist_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, wishlistView{
		Items:  h.Wishlist.Items(),
		Count:  h.Wishlist.Count(),
		Notice: fmt.Sprintf("%s has been added to your wishlist.", req.Product.Name),
	})
}

func (h *WishlistHTTP) RemoveFromWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.remove")

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid product id"})
	}

	removed, err := h.Wishlist.Remove(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrLoginRequired) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		}
		l.Error("remove_from_wishlist_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "internal error"})
	}

	view := wishlistView{Items: h.Wishlist.Items(), Count: h.Wishlist.Count()}
	if removed != nil {
		view.Notice = fmt.Sprintf("%s has been removed from your wishlist.", removed.Name)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *WishlistHTTP) ClearWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.clear")

	if err := h.Wishlist.Clear(ctx); err != nil {
		if errors.Is(err, store.ErrLoginRequired) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		}
		l.Error("clear_wishlist_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "internal error"})
	}

	return c.JSON(http.StatusOK, wishlistView{
		Items:  h.Wishlist.Items(),
		Count:  0,
		Notice: "All items have been removed from your wishlist.",
	})
}
