package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/chooseyourcart/storefront/internal/logging"
	"github.com/chooseyourcart/storefront/internal/models"
	"github.com/chooseyourcart/storefront/internal/store"
)

type CartHTTP struct {
	Cart *store.Cart
}

type cartView struct {
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice float64           `json:"total_price"`
}

func (h *CartHTTP) view() cartView {
	return cartView{
		Items:      h.Cart.Items(),
		TotalItems: h.Cart.TotalItems(),
		TotalPrice: h.Cart.TotalPrice(),
	}
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	return c.JSON(http.StatusOK, h.view())
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req struct {
		Product  models.Product `json:"product"`
		Quantity int            `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}
	if req.Product.ID == 0 {
		l.Warn("add_to_cart_error", "status", 400, "reason", "product required")
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "product required"})
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	if err := h.Cart.Add(ctx, req.Product, req.Quantity); err != nil {
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "internal error"})
	}

	l.Info("item added to cart", "product_id", req.Product.ID, "quantity", req.Quantity)
	return c.JSON(http.StatusCreated, h.view())
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_quantity")

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid product id"})
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_quantity_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}

	if err := h.Cart.UpdateQuantity(ctx, productID, req.Quantity); err != nil {
		l.Error("update_quantity_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, h.view())
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid product id"})
	}

	if err := h.Cart.Remove(ctx, productID); err != nil {
		l.Error("remove_from_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, h.view())
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	if err := h.Cart.Clear(ctx); err != nil {
		l.Error("clear_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "internal error"})
	}

	l.Info("cart cleared")
	return c.JSON(http.StatusOK, h.view())
}
