package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/chooseyourcart/storefront/internal/api"
	"github.com/chooseyourcart/storefront/internal/logging"
	"github.com/chooseyourcart/storefront/internal/store"
)

// OrderHTTP proxies the signed-in user's order history to the remote
// API using the session token.
type OrderHTTP struct {
	Auth   *store.Auth
	Client *api.Client
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.list")

	page, err := h.Client.Orders(ctx, h.Auth.Token(), pageParams(c))
	if err != nil {
		l.Error("get_orders_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, page)
}

func (h *OrderHTTP) GetOrderDetail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.detail")

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid order id"})
	}

	detail, err := h.Client.OrderDetail(ctx, h.Auth.Token(), orderID)
	if err != nil {
		l.Warn("get_order_detail_error", "status", 502, "order_id", orderID, "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.cancel")

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid order id"})
	}

	msg, err := h.Client.CancelOrder(ctx, h.Auth.Token(), orderID)
	if err != nil {
		l.Warn("cancel_order_error", "status", 422, "order_id", orderID, "error", err)
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"message": err.Error()})
	}

	l.Info("order_cancelled", "order_id", orderID)
	return c.JSON(http.StatusOK, map[string]string{"message": msg})
}
