package httpserver

import (
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/chooseyourcart/storefront/internal/api"
	"github.com/chooseyourcart/storefront/internal/checkout"
	"github.com/chooseyourcart/storefront/internal/logging"
	"github.com/chooseyourcart/storefront/internal/models"
	"github.com/chooseyourcart/storefront/internal/store"
)

// CheckoutHTTP drives one flow at a time; starting a new checkout
// replaces any previous one (the old flow is simply abandoned, exactly
// like navigating away mid-checkout).
type CheckoutHTTP struct {
	Cart   *store.Cart
	Auth   *store.Auth
	Client *api.Client

	mu   sync.Mutex
	flow *checkout.Flow
}

type checkoutView struct {
	Step  checkout.Step     `json:"step"`
	Items []models.CartItem `json:"items"`
	Total float64           `json:"total"`
	Order *models.Order     `json:"order,omitempty"`
}

func viewOf(f *checkout.Flow) checkoutView {
	return checkoutView{
		Step:  f.Step(),
		Items: f.StagedItems(),
		Total: f.Total(),
		Order: f.Order(),
	}
}

func (h *CheckoutHTTP) current() *checkout.Flow {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.flow
}

func (h *CheckoutHTTP) Start(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.start")

	var req struct {
		ProductID int `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}

	flow, err := checkout.Start(h.Cart, h.Auth, h.Client, req.ProductID)
	if err != nil {
		l.Warn("checkout_start_rejected", "status", 409, "error", err)
		return c.JSON(http.StatusConflict, map[string]string{"message": err.Error()})
	}

	h.mu.Lock()
	h.flow = flow
	h.mu.Unlock()

	l.Info("checkout_started", "deep_link_product", req.ProductID)
	return c.JSON(http.StatusCreated, viewOf(flow))
}

func (h *CheckoutHTTP) GetState(c echo.Context) error {
	flow := h.current()
	if flow == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "no checkout in progress"})
	}
	return c.JSON(http.StatusOK, viewOf(flow))
}

func (h *CheckoutHTTP) SubmitBilling(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.billing")

	flow := h.current()
	if flow == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "no checkout in progress"})
	}

	var req checkout.Billing
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}

	if err := flow.SubmitBilling(req); err != nil {
		l.Warn("billing_rejected", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, viewOf(flow))
}

func (h *CheckoutHTTP) Back(c echo.Context) error {
	flow := h.current()
	if flow == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "no checkout in progress"})
	}
	if err := flow.Back(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, viewOf(flow))
}

// SubmitPayment accepts multipart form data: payment_method plus an
// optional payment_screenshot file.
func (h *CheckoutHTTP) SubmitPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.payment")

	flow := h.current()
	if flow == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "no checkout in progress"})
	}

	method := c.FormValue("payment_method")
	if method == "" {
		method = checkout.PaymentCOD
	}

	var proof *api.Upload
	if fh, err := c.FormFile("payment_screenshot"); err == nil {
		src, err := fh.Open()
		if err != nil {
			l.Error("payment_screenshot_error", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "unable to read payment screenshot"})
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "unable to read payment screenshot"})
		}
		proof = &api.Upload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	order, err := flow.SubmitPayment(ctx, method, proof)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrWrongStep),
			errors.Is(err, checkout.ErrMultipleItems),
			errors.Is(err, checkout.ErrProofRequired):
			l.Warn("payment_rejected", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
		case errors.Is(err, checkout.ErrBusy):
			return c.JSON(http.StatusConflict, map[string]string{"message": err.Error()})
		default:
			// Remote validation or transport failure; pass the message
			// through verbatim.
			l.Warn("order_submission_failed", "status", 422, "error", err)
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"message": err.Error()})
		}
	}

	l.Info("order_placed", "order_id", order.ID)
	return c.JSON(http.StatusOK, viewOf(flow))
}
