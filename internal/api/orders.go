package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"github.com/chooseyourcart/storefront/internal/models"
)

// Upload is an in-memory file attached to a multipart request.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

type CreateOrderRequest struct {
	ProductID         int
	Quantity          int
	ShippingAddress   string
	PhoneNumber       string
	PaymentMethod     string
	FullName          string
	Email             string
	City              string
	PostalCode        string
	Notes             string
	PaymentScreenshot *Upload
}

type CreateOrderResult struct {
	Message string       `json:"message"`
	Order   models.Order `json:"order"`
}

func (c *Client) Orders(ctx context.Context, token string, p PageParams) (*Paginated[models.Order], error) {
	var out Paginated[models.Order]
	if err := c.getJSON(ctx, withQuery("/orders", p.query()), token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrder submits a single-product order as multipart form data.
// Optional fields are only written when set, matching what the API
// validates against.
func (c *Client) CreateOrder(ctx context.Context, token string, req CreateOrderRequest) (*CreateOrderResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"product_id":       strconv.Itoa(req.ProductID),
		"quantity":         strconv.Itoa(req.Quantity),
		"shipping_address": req.ShippingAddress,
		"phone_number":     req.PhoneNumber,
	}
	optional := map[string]string{
		"payment_method": req.PaymentMethod,
		"full_name":      req.FullName,
		"email":          req.Email,
		"city":           req.City,
		"postal_code":    req.PostalCode,
		"notes":          req.Notes,
	}

	for _, name := range []string{"product_id", "quantity", "shipping_address", "phone_number"} {
		if err := w.WriteField(name, fields[name]); err != nil {
			return nil, fmt.Errorf("write field %s: %w", name, err)
		}
	}
	for _, name := range []string{"payment_method", "full_name", "email", "city", "postal_code", "notes"} {
		if optional[name] == "" {
			continue
		}
		if err := w.WriteField(name, optional[name]); err != nil {
			return nil, fmt.Errorf("write field %s: %w", name, err)
		}
	}

	if req.PaymentScreenshot != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="payment_screenshot"; filename=%q`, req.PaymentScreenshot.Name))
		h.Set("Content-Type", req.PaymentScreenshot.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("create screenshot part: %w", err)
		}
		if _, err := part.Write(req.PaymentScreenshot.Data); err != nil {
			return nil, fmt.Errorf("write screenshot: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize form: %w", err)
	}

	var out CreateOrderResult
	if err := c.do(ctx, http.MethodPost, "/orders", token, &buf, w.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) OrderDetail(ctx context.Context, token string, orderID int) (*models.OrderDetail, error) {
	var out models.OrderDetail
	if err := c.getJSON(ctx, "/orders/"+strconv.Itoa(orderID), token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelOrder(ctx context.Context, token string, orderID int) (string, error) {
	var out messageData
	if err := c.postJSON(ctx, "/orders/"+strconv.Itoa(orderID)+"/cancel", token, nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
