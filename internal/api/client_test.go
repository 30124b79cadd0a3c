package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chooseyourcart/storefront/internal/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestFlattenErrors_SortedAndJoined(t *testing.T) {
	t.Parallel()

	got := flattenErrors(map[string][]string{
		"phone_number": {"must be 10 digits"},
		"email":        {"is required", "must be valid"},
	})
	assert.Equal(t, "email: is required, must be valid; phone_number: must be 10 digits", got)
}

func TestClient_RequestHeaders(t *testing.T) {
	t.Parallel()

	var gotAccept, gotRequestID, gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]any{}})
	})

	require.NoError(t, c.getJSON(context.Background(), "/auth/profile", "tok", nil))
	assert.Equal(t, "application/json", gotAccept)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestClient_ValidationErrorFlattened(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "The given data was invalid.",
			"errors": map[string][]string{
				"quantity":   {"exceeds available stock"},
				"product_id": {"is required"},
			},
		})
	})

	err := c.getJSON(context.Background(), "/products", "", nil)
	require.Error(t, err)
	assert.Equal(t, "validation failed: product_id: is required; quantity: exceeds available stock", err.Error())
}

func TestClient_ErrorMessagePassedThrough(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"message": "Product not found."})
	})

	err := c.getJSON(context.Background(), "/products/missing", "", nil)
	require.Error(t, err)
	assert.Equal(t, "Product not found.", err.Error())
}

func TestClient_OpaqueErrorBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream down</html>"))
	})

	err := c.getJSON(context.Background(), "/products", "", nil)
	require.Error(t, err)
	assert.Equal(t, "unexpected status 502", err.Error())
}

func TestClient_UnsuccessfulEnvelope(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Service unavailable."})
	})

	err := c.getJSON(context.Background(), "/sliders", "", nil)
	require.Error(t, err)
	assert.Equal(t, "Service unavailable.", err.Error())
}

func TestProducts_DecodesPaginatedData(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "12", r.URL.Query().Get("per_page"))
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"current_page": 2,
				"last_page":    5,
				"total":        56,
				"data": []map[string]any{
					{"id": 1, "name": "keyboard", "price": "1000", "sale_price": "800"},
					{"id": 2, "name": "mouse", "price": "500"},
				},
			},
		})
	})

	page, err := c.Products(context.Background(), PageParams{Page: 2, PerPage: 12})
	require.NoError(t, err)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 56, page.Total)
	require.Len(t, page.Data, 2)
	require.NotNil(t, page.Data[0].SalePrice)
	assert.Equal(t, "800", *page.Data[0].SalePrice)
	assert.Nil(t, page.Data[1].SalePrice)
}

func TestSearchProducts_QueryParams(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/search", r.URL.Path)
		assert.Equal(t, "mechanical", r.URL.Query().Get("q"))
		assert.Equal(t, "3", r.URL.Query().Get("category_id"))
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]any{"data": []any{}}})
	})

	_, err := c.SearchProducts(context.Background(), SearchParams{Query: "mechanical", CategoryID: 3})
	require.NoError(t, err)
}

func TestCategoryProducts_DecodesSiblingCategory(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/categories/peripherals/products", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"success":  true,
			"category": map[string]any{"id": 3, "name": "Peripherals", "slug": "peripherals"},
			"data": map[string]any{
				"current_page": 1,
				"data":         []map[string]any{{"id": 1, "name": "keyboard", "price": "1000"}},
			},
		})
	})

	out, err := c.CategoryProducts(context.Background(), "peripherals", PageParams{})
	require.NoError(t, err)
	assert.Equal(t, "Peripherals", out.Category.Name)
	require.Len(t, out.Products.Data, 1)
	assert.Equal(t, "keyboard", out.Products.Data[0].Name)
}

func TestProfile_UnwrapsNestedUser(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"user": map[string]any{"id": 7, "name": "Asha", "email": "asha@example.com"},
			},
		})
	})

	u, err := c.Profile(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, 7, u.ID)
	assert.Equal(t, "Asha", u.Name)
}

func TestCreateOrder_MultipartAssembly(t *testing.T) {
	t.Parallel()

	var form map[string][]string
	var fileName, fileType string
	var fileData []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		form = r.MultipartForm.Value

		fhs := r.MultipartForm.File["payment_screenshot"]
		require.Len(t, fhs, 1)
		fileName = fhs[0].Filename
		fileType = fhs[0].Header.Get("Content-Type")
		f, err := fhs[0].Open()
		require.NoError(t, err)
		defer f.Close()
		fileData = make([]byte, fhs[0].Size)
		f.Read(fileData)

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"message": "Order placed successfully",
				"order":   map[string]any{"id": 33, "order_number": "ORD-000033", "status": "pending"},
			},
		})
	})

	result, err := c.CreateOrder(context.Background(), "tok", CreateOrderRequest{
		ProductID:       1,
		Quantity:        2,
		ShippingAddress: "Baneshwor, Kathmandu",
		PhoneNumber:     "9803861618",
		PaymentMethod:   "qr_payment",
		FullName:        "Asha Shrestha",
		PaymentScreenshot: &Upload{
			Name:        "proof.jpg",
			ContentType: "image/jpeg",
			Data:        []byte{0xff, 0xd8, 0xff},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 33, result.Order.ID)
	assert.Equal(t, models.OrderStatusPending, result.Order.Status)

	assert.Equal(t, "1", form["product_id"][0])
	assert.Equal(t, "2", form["quantity"][0])
	assert.Equal(t, "9803861618", form["phone_number"][0])
	assert.Equal(t, "qr_payment", form["payment_method"][0])
	// Empty optional fields are not sent at all.
	assert.NotContains(t, form, "email")
	assert.NotContains(t, form, "notes")

	assert.Equal(t, "proof.jpg", fileName)
	assert.Equal(t, "image/jpeg", fileType)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, fileData)
}
