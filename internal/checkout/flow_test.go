package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chooseyourcart/storefront/internal/api"
	"github.com/chooseyourcart/storefront/internal/models"
	"github.com/chooseyourcart/storefront/internal/repo"
	"github.com/chooseyourcart/storefront/internal/store"
)

// orderServer stubs the remote API for a checkout run: profile accepts
// the fixed token, and order creation records what it received.
type orderServer struct {
	failWith   string // non-empty: reject order creation with this message
	lastOrder  map[string]string
	screenshot []byte
}

func (o *orderServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /auth/profile", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"user": map[string]any{"id": 7, "name": "Asha", "email": "asha@example.com"},
			},
		})
	})

	mux.HandleFunc("POST /orders", func(w http.ResponseWriter, r *http.Request) {
		if o.failWith != "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]any{
				"errors": map[string][]string{"quantity": {o.failWith}},
			})
			return
		}

		if err := r.ParseMultipartForm(10 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		o.lastOrder = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			o.lastOrder[k] = v[0]
		}
		if fhs := r.MultipartForm.File["payment_screenshot"]; len(fhs) > 0 {
			f, _ := fhs[0].Open()
			buf := make([]byte, fhs[0].Size)
			f.Read(buf)
			f.Close()
			o.screenshot = buf
		}

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"message": "Order placed successfully",
				"order": map[string]any{
					"id":           512,
					"order_number": "ORD-000512",
					"status":       "pending",
				},
			},
		})
	})

	return mux
}

type env struct {
	cart   *store.Cart
	auth   *store.Auth
	client *api.Client
	server *orderServer
}

func newEnv(t *testing.T) *env {
	t.Helper()

	ctx := context.Background()
	srv := &orderServer{}
	ts := httptest.NewServer(srv.handler())
	t.Cleanup(ts.Close)

	r, err := repo.Open(ctx, filepath.Join(t.TempDir(), "checkout.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	client := api.NewClient(ts.URL)

	cart, err := store.NewCart(ctx, r)
	require.NoError(t, err)

	auth := store.NewAuth(r, client)
	require.NoError(t, r.Save(ctx, "authToken", "tok"))
	require.NoError(t, auth.Init(ctx))
	require.True(t, auth.IsAuthenticated())

	return &env{cart: cart, auth: auth, client: client, server: srv}
}

func validBilling() Billing {
	return Billing{
		FullName:        "Asha Shrestha",
		Email:           "asha@example.com",
		PhoneNumber:     "9803861618",
		ShippingAddress: "Baneshwor, Kathmandu",
		City:            "Kathmandu",
	}
}

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"9803861618", "9803861618"},
		{"+9779803861618", "9803861618"},
		{"977-980-386-1618", "9803861618"},
		{"98038616189999", "8616189999"}, // longer than 10 without country code: keep last 10
		{"12345", "12345"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.in), "input %q", tt.in)
	}
}

func TestStart_Guards(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)

	// Nothing staged.
	_, err := Start(e.cart, e.auth, e.client, 0)
	assert.ErrorIs(t, err, ErrNotEligible)

	require.NoError(t, e.cart.Add(ctx, models.Product{ID: 1, Name: "keyboard", Price: "1000"}, 1))

	// Deep link to a product that is not in the cart.
	_, err = Start(e.cart, e.auth, e.client, 99)
	assert.ErrorIs(t, err, ErrNotEligible)

	// Signed out.
	e.auth.Logout(ctx)
	_, err = Start(e.cart, e.auth, e.client, 0)
	assert.ErrorIs(t, err, ErrNotEligible)
}

func TestSubmitBilling_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	require.NoError(t, e.cart.Add(ctx, models.Product{ID: 1, Name: "keyboard", Price: "1000"}, 1))

	flow, err := Start(e.cart, e.auth, e.client, 0)
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(*Billing)
		errPart string
	}{
		{"missing full name", func(b *Billing) { b.FullName = "" }, "full_name"},
		{"missing email", func(b *Billing) { b.Email = "" }, "email"},
		{"missing city", func(b *Billing) { b.City = "" }, "city"},
		{"short phone", func(b *Billing) { b.PhoneNumber = "12345" }, "exactly 10 digits"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			b := validBilling()
			tt.mutate(&b)

			err := flow.SubmitBilling(b)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.errPart)
			assert.Equal(t, StepBilling, flow.Step())
		})
	}

	// Country-code prefixed number normalizes and passes.
	b := validBilling()
	b.PhoneNumber = "+9779803861618"
	require.NoError(t, flow.SubmitBilling(b))
	assert.Equal(t, StepPayment, flow.Step())
}

func TestFlow_StepGuards(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	require.NoError(t, e.cart.Add(ctx, models.Product{ID: 1, Name: "keyboard", Price: "1000"}, 1))

	flow, err := Start(e.cart, e.auth, e.client, 0)
	require.NoError(t, err)

	// Payment is unreachable before billing passes.
	_, err = flow.SubmitPayment(ctx, PaymentCOD, nil)
	assert.ErrorIs(t, err, ErrWrongStep)

	// Back only works from payment.
	assert.ErrorIs(t, flow.Back(), ErrWrongStep)

	require.NoError(t, flow.SubmitBilling(validBilling()))
	require.NoError(t, flow.Back())
	assert.Equal(t, StepBilling, flow.Step())

	require.NoError(t, flow.SubmitBilling(validBilling()))
	_, err = flow.SubmitPayment(ctx, PaymentCOD, nil)
	require.NoError(t, err)
	assert.Equal(t, StepConfirmation, flow.Step())

	// Confirmation is terminal.
	assert.ErrorIs(t, flow.SubmitBilling(validBilling()), ErrWrongStep)
	assert.ErrorIs(t, flow.Back(), ErrWrongStep)
	_, err = flow.SubmitPayment(ctx, PaymentCOD, nil)
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestSubmitPayment_QRRequiresProof(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	require.NoError(t, e.cart.Add(ctx, models.Product{ID: 1, Name: "keyboard", Price: "1000"}, 1))

	flow, err := Start(e.cart, e.auth, e.client, 0)
	require.NoError(t, err)
	require.NoError(t, flow.SubmitBilling(validBilling()))

	_, err = flow.SubmitPayment(ctx, PaymentQR, nil)
	assert.ErrorIs(t, err, ErrProofRequired)
	assert.Equal(t, StepPayment, flow.Step())

	proof := &api.Upload{Name: "proof.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8}}
	order, err := flow.SubmitPayment(ctx, PaymentQR, proof)
	require.NoError(t, err)
	assert.Equal(t, 512, order.ID)
	assert.Equal(t, []byte{0xff, 0xd8}, e.server.screenshot)
}

func TestSubmitPayment_RejectsMultipleProducts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	require.NoError(t, e.cart.Add(ctx, models.Product{ID: 1, Name: "keyboard", Price: "1000"}, 1))
	require.NoError(t, e.cart.Add(ctx, models.Product{ID: 2, Name: "mouse", Price: "500"}, 1))

	flow, err := Start(e.cart, e.auth, e.client, 0)
	require.NoError(t, err)
	require.NoError(t, flow.SubmitBilling(validBilling()))

	_, err = flow.SubmitPayment(ctx, PaymentCOD, nil)
	assert.ErrorIs(t, err, ErrMultipleItems)
	assert.Equal(t, StepPayment, flow.Step())
}

func TestSubmitPayment_RemoteFailureStaysOnPayment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)
	e.server.failWith = "The quantity exceeds available stock."
	require.NoError(t, e.cart.Add(ctx, models.Product{ID: 1, Name: "keyboard", Price: "1000"}, 1))

	flow, err := Start(e.cart, e.auth, e.client, 0)
	require.NoError(t, err)
	require.NoError(t, flow.SubmitBilling(validBilling()))

	_, err = flow.SubmitPayment(ctx, PaymentCOD, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The quantity exceeds available stock.")
	assert.Equal(t, StepPayment, flow.Step())
	// Failed submission must not touch the cart.
	assert.Equal(t, 1, e.cart.TotalItems())
}

func TestCheckout_CartInitiatedEndToEnd(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)

	sale := "800"
	require.NoError(t, e.cart.Add(ctx, models.Product{ID: 1, Name: "keyboard", Price: "1000", SalePrice: &sale}, 2))

	flow, err := Start(e.cart, e.auth, e.client, 0)
	require.NoError(t, err)
	assert.Equal(t, 1600.0, flow.Total())

	require.NoError(t, flow.SubmitBilling(validBilling()))

	order, err := flow.SubmitPayment(ctx, PaymentCOD, nil)
	require.NoError(t, err)
	assert.Equal(t, 512, order.ID)
	assert.Equal(t, "ORD-000512", order.OrderNumber)
	assert.Equal(t, StepConfirmation, flow.Step())

	// Submitted form carries the staged item and billing fields.
	assert.Equal(t, "1", e.server.lastOrder["product_id"])
	assert.Equal(t, "2", e.server.lastOrder["quantity"])
	assert.Equal(t, "9803861618", e.server.lastOrder["phone_number"])
	assert.Equal(t, "cod", e.server.lastOrder["payment_method"])
	// COD gets the synthesized placeholder proof.
	assert.NotEmpty(t, e.server.screenshot)

	// Cart-initiated checkout clears the whole cart.
	assert.Zero(t, e.cart.TotalItems())
}

func TestCheckout_DeepLinkKeepsCart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)

	require.NoError(t, e.cart.Add(ctx, models.Product{ID: 1, Name: "keyboard", Price: "1000"}, 1))
	require.NoError(t, e.cart.Add(ctx, models.Product{ID: 2, Name: "mouse", Price: "500"}, 3))

	flow, err := Start(e.cart, e.auth, e.client, 2)
	require.NoError(t, err)

	items := flow.StagedItems()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Product.ID)

	require.NoError(t, flow.SubmitBilling(validBilling()))
	_, err = flow.SubmitPayment(ctx, PaymentCOD, nil)
	require.NoError(t, err)

	// Deep-linked checkout leaves the cart alone, ordered item included.
	assert.Equal(t, 4, e.cart.TotalItems())
	assert.True(t, e.cart.Contains(2))
}
