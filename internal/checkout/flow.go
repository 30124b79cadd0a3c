// Package checkout models the purchase flow as an explicit state
// machine: billing -> payment -> confirmation, with the only backward
// transition being payment -> billing. Payment cannot be reached
// without passing billing validation, and confirmation is terminal.
package checkout

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/chooseyourcart/storefront/internal/api"
	"github.com/chooseyourcart/storefront/internal/logging"
	"github.com/chooseyourcart/storefront/internal/models"
	"github.com/chooseyourcart/storefront/internal/store"
)

type Step string

const (
	StepBilling      Step = "billing"
	StepPayment      Step = "payment"
	StepConfirmation Step = "confirmation"
)

const (
	PaymentCOD = "cod"
	PaymentQR  = "qr_payment"
)

var (
	ErrNotEligible   = errors.New("checkout not available")
	ErrValidation    = errors.New("validation")
	ErrWrongStep     = errors.New("wrong step")
	ErrMultipleItems = errors.New("multiple item checkout is not supported yet")
	ErrProofRequired = errors.New("payment screenshot required for QR payments")
	ErrBusy          = errors.New("submission already in progress")
)

// The order API insists on a payment_screenshot upload even for cash on
// delivery, so COD orders attach this 1x1 PNG. Drop once the API makes
// the field conditional on payment method.
var codPlaceholderPNG, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==")

type Billing struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number"`
	ShippingAddress string `json:"shipping_address"`
	City            string `json:"city"`
	PostalCode      string `json:"postal_code"`
	Notes           string `json:"notes"`
}

// Flow is one checkout attempt. A fresh attempt means a fresh Flow;
// there is no way back out of confirmation.
type Flow struct {
	mu         sync.Mutex
	step       Step
	staged     []models.CartItem
	deepLinked bool
	billing    Billing
	submitting bool

	order *models.Order

	cart   *store.Cart
	auth   *store.Auth
	client *api.Client
}

// Start guards entry: the caller must be authenticated and have
// something staged. productID > 0 stages just that cart entry (product
// page deep link); 0 stages the whole cart.
func Start(cart *store.Cart, auth *store.Auth, client *api.Client, productID int) (*Flow, error) {
	if !auth.IsAuthenticated() {
		return nil, fmt.Errorf("%w: not signed in", ErrNotEligible)
	}

	staged := cart.Items()
	if productID > 0 {
		filtered := staged[:0]
		for _, item := range staged {
			if item.Product.ID == productID {
				filtered = append(filtered, item)
			}
		}
		staged = filtered
	}
	if len(staged) == 0 {
		return nil, fmt.Errorf("%w: nothing to check out", ErrNotEligible)
	}

	return &Flow{
		step:       StepBilling,
		staged:     staged,
		deepLinked: productID > 0,
		cart:       cart,
		auth:       auth,
		client:     client,
	}, nil
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *Flow) StagedItems() []models.CartItem {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.CartItem, len(f.staged))
	copy(out, f.staged)
	return out
}

func (f *Flow) Total() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := 0.0
	for _, item := range f.staged {
		total += store.ItemTotal(item)
	}
	return total
}

// Order returns the created order once the flow reached confirmation.
func (f *Flow) Order() *models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.order == nil {
		return nil
	}
	o := *f.order
	return &o
}

// NormalizePhone strips non-digits, drops a leading 977 country code
// when that leaves more than 10 digits, and otherwise keeps the last 10.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if strings.HasPrefix(digits, "977") && len(digits) > 10 {
		return digits[3:]
	}
	if len(digits) > 10 {
		return digits[len(digits)-10:]
	}
	return digits
}

// SubmitBilling validates the billing form and advances to payment.
// On failure the flow stays on billing and the error names what is
// missing or wrong.
func (f *Flow) SubmitBilling(b Billing) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepBilling {
		return fmt.Errorf("%w: expected billing, at %s", ErrWrongStep, f.step)
	}

	b.PhoneNumber = NormalizePhone(b.PhoneNumber)

	var missing []string
	for _, field := range []struct{ name, value string }{
		{"full_name", b.FullName},
		{"email", b.Email},
		{"phone_number", b.PhoneNumber},
		{"shipping_address", b.ShippingAddress},
		{"city", b.City},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: please fill in all required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}

	if len(b.PhoneNumber) != 10 {
		return fmt.Errorf("%w: phone number must be exactly 10 digits", ErrValidation)
	}

	f.billing = b
	f.step = StepPayment
	return nil
}

// Back returns from payment to billing. No other backward transition
// exists.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepPayment {
		return fmt.Errorf("%w: cannot go back from %s", ErrWrongStep, f.step)
	}
	f.step = StepBilling
	return nil
}

// SubmitPayment places the order. Exactly one staged product is
// supported; QR payments need an uploaded proof, COD gets a placeholder
// attached because the API requires the upload either way. On success
// the flow moves to confirmation and the cart is cleared, unless the
// checkout was deep-linked to a single product. On failure the flow
// stays on payment and the API's message is passed through.
func (f *Flow) SubmitPayment(ctx context.Context, method string, proof *api.Upload) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "checkout.submit_payment")

	f.mu.Lock()
	if f.step != StepPayment {
		f.mu.Unlock()
		return nil, fmt.Errorf("%w: expected payment, at %s", ErrWrongStep, f.step)
	}
	if f.submitting {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	if len(f.staged) > 1 {
		f.mu.Unlock()
		return nil, ErrMultipleItems
	}
	if proof == nil && method != PaymentCOD {
		f.mu.Unlock()
		return nil, ErrProofRequired
	}

	f.submitting = true
	item := f.staged[0]
	billing := f.billing
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	if proof == nil {
		proof = &api.Upload{
			Name:        "cod_placeholder.png",
			ContentType: "image/png",
			Data:        codPlaceholderPNG,
		}
	}

	result, err := f.client.CreateOrder(ctx, f.auth.Token(), api.CreateOrderRequest{
		ProductID:         item.Product.ID,
		Quantity:          item.Quantity,
		ShippingAddress:   billing.ShippingAddress,
		PhoneNumber:       billing.PhoneNumber,
		PaymentMethod:     method,
		FullName:          billing.FullName,
		Email:             billing.Email,
		City:              billing.City,
		PostalCode:        billing.PostalCode,
		Notes:             billing.Notes,
		PaymentScreenshot: proof,
	})
	if err != nil {
		l.Warn("order submission failed", "product_id", item.Product.ID, "error", err)
		return nil, err
	}

	f.mu.Lock()
	f.order = &result.Order
	f.step = StepConfirmation
	deepLinked := f.deepLinked
	f.mu.Unlock()

	// Cart-initiated checkout clears the whole cart, matching how the
	// storefront has always behaved; a product-page deep link leaves the
	// cart alone.
	if !deepLinked {
		if err := f.cart.Clear(ctx); err != nil {
			l.Error("clear cart after order failed", "error", err)
		}
	}

	l.Info("order placed", "order_id", result.Order.ID, "order_number", result.Order.OrderNumber)
	return &result.Order, nil
}
