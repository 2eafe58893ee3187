package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"trendwear/storefront/internal/api"
	"trendwear/storefront/internal/config"
	"trendwear/storefront/internal/domain"
	"trendwear/storefront/internal/session"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrInFlight rejects a submission while a previous one is still
	// outstanding.
	ErrInFlight = errors.New("checkout already in progress")

	// ErrNotAuthenticated means no token is present; the caller must
	// redirect to authentication.
	ErrNotAuthenticated = errors.New("authentication required to place an order")

	// ErrEmptyCart rejects a draft with no purchasable line items.
	ErrEmptyCart = errors.New("cart has no items to order")

	// ErrUnknownMethod rejects a payment method outside the three paths.
	ErrUnknownMethod = errors.New("unknown payment method")
)

// ValidationError reports a missing or malformed shipping form field, caught
// before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Result tells the caller where the checkout flow goes next. Exactly one of
// Redirect, SessionURL and RazorpayOrder is set, depending on the payment
// path; KeyID accompanies RazorpayOrder so the widget can be opened.
type Result struct {
	Redirect      string                // internal route (cash on delivery)
	SessionURL    string                // hosted payment page (stripe)
	RazorpayOrder *domain.RazorpayOrder // embedded widget handoff
	KeyID         string                // widget public key
}

// Checkout builds order drafts from the session and dispatches them to one
// of the three payment paths.
type Checkout struct {
	client        api.Client
	session       *session.Session
	deliveryFee   float64
	currency      string
	razorpayKeyID string
	inFlight      atomic.Bool
}

func New(client api.Client, sess *session.Session, shopCfg config.ShopConfig, payCfg config.PaymentsConfig) *Checkout {
	return &Checkout{
		client:        client,
		session:       sess,
		deliveryFee:   shopCfg.DeliveryFee,
		currency:      shopCfg.Currency,
		razorpayKeyID: payCfg.RazorpayKeyID,
	}
}

// FormatAmount renders a money amount the way the storefront displays
// prices, currency symbol first.
func (c *Checkout) FormatAmount(amount float64) string {
	return fmt.Sprintf("%s%.2f", c.currency, amount)
}

// ValidateAddress checks the required shipping fields. State is optional.
func ValidateAddress(addr domain.Address) error {
	required := []struct {
		field, value string
	}{
		{"firstName", addr.FirstName},
		{"lastName", addr.LastName},
		{"email", addr.Email},
		{"street", addr.Street},
		{"city", addr.City},
		{"zipcode", addr.Zipcode},
		{"country", addr.Country},
		{"phone", addr.Phone},
	}

	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Reason: "is required"}
		}
	}

	if !strings.Contains(addr.Email, "@") {
		return &ValidationError{Field: "email", Reason: "is invalid"}
	}

	return nil
}

// BuildDraft walks the cart in a deterministic order and copies the catalog
// record for every line with quantity > 0, attaching the chosen size and
// quantity. Lines whose product is missing from the catalog are skipped.
// The total is the resolvable cart amount plus the delivery fee.
func BuildDraft(cart domain.Cart, lookup func(string) (domain.Product, bool), addr domain.Address, deliveryFee float64) domain.OrderDraft {
	ids := make([]string, 0, len(cart))
	for id := range cart {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	items := make([]domain.OrderItem, 0, len(cart))
	amount := 0.0

	for _, id := range ids {
		product, ok := lookup(id)
		if !ok {
			log.Warnf("⚠️ Cart references unknown product %s, skipping", id)
			continue
		}

		sizes := make([]string, 0, len(cart[id]))
		for size := range cart[id] {
			sizes = append(sizes, size)
		}
		sort.Strings(sizes)

		for _, size := range sizes {
			qty := cart[id][size]
			if qty <= 0 {
				continue
			}
			items = append(items, domain.OrderItem{
				Product:  product,
				Size:     size,
				Quantity: qty,
			})
			amount += product.Price * float64(qty)
		}
	}

	return domain.OrderDraft{
		Receipt: uuid.NewString(),
		Address: addr,
		Items:   items,
		Amount:  amount + deliveryFee,
	}
}

// Place validates the form, builds a draft and dispatches it to the chosen
// payment path. The draft is built once and discarded on any failure; no
// partial order state is retained. Concurrent submissions are rejected.
func (c *Checkout) Place(ctx context.Context, addr domain.Address, method domain.PaymentMethod) (Result, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return Result{}, ErrInFlight
	}
	defer c.inFlight.Store(false)

	token := c.session.Token()
	if token == "" {
		return Result{}, ErrNotAuthenticated
	}

	if err := ValidateAddress(addr); err != nil {
		return Result{}, err
	}

	draft := BuildDraft(c.session.Cart(), c.session.Product, addr, c.deliveryFee)
	if len(draft.Items) == 0 {
		return Result{}, ErrEmptyCart
	}

	switch method {
	case domain.PaymentCOD:
		if err := c.client.PlaceOrder(ctx, token, draft); err != nil {
			return Result{}, err
		}
		c.session.ClearCart(ctx)
		log.Infof("🛒 Order %s confirmed, total %s", draft.Receipt, c.FormatAmount(draft.Amount))
		return Result{Redirect: "/orders"}, nil

	case domain.PaymentStripe:
		sessionURL, err := c.client.PlaceStripeOrder(ctx, token, draft)
		if err != nil {
			return Result{}, err
		}
		log.Infof("💳 Handing off order %s to hosted payment page", draft.Receipt)
		return Result{SessionURL: sessionURL}, nil

	case domain.PaymentRazorpay:
		order, err := c.client.PlaceRazorpayOrder(ctx, token, draft)
		if err != nil {
			return Result{}, err
		}
		log.Infof("💳 Handing off order %s to payment widget", draft.Receipt)
		return Result{RazorpayOrder: &order, KeyID: c.razorpayKeyID}, nil

	default:
		return Result{}, ErrUnknownMethod
	}
}

// CompleteRazorpay verifies the widget callback. On confirmation the cart is
// cleared; any failure leaves it untouched.
func (c *Checkout) CompleteRazorpay(ctx context.Context, payment domain.RazorpayPayment) error {
	token := c.session.Token()
	if token == "" {
		return ErrNotAuthenticated
	}

	if err := c.client.VerifyRazorpay(ctx, token, payment); err != nil {
		return err
	}

	c.session.ClearCart(ctx)
	return nil
}
