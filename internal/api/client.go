package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"trendwear/storefront/internal/config"
	"trendwear/storefront/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// ErrUnauthorized reports a privileged call rejected by the backend; callers
// redirect to authentication instead of retrying.
var ErrUnauthorized = errors.New("not authorized")

// APIError is a business-rule failure returned by the backend with an
// explicit failure flag. Its message is shown to the user verbatim.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type Client interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, name, email, password string) (string, error)
	Products(ctx context.Context) ([]domain.Product, error)
	FetchCart(ctx context.Context, token string) (domain.Cart, error)
	UpdateCartItem(ctx context.Context, token, itemID, size string, quantity int) error
	PlaceOrder(ctx context.Context, token string, draft domain.OrderDraft) error
	PlaceStripeOrder(ctx context.Context, token string, draft domain.OrderDraft) (string, error)
	PlaceRazorpayOrder(ctx context.Context, token string, draft domain.OrderDraft) (domain.RazorpayOrder, error)
	UserOrders(ctx context.Context, token string) ([]domain.Order, error)
	VerifyStripe(ctx context.Context, token, success, orderID string) error
	VerifyRazorpay(ctx context.Context, token string, payment domain.RazorpayPayment) error
}

type shopClient struct {
	rl         ratelimit.Limiter
	config     config.ShopConfig
	baseURL    string
	httpClient *resty.Client
}

func NewShopClient(cfg config.ShopConfig) Client {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(2*time.Second).
		SetRetryMaxWaitTime(10*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &shopClient{
		rl:         ratelimit.New(cfg.MaxRequestsPerSecond),
		config:     cfg,
		baseURL:    cfg.BaseURL,
		httpClient: client,
	}
}

func (c *shopClient) Login(ctx context.Context, email, password string) (string, error) {
	out := &authResponse{}
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/api/user/login", "", body, out); err != nil {
		return "", fmt.Errorf("failed to log in: %w", err)
	}

	log.Debugf("Logged in as %s", email)
	return out.Token, nil
}

func (c *shopClient) Register(ctx context.Context, name, email, password string) (string, error) {
	out := &authResponse{}
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.post(ctx, "/api/user/register", "", body, out); err != nil {
		return "", fmt.Errorf("failed to register: %w", err)
	}

	log.Debugf("Registered account for %s", email)
	return out.Token, nil
}

func (c *shopClient) Products(ctx context.Context) ([]domain.Product, error) {
	out := &productsResponse{}
	if err := c.get(ctx, "/api/product/list", out); err != nil {
		return nil, fmt.Errorf("failed to fetch product list: %w", err)
	}

	log.Debugf("Fetched %d products from catalog", len(out.Products))
	return out.Products, nil
}

func (c *shopClient) FetchCart(ctx context.Context, token string) (domain.Cart, error) {
	out := &cartResponse{}
	if err := c.post(ctx, "/api/cart/get", token, map[string]string{}, out); err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}
	return out.CartData, nil
}

// UpdateCartItem sets the absolute quantity for a cart line, creating the
// line when the backend has none. Callers sync carts exclusively through
// this endpoint; the backend's increment endpoint is not idempotent and is
// unsafe under at-least-once task delivery.
func (c *shopClient) UpdateCartItem(ctx context.Context, token, itemID, size string, quantity int) error {
	out := &envelope{}
	body := map[string]any{"itemId": itemID, "size": size, "quantity": quantity}
	if err := c.post(ctx, "/api/cart/update", token, body, out); err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	return nil
}

func (c *shopClient) PlaceOrder(ctx context.Context, token string, draft domain.OrderDraft) error {
	out := &envelope{}
	if err := c.post(ctx, "/api/order/place", token, draft, out); err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}

	log.Infof("✅ Order %s placed (cash on delivery)", draft.Receipt)
	return nil
}

func (c *shopClient) PlaceStripeOrder(ctx context.Context, token string, draft domain.OrderDraft) (string, error) {
	out := &stripeOrderResponse{}
	if err := c.post(ctx, "/api/order/stripe", token, draft, out); err != nil {
		return "", fmt.Errorf("failed to create stripe order: %w", err)
	}
	return out.SessionURL, nil
}

func (c *shopClient) PlaceRazorpayOrder(ctx context.Context, token string, draft domain.OrderDraft) (domain.RazorpayOrder, error) {
	out := &razorpayOrderResponse{}
	if err := c.post(ctx, "/api/order/razorpay", token, draft, out); err != nil {
		return domain.RazorpayOrder{}, fmt.Errorf("failed to create razorpay order: %w", err)
	}
	return out.Order, nil
}

func (c *shopClient) UserOrders(ctx context.Context, token string) ([]domain.Order, error) {
	out := &ordersResponse{}
	if err := c.post(ctx, "/api/order/userorders", token, map[string]string{}, out); err != nil {
		return nil, fmt.Errorf("failed to fetch user orders: %w", err)
	}

	log.Debugf("Fetched %d orders", len(out.Orders))
	return out.Orders, nil
}

func (c *shopClient) VerifyStripe(ctx context.Context, token, success, orderID string) error {
	out := &envelope{}
	body := map[string]string{"success": success, "orderId": orderID}
	if err := c.post(ctx, "/api/order/verifyStripe", token, body, out); err != nil {
		return fmt.Errorf("failed to verify stripe payment: %w", err)
	}
	return nil
}

func (c *shopClient) VerifyRazorpay(ctx context.Context, token string, payment domain.RazorpayPayment) error {
	out := &envelope{}
	if err := c.post(ctx, "/api/order/verifyRazorpay", token, payment, out); err != nil {
		return fmt.Errorf("failed to verify razorpay payment: %w", err)
	}
	return nil
}

func (c *shopClient) get(ctx context.Context, path string, out result) error {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(out).
		Get(c.baseURL + path)

	return c.checkResponse(resp, err, out)
}

func (c *shopClient) post(ctx context.Context, path, token string, body any, out result) error {
	c.rl.Take()

	req := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(out)

	if token != "" {
		req.SetHeader("token", token)
	}

	resp, err := req.Post(c.baseURL + path)

	return c.checkResponse(resp, err, out)
}

func (c *shopClient) checkResponse(resp *resty.Response, err error, out result) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	if resp.IsError() {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	if !out.apiOK() {
		return &APIError{Message: out.apiMessage()}
	}

	return nil
}
