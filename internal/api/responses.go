package api

import "trendwear/storefront/internal/domain"

// envelope is the common {success, message} wrapper every backend response
// carries. A false success flag is a business-rule failure, not a transport
// error, and its message is surfaced verbatim.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (e *envelope) apiOK() bool        { return e.Success }
func (e *envelope) apiMessage() string { return e.Message }

// result is satisfied by every response type through the embedded envelope.
type result interface {
	apiOK() bool
	apiMessage() string
}

type authResponse struct {
	envelope
	Token string `json:"token"`
}

type productsResponse struct {
	envelope
	Products []domain.Product `json:"products"`
}

type cartResponse struct {
	envelope
	CartData domain.Cart `json:"cartData"`
}

type stripeOrderResponse struct {
	envelope
	SessionURL string `json:"session_url"`
}

type razorpayOrderResponse struct {
	envelope
	Order domain.RazorpayOrder `json:"order"`
}

type ordersResponse struct {
	envelope
	Orders []domain.Order `json:"orders"`
}
