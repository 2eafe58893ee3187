package verify

import (
	"context"
	"time"

	"trendwear/storefront/internal/api"
	"trendwear/storefront/internal/session"

	log "github.com/sirupsen/logrus"
)

// Status is the verification screen state.
type Status string

const (
	StatusVerifying Status = "verifying"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
)

// RedirectDelay is how long the terminal state stays visible before the
// caller navigates away.
const RedirectDelay = 1500 * time.Millisecond

// Params are the provider callback values taken from the incoming URL.
type Params struct {
	Success string
	OrderID string
}

// Outcome is the terminal state plus the route to navigate to. Redirect is
// empty when verification never ran (no token).
type Outcome struct {
	Status   Status
	Redirect string
}

// Verifier is the one-shot payment-verification state machine: it posts the
// callback parameters once and never retries.
type Verifier struct {
	client  api.Client
	session *session.Session
}

func NewVerifier(client api.Client, sess *session.Session) *Verifier {
	return &Verifier{
		client:  client,
		session: sess,
	}
}

// Run posts the verification parameters to the backend. Confirmation clears
// the cart and routes to order history; an explicit decline and any error
// both route back to the cart. Without a token nothing is attempted.
func (v *Verifier) Run(ctx context.Context, p Params) Outcome {
	token := v.session.Token()
	if token == "" {
		return Outcome{Status: StatusVerifying}
	}

	if err := v.client.VerifyStripe(ctx, token, p.Success, p.OrderID); err != nil {
		log.Errorf("❌ Payment verification failed for order %s: %v", p.OrderID, err)
		return Outcome{Status: StatusError, Redirect: "/cart"}
	}

	v.session.ClearCart(ctx)
	log.Infof("✅ Payment verified for order %s", p.OrderID)
	return Outcome{Status: StatusSuccess, Redirect: "/orders"}
}
