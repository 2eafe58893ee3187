package verify

import (
	"context"
	"errors"
	"testing"

	"trendwear/storefront/internal/api"
	"trendwear/storefront/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	api.Client

	verifyErr error
	calls     int

	gotSuccess string
	gotOrderID string
}

func (f *fakeClient) VerifyStripe(ctx context.Context, token, success, orderID string) error {
	f.calls++
	f.gotSuccess = success
	f.gotOrderID = orderID
	return f.verifyErr
}

func sessionWithCart(t *testing.T, client api.Client, token string) *session.Session {
	t.Helper()
	s := session.New(client, nil, nil)
	ctx := context.Background()
	if token != "" {
		require.NoError(t, s.SetToken(ctx, token))
	}
	require.NoError(t, s.AddToCart(ctx, "p1", "M"))
	return s
}

func TestRunWithoutTokenDoesNothing(t *testing.T) {
	client := &fakeClient{}
	sess := sessionWithCart(t, client, "")

	v := NewVerifier(client, sess)
	outcome := v.Run(context.Background(), Params{Success: "true", OrderID: "o1"})

	assert.Equal(t, StatusVerifying, outcome.Status)
	assert.Empty(t, outcome.Redirect)
	assert.Zero(t, client.calls)
	assert.Equal(t, 1, sess.CartCount())
}

func TestRunSuccessClearsCartAndRoutesToOrders(t *testing.T) {
	client := &fakeClient{}
	sess := sessionWithCart(t, client, "tok")

	v := NewVerifier(client, sess)
	outcome := v.Run(context.Background(), Params{Success: "true", OrderID: "o1"})

	assert.Equal(t, StatusSuccess, outcome.Status)
	assert.Equal(t, "/orders", outcome.Redirect)
	assert.Zero(t, sess.CartCount())
	assert.Equal(t, "true", client.gotSuccess)
	assert.Equal(t, "o1", client.gotOrderID)
}

func TestRunDeclineRoutesToCart(t *testing.T) {
	client := &fakeClient{verifyErr: &api.APIError{Message: "Payment failed"}}
	sess := sessionWithCart(t, client, "tok")

	v := NewVerifier(client, sess)
	outcome := v.Run(context.Background(), Params{Success: "false", OrderID: "o1"})

	assert.Equal(t, StatusError, outcome.Status)
	assert.Equal(t, "/cart", outcome.Redirect)
	assert.Equal(t, 1, sess.CartCount(), "a declined payment must not clear the cart")
}

func TestRunTransportErrorRoutesToCart(t *testing.T) {
	client := &fakeClient{verifyErr: errors.New("connection reset")}
	sess := sessionWithCart(t, client, "tok")

	v := NewVerifier(client, sess)
	outcome := v.Run(context.Background(), Params{Success: "true", OrderID: "o1"})

	assert.Equal(t, StatusError, outcome.Status)
	assert.Equal(t, "/cart", outcome.Redirect)
	assert.Equal(t, 1, client.calls)
}
