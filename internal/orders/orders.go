package orders

import (
	"context"
	"fmt"

	"trendwear/storefront/internal/api"
	"trendwear/storefront/internal/domain"
	"trendwear/storefront/internal/repository"
	"trendwear/storefront/internal/session"

	log "github.com/sirupsen/logrus"
)

// History loads the user's order history and flattens it for display, one
// row per purchased line item, most recent order first.
type History struct {
	client  api.Client
	session *session.Session
	repo    repository.OrderRepository
}

// NewHistory creates the loader. repo may be nil to disable local caching.
func NewHistory(client api.Client, sess *session.Session, repo repository.OrderRepository) *History {
	return &History{
		client:  client,
		session: sess,
		repo:    repo,
	}
}

// Load fetches and flattens the order history. A missing token is not an
// error and yields an empty result. A network failure surfaces a retryable
// error; calling Load again re-issues the same request.
func (h *History) Load(ctx context.Context) ([]domain.HistoryRow, error) {
	token := h.session.Token()
	if token == "" {
		return nil, nil
	}

	orders, err := h.client.UserOrders(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to load order history: %w", err)
	}

	h.cache(ctx, orders)

	return Flatten(orders), nil
}

// Cached returns the flattened history from the local cache, for use when
// the backend is unreachable.
func (h *History) Cached(ctx context.Context) ([]domain.HistoryRow, error) {
	if h.repo == nil {
		return nil, nil
	}

	orders, err := h.repo.CachedOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cached order history: %w", err)
	}

	return Flatten(orders), nil
}

// Flatten turns the nested order->items structure into one row per line
// item, each annotated with its parent order's status, payment method and
// date, reversed so the most recent order's items come first.
func Flatten(orders []domain.Order) []domain.HistoryRow {
	rows := make([]domain.HistoryRow, 0, len(orders))
	for _, order := range orders {
		for _, item := range order.Items {
			rows = append(rows, domain.HistoryRow{
				OrderItem:     item,
				OrderID:       order.ID,
				Status:        order.Status,
				PaymentMethod: order.PaymentMethod,
				Payment:       order.Payment,
				Date:          order.Date,
			})
		}
	}

	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows
}

func (h *History) cache(ctx context.Context, orders []domain.Order) {
	if h.repo == nil {
		return
	}
	for _, order := range orders {
		if err := h.repo.SaveOrder(ctx, order); err != nil {
			log.Errorf("❌ Failed to cache order %s: %v", order.ID, err)
		}
	}
}
