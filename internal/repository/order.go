package repository

import (
	"context"
	"fmt"

	"trendwear/storefront/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderRepository caches fetched order history locally so the orders screen
// has something to show while the backend is unreachable.
type OrderRepository interface {
	SaveOrder(ctx context.Context, order domain.Order) error
	CachedOrders(ctx context.Context) ([]domain.Order, error)
}

type orderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &orderRepository{
		db: db,
	}
}

func (r *orderRepository) SaveOrder(ctx context.Context, order domain.Order) error {
	query := `
	INSERT INTO order_history (id, placed_at, data)
	VALUES ($1, $2, $3)
	ON CONFLICT (id)
	DO UPDATE SET placed_at = $2, data = $3`
	_, err := r.db.Exec(ctx, query, order.ID, order.Date, order)
	if err != nil {
		return fmt.Errorf("failed to save order %s: %w", order.ID, err)
	}

	return nil
}

func (r *orderRepository) CachedOrders(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT data FROM order_history ORDER BY placed_at ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order); err != nil {
			return nil, fmt.Errorf("failed to scan cached order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cached orders: %w", err)
	}

	return orders, nil
}
