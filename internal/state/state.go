package state

import (
	"context"
	"encoding/json"
	"fmt"

	"trendwear/storefront/internal/domain"

	"github.com/redis/go-redis/v9"
)

// SessionStore persists the pieces of the session that must survive a
// restart: the auth token under a single well-known key, and the last cart
// snapshot. Absence of either is not an error.
type SessionStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
	SaveCart(ctx context.Context, cart domain.Cart) error
	LoadCart(ctx context.Context) (domain.Cart, error)
	ClearCart(ctx context.Context) error
}

type redisSessionStore struct {
	redisClient *redis.Client
	tokenKey    string
	cartKey     string
}

func NewRedisSessionStore(redisClient *redis.Client) SessionStore {
	return &redisSessionStore{
		redisClient: redisClient,
		tokenKey:    "storefront:session:token",
		cartKey:     "storefront:session:cart",
	}
}

func (s *redisSessionStore) Token(ctx context.Context) (string, error) {
	val, err := s.redisClient.Get(ctx, s.tokenKey).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // No token saved yet
		}
		return "", fmt.Errorf("failed to get session token: %w", err)
	}
	return val, nil
}

func (s *redisSessionStore) SetToken(ctx context.Context, token string) error {
	if err := s.redisClient.Set(ctx, s.tokenKey, token, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}
	return nil
}

func (s *redisSessionStore) ClearToken(ctx context.Context) error {
	if err := s.redisClient.Del(ctx, s.tokenKey).Err(); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}

func (s *redisSessionStore) SaveCart(ctx context.Context, cart domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to serialize cart snapshot: %w", err)
	}

	if err := s.redisClient.Set(ctx, s.cartKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	return nil
}

func (s *redisSessionStore) LoadCart(ctx context.Context) (domain.Cart, error) {
	val, err := s.redisClient.Get(ctx, s.cartKey).Result()
	if err != nil {
		if err == redis.Nil {
			return domain.NewCart(), nil // No snapshot saved yet
		}
		return nil, fmt.Errorf("failed to load cart snapshot: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(val), &cart); err != nil {
		return nil, fmt.Errorf("failed to parse cart snapshot: %w", err)
	}

	if cart == nil {
		cart = domain.NewCart()
	}
	return cart, nil
}

func (s *redisSessionStore) ClearCart(ctx context.Context) error {
	if err := s.redisClient.Del(ctx, s.cartKey).Err(); err != nil {
		return fmt.Errorf("failed to clear cart snapshot: %w", err)
	}
	return nil
}
