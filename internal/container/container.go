package container

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"trendwear/storefront/internal/api"
	"trendwear/storefront/internal/checkout"
	"trendwear/storefront/internal/config"
	"trendwear/storefront/internal/orders"
	"trendwear/storefront/internal/queue"
	"trendwear/storefront/internal/repository"
	"trendwear/storefront/internal/service"
	"trendwear/storefront/internal/session"
	"trendwear/storefront/internal/state"
	"trendwear/storefront/internal/verify"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config     *config.Config
	Client     api.Client
	Session    *session.Session
	Checkout   *checkout.Checkout
	History    *orders.History
	Verifier   *verify.Verifier
	Repository repository.OrderRepository
	Queue      queue.Queue
	Store      state.SessionStore

	Service *service.Service

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	db, err := pgxpool.New(context.Background(),
		fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
		))
	if err != nil {
		return nil, err
	}
	container.db = db
	container.Repository = repository.NewOrderRepository(db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("✅ Connected to Redis successfully")

	redisQueue, err := queue.NewRedisQueue(rdb, cfg.Redis)
	if err != nil {
		return nil, err
	}
	container.Queue = redisQueue

	container.redis = rdb
	sessionStore := state.NewRedisSessionStore(rdb)
	container.Store = sessionStore

	shopClient := api.NewShopClient(cfg.Shop)
	container.Client = shopClient

	sess := session.New(shopClient, sessionStore, redisQueue)
	container.Session = sess

	container.Checkout = checkout.New(shopClient, sess, cfg.Shop, cfg.Payments)
	container.History = orders.NewHistory(shopClient, sess, container.Repository)
	container.Verifier = verify.NewVerifier(shopClient, sess)

	container.Service = service.NewService(
		shopClient,
		sess,
		redisQueue,
		cfg.Redis.ConsumerGroup,
		cfg.Redis.MinIdleTime,
	)

	return container, nil
}

// Run bootstraps the session and keeps the sync workers going until ctx is
// cancelled.
func (c *Container) Run(ctx context.Context) error {
	if err := c.Service.Bootstrap(ctx); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.Service.RunWorkers(ctx, c.Config.Shop.MaxWorkers)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	c.db.Close()
	c.redis.Close()

	log.Info("Container shut down successfully")
	return nil
}
