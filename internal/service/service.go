package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"trendwear/storefront/internal/api"
	"trendwear/storefront/internal/domain/task"
	"trendwear/storefront/internal/queue"
	"trendwear/storefront/internal/session"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	cartSyncStream  = "storefront:stream:CartSyncTask"
	syncRetryStream = "storefront:stream:SyncRetryTask"
)

// Service drives the session lifecycle: bootstrap at startup and the
// background workers that replay local cart mutations against the backend.
type Service struct {
	client      api.Client
	session     *session.Session
	queue       queue.Queue
	groupName   string
	minIdleTime time.Duration
}

func NewService(
	client api.Client,
	sess *session.Session,
	queue queue.Queue,
	groupName string,
	minIdleTime int,
) *Service {
	return &Service{
		client:      client,
		session:     sess,
		queue:       queue,
		groupName:   groupName,
		minIdleTime: time.Duration(minIdleTime) * time.Second,
	}
}

// Bootstrap restores the persisted session and loads the catalog. A failed
// catalog load is fatal at startup; there is nothing to browse without it.
func (s *Service) Bootstrap(ctx context.Context) error {
	if err := s.session.Restore(ctx); err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	if err := s.session.LoadCatalog(ctx); err != nil {
		return fmt.Errorf("failed to bootstrap catalog: %w", err)
	}

	return nil
}

// RunWorkers processes the cart-sync and retry streams until ctx is done.
func (s *Service) RunWorkers(ctx context.Context, numWorkers int) error {
	var wg sync.WaitGroup

	s.runWorkersForStream(ctx, &wg, numWorkers, cartSyncStream, "main")
	s.runWorkersForStream(ctx, &wg, max(1, numWorkers/2), syncRetryStream, "retry")

	wg.Wait()
	return nil
}

func (s *Service) runWorkersForStream(ctx context.Context, wg *sync.WaitGroup, numWorkers int, streamName, workerType string) {
	// Auto-claimer for this stream
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(s.minIdleTime)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				consumer := fmt.Sprintf("autoclaimer-%s-%s", workerType, uuid.NewString())
				claimedMessages, err := s.queue.AutoClaim(ctx, s.groupName, consumer, streamName, s.minIdleTime)
				if err != nil {
					log.Errorf("❌ Failed to auto-claim messages for %s: %v", streamName, err)
					continue
				}
				if len(claimedMessages) > 0 {
					log.Infof("🔄 Auto-claimed %d messages from %s stream", len(claimedMessages), workerType)
					for _, msg := range claimedMessages {
						if err := s.processMessage(ctx, &msg); err != nil {
							log.Errorf("❌ Failed to process auto-claimed message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}
	}()

	// Regular workers for this stream
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			consumer := fmt.Sprintf("%s-worker-%d", workerType, workerID)
			log.Infof("🚀 Starting %s worker %d as consumer %s", workerType, workerID, consumer)
			for {
				select {
				case <-ctx.Done():
					log.Infof("🛑 %s worker %d stopping", workerType, workerID)
					return
				default:
					msg, err := s.queue.GetTask(ctx, s.groupName, consumer, streamName)
					if err != nil {
						log.Errorf("❌ Failed to get task from %s: %v", streamName, err)
						continue
					}

					if msg != nil {
						if err := s.processMessage(ctx, msg); err != nil {
							log.Errorf("❌ Failed to process message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}(i + 1)
	}
}

func (s *Service) processMessage(ctx context.Context, msg *redis.XMessage) error {
	taskType, ok := msg.Values["task_type"].(string)
	if !ok {
		return fmt.Errorf("invalid task type in message %s", msg.ID)
	}

	taskData, ok := msg.Values["task_data"].(string)
	if !ok {
		return fmt.Errorf("invalid task data in message %s", msg.ID)
	}

	var streamName string
	switch taskType {
	case "CartSyncTask":
		streamName = cartSyncStream
		syncTask, err := task.UnmarshalTask[*task.CartSyncTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal cart sync task data: %w", err)
		}

		if err := s.applySync(ctx, syncTask.ItemID, syncTask.Size); err != nil {
			// Queue a retry instead of failing the message outright
			retryTask := &task.SyncRetryTask{
				ItemID: syncTask.ItemID,
				Size:   syncTask.Size,
				Error:  err.Error(),
			}

			if _, addErr := s.queue.AddTask(ctx, retryTask); addErr != nil {
				log.Errorf("❌ Failed to queue cart sync retry for %s/%s: %v", syncTask.ItemID, syncTask.Size, addErr)
			} else {
				log.Warnf("🔄 Cart sync for %s/%s failed, queued for retry: %v", syncTask.ItemID, syncTask.Size, err)
			}
		}

	case "SyncRetryTask":
		streamName = syncRetryStream
		retryTask, err := task.UnmarshalTask[*task.SyncRetryTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal sync retry task data: %w", err)
		}

		if err := s.retrySync(ctx, retryTask); err != nil {
			return fmt.Errorf("failed to retry cart sync: %w", err)
		}

	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}

	if err := s.queue.AckTask(ctx, streamName, s.groupName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}

	return nil
}

// applySync pushes one cart line to the backend using the current token.
// The quantity is read from the live session, not the task: workers racing
// over stale or duplicated tasks all write the same current value, so the
// backend converges on the local cart no matter the delivery order. A
// session that logged out in the meantime drops the task.
func (s *Service) applySync(ctx context.Context, itemID, size string) error {
	token := s.session.Token()
	if token == "" {
		log.Debugf("Dropping cart sync for %s/%s, session no longer authenticated", itemID, size)
		return nil
	}

	return s.client.UpdateCartItem(ctx, token, itemID, size, s.session.Quantity(itemID, size))
}

func (s *Service) retrySync(ctx context.Context, retryTask *task.SyncRetryTask) error {
	retryTask.RetryCount++

	log.Infof("🔄 Retrying cart sync for %s/%s (attempt %d)",
		retryTask.ItemID, retryTask.Size, retryTask.RetryCount)

	err := s.applySync(ctx, retryTask.ItemID, retryTask.Size)
	if err != nil {
		newRetryTask := &task.SyncRetryTask{
			ItemID:     retryTask.ItemID,
			Size:       retryTask.Size,
			RetryCount: retryTask.RetryCount,
			Error:      err.Error(),
		}

		if _, addErr := s.queue.AddTask(ctx, newRetryTask); addErr != nil {
			log.Errorf("❌ Failed to re-queue cart sync for %s/%s: %v", retryTask.ItemID, retryTask.Size, addErr)
			return addErr
		}

		log.Warnf("🔄 Cart sync for %s/%s failed again, will retry (attempt %d): %v",
			retryTask.ItemID, retryTask.Size, retryTask.RetryCount, err)
		return nil
	}

	log.Infof("✅ Cart sync for %s/%s recovered after %d attempts",
		retryTask.ItemID, retryTask.Size, retryTask.RetryCount)
	return nil
}
