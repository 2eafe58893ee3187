package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"trendwear/storefront/internal/api"
	"trendwear/storefront/internal/domain/task"
	"trendwear/storefront/internal/session"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartWrite struct {
	itemID   string
	size     string
	quantity int
}

type fakeClient struct {
	api.Client

	updateErr error
	updates   []cartWrite
}

func (f *fakeClient) UpdateCartItem(ctx context.Context, token, itemID, size string, quantity int) error {
	f.updates = append(f.updates, cartWrite{itemID: itemID, size: size, quantity: quantity})
	return f.updateErr
}

type fakeQueue struct {
	added []task.Task
	acked []string
}

func (f *fakeQueue) AddTask(ctx context.Context, t task.Task) (string, error) {
	f.added = append(f.added, t)
	return "msg-1", nil
}

func (f *fakeQueue) GetTask(ctx context.Context, group, consumer, stream string) (*redis.XMessage, error) {
	return nil, nil
}

func (f *fakeQueue) AckTask(ctx context.Context, stream, group, msgID string) error {
	f.acked = append(f.acked, msgID)
	return nil
}

func (f *fakeQueue) CreateGroup(ctx context.Context, stream, group string) error { return nil }

func (f *fakeQueue) AutoClaim(ctx context.Context, group, consumer, stream string, minIdleTime time.Duration) ([]redis.XMessage, error) {
	return nil, nil
}

func (f *fakeQueue) EnsureStreamsExist(ctx context.Context) error { return nil }

func syncMessage(t *testing.T, id string, tsk task.Task) *redis.XMessage {
	t.Helper()
	data, err := tsk.TaskValue()
	require.NoError(t, err)
	return &redis.XMessage{
		ID: id,
		Values: map[string]interface{}{
			"task_type": tsk.TaskType(),
			"task_data": string(data),
		},
	}
}

func newService(t *testing.T, client *fakeClient, q *fakeQueue, token string) (*Service, *session.Session) {
	t.Helper()
	sess := session.New(client, nil, nil)
	if token != "" {
		require.NoError(t, sess.SetToken(context.Background(), token))
	}
	return NewService(client, sess, q, "storefront_consumer", 120), sess
}

func TestProcessMessageSyncsLiveQuantityAndAcks(t *testing.T) {
	client := &fakeClient{}
	q := &fakeQueue{}
	s, sess := newService(t, client, q, "tok")
	sess.UpdateQuantity(context.Background(), "p1", "M", 3)

	msg := syncMessage(t, "1-0", &task.CartSyncTask{ItemID: "p1", Size: "M"})
	require.NoError(t, s.processMessage(context.Background(), msg))

	assert.Equal(t, []cartWrite{{itemID: "p1", size: "M", quantity: 3}}, client.updates)
	assert.Equal(t, []string{"1-0"}, q.acked)
	assert.Empty(t, q.added)
}

func TestStaleReplayConvergesOnCurrentCart(t *testing.T) {
	client := &fakeClient{}
	q := &fakeQueue{}
	s, sess := newService(t, client, q, "tok")
	ctx := context.Background()

	// An add followed by an absolute update leaves two queued tasks for
	// the same line. Whatever order workers pick them up in, both must
	// push the final quantity, never replay the intermediate state.
	require.NoError(t, sess.AddToCart(ctx, "p1", "M"))
	sess.UpdateQuantity(ctx, "p1", "M", 5)

	require.NoError(t, s.processMessage(ctx, syncMessage(t, "2-0", &task.CartSyncTask{ItemID: "p1", Size: "M"})))
	require.NoError(t, s.processMessage(ctx, syncMessage(t, "1-0", &task.CartSyncTask{ItemID: "p1", Size: "M"})))

	require.Len(t, client.updates, 2)
	for _, w := range client.updates {
		assert.Equal(t, 5, w.quantity)
	}
}

func TestSyncRemovedLineWritesZero(t *testing.T) {
	client := &fakeClient{}
	q := &fakeQueue{}
	s, sess := newService(t, client, q, "tok")
	ctx := context.Background()

	require.NoError(t, sess.AddToCart(ctx, "p1", "M"))
	sess.UpdateQuantity(ctx, "p1", "M", 0)

	msg := syncMessage(t, "1-0", &task.CartSyncTask{ItemID: "p1", Size: "M"})
	require.NoError(t, s.processMessage(ctx, msg))

	assert.Equal(t, []cartWrite{{itemID: "p1", size: "M", quantity: 0}}, client.updates)
}

func TestProcessMessageQueuesRetryOnSyncFailure(t *testing.T) {
	client := &fakeClient{updateErr: errors.New("backend unreachable")}
	q := &fakeQueue{}
	s, sess := newService(t, client, q, "tok")
	sess.UpdateQuantity(context.Background(), "p1", "M", 2)

	msg := syncMessage(t, "1-0", &task.CartSyncTask{ItemID: "p1", Size: "M"})
	require.NoError(t, s.processMessage(context.Background(), msg))

	require.Len(t, q.added, 1)
	retry, ok := q.added[0].(*task.SyncRetryTask)
	require.True(t, ok)
	assert.Equal(t, "p1", retry.ItemID)
	assert.Equal(t, "M", retry.Size)
	assert.Equal(t, "backend unreachable", retry.Error)
	assert.Equal(t, []string{"1-0"}, q.acked, "the original message is acked once the retry is queued")
}

func TestProcessMessageRetryIncrementsAttempts(t *testing.T) {
	client := &fakeClient{updateErr: errors.New("still down")}
	q := &fakeQueue{}
	s, sess := newService(t, client, q, "tok")
	sess.UpdateQuantity(context.Background(), "p1", "M", 2)

	msg := syncMessage(t, "1-0", &task.SyncRetryTask{ItemID: "p1", Size: "M", RetryCount: 1})
	require.NoError(t, s.processMessage(context.Background(), msg))

	require.Len(t, q.added, 1)
	retry, ok := q.added[0].(*task.SyncRetryTask)
	require.True(t, ok)
	assert.Equal(t, 2, retry.RetryCount)
}

func TestApplySyncDropsWhenLoggedOut(t *testing.T) {
	client := &fakeClient{}
	q := &fakeQueue{}
	s, _ := newService(t, client, q, "")

	msg := syncMessage(t, "1-0", &task.CartSyncTask{ItemID: "p1", Size: "M"})
	require.NoError(t, s.processMessage(context.Background(), msg))

	assert.Empty(t, client.updates)
	assert.Empty(t, q.added)
	assert.Len(t, q.acked, 1)
}

func TestProcessMessageRejectsUnknownTaskType(t *testing.T) {
	client := &fakeClient{}
	q := &fakeQueue{}
	s, _ := newService(t, client, q, "tok")

	msg := &redis.XMessage{
		ID: "2-0",
		Values: map[string]interface{}{
			"task_type": "MysteryTask",
			"task_data": "{}",
		},
	}
	assert.Error(t, s.processMessage(context.Background(), msg))
	assert.Empty(t, q.acked)
}
