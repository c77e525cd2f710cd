package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/usernotify/pkg/notify"
	"github.com/dmitrymomot/usernotify/pkg/queue"
)

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) Enqueue(ctx context.Context, payload any, opts ...queue.EnqueueOption) (uuid.UUID, error) {
	args := m.Called(ctx, payload, opts)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func TestQueueDispatcher_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	storage := queue.NewMemoryStorage()
	enq, err := queue.NewEnqueuer(storage)
	require.NoError(t, err)

	mailH := &recordingHandler{HandlerBase: notify.HandlerBase{QueueName: "emails"}}
	pushH := &recordingHandler{}
	catalog := newTestCatalog(mailH, pushH)
	sender := newTestSender(t, catalog, notify.WithDispatcher(notify.NewQueueDispatcher(enq, nil)))

	n := &alertNotification{defaults: []notify.ChannelID{mail, push}, important: true}
	require.NoError(t, sender.Send(ctx, testUser{id: "u1", locale: "en"}, n))

	assert.Len(t, pushH.sent(), 1, "push is synchronous")
	assert.Empty(t, mailH.sent(), "mail waits in the queue")

	pending := storage.Tasks(queue.TaskStatusPending)
	require.Len(t, pending, 1)
	assert.Equal(t, "emails", pending[0].Queue)
	assert.Equal(t, queue.PriorityHigh, pending[0].Priority)

	proc, err := queue.NewProcessor(storage, queue.WithQueues("emails"))
	require.NoError(t, err)
	require.NoError(t, proc.Register(notify.NewDeliveryHandler(catalog)))

	handled, err := proc.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, handled)

	sent := mailH.sent()
	require.Len(t, sent, 1)
	env := sent[0]
	assert.Equal(t, mail, env.Channel)
	assert.Equal(t, "u1", env.Recipient.ID)
	assert.Equal(t, "Security alert", env.Subject)
	assert.True(t, env.Important)
	assert.Nil(t, env.Notification, "source notification does not cross the queue")
	require.Len(t, env.Blocks, 1)
	assert.Equal(t, []string{"Someone signed in"}, env.Blocks[0].Lines)

	assert.Len(t, storage.Tasks(queue.TaskStatusCompleted), 1)
}

func TestQueueDispatcher_EnqueueError(t *testing.T) {
	t.Parallel()

	enq := &MockEnqueuer{}
	enq.On("Enqueue", mock.Anything, mock.AnythingOfType("notify.DeliveryTask"), mock.Anything).
		Return(uuid.Nil, errors.New("queue full"))

	d := notify.NewQueueDispatcher(enq, nil)
	err := d.Dispatch(context.Background(), "emails", &notify.Envelope{Channel: mail})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"emails"`)
	enq.AssertExpectations(t)
}

func TestDeliveryHandler(t *testing.T) {
	t.Parallel()

	t.Run("failed delivery is retried by the queue", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		storage := queue.NewMemoryStorage()
		enq, err := queue.NewEnqueuer(storage, queue.WithDefaultMaxRetries(1))
		require.NoError(t, err)

		mailH := &recordingHandler{HandlerBase: notify.HandlerBase{QueueName: queue.DefaultQueueName}, err: errors.New("smtp 451")}
		catalog := newTestCatalog(mailH, nil)

		require.NoError(t, notify.NewQueueDispatcher(enq, nil).Dispatch(ctx, queue.DefaultQueueName, &notify.Envelope{Channel: mail}))

		proc, err := queue.NewProcessor(storage)
		require.NoError(t, err)
		require.NoError(t, proc.Register(notify.NewDeliveryHandler(catalog)))

		ok, err := proc.ProcessNext(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Len(t, mailH.sent(), 1)
		assert.Empty(t, storage.Tasks(queue.TaskStatusCompleted))
	})

	t.Run("unknown channel fails the task", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		storage := queue.NewMemoryStorage()
		enq, err := queue.NewEnqueuer(storage, queue.WithDefaultMaxRetries(0))
		require.NoError(t, err)

		require.NoError(t, notify.NewQueueDispatcher(enq, nil).Dispatch(ctx, queue.DefaultQueueName, &notify.Envelope{Channel: "sms"}))

		proc, err := queue.NewProcessor(storage)
		require.NoError(t, err)
		require.NoError(t, proc.Register(notify.NewDeliveryHandler(newTestCatalog(nil, nil))))

		_, err = proc.Drain(ctx)
		require.NoError(t, err)

		failed := storage.Tasks(queue.TaskStatusFailed)
		require.Len(t, failed, 1)
		require.NotNil(t, failed[0].Error)
		assert.Contains(t, *failed[0].Error, "sms")
	})
}
