package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/usernotify/pkg/logger"
	"github.com/dmitrymomot/usernotify/pkg/queue"
)

// DeliveryTask is the queue payload of a queued delivery.
type DeliveryTask struct {
	Envelope Envelope `json:"envelope"`
}

// Enqueuer stores queue payloads. *queue.Enqueuer implements it.
type Enqueuer interface {
	Enqueue(ctx context.Context, payload any, opts ...queue.EnqueueOption) (uuid.UUID, error)
}

// QueueDispatcher dispatches deliveries as DeliveryTask payloads on the
// channel's queue. Important notifications get high priority.
type QueueDispatcher struct {
	enq    Enqueuer
	logger *slog.Logger
}

// NewQueueDispatcher creates a QueueDispatcher.
func NewQueueDispatcher(enq Enqueuer, l *slog.Logger) *QueueDispatcher {
	if l == nil {
		l = slog.Default()
	}
	return &QueueDispatcher{enq: enq, logger: l}
}

// Dispatch implements Dispatcher.
func (d *QueueDispatcher) Dispatch(ctx context.Context, queueName string, env *Envelope) error {
	priority := queue.PriorityDefault
	if env.Important {
		priority = queue.PriorityHigh
	}

	id, err := d.enq.Enqueue(ctx, DeliveryTask{Envelope: *env},
		queue.WithQueue(queueName),
		queue.WithPriority(priority),
	)
	if err != nil {
		return fmt.Errorf("enqueue delivery on %q: %w", queueName, err)
	}

	d.logger.LogAttrs(ctx, slog.LevelDebug, "notification delivery queued",
		logger.TaskID(id.String()),
		logger.Queue(queueName),
		logger.Channel(string(env.Channel)),
		logger.UserID(env.Recipient.ID),
	)
	return nil
}

// NewDeliveryHandler returns the queue handler that performs queued
// deliveries: it looks the channel up in catalog and runs the envelope
// through the channel handler's middleware and Send.
func NewDeliveryHandler(catalog *Catalog) queue.Handler {
	return queue.NewTaskHandler(func(ctx context.Context, task DeliveryTask) error {
		env := task.Envelope
		ch, ok := catalog.Channel(env.Channel)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownChannel, env.Channel)
		}
		if ch.Handler == nil {
			return fmt.Errorf("%w: %q", ErrNoHandler, env.Channel)
		}
		return Deliver(ctx, ch.Handler, &env)
	})
}
