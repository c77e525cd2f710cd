package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/usernotify/pkg/logger"
)

// ProcessorRepository claims and acknowledges tasks.
type ProcessorRepository interface {
	ClaimTask(ctx context.Context, queues []string) (*Task, error)
	CompleteTask(ctx context.Context, taskID uuid.UUID) error
	FailTask(ctx context.Context, taskID uuid.UUID, errorMsg string) error
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithQueues sets the queues the processor claims from.
func WithQueues(queues ...string) ProcessorOption {
	return func(p *Processor) {
		if len(queues) > 0 {
			p.queues = queues
		}
	}
}

// WithTaskTimeout bounds the time a single handler call may take.
func WithTaskTimeout(d time.Duration) ProcessorOption {
	return func(p *Processor) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithProcessorLogger sets the logger.
func WithProcessorLogger(l *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// Processor runs claimed tasks through registered handlers.
type Processor struct {
	repo     ProcessorRepository
	mu       sync.RWMutex
	handlers map[string]Handler
	queues   []string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewProcessor creates a Processor reading from repo.
func NewProcessor(repo ProcessorRepository, opts ...ProcessorOption) (*Processor, error) {
	if repo == nil {
		return nil, ErrRepositoryNil
	}

	p := &Processor{
		repo:     repo,
		handlers: make(map[string]Handler),
		queues:   []string{DefaultQueueName},
		timeout:  5 * time.Minute,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Register adds handlers, replacing any with the same name.
func (p *Processor) Register(handlers ...Handler) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, h := range handlers {
		if h == nil {
			continue
		}
		p.handlers[h.Name()] = h
	}
	return nil
}

// ProcessNext claims one task and handles it. It reports false when no task
// was due. A handler error is recorded on the task and not returned; only
// repository failures are returned.
func (p *Processor) ProcessNext(ctx context.Context) (bool, error) {
	task, err := p.repo.ClaimTask(ctx, p.queues)
	if err != nil {
		if errors.Is(err, ErrNoTaskToClaim) {
			return false, nil
		}
		return false, fmt.Errorf("failed to claim task: %w", err)
	}
	if task == nil {
		return false, nil
	}

	start := time.Now()
	attrs := []slog.Attr{
		logger.TaskID(task.ID.String()),
		logger.Queue(task.Queue),
		slog.String("task_name", task.TaskName),
	}

	if runErr := p.run(ctx, task); runErr != nil {
		p.logger.LogAttrs(ctx, slog.LevelError, "task failed",
			append(attrs, logger.RetryCount(int(task.RetryCount)), logger.Duration(time.Since(start)), logger.Error(runErr))...)
		if err := p.repo.FailTask(ctx, task.ID, runErr.Error()); err != nil {
			return true, fmt.Errorf("failed to mark task %s as failed: %w", task.ID, err)
		}
		return true, nil
	}

	if err := p.repo.CompleteTask(ctx, task.ID); err != nil {
		return true, fmt.Errorf("failed to mark task %s as completed: %w", task.ID, err)
	}
	p.logger.LogAttrs(ctx, slog.LevelDebug, "task completed", append(attrs, logger.Duration(time.Since(start)))...)
	return true, nil
}

// Drain processes due tasks until none are left or ctx is done, and returns
// the number of tasks handled.
func (p *Processor) Drain(ctx context.Context) (int, error) {
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		ok, err := p.ProcessNext(ctx)
		if err != nil {
			return n, err
		}
		if !ok {
			return n, nil
		}
		n++
	}
}

func (p *Processor) run(ctx context.Context, task *Task) (err error) {
	p.mu.RLock()
	handler, ok := p.handlers[task.TaskName]
	p.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrHandlerNotFound, task.TaskName)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return handler.Handle(ctx, task.Payload)
}
