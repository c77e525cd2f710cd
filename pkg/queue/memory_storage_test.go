package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/usernotify/pkg/queue"
)

func newTask(q string, p queue.Priority, at time.Time) *queue.Task {
	return &queue.Task{
		ID:          uuid.New(),
		Queue:       q,
		TaskName:    "t",
		Status:      queue.TaskStatusPending,
		Priority:    p,
		MaxRetries:  1,
		ScheduledAt: at,
		CreatedAt:   at,
	}
}

func TestMemoryStorage_CreateTask(t *testing.T) {
	t.Parallel()

	store := queue.NewMemoryStorage()
	ctx := context.Background()

	assert.ErrorIs(t, store.CreateTask(ctx, nil), queue.ErrTaskNil)

	task := newTask("default", queue.PriorityDefault, time.Now())
	require.NoError(t, store.CreateTask(ctx, task))
	assert.ErrorIs(t, store.CreateTask(ctx, task), queue.ErrTaskExists)

	task.Queue = "mutated"
	stored, err := store.Task(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "default", stored.Queue)
}

func TestMemoryStorage_ClaimTask(t *testing.T) {
	t.Parallel()

	store := queue.NewMemoryStorage()
	ctx := context.Background()
	now := time.Now()

	future := newTask("default", queue.PriorityMax, now.Add(time.Hour))
	older := newTask("default", queue.PriorityDefault, now.Add(-time.Minute))
	newer := newTask("default", queue.PriorityDefault, now.Add(-time.Second))
	require.NoError(t, store.CreateTask(ctx, future))
	require.NoError(t, store.CreateTask(ctx, newer))
	require.NoError(t, store.CreateTask(ctx, older))

	claimed, err := store.ClaimTask(ctx, []string{"default"})
	require.NoError(t, err)
	assert.Equal(t, older.ID, claimed.ID)
	assert.Equal(t, queue.TaskStatusProcessing, claimed.Status)

	claimed, err = store.ClaimTask(ctx, []string{"default"})
	require.NoError(t, err)
	assert.Equal(t, newer.ID, claimed.ID)

	_, err = store.ClaimTask(ctx, []string{"default"})
	assert.ErrorIs(t, err, queue.ErrNoTaskToClaim)
}

func TestMemoryStorage_Acknowledge(t *testing.T) {
	t.Parallel()

	store := queue.NewMemoryStorage()
	ctx := context.Background()

	task := newTask("default", queue.PriorityDefault, time.Now())
	require.NoError(t, store.CreateTask(ctx, task))

	assert.ErrorIs(t, store.CompleteTask(ctx, task.ID), queue.ErrTaskNotClaimed)
	assert.ErrorIs(t, store.FailTask(ctx, uuid.New(), "x"), queue.ErrTaskNotFound)

	_, err := store.ClaimTask(ctx, []string{"default"})
	require.NoError(t, err)
	require.NoError(t, store.CompleteTask(ctx, task.ID))

	_, err = store.Task(uuid.New())
	assert.ErrorIs(t, err, queue.ErrTaskNotFound)
	assert.Len(t, store.Tasks(queue.TaskStatusCompleted), 1)
}
