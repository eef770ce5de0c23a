package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForStatus(t *testing.T, store *memTaskStore, id uuid.UUID, want TaskStatus) {
	t.Helper()
	require.Eventually(t, func() bool {
		return store.status(id) == want
	}, 2*time.Second, 10*time.Millisecond, "task %s never reached %s", id, want)
}

func TestTaskRunner_Submit(t *testing.T) {
	t.Run("saves then queues", func(t *testing.T) {
		store := newMemTaskStore()
		runner := NewTaskRunner(store, DefaultTaskRunnerConfig(), setupTestLogger())

		task := newFakeTask()
		require.NoError(t, runner.Submit(context.Background(), task))

		assert.Equal(t, TaskStatusPending, store.status(task.ID()))
		assert.Equal(t, 1, runner.queue.Len())
	})

	t.Run("queue full marks the task failed", func(t *testing.T) {
		store := newMemTaskStore()
		config := DefaultTaskRunnerConfig()
		config.QueueSize = 1
		runner := NewTaskRunner(store, config, setupTestLogger())

		require.NoError(t, runner.Submit(context.Background(), newFakeTask()))

		task := newFakeTask()
		err := runner.Submit(context.Background(), task)
		assert.ErrorIs(t, err, ErrQueueFull)
		assert.Equal(t, TaskStatusFailed, store.status(task.ID()))
	})

	t.Run("store error", func(t *testing.T) {
		store := newMemTaskStore()
		store.SaveFn = func(context.Context, Task) error { return errors.New("db down") }
		runner := NewTaskRunner(store, DefaultTaskRunnerConfig(), setupTestLogger())

		err := runner.Submit(context.Background(), newFakeTask())
		assert.ErrorContains(t, err, "failed to save task")
		assert.Zero(t, runner.queue.Len())
	})
}

func TestTaskRunner_ProcessesSubmittedTasks(t *testing.T) {
	store := newMemTaskStore()
	runner := NewTaskRunner(store, DefaultTaskRunnerConfig(), setupTestLogger())

	var handled []uuid.UUID
	handledCh := make(chan struct{}, 1)
	runner.SetErrorHandler(func(task Task, err error) {
		handled = append(handled, task.ID())
		handledCh <- struct{}{}
	})

	require.NoError(t, runner.Start(context.Background()))
	defer runner.Stop()

	ok := newFakeTask()
	failing := newFakeTask()
	failing.ExecuteFn = func(context.Context) error { return errors.New("gateway down") }

	require.NoError(t, runner.Submit(context.Background(), ok))
	require.NoError(t, runner.Submit(context.Background(), failing))

	waitForStatus(t, store, ok.ID(), TaskStatusCompleted)
	waitForStatus(t, store, failing.ID(), TaskStatusFailed)

	select {
	case <-handledCh:
	case <-time.After(time.Second):
		t.Fatal("error handler not called")
	}
	assert.Equal(t, []uuid.UUID{failing.ID()}, handled)
}

func TestTaskRunner_Recover(t *testing.T) {
	store := newMemTaskStore()
	publisher := &fakePublisher{}

	pending, err := NewPushTask(testMessage(t), publisher)
	require.NoError(t, err)
	interrupted, err := NewPushTask(testMessage(t), publisher)
	require.NoError(t, err)

	now := time.Now()
	store.put(Record{ID: pending.ID(), Type: TaskTypePushDelivery, Payload: pending.Payload(), Status: TaskStatusPending, CreatedAt: now, UpdatedAt: now})
	store.put(Record{ID: interrupted.ID(), Type: TaskTypePushDelivery, Payload: interrupted.Payload(), Status: TaskStatusProcessing, CreatedAt: now, UpdatedAt: now})

	unknown := uuid.New()
	store.put(Record{ID: unknown, Type: "memo_generation", Payload: []byte(`{}`), Status: TaskStatusPending, CreatedAt: now, UpdatedAt: now})
	corrupt := uuid.New()
	store.put(Record{ID: corrupt, Type: TaskTypePushDelivery, Payload: []byte(`not json`), Status: TaskStatusPending, CreatedAt: now, UpdatedAt: now})

	runner := NewTaskRunner(store, DefaultTaskRunnerConfig(), setupTestLogger())
	runner.RegisterDecoder(TaskTypePushDelivery, PushDecoder(publisher))

	require.NoError(t, runner.Start(context.Background()))
	defer runner.Stop()

	waitForStatus(t, store, pending.ID(), TaskStatusCompleted)
	waitForStatus(t, store, interrupted.ID(), TaskStatusCompleted)
	assert.Equal(t, TaskStatusFailed, store.status(unknown))
	assert.Equal(t, TaskStatusFailed, store.status(corrupt))
	assert.Equal(t, 2, publisher.count())
}

func TestTaskRunner_ResetStuckTasks(t *testing.T) {
	store := newMemTaskStore()
	publisher := &fakePublisher{}
	task, err := NewPushTask(testMessage(t), publisher)
	require.NoError(t, err)

	old := time.Now().Add(-time.Hour)
	store.put(Record{ID: task.ID(), Type: TaskTypePushDelivery, Payload: task.Payload(), Status: TaskStatusProcessing, CreatedAt: old, UpdatedAt: old})

	config := DefaultTaskRunnerConfig()
	config.StuckTaskAge = 30 * time.Minute
	runner := NewTaskRunner(store, config, setupTestLogger())
	runner.RegisterDecoder(TaskTypePushDelivery, PushDecoder(publisher))

	runner.resetStuckTasks(context.Background())

	assert.Equal(t, TaskStatusPending, store.status(task.ID()))
	assert.Equal(t, 1, runner.queue.Len())
}

func TestTaskRunner_StopClosesQueue(t *testing.T) {
	runner := NewTaskRunner(newMemTaskStore(), DefaultTaskRunnerConfig(), setupTestLogger())
	require.NoError(t, runner.Start(context.Background()))
	runner.Stop()

	err := runner.Submit(context.Background(), newFakeTask())
	assert.ErrorIs(t, err, ErrQueueClosed)
}
