package task

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yoman-app/yoman-api/internal/platform/push"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// fakeTask is a Task whose execution is supplied by the test.
type fakeTask struct {
	id        uuid.UUID
	taskType  string
	payload   []byte
	ExecuteFn func(ctx context.Context) error
}

func newFakeTask() *fakeTask {
	return &fakeTask{
		id:        uuid.New(),
		taskType:  "fake",
		payload:   []byte(`{}`),
		ExecuteFn: func(context.Context) error { return nil },
	}
}

func (t *fakeTask) ID() uuid.UUID                     { return t.id }
func (t *fakeTask) Type() string                      { return t.taskType }
func (t *fakeTask) Payload() []byte                   { return t.payload }
func (t *fakeTask) Status() TaskStatus                { return TaskStatusPending }
func (t *fakeTask) Execute(ctx context.Context) error { return t.ExecuteFn(ctx) }

// memTaskStore keeps task records in memory.
type memTaskStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*Record
	SaveFn  func(ctx context.Context, task Task) error
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{records: map[uuid.UUID]*Record{}}
}

func (s *memTaskStore) SaveTask(ctx context.Context, task Task) error {
	if s.SaveFn != nil {
		if err := s.SaveFn(ctx, task); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.records[task.ID()] = &Record{
		ID:        task.ID(),
		Type:      task.Type(),
		Payload:   task.Payload(),
		Status:    task.Status(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (s *memTaskStore) put(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = &rec
}

func (s *memTaskStore) UpdateTaskStatus(_ context.Context, id uuid.UUID, status TaskStatus, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return errors.New("task not found")
	}
	rec.Status = status
	rec.ErrorMessage = msg
	rec.UpdatedAt = time.Now()
	return nil
}

func (s *memTaskStore) byStatus(status TaskStatus, olderThan time.Duration) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, rec := range s.records {
		if rec.Status != status {
			continue
		}
		if olderThan > 0 && time.Since(rec.UpdatedAt) < olderThan {
			continue
		}
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *memTaskStore) GetPendingTasks(context.Context) ([]Record, error) {
	return s.byStatus(TaskStatusPending, 0), nil
}

func (s *memTaskStore) GetProcessingTasks(_ context.Context, olderThan time.Duration) ([]Record, error) {
	return s.byStatus(TaskStatusProcessing, olderThan), nil
}

func (s *memTaskStore) WithTx(*sql.Tx) TaskStore { return s }

func (s *memTaskStore) status(id uuid.UUID) TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[id]; ok {
		return rec.Status
	}
	return ""
}

// fakePublisher records published messages.
type fakePublisher struct {
	mu        sync.Mutex
	published []push.Message
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, msg push.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, msg)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}
