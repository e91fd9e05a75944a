package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type mockTask struct {
	Task
	failures int32
	calls    atomic.Int32
	done     chan struct{}
}

func newMockTask(failures int32, next TaskInterface) *mockTask {
	task := &mockTask{
		Task:     NewTask(TaskTypeBuildSite),
		failures: failures,
		done:     make(chan struct{}),
	}
	task.next = next
	return task
}

func (m *mockTask) Execute(ctx context.Context) error {
	if m.calls.Add(1) <= m.failures {
		return errors.New("mock failure")
	}
	close(m.done)
	return nil
}

func waitFor(t *testing.T, done chan struct{}, timeout time.Duration) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("Timed out waiting for task")
	}
}

func TestSchedulerExecutesTask(t *testing.T) {
	s := NewScheduler(nil, 0, 2)
	s.Start()
	defer s.Stop()

	task := newMockTask(0, nil)
	if err := s.EnqueueTask(task); err != nil {
		t.Fatal(err)
	}

	waitFor(t, task.done, 2*time.Second)
}

func TestSchedulerRunsFollowUp(t *testing.T) {
	s := NewScheduler(nil, 0, 1)
	s.Start()
	defer s.Stop()

	next := newMockTask(0, nil)
	first := newMockTask(0, next)
	if err := s.EnqueueTask(first); err != nil {
		t.Fatal(err)
	}

	waitFor(t, next.done, 2*time.Second)
}

func TestSchedulerRetriesFailedTask(t *testing.T) {
	s := NewScheduler(nil, 0, 1)
	s.Start()
	defer s.Stop()

	task := newMockTask(1, nil)
	if err := s.EnqueueTask(task); err != nil {
		t.Fatal(err)
	}

	waitFor(t, task.done, 5*time.Second)

	if task.GetRetryCount() != 1 {
		t.Errorf("Expected retry count 1, got %d", task.GetRetryCount())
	}
}

func TestSchedulerPeriodicTask(t *testing.T) {
	tasks := make(chan *mockTask, 10)
	periodic := func() TaskInterface {
		task := newMockTask(0, nil)
		select {
		case tasks <- task:
		default:
		}
		return task
	}

	s := NewScheduler(periodic, 20*time.Millisecond, 1)
	s.Start()
	defer s.Stop()

	select {
	case task := <-tasks:
		waitFor(t, task.done, 2*time.Second)
	case <-time.After(2 * time.Second):
		t.Fatal("Expected periodic task to be enqueued")
	}
}

func TestSchedulerRejectsAfterStop(t *testing.T) {
	s := NewScheduler(nil, 0, 1)
	s.Start()
	s.Stop()

	if err := s.EnqueueTask(newMockTask(0, nil)); err == nil {
		t.Error("Expected enqueue to fail after stop")
	}
}

func TestNewTask(t *testing.T) {
	a := NewTask(TaskTypeSyncContent)
	b := NewTask(TaskTypeSyncContent)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("Expected unique task IDs, got '%s' and '%s'", a.ID, b.ID)
	}
	if a.MaxRetries != DefaultMaxRetries {
		t.Errorf("Expected max retries %d, got %d", DefaultMaxRetries, a.MaxRetries)
	}
	if a.GetDuration() != 0 {
		t.Error("Expected zero duration before start")
	}
	if a.FollowUp() != nil {
		t.Error("Expected no follow-up on a new task")
	}
}
