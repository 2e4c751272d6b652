package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memoryStore 内存列表，行为与 LPUSH/BRPOP 一致
type memoryStore struct {
	mu      sync.Mutex
	lists   map[string][][]byte
	pushErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{lists: make(map[string][][]byte)}
}

func (s *memoryStore) Push(_ context.Context, key string, value []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pushErr != nil {
		return 0, s.pushErr
	}
	s.lists[key] = append([][]byte{value}, s.lists[key]...)
	return int64(len(s.lists[key])), nil
}

func (s *memoryStore) Pop(_ context.Context, key string, _ time.Duration) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.lists[key]
	if len(list) == 0 {
		return nil, nil
	}
	last := list[len(list)-1]
	s.lists[key] = list[:len(list)-1]
	return last, nil
}

func (s *memoryStore) Len(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.lists[key])), nil
}

// MockCounter 同步计数器 mock
type MockCounter struct {
	mock.Mock
}

func (m *MockCounter) Record(ctx context.Context, photoID int64) error {
	args := m.Called(ctx, photoID)
	return args.Error(0)
}

func TestQueueService_PushPop(t *testing.T) {
	store := newMemoryStore()
	qs := NewQueueService(store, Config{Prefix: "test"})
	ctx := context.Background()

	require.NoError(t, qs.PushDownload(ctx, 1))
	require.NoError(t, qs.PushDownload(ctx, 2))

	n, err := qs.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Contains(t, store.lists, "test:downloads")

	// 先进先出
	task, err := qs.Pop(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, int64(1), task.PhotoID)
	assert.NotEmpty(t, task.ID)

	task, err = qs.Pop(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(2), task.PhotoID)

	task, err = qs.Pop(ctx, time.Second)
	require.NoError(t, err)
	assert.Nil(t, task)

	stats := qs.Metrics().Snapshot()
	assert.Equal(t, int64(2), stats.Pushed)
}

func TestQueueService_Limits(t *testing.T) {
	ctx := context.Background()

	t.Run("max length", func(t *testing.T) {
		qs := NewQueueService(newMemoryStore(), Config{MaxLength: 2})
		require.NoError(t, qs.PushDownload(ctx, 1))
		require.NoError(t, qs.PushDownload(ctx, 2))

		err := qs.PushDownload(ctx, 3)
		assert.ErrorIs(t, err, ErrQueueFull)
		assert.Equal(t, int64(1), qs.Metrics().Snapshot().Dropped)
	})

	t.Run("rate limit", func(t *testing.T) {
		qs := NewQueueService(newMemoryStore(), Config{RateLimit: 1, RateBurst: 1})
		require.NoError(t, qs.PushDownload(ctx, 1))
		assert.ErrorIs(t, qs.PushDownload(ctx, 2), ErrRateLimited)
	})

	t.Run("store failure", func(t *testing.T) {
		store := newMemoryStore()
		store.pushErr = errors.New("connection reset")
		qs := NewQueueService(store, Config{})
		assert.Error(t, qs.PushDownload(ctx, 1))
	})
}

func TestWorker_ProcessNext(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		qs := NewQueueService(newMemoryStore(), Config{})
		counter := new(MockCounter)
		counter.On("Record", mock.Anything, int64(9)).Return(nil).Once()

		w := NewWorker(qs, CounterHandler(counter), WorkerConfig{MaxRetries: 1})
		require.NoError(t, qs.PushDownload(ctx, 9))

		ok, err := w.ProcessNext(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		counter.AssertExpectations(t)
		assert.Equal(t, int64(1), qs.Metrics().Snapshot().Processed)
	})

	t.Run("empty queue", func(t *testing.T) {
		qs := NewQueueService(newMemoryStore(), Config{})
		w := NewWorker(qs, CounterHandler(new(MockCounter)), WorkerConfig{})

		ok, err := w.ProcessNext(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("retry then give up", func(t *testing.T) {
		qs := NewQueueService(newMemoryStore(), Config{})
		counter := new(MockCounter)
		counter.On("Record", mock.Anything, int64(5)).Return(errors.New("db down"))

		w := NewWorker(qs, CounterHandler(counter), WorkerConfig{MaxRetries: 1})
		require.NoError(t, qs.PushDownload(ctx, 5))

		// 第一次失败后重新入队
		ok, err := w.ProcessNext(ctx)
		assert.True(t, ok)
		assert.Error(t, err)
		n, _ := qs.Len(ctx)
		assert.Equal(t, int64(1), n)

		// 超过重试次数后丢弃
		ok, err = w.ProcessNext(ctx)
		assert.True(t, ok)
		assert.Error(t, err)
		n, _ = qs.Len(ctx)
		assert.Equal(t, int64(0), n)

		counter.AssertNumberOfCalls(t, "Record", 2)
		assert.Equal(t, int64(2), qs.Metrics().Snapshot().Failed)
	})
}

func TestWorker_StartStop(t *testing.T) {
	qs := NewQueueService(newMemoryStore(), Config{})
	done := make(chan int64, 1)
	handler := func(_ context.Context, task *DownloadTask) error {
		done <- task.PhotoID
		return nil
	}

	w := NewWorker(qs, handler, WorkerConfig{WorkerCount: 1, PopTimeout: 10 * time.Millisecond, ShutdownTimeout: time.Second})
	require.NoError(t, qs.PushDownload(context.Background(), 42))
	w.Start()
	defer w.Stop()

	select {
	case id := <-done:
		assert.Equal(t, int64(42), id)
	case <-time.After(2 * time.Second):
		t.Fatal("任务未被处理")
	}
}

func TestRecorder(t *testing.T) {
	ctx := context.Background()

	t.Run("enqueue", func(t *testing.T) {
		qs := NewQueueService(newMemoryStore(), Config{})
		fallback := new(MockCounter)

		require.NoError(t, NewRecorder(qs, fallback).Record(ctx, 3))
		n, _ := qs.Len(ctx)
		assert.Equal(t, int64(1), n)
		fallback.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("fallback when push fails", func(t *testing.T) {
		store := newMemoryStore()
		store.pushErr = errors.New("redis unavailable")
		qs := NewQueueService(store, Config{})
		fallback := new(MockCounter)
		fallback.On("Record", mock.Anything, int64(3)).Return(nil).Once()

		require.NoError(t, NewRecorder(qs, fallback).Record(ctx, 3))
		fallback.AssertExpectations(t)
	})

	t.Run("no fallback", func(t *testing.T) {
		store := newMemoryStore()
		store.pushErr = errors.New("redis unavailable")
		qs := NewQueueService(store, Config{})

		assert.Error(t, NewRecorder(qs, nil).Record(ctx, 3))
	})
}
