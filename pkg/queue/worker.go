package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"

	"go.uber.org/zap"
)

// Handler 处理单个任务
type Handler func(ctx context.Context, task *DownloadTask) error

// WorkerConfig 工作器配置
type WorkerConfig struct {
	WorkerCount     int           // 并发工作器数量
	MaxRetries      int           // 最大重试次数
	RetryInterval   time.Duration // 重试间隔
	PopTimeout      time.Duration // 阻塞读取超时
	TaskTimeout     time.Duration // 单个任务超时
	ShutdownTimeout time.Duration // 关闭超时时间
}

// Worker 队列工作器组
type Worker struct {
	queue   *QueueService
	handler Handler
	config  WorkerConfig

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWorker 创建新的工作器组
func NewWorker(qs *QueueService, handler Handler, config WorkerConfig) *Worker {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 2
	}
	if config.PopTimeout <= 0 {
		config.PopTimeout = 2 * time.Second
	}
	if config.TaskTimeout <= 0 {
		config.TaskTimeout = 10 * time.Second
	}
	if config.RetryInterval <= 0 {
		config.RetryInterval = time.Second
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 30 * time.Second
	}

	return &Worker{
		queue:    qs,
		handler:  handler,
		config:   config,
		stopChan: make(chan struct{}),
	}
}

// Start 启动工作器组
func (w *Worker) Start() {
	for i := 0; i < w.config.WorkerCount; i++ {
		w.wg.Add(1)
		go w.startWorker(i)
	}
}

// startWorker 启动单个工作器
func (w *Worker) startWorker(id int) {
	defer w.wg.Done()

	logger.InfoString("Worker", "Start", fmt.Sprintf("Worker %d started", id))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-w.stopChan
		cancel()
	}()

	for {
		select {
		case <-w.stopChan:
			logger.InfoString("Worker", "Stop", fmt.Sprintf("Worker %d stopping", id))
			return
		default:
		}

		if _, err := w.ProcessNext(ctx); err != nil && ctx.Err() == nil {
			logger.Error("Worker", zap.Int("worker", id), zap.Error(err))
			// 错误恢复延迟
			select {
			case <-time.After(w.config.RetryInterval):
			case <-w.stopChan:
			}
		}
	}
}

// ProcessNext 取出并处理一个任务，队列为空时返回 false
func (w *Worker) ProcessNext(ctx context.Context) (bool, error) {
	task, err := w.queue.Pop(ctx, w.config.PopTimeout)
	if err != nil {
		w.queue.metrics.RecordError(OpPop)
		return false, err
	}
	if task == nil {
		return false, nil
	}
	return true, w.handleTask(ctx, task)
}

// handleTask 处理单个任务，失败后按配置重新入队
func (w *Worker) handleTask(ctx context.Context, task *DownloadTask) error {
	start := time.Now()
	defer func() {
		w.queue.metrics.RecordProcessingTime(time.Since(start))
	}()

	taskCtx, cancel := context.WithTimeout(ctx, w.config.TaskTimeout)
	defer cancel()

	err := w.handler(taskCtx, task)
	if err == nil {
		w.queue.metrics.RecordSuccess(OpProcess)
		return nil
	}

	w.queue.metrics.RecordError(OpProcess)
	task.Attempts++
	if task.Attempts <= w.config.MaxRetries {
		if pushErr := w.queue.Push(ctx, task); pushErr != nil {
			logger.Warn("Worker", zap.String("task_id", task.ID), zap.Error(pushErr))
		}
	}
	return fmt.Errorf("process task %s (photo %d): %w", task.ID, task.PhotoID, err)
}

// Stop 优雅关闭工作器组
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.InfoString("Worker", "Stop", "All workers stopped gracefully")
	case <-time.After(w.config.ShutdownTimeout):
		logger.WarnString("Worker", "Stop", "Worker shutdown timed out")
	}
}
