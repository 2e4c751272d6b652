package queue

import (
	"context"

	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"

	"go.uber.org/zap"
)

// Counter 同步记录下载次数
type Counter interface {
	Record(ctx context.Context, photoID int64) error
}

// Recorder 下载计数入队，入队失败时同步写入
type Recorder struct {
	queue    *QueueService
	fallback Counter
}

// NewRecorder 创建异步下载计数器，fallback 可为 nil
func NewRecorder(qs *QueueService, fallback Counter) *Recorder {
	return &Recorder{queue: qs, fallback: fallback}
}

// Record 实现下载计数
func (r *Recorder) Record(ctx context.Context, photoID int64) error {
	err := r.queue.PushDownload(ctx, photoID)
	if err == nil || r.fallback == nil {
		return err
	}
	logger.Warn("下载计数入队失败，改为同步写入", zap.Int64("photo_id", photoID), zap.Error(err))
	return r.fallback.Record(ctx, photoID)
}

// CounterHandler 由同步计数器处理出队任务
func CounterHandler(counter Counter) Handler {
	return func(ctx context.Context, task *DownloadTask) error {
		return counter.Record(ctx, task.PhotoID)
	}
}
