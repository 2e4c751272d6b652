package queue

import (
	"sync/atomic"
	"time"

	"github.com/boshenzh/werox-wechat-mini-program/pkg/metrics"
)

// MetricOperation 定义指标操作类型
type MetricOperation string

const (
	OpPush    MetricOperation = "push"
	OpPop     MetricOperation = "pop"
	OpProcess MetricOperation = "process"
)

// Stats 队列计数快照
type Stats struct {
	Pushed    int64 `json:"pushed"`
	Dropped   int64 `json:"dropped"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

// QueueMetrics 队列指标，进程内计数同时上报 Prometheus
type QueueMetrics struct {
	name string

	pushed    atomic.Int64
	dropped   atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
}

// NewQueueMetrics 创建指标收集器
func NewQueueMetrics(name string) *QueueMetrics {
	return &QueueMetrics{name: name}
}

// RecordSuccess 记录成功操作
func (m *QueueMetrics) RecordSuccess(op MetricOperation) {
	switch op {
	case OpPush:
		m.pushed.Add(1)
	case OpProcess:
		m.processed.Add(1)
	}
	metrics.QueueTasks.WithLabelValues(m.name, string(op), "success").Inc()
}

// RecordError 记录失败操作
func (m *QueueMetrics) RecordError(op MetricOperation) {
	switch op {
	case OpPush:
		m.dropped.Add(1)
	case OpProcess:
		m.failed.Add(1)
	}
	metrics.QueueTasks.WithLabelValues(m.name, string(op), "error").Inc()
}

// RecordProcessingTime 记录任务处理时间
func (m *QueueMetrics) RecordProcessingTime(d time.Duration) {
	metrics.QueueProcessDuration.WithLabelValues(m.name).Observe(d.Seconds())
}

// Snapshot 当前计数
func (m *QueueMetrics) Snapshot() Stats {
	return Stats{
		Pushed:    m.pushed.Load(),
		Dropped:   m.dropped.Load(),
		Processed: m.processed.Load(),
		Failed:    m.failed.Load(),
	}
}
