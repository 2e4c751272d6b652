// Package metrics 基于 Prometheus 的运行指标
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "werox_bff"

// Registry 独立的指标注册表，避免与默认注册表中的第三方指标混杂
var Registry = prometheus.NewRegistry()

var (
	// HTTPRequests 按路由与状态码统计请求数
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP 请求总数",
	}, []string{"method", "route", "status"})

	// HTTPDuration 按路由统计请求耗时
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP 请求耗时",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// RateLimited 被限流拒绝的请求数
	RateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "被限流拒绝的请求数",
	}, []string{"limiter"})

	// QueueTasks 队列任务处理结果
	QueueTasks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queue_tasks_total",
		Help:      "队列任务数",
	}, []string{"queue", "op", "result"})

	// QueueProcessDuration 队列任务处理耗时
	QueueProcessDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "queue_process_duration_seconds",
		Help:      "队列任务处理耗时",
		Buckets:   []float64{.005, .01, .05, .1, .5, 1, 5},
	}, []string{"queue"})

	// BackendFallbacks 客户端降级到直连存储的次数
	BackendFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_fallbacks_total",
		Help:      "后端不可用时降级执行的次数",
	}, []string{"action"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequests,
		HTTPDuration,
		RateLimited,
		QueueTasks,
		QueueProcessDuration,
		BackendFallbacks,
	)
}

// Handler 暴露 /metrics
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
