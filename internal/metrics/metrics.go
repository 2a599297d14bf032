package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"companymap/internal/pipeline"
)

const namespace = "companymap"

// Metrics 服务指标（独立 Registry，便于测试）
type Metrics struct {
	Registry *prometheus.Registry

	PipelineRuns    *prometheus.CounterVec
	RowsDropped     prometheus.Counter
	Saves           *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New 创建并注册指标
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		PipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Pipeline runs by result.",
		}, []string{"result"}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_rows_dropped_total",
			Help:      "Rows dropped for missing country, type or company.",
		}),
		Saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workbook_saves_total",
			Help:      "Workbook saves by action and status.",
		}, []string{"action", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.Registry.MustRegister(
		m.PipelineRuns,
		m.RowsDropped,
		m.Saves,
		m.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObservePipeline 记录一次流水线运行
func (m *Metrics) ObservePipeline(err error, dropped int) {
	if m == nil {
		return
	}
	m.PipelineRuns.WithLabelValues(pipelineResult(err)).Inc()
	if dropped > 0 {
		m.RowsDropped.Add(float64(dropped))
	}
}

func pipelineResult(err error) string {
	var (
		malformed *pipeline.MalformedSourceError
		empty     *pipeline.EmptyResultError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &malformed):
		return "malformed"
	case errors.As(err, &empty):
		return "empty"
	default:
		return "error"
	}
}

// ObserveSave 记录一次保存
func (m *Metrics) ObserveSave(action string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
	}
	m.Saves.WithLabelValues(action, status).Inc()
}

// Handler /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// GinMiddleware 记录请求耗时，route 使用路由模板避免高基数
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
