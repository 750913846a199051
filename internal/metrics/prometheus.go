package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"
)

const (
	// 默认的Prometheus指标前缀
	defaultMetricPrefix = "shopadmin"
)

// PrometheusExporter 提供将请求指标导出为Prometheus文本格式的功能
type PrometheusExporter struct {
	// 指标收集器引用
	metrics *Metrics

	// 指标前缀
	prefix string

	// 服务名称，用于标签
	service string

	// 上次导出时间
	lastExportTime time.Time

	// 互斥锁
	mu sync.Mutex
}

// NewPrometheusExporter 创建一个新的Prometheus导出器
func NewPrometheusExporter(metrics *Metrics, service string) *PrometheusExporter {
	return &PrometheusExporter{
		metrics:        metrics,
		prefix:         defaultMetricPrefix,
		service:        service,
		lastExportTime: time.Now(),
	}
}

// SetPrefix 设置指标前缀
func (p *PrometheusExporter) SetPrefix(prefix string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prefix = prefix
}

// LastExport 返回上次导出时间
func (p *PrometheusExporter) LastExport() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastExportTime
}

// Export 导出Prometheus格式的指标
func (p *PrometheusExporter) Export() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := p.metrics.GetSnapshot()
	if snapshot == nil {
		return ""
	}

	var buf bytes.Buffer
	p.lastExportTime = time.Now()

	// 按操作排序，保证输出稳定
	ops := make([]string, 0, len(snapshot.Ops))
	for op := range snapshot.Ops {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	p.header(&buf, "requests_total", "Total number of product API requests", "counter")
	for _, op := range ops {
		fmt.Fprintf(&buf, "%s{%s} %d\n", p.name("requests_total"), p.labels(op), snapshot.Ops[op].Requests)
	}
	buf.WriteString("\n")

	p.header(&buf, "request_failures_total", "Total number of failed product API requests", "counter")
	for _, op := range ops {
		fmt.Fprintf(&buf, "%s{%s} %d\n", p.name("request_failures_total"), p.labels(op), snapshot.Ops[op].Failures)
	}
	buf.WriteString("\n")

	p.header(&buf, "request_latency_avg_ns", "Average request latency in nanoseconds", "gauge")
	for _, op := range ops {
		fmt.Fprintf(&buf, "%s{%s} %d\n", p.name("request_latency_avg_ns"), p.labels(op), snapshot.Ops[op].LatencyAvg.Nanoseconds())
	}
	buf.WriteString("\n")

	p.addCounter(&buf, "stale_responses_discarded_total", "Fetch responses discarded because a newer fetch was issued", snapshot.Discarded)
	p.addCounter(&buf, "cache_hits_total", "Total number of page cache hits", snapshot.CacheHits)
	p.addCounter(&buf, "cache_misses_total", "Total number of page cache misses", snapshot.CacheMisses)
	p.addGauge(&buf, "cache_hit_ratio", "Page cache hit ratio", snapshot.CacheHitRatio)

	// 添加直方图数据
	if snapshot.LatencyHistogram != nil {
		p.addHistogram(&buf, "request_latency_ns", "Request latency histogram in nanoseconds", snapshot.LatencyHistogram)
	}

	return buf.String()
}

func (p *PrometheusExporter) name(metric string) string {
	return fmt.Sprintf("%s_%s", p.prefix, metric)
}

func (p *PrometheusExporter) labels(op string) string {
	return fmt.Sprintf(`service="%s",op="%s"`, p.service, op)
}

func (p *PrometheusExporter) header(buf *bytes.Buffer, metric, help, kind string) {
	fmt.Fprintf(buf, "# HELP %s %s\n", p.name(metric), help)
	fmt.Fprintf(buf, "# TYPE %s %s\n", p.name(metric), kind)
}

// addCounter 添加计数器类型指标
func (p *PrometheusExporter) addCounter(buf *bytes.Buffer, metric, help string, value uint64) {
	p.header(buf, metric, help, "counter")
	fmt.Fprintf(buf, "%s{service=\"%s\"} %d\n\n", p.name(metric), p.service, value)
}

// addGauge 添加仪表类型指标
func (p *PrometheusExporter) addGauge(buf *bytes.Buffer, metric, help string, value float64) {
	p.header(buf, metric, help, "gauge")
	fmt.Fprintf(buf, "%s{service=\"%s\"} %g\n\n", p.name(metric), p.service, value)
}

// addHistogram 添加直方图类型指标
func (p *PrometheusExporter) addHistogram(buf *bytes.Buffer, metric, help string, histogram *HistogramSnapshot) {
	p.header(buf, metric, help, "histogram")
	metricName := p.name(metric)

	// 累积桶计数，溢出桶只计入+Inf
	cumulativeCount := uint64(0)
	for i, bound := range histogram.BucketBounds {
		cumulativeCount += histogram.BucketCounts[i]
		fmt.Fprintf(buf, "%s_bucket{service=\"%s\",le=\"%d\"} %d\n",
			metricName, p.service, bound, cumulativeCount)
	}
	fmt.Fprintf(buf, "%s_bucket{service=\"%s\",le=\"+Inf\"} %d\n",
		metricName, p.service, histogram.Count)

	fmt.Fprintf(buf, "%s_sum{service=\"%s\"} %d\n", metricName, p.service, histogram.Sum)
	fmt.Fprintf(buf, "%s_count{service=\"%s\"} %d\n\n", metricName, p.service, histogram.Count)
}

// ServeHTTP 实现http.Handler接口，用于提供Prometheus指标端点
func (p *PrometheusExporter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	_, _ = w.Write([]byte(p.Export()))
}
