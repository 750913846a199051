// Package metrics 提供产品API请求的运行时指标采集、统计和输出功能。
//
// 客户端的每个请求（list、page、update、delete）都会按操作计数，
// 记录失败次数和延迟分布；仪表盘丢弃的过期响应和后端页面缓存的
// 命中情况也在这里统计。所有计数器使用原子操作，可在高并发下安全使用。
package metrics

import (
	"encoding/json"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Level 定义指标采集级别。
type Level int

const (
	// Disabled 表示禁用指标采集。
	Disabled Level = iota

	// Basic 启用基础指标采集（请求数、失败数）。
	Basic

	// Detailed 启用详细指标采集（包括延迟直方图）。
	Detailed
)

// 默认统计的操作，与client包的操作名称一致
var defaultOps = []string{"list", "page", "update", "delete"}

// opCounters 单个操作的计数器
type opCounters struct {
	requests   uint64 // 请求次数
	failures   uint64 // 失败次数
	latencySum uint64 // 延迟总和（纳秒）
}

// Metrics 是请求指标收集器。
// 使用原子操作确保高并发环境下的线程安全。
type Metrics struct {
	// 采集级别
	level Level

	// 按操作分组的计数器
	ops map[string]*opCounters

	// 因序号过期被丢弃的响应数
	discarded uint64

	// 后端页面缓存
	cacheHits   uint64
	cacheMisses uint64

	// 延迟直方图
	latencyHistogram *Histogram

	// 最后更新时间
	lastUpdated int64

	// 保护ops映射的互斥锁
	mu sync.RWMutex
}

// Config 定义指标配置选项。
type Config struct {
	// Level 指定指标采集的详细程度
	Level Level

	// HistogramBuckets 指定延迟直方图的桶边界（毫秒），为空时使用默认边界
	HistogramBuckets []float64
}

// OpSnapshot 单个操作的指标快照
type OpSnapshot struct {
	Requests   uint64        `json:"requests"`
	Failures   uint64        `json:"failures"`
	LatencyAvg time.Duration `json:"latency_avg"`
}

// Snapshot 指标快照
type Snapshot struct {
	Ops              map[string]OpSnapshot `json:"ops"`
	Discarded        uint64                `json:"discarded"`
	CacheHits        uint64                `json:"cache_hits"`
	CacheMisses      uint64                `json:"cache_misses"`
	CacheHitRatio    float64               `json:"cache_hit_ratio"`
	LatencyHistogram *HistogramSnapshot    `json:"latency_histogram,omitempty"`
	LastUpdated      time.Time             `json:"last_updated"`
}

// New 创建一个新的指标收集器。
func New(config Config) *Metrics {
	m := &Metrics{
		level:       config.Level,
		ops:         make(map[string]*opCounters, len(defaultOps)),
		lastUpdated: time.Now().UnixNano(),
	}
	for _, op := range defaultOps {
		m.ops[op] = &opCounters{}
	}
	if config.Level >= Detailed {
		m.latencyHistogram = NewHistogram(config.HistogramBuckets)
	}
	return m
}

// NewDefault 创建详细级别、默认桶边界的收集器。
func NewDefault() *Metrics {
	return New(Config{Level: Detailed})
}

// Level 返回采集级别。
func (m *Metrics) Level() Level {
	return m.level
}

// RecordRequest 记录一次API请求，实现client.Recorder接口。
func (m *Metrics) RecordRequest(op string, latency time.Duration, err error) {
	if m == nil || m.level == Disabled {
		return
	}

	c := m.counters(op)
	atomic.AddUint64(&c.requests, 1)
	if err != nil {
		atomic.AddUint64(&c.failures, 1)
	}
	if latency < 0 {
		latency = 0
	}
	atomic.AddUint64(&c.latencySum, uint64(latency))

	if m.latencyHistogram != nil {
		m.latencyHistogram.RecordLatency(latency.Nanoseconds())
	}
	atomic.StoreInt64(&m.lastUpdated, time.Now().UnixNano())
}

// RecordDiscard 记录一次被丢弃的过期响应。
func (m *Metrics) RecordDiscard() {
	if m == nil || m.level == Disabled {
		return
	}
	atomic.AddUint64(&m.discarded, 1)
	atomic.StoreInt64(&m.lastUpdated, time.Now().UnixNano())
}

// RecordCacheHit 记录一次页面缓存命中。
func (m *Metrics) RecordCacheHit() {
	if m == nil || m.level == Disabled {
		return
	}
	atomic.AddUint64(&m.cacheHits, 1)
}

// RecordCacheMiss 记录一次页面缓存未命中。
func (m *Metrics) RecordCacheMiss() {
	if m == nil || m.level == Disabled {
		return
	}
	atomic.AddUint64(&m.cacheMisses, 1)
}

// counters 返回操作的计数器，未知操作按需创建
func (m *Metrics) counters(op string) *opCounters {
	m.mu.RLock()
	c, ok := m.ops[op]
	m.mu.RUnlock()
	if ok {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok = m.ops[op]; ok {
		return c
	}
	c = &opCounters{}
	m.ops[op] = c
	return c
}

// Ops 返回已知操作名称，按字母排序
func (m *Metrics) Ops() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.ops))
	for name := range m.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetSnapshot 获取指标快照。
func (m *Metrics) GetSnapshot() *Snapshot {
	if m == nil {
		return nil
	}

	m.mu.RLock()
	ops := make(map[string]OpSnapshot, len(m.ops))
	for name, c := range m.ops {
		requests := atomic.LoadUint64(&c.requests)
		var avg time.Duration
		if requests > 0 {
			avg = time.Duration(atomic.LoadUint64(&c.latencySum) / requests)
		}
		ops[name] = OpSnapshot{
			Requests:   requests,
			Failures:   atomic.LoadUint64(&c.failures),
			LatencyAvg: avg,
		}
	}
	m.mu.RUnlock()

	hits := atomic.LoadUint64(&m.cacheHits)
	misses := atomic.LoadUint64(&m.cacheMisses)
	var ratio float64
	if hits+misses > 0 {
		ratio = float64(hits) / float64(hits+misses)
	}

	snapshot := &Snapshot{
		Ops:           ops,
		Discarded:     atomic.LoadUint64(&m.discarded),
		CacheHits:     hits,
		CacheMisses:   misses,
		CacheHitRatio: ratio,
		LastUpdated:   time.Unix(0, atomic.LoadInt64(&m.lastUpdated)),
	}
	if m.latencyHistogram != nil {
		snapshot.LatencyHistogram = m.latencyHistogram.GetSnapshot()
	}
	return snapshot
}

// Reset 重置所有指标。
func (m *Metrics) Reset() {
	m.mu.Lock()
	for _, c := range m.ops {
		atomic.StoreUint64(&c.requests, 0)
		atomic.StoreUint64(&c.failures, 0)
		atomic.StoreUint64(&c.latencySum, 0)
	}
	m.mu.Unlock()

	atomic.StoreUint64(&m.discarded, 0)
	atomic.StoreUint64(&m.cacheHits, 0)
	atomic.StoreUint64(&m.cacheMisses, 0)
	if m.latencyHistogram != nil {
		m.latencyHistogram.Reset()
	}
	atomic.StoreInt64(&m.lastUpdated, time.Now().UnixNano())
}

// String 返回JSON格式的指标快照。
func (m *Metrics) String() string {
	data, err := json.Marshal(m.GetSnapshot())
	if err != nil {
		return "{}"
	}
	return string(data)
}
