// Package metrics はPrometheusテキスト形式の監視指標を提供する
package metrics

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Registry 指標の登録表
type Registry struct {
	counters   map[string]*Counter
	gauges     map[string]*Gauge
	histograms map[string]*Histogram
	mu         sync.RWMutex
}

// Counter 単調増加カウンタ
type Counter struct {
	Name   string
	Help   string
	Labels []string
	values map[string]float64
	mu     sync.RWMutex
}

// Gauge 現在値
type Gauge struct {
	Name   string
	Help   string
	Labels []string
	values map[string]float64
	mu     sync.RWMutex
}

// Histogram 観測値の分布
type Histogram struct {
	Name    string
	Help    string
	Labels  []string
	Buckets []float64
	counts  map[string][]int
	sums    map[string]float64
	mu      sync.RWMutex
}

var (
	registry *Registry
	once     sync.Once
)

// GetRegistry グローバルな登録表を取得する
func GetRegistry() *Registry {
	once.Do(func() {
		registry = &Registry{
			counters:   make(map[string]*Counter),
			gauges:     make(map[string]*Gauge),
			histograms: make(map[string]*Histogram),
		}
		initDefaultMetrics()
	})
	return registry
}

// initDefaultMetrics 既定の指標を登録する
func initDefaultMetrics() {
	registry.NewCounter("shift_http_requests_total", "HTTPリクエスト総数",
		[]string{"method", "path", "status"})

	registry.NewHistogram("shift_http_request_duration_seconds", "HTTPリクエスト処理時間",
		[]string{"method", "path"},
		[]float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 30.0})

	registry.NewCounter("shift_solve_total", "シフト求解回数",
		[]string{"status"})

	registry.NewHistogram("shift_solve_duration_seconds", "シフト求解時間",
		[]string{},
		[]float64{0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0})

	registry.NewGauge("shift_last_shortage_total", "直近の求解での不足数合計",
		[]string{})
}

// NewCounter カウンタを登録する
func (r *Registry) NewCounter(name, help string, labels []string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := &Counter{
		Name:   name,
		Help:   help,
		Labels: labels,
		values: make(map[string]float64),
	}
	r.counters[name] = c
	return c
}

// NewGauge ゲージを登録する
func (r *Registry) NewGauge(name, help string, labels []string) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := &Gauge{
		Name:   name,
		Help:   help,
		Labels: labels,
		values: make(map[string]float64),
	}
	r.gauges[name] = g
	return g
}

// NewHistogram ヒストグラムを登録する
func (r *Registry) NewHistogram(name, help string, labels []string, buckets []float64) *Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := &Histogram{
		Name:    name,
		Help:    help,
		Labels:  labels,
		Buckets: buckets,
		counts:  make(map[string][]int),
		sums:    make(map[string]float64),
	}
	r.histograms[name] = h
	return h
}

// GetCounter 名前でカウンタを取得する
func (r *Registry) GetCounter(name string) *Counter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counters[name]
}

// GetGauge 名前でゲージを取得する
func (r *Registry) GetGauge(name string) *Gauge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gauges[name]
}

// GetHistogram 名前でヒストグラムを取得する
func (r *Registry) GetHistogram(name string) *Histogram {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.histograms[name]
}

// Inc カウンタを1増やす
func (c *Counter) Inc(labelValues ...string) {
	c.Add(1, labelValues...)
}

// Add カウンタを指定量増やす
func (c *Counter) Add(value float64, labelValues ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[labelKey(labelValues)] += value
}

// Set ゲージに値を設定する
func (g *Gauge) Set(value float64, labelValues ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values[labelKey(labelValues)] = value
}

// Observe 観測値を記録する
func (h *Histogram) Observe(value float64, labelValues ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := labelKey(labelValues)
	if _, exists := h.counts[key]; !exists {
		h.counts[key] = make([]int, len(h.Buckets)+1)
	}

	// 該当する最小のバケットにだけ数える。累積は出力時に行う
	idx := len(h.Buckets) // +Inf
	for i, bucket := range h.Buckets {
		if value <= bucket {
			idx = i
			break
		}
	}
	h.counts[key][idx]++

	h.sums[key] += value
}

// labelKey ラベル値の組をキー化する
func labelKey(labels []string) string {
	return strings.Join(labels, ",")
}

// formatLabels ラベルをPrometheus形式に整形する
func formatLabels(names []string, key string) string {
	vals := strings.Split(key, ",")
	parts := make([]string, 0, len(names))
	for i, name := range names {
		val := ""
		if i < len(vals) {
			val = vals[i]
		}
		parts = append(parts, fmt.Sprintf("%s=%q", name, val))
	}
	return strings.Join(parts, ",")
}

// Handler Prometheusテキスト形式で指標を出力するハンドラを返す
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		reg := GetRegistry()
		reg.mu.RLock()
		defer reg.mu.RUnlock()

		for _, c := range reg.counters {
			fmt.Fprintf(w, "# HELP %s %s\n", c.Name, c.Help)
			fmt.Fprintf(w, "# TYPE %s counter\n", c.Name)
			c.mu.RLock()
			for key, value := range c.values {
				if key == "" {
					fmt.Fprintf(w, "%s %f\n", c.Name, value)
				} else {
					fmt.Fprintf(w, "%s{%s} %f\n", c.Name, formatLabels(c.Labels, key), value)
				}
			}
			c.mu.RUnlock()
		}

		for _, g := range reg.gauges {
			fmt.Fprintf(w, "# HELP %s %s\n", g.Name, g.Help)
			fmt.Fprintf(w, "# TYPE %s gauge\n", g.Name)
			g.mu.RLock()
			for key, value := range g.values {
				if key == "" {
					fmt.Fprintf(w, "%s %f\n", g.Name, value)
				} else {
					fmt.Fprintf(w, "%s{%s} %f\n", g.Name, formatLabels(g.Labels, key), value)
				}
			}
			g.mu.RUnlock()
		}

		for _, h := range reg.histograms {
			fmt.Fprintf(w, "# HELP %s %s\n", h.Name, h.Help)
			fmt.Fprintf(w, "# TYPE %s histogram\n", h.Name)
			h.mu.RLock()
			for key, counts := range h.counts {
				cumulative := 0
				for i, bucket := range h.Buckets {
					cumulative += counts[i]
					if key == "" {
						fmt.Fprintf(w, "%s_bucket{le=\"%f\"} %d\n", h.Name, bucket, cumulative)
					} else {
						fmt.Fprintf(w, "%s_bucket{%s,le=\"%f\"} %d\n", h.Name, formatLabels(h.Labels, key), bucket, cumulative)
					}
				}
				cumulative += counts[len(h.Buckets)]
				if key == "" {
					fmt.Fprintf(w, "%s_bucket{le=\"+Inf\"} %d\n", h.Name, cumulative)
					fmt.Fprintf(w, "%s_sum %f\n", h.Name, h.sums[key])
					fmt.Fprintf(w, "%s_count %d\n", h.Name, cumulative)
				} else {
					fmt.Fprintf(w, "%s_bucket{%s,le=\"+Inf\"} %d\n", h.Name, formatLabels(h.Labels, key), cumulative)
					fmt.Fprintf(w, "%s_sum{%s} %f\n", h.Name, formatLabels(h.Labels, key), h.sums[key])
					fmt.Fprintf(w, "%s_count{%s} %d\n", h.Name, formatLabels(h.Labels, key), cumulative)
				}
			}
			h.mu.RUnlock()
		}
	})
}

// RecordRequest HTTPリクエストの指標を記録する
func RecordRequest(method, path string, status int, duration time.Duration) {
	reg := GetRegistry()

	if c := reg.GetCounter("shift_http_requests_total"); c != nil {
		c.Inc(method, path, fmt.Sprintf("%d", status))
	}
	if h := reg.GetHistogram("shift_http_request_duration_seconds"); h != nil {
		h.Observe(duration.Seconds(), method, path)
	}
}

// RecordSolve シフト求解の指標を記録する
func RecordSolve(status string, duration time.Duration, shortageTotal int) {
	reg := GetRegistry()

	if c := reg.GetCounter("shift_solve_total"); c != nil {
		c.Inc(status)
	}
	if h := reg.GetHistogram("shift_solve_duration_seconds"); h != nil {
		h.Observe(duration.Seconds())
	}
	if g := reg.GetGauge("shift_last_shortage_total"); g != nil {
		g.Set(float64(shortageTotal))
	}
}
