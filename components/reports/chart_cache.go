package reports

import (
	"fmt"
	"hash/fnv"
	"io"
	"slices"
	"strconv"
	"sync"
	"time"
)

// RenderCache memoizes chart markup by render key.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// ChartKey identifies one chart render: kind, height, theme and a digest of
// the plotted data. Metric series are folded in sorted order so map
// iteration never changes the key.
func ChartKey(req ChartRequest) string {
	digest := fnv.New64a()
	field := func(s string) {
		_, _ = io.WriteString(digest, s)
		_, _ = digest.Write([]byte{0})
	}

	field(req.Title)
	field(strconv.Itoa(len(req.Series.Labels)))
	for _, label := range req.Series.Labels {
		field(label)
	}
	metrics := make([]Metric, 0, len(req.Series.Values))
	for metric := range req.Series.Values {
		metrics = append(metrics, metric)
	}
	slices.Sort(metrics)
	for _, metric := range metrics {
		points := req.Series.Values[metric]
		field(string(metric))
		field(strconv.Itoa(len(points)))
		for _, v := range points {
			field(strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	return fmt.Sprintf("%s/%d/%s/%016x", req.Chart, req.Height, req.Theme, digest.Sum64())
}

// ChartCache holds rendered chart markup for a fixed TTL. Stale charts are
// dropped on lookup and swept whenever a new chart is stored.
type ChartCache struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	charts map[string]renderedChart
}

type renderedChart struct {
	markup     string
	renderedAt time.Time
}

// NewChartCache builds a cache with the provided TTL. A non-positive TTL disables caching.
func NewChartCache(ttl time.Duration) *ChartCache {
	return &ChartCache{ttl: ttl, now: time.Now, charts: map[string]renderedChart{}}
}

// GetOrRender serves a fresh chart for key or renders one. Failed renders are not kept.
func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if !c.enabled() {
		return render()
	}
	if markup, ok := c.lookup(key); ok {
		return markup, nil
	}
	markup, err := render()
	if err != nil {
		return "", err
	}
	c.store(key, markup)
	return markup, nil
}

// Purge drops every cached chart.
func (c *ChartCache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.charts)
}

// Len reports how many cached charts are still fresh.
func (c *ChartCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	fresh := 0
	for _, chart := range c.charts {
		if !c.stale(chart, now) {
			fresh++
		}
	}
	return fresh
}

func (c *ChartCache) enabled() bool {
	return c != nil && c.ttl > 0
}

func (c *ChartCache) stale(chart renderedChart, now time.Time) bool {
	return now.Sub(chart.renderedAt) >= c.ttl
}

func (c *ChartCache) lookup(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	chart, ok := c.charts[key]
	if !ok {
		return "", false
	}
	if c.stale(chart, c.now()) {
		delete(c.charts, key)
		return "", false
	}
	return chart.markup, true
}

func (c *ChartCache) store(key, markup string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, chart := range c.charts {
		if c.stale(chart, now) {
			delete(c.charts, k)
		}
	}
	c.charts[key] = renderedChart{markup: markup, renderedAt: now}
}
