// Package metrics keeps process-local rewrite counters and the AI latency
// histogram, rendered in Prometheus text format.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

type counter struct {
	name  string
	help  string
	value atomic.Uint64
}

var counters []*counter

func newCounter(name, help string) *counter {
	c := &counter{name: name, help: help}
	counters = append(counters, c)
	return c
}

var (
	rewriteStarted   = newCounter("rewrite_started_total", "Rewrites that passed the cooldown check")
	rewriteCompleted = newCounter("rewrite_completed_total", "Rewrites whose usage was recorded")
	rewriteFailed    = newCounter("rewrite_failed_total", "Rewrites that failed after starting")
	rateLimited      = newCounter("rate_limited_total", "Rewrites refused by the cooldown")

	aiCallDuration = newHistogram("ai_call_duration_ms", "AI call duration in milliseconds",
		[]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

func IncRewriteStarted()   { rewriteStarted.value.Add(1) }
func IncRewriteCompleted() { rewriteCompleted.value.Add(1) }
func IncRewriteFailed()    { rewriteFailed.value.Add(1) }
func IncRateLimited()      { rateLimited.value.Add(1) }

// ObserveAICallDuration records one AI call.
func ObserveAICallDuration(d time.Duration) {
	aiCallDuration.Observe(max(float64(d)/float64(time.Millisecond), 0))
}

// Handler serves Render as text/plain.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render writes every counter followed by the histogram.
func Render() string {
	var b strings.Builder
	for _, c := range counters {
		fmt.Fprintf(&b, "# HELP %s %s\n# TYPE %s counter\n%s %d\n", c.name, c.help, c.name, c.name, c.value.Load())
	}
	aiCallDuration.render(&b)
	return b.String()
}

type histogram struct {
	name    string
	help    string
	mu      sync.Mutex
	bounds  []float64
	buckets []uint64
	sum     float64
	count   uint64
}

func newHistogram(name, help string, bounds []float64) *histogram {
	return &histogram{name: name, help: help, bounds: bounds, buckets: make([]uint64, len(bounds))}
}

func (h *histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += v
	for i, bound := range h.bounds {
		if v <= bound {
			h.buckets[i]++
			return
		}
	}
}

// render writes cumulative buckets under the lock.
func (h *histogram) render(w io.Writer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s histogram\n", h.name, h.help, h.name)
	var cumulative uint64
	for i, bound := range h.bounds {
		cumulative += h.buckets[i]
		fmt.Fprintf(w, "%s_bucket{le=%q} %d\n", h.name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(w, "%s_bucket{le=\"+Inf\"} %d\n", h.name, h.count)
	fmt.Fprintf(w, "%s_sum %s\n%s_count %d\n", h.name, formatFloat(h.sum), h.name, h.count)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
