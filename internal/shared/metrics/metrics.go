package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	signupTotal           atomic.Uint64
	signupConflictTotal   atomic.Uint64
	loginSucceededTotal   atomic.Uint64
	loginFailedTotal      atomic.Uint64
	logoutTotal           atomic.Uint64
	templateDownloadTotal atomic.Uint64

	requestDuration = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500})
)

// IncSignup counts a created account.
func IncSignup() { signupTotal.Add(1) }

// IncSignupConflict counts a signup rejected for a duplicate email.
func IncSignupConflict() { signupConflictTotal.Add(1) }

// IncLoginSucceeded counts a successful login.
func IncLoginSucceeded() { loginSucceededTotal.Add(1) }

// IncLoginFailed counts a rejected login.
func IncLoginFailed() { loginFailedTotal.Add(1) }

// IncLogout counts a logout acknowledgement.
func IncLogout() { logoutTotal.Add(1) }

// IncTemplateDownload counts a template file served.
func IncTemplateDownload() { templateDownloadTotal.Add(1) }

// ObserveRequestDurationMs records a request duration in milliseconds.
func ObserveRequestDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	requestDuration.Observe(value)
}

// Middleware times every request into the request duration histogram.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		ObserveRequestDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	}
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "auth_signup_total", "Accounts created", signupTotal.Load())
	writeCounter(&buf, "auth_signup_conflict_total", "Signups rejected for a registered email", signupConflictTotal.Load())
	writeCounter(&buf, "auth_login_succeeded_total", "Successful logins", loginSucceededTotal.Load())
	writeCounter(&buf, "auth_login_failed_total", "Rejected logins", loginFailedTotal.Load())
	writeCounter(&buf, "auth_logout_total", "Logouts acknowledged", logoutTotal.Load())
	writeCounter(&buf, "template_download_total", "Template files served", templateDownloadTotal.Load())
	writeHistogram(&buf, "http_request_duration_ms", "Request duration in milliseconds", requestDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe files the value under its smallest bucket; Render accumulates.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
