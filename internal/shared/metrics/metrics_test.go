package metrics

import (
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 || snap.sum != 555 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	var sb strings.Builder
	var cumulative uint64
	for i := range snap.buckets {
		cumulative += snap.counts[i]
		sb.WriteString(formatFloat(snap.buckets[i]))
		sb.WriteString("=")
		sb.WriteString(formatFloat(float64(cumulative)))
		sb.WriteString(" ")
	}
	if got := sb.String(); got != "10=1 100=2 " {
		t.Fatalf("unexpected cumulative buckets: %q", got)
	}
}

func TestRenderIncludesCounters(t *testing.T) {
	IncSignup()
	IncLoginFailed()
	out := Render()
	for _, name := range []string{
		"# TYPE auth_signup_total counter",
		"# TYPE auth_login_failed_total counter",
		"# TYPE http_request_duration_ms histogram",
		"http_request_duration_ms_bucket{le=\"+Inf\"}",
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("render missing %q:\n%s", name, out)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	if got := formatFloat(2.5); got != "2.5" {
		t.Fatalf("got %q", got)
	}
	if got := formatFloat(100); got != "100" {
		t.Fatalf("got %q", got)
	}
}
