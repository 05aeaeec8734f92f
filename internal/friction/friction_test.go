package friction

import (
	"strings"
	"testing"
	"time"

	"github.com/kafkaos/kafkaos/internal/klog"
	"github.com/kafkaos/kafkaos/internal/session"
)

func TestApplyBelowThresholdIsNoop(t *testing.T) {
	var buf strings.Builder
	calls := 0
	m := New(klog.New(&buf, "node"), 5, 800*time.Millisecond, func(time.Duration) { calls++ })

	st := session.New()
	st.Backlog = 5 // at threshold, not above
	m.Apply(st, "Mandate Compliance Check")

	if calls != 0 || buf.Len() != 0 {
		t.Errorf("expected no-op at threshold, got %d sleeps, log %q", calls, buf.String())
	}
}

func TestApplyAboveThreshold(t *testing.T) {
	var buf strings.Builder
	var slept time.Duration
	m := New(klog.New(&buf, "node"), 5, 800*time.Millisecond, func(d time.Duration) { slept = d })

	st := session.New()
	st.Backlog = 6
	m.Apply(st, "Intent Verification Start")

	if slept != 800*time.Millisecond {
		t.Errorf("slept = %s, want 800ms", slept)
	}
	if !strings.Contains(buf.String(), "high audit backlog (6)") {
		t.Errorf("log missing backlog size: %q", buf.String())
	}
}
