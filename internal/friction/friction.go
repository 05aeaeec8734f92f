// Package friction models the procedural drag a growing audit backlog puts
// on every operation: above a threshold, each protocol step pays one extra
// synthetic delay.
package friction

import (
	"time"

	"github.com/kafkaos/kafkaos/internal/klog"
	"github.com/kafkaos/kafkaos/internal/model"
	"github.com/kafkaos/kafkaos/internal/session"
)

// Model applies backlog-driven delay. Below the threshold Apply is a no-op.
type Model struct {
	log       *klog.Logger
	threshold int
	delay     time.Duration
	sleep     func(time.Duration)
}

// New creates a friction model. sleep may be nil, which disables the delay
// but keeps the log line (useful in tests and fast mode).
func New(log *klog.Logger, threshold int, delay time.Duration, sleep func(time.Duration)) *Model {
	return &Model{log: log, threshold: threshold, delay: delay, sleep: sleep}
}

// Apply pays the friction cost for one protocol step.
func (m *Model) Apply(st *session.State, reason string) {
	if st.Backlog <= m.threshold {
		return
	}
	m.log.Logf(model.SevWarn, "Applying procedural friction due to high audit backlog (%d). Reason: %s.", st.Backlog, reason)
	if m.sleep != nil {
		m.sleep(m.delay)
	}
}
