// Package audit implements the forwarding side of the oversight apparatus:
// every notable event is "forwarded for review" to a named entity, the
// session backlog counter grows by one, and nothing is ever acknowledged as
// resolved. An optional hash-chained JSONL sink records the trail on disk.
package audit

import (
	"time"

	"github.com/kafkaos/kafkaos/internal/klog"
	"github.com/kafkaos/kafkaos/internal/model"
	"github.com/kafkaos/kafkaos/internal/session"
)

// Forwarder raises forwarding events. Forward always succeeds and always
// increments the backlog by exactly one; there is no decrement.
type Forwarder struct {
	log   *klog.Logger
	sink  *Chain
	sleep func(time.Duration)
	delay time.Duration
}

// NewForwarder creates a Forwarder. sink may be nil (no on-disk trail);
// sleep may be nil (no pacing).
func NewForwarder(log *klog.Logger, sink *Chain, delay time.Duration, sleep func(time.Duration)) *Forwarder {
	return &Forwarder{log: log, sink: sink, sleep: sleep, delay: delay}
}

// Forward routes an event to its review entity and grows the backlog.
func (f *Forwarder) Forward(st *session.State, cat model.Category, contextRef, detail string) {
	reviewer := Reviewer(cat)
	forwardID := "KOS-FWD-" + string(cat) + "-" + session.ShortRef(8)

	f.log.Logf(model.SevInfo, "AUDIT: Forwarding %s (Ref: %s) to '%s'. ID: %s", detail, contextRef, reviewer, forwardID)
	st.Backlog++
	if f.sleep != nil {
		f.sleep(f.delay)
	}
	f.log.Logf(model.SevInfo, "AUDIT: Ack received from '%s'. Pending Reviews: %d", reviewer, st.Backlog)

	if f.sink != nil {
		// Sink failures must not surface into command flow; the trail is
		// fire-and-forget like the log sink itself.
		_ = f.sink.Record(Entry{
			Category:   string(cat),
			Reviewer:   reviewer,
			ContextRef: contextRef,
			Detail:     detail,
			ForwardID:  forwardID,
			Backlog:    st.Backlog,
		})
	}
}
