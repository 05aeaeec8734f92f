// Package mandate implements the operational mandate evaluator: the rule
// engine deciding whether a command may proceed at this moment. The rules
// are deliberately capricious (time-of-day and dice-roll based), so two
// identical requests may be judged differently. Callers must treat every
// evaluation as a fresh, non-repeatable judgment and never cache one.
package mandate

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/kafkaos/kafkaos/internal/audit"
	"github.com/kafkaos/kafkaos/internal/friction"
	"github.com/kafkaos/kafkaos/internal/klog"
	"github.com/kafkaos/kafkaos/internal/model"
	"github.com/kafkaos/kafkaos/internal/session"
)

// Source supplies uniform random draws in [0, 1). It is injected so tests
// can substitute a deterministic sequence.
type Source interface {
	Draw() float64
}

// SystemSource draws from math/rand/v2.
type SystemSource struct{}

func (SystemSource) Draw() float64 { return rand.Float64() }

// Evaluator applies the mandate rules in fixed order; the first denial
// short-circuits. Every evaluation pays the friction cost up front, and
// every denial raises an ARBITRARY_LOCKOUT forwarding event.
type Evaluator struct {
	log       *klog.Logger
	clock     func() time.Time
	src       Source
	friction  *friction.Model
	forwarder *audit.Forwarder

	mu     sync.RWMutex
	params Params
}

// New creates an Evaluator. clock defaults to time.Now and src to
// SystemSource when nil.
func New(log *klog.Logger, params Params, fr *friction.Model, fwd *audit.Forwarder, clock func() time.Time, src Source) *Evaluator {
	if clock == nil {
		clock = time.Now
	}
	if src == nil {
		src = SystemSource{}
	}
	return &Evaluator{log: log, clock: clock, src: src, friction: fr, forwarder: fwd, params: params}
}

// Params returns the current rule parameters.
func (e *Evaluator) Params() Params {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.params
}

// SetParams swaps the rule parameters, used by the hot reloader.
func (e *Evaluator) SetParams(p Params) {
	e.mu.Lock()
	e.params = p
	e.mu.Unlock()
}

// Reload re-reads the parameter file and installs the result.
func (e *Evaluator) Reload(path string) error {
	p, err := LoadParams(path)
	if err != nil {
		return err
	}
	e.SetParams(p)
	return nil
}

// Evaluate judges whether an operation with the given clearance may proceed.
func (e *Evaluator) Evaluate(st *session.State, clearance model.Clearance) model.MandateResult {
	p := e.Params()
	now := e.clock()
	minute := now.Minute()

	e.log.Logf(model.SevDebug, "Mandate Check: Verifying operational allowances for clearance '%s'...", clearance)
	e.friction.Apply(st, "Mandate Compliance Check")

	// Rule 1: filesystem access on prime minutes of the designated day.
	if clearance == model.ClearanceFilesystem && now.Weekday() == p.FilesystemDay && isPrime(minute) {
		reason := "Operation Denied: Filesystem access temporarily restricted during prime minute on specified day. Directive FS-TUE-PRIME."
		e.log.Logf(model.SevError, "%s (Minute: %d)", reason, minute)
		e.forwarder.Forward(st, model.CatArbitraryLockout, "FS-PRIME", "Operational Denial Event")
		return model.MandateResult{ReasonCode: model.ReasonFSPrimeMinute, Reason: reason}
	}

	// Rule 2: probabilistic lockout under excessive audit backlog.
	if st.Backlog > p.BacklogLockoutThreshold && e.src.Draw() < p.BacklogDenyChance {
		reason := "Operation Denied: System temporarily locked for critical operations due to excessive audit backlog. Mandate AUDIT-BACKLOG-LOCK."
		e.log.Logf(model.SevError, "%s (Backlog: %d)", reason, st.Backlog)
		e.forwarder.Forward(st, model.CatArbitraryLockout, "BACKLOG", "Operational Denial Event")
		return model.MandateResult{ReasonCode: model.ReasonBacklogLock, Reason: reason}
	}

	// Rule 3: random compliance spot-check.
	if e.src.Draw() < p.SpotCheckChance {
		reason := "Operation Denied: Random compliance spot-check failed. Please retry command."
		e.log.Logf(model.SevError, "%s (Ref: SPOT-%s)", reason, session.ShortRef(4))
		e.forwarder.Forward(st, model.CatArbitraryLockout, "SPOTCHECK-FAIL", "Operational Denial Event")
		return model.MandateResult{ReasonCode: model.ReasonSpotCheckFailed, Reason: reason}
	}

	e.log.Logf(model.SevDebug, "Operational mandate check passed for clearance '%s'.", clearance)
	return model.MandateResult{Allowed: true}
}

// isPrime reports primality by trial division; minutes below 2 are never
// prime.
func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for i := 2; i*i <= n; i++ {
		if n%i == 0 {
			return false
		}
	}
	return true
}
