// Package checks runs the simulated subsystem checks that pad out every
// privileged operation. A check consumes time, produces a reference code,
// and reports pass/fail. The default outcome is always pass; the failure
// branch stays pluggable so callers keep a real failure path.
package checks

import (
	"strings"
	"time"

	"github.com/kafkaos/kafkaos/internal/klog"
	"github.com/kafkaos/kafkaos/internal/model"
	"github.com/kafkaos/kafkaos/internal/session"
)

// Runner performs simulated checks.
type Runner struct {
	log     *klog.Logger
	sleep   func(time.Duration)
	outcome func(name string) bool
}

// New creates a Runner. outcome may be nil, in which case every check
// passes; sleep may be nil.
func New(log *klog.Logger, sleep func(time.Duration), outcome func(name string) bool) *Runner {
	return &Runner{log: log, sleep: sleep, outcome: outcome}
}

// Run performs one named check of the given base duration. It returns
// whether the check passed and a verification reference code.
func (r *Runner) Run(name string, base time.Duration) (bool, string) {
	r.log.Logf(model.SevInfo, "Subsystem Check: Initiating %s...", name)
	if r.sleep != nil {
		r.sleep(base)
	}

	ref := refCode(name)
	ok := true
	if r.outcome != nil {
		ok = r.outcome(name)
	}
	if ok {
		r.log.Logf(model.SevInfo, "Subsystem Check: %s completed. Status: OK. Ref: %s", name, ref)
	} else {
		r.log.Logf(model.SevError, "Subsystem Check: %s completed. Status: FAILED. Ref: %s", name, ref)
	}
	return ok, ref
}

// refCode derives a verification reference from the check name, e.g.
// "PAM Credential Check" -> "PAM-3F01C2".
func refCode(name string) string {
	prefix := name
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return strings.ToUpper(prefix) + "-" + session.ShortRef(6)
}
