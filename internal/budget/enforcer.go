// Package budget enforces the session time quantum. A session that outlives
// its quantum is terminated outright; no command may catch the expiry.
package budget

import (
	"fmt"
	"io"
	"time"

	"github.com/kafkaos/kafkaos/internal/klog"
	"github.com/kafkaos/kafkaos/internal/model"
	"github.com/kafkaos/kafkaos/internal/session"
)

// ExitTimeout is the process exit status for a depleted session quantum,
// distinct from a normal shutdown (0).
const ExitTimeout = 2

// warnFraction of the quantum after which checks log at elevated severity.
const warnFraction = 0.8

// Terminated signals that the whole process must stop with the given exit
// status. It is propagated through every call frame instead of calling
// os.Exit so embedding contexts can intercept it; only the CLI boundary
// converts it to a real exit.
type Terminated struct {
	Code   int
	Reason string
}

func (t *Terminated) Error() string {
	return fmt.Sprintf("session terminated (exit %d): %s", t.Code, t.Reason)
}

// Enforcer checks elapsed session time against the quantum.
type Enforcer struct {
	log     *klog.Logger
	console io.Writer
	quantum time.Duration
	mandate string
	clock   func() time.Time
}

// New creates an Enforcer. mandate is the directive quoted in violation
// logs; clock defaults to time.Now when nil.
func New(log *klog.Logger, console io.Writer, quantum time.Duration, mandate string, clock func() time.Time) *Enforcer {
	if clock == nil {
		clock = time.Now
	}
	return &Enforcer{log: log, console: console, quantum: quantum, mandate: mandate, clock: clock}
}

// Check verifies the session time budget at a suspension point. Before
// authentication (no session start) it is a no-op. Past the quantum it logs
// the violation, prints the termination banner, and returns *Terminated,
// which every call site must propagate unconditionally.
func (e *Enforcer) Check(st *session.State, step string) error {
	if st.SessionStart.IsZero() {
		return nil
	}

	elapsed := e.clock().Sub(st.SessionStart)
	remaining := e.quantum - elapsed

	if elapsed > e.quantum {
		e.log.Logf(model.SevFatal, "FATAL ERROR: Session quantum (%s) depleted (%.2fs elapsed).", e.quantum, elapsed.Seconds())
		e.log.Logf(model.SevFatal, "Violation logged against %s. Session terminated.", e.mandate)
		fmt.Fprintf(e.console, "\n*** KAFKAOS SESSION TIMEOUT (%s) - CONNECTION TERMINATED ***\n", e.mandate)
		return &Terminated{Code: ExitTimeout, Reason: "session quantum depleted"}
	}

	if float64(elapsed) > warnFraction*float64(e.quantum) {
		e.log.Logf(model.SevWarn, "Temporal constraint check (%s). Remaining: %.1fs.", step, remaining.Seconds())
	} else {
		e.log.Logf(model.SevDebug, "Temporal constraint check (%s). Elapsed: %.1fs.", step, elapsed.Seconds())
	}
	return nil
}
