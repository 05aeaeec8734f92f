package shell

import (
	"fmt"

	"github.com/kafkaos/kafkaos/internal/budget"
	"github.com/kafkaos/kafkaos/internal/model"
	"github.com/kafkaos/kafkaos/internal/verify"
)

// handleHalt services khalt, shutdown, and exit. The authenticated path
// demands verification with re-auth plus a time-derived authorization code;
// --force (and EOF, via Run) bypasses the gates.
func (s *Shell) handleHalt(args Args, positional []string) error {
	s.log.Logf(model.SevWarn, "System Halt Sequence Initiated.")

	forced := args.Has("force", "f")
	if !s.state.Authenticated && !forced {
		s.log.Logf(model.SevError, "Shutdown requires authentication ('klogin') or '--force' / '-f' flag.")
		return nil
	}

	if !forced {
		if err := s.budget.Check(s.state, "System Shutdown Sequence"); err != nil {
			return err
		}

		// The expected code shifts with wall-clock minute and second, so it
		// is stale almost as soon as it is known.
		now := s.clock()
		expected := fmt.Sprintf("%s%02d%d", s.cfg.ShutdownCodeBase, now.Minute(), now.Second()%10)
		provided := args.Get("auth-code")

		out, err := s.verifier.Verify(s.state, verify.Request{
			Command:        "khalt (authenticated)",
			RequiresReauth: true,
		})
		if err != nil {
			return err
		}
		if !out.OK {
			s.log.Logf(model.SevWarn, "Shutdown aborted due to failed intent verification.")
			return nil
		}

		if provided != expected {
			s.log.Logf(model.SevError, "Shutdown authorization failed: Incorrect or missing '--auth-code'. Expected '%s'.", expected)
			return nil
		}
		s.log.Logf(model.SevInfo, "Shutdown authorization code validated.")
	}

	return s.halt(forced)
}

// halt performs the final teardown and returns the normal-exit signal. Also
// the landing point for EOF-triggered emergency halts.
func (s *Shell) halt(forced bool) error {
	s.log.Logf(model.SevInfo, "Performing final compliance checks before system halt...")
	s.checks.Run("Pre-Shutdown Compliance Verification", msDur(s.cfg.Delays.CheckMediumMS))
	s.log.Logf(model.SevInfo, "Flushing critical audit logs to secure persistent storage...")
	s.checks.Run("Audit Log Synchronization", msDur(s.cfg.Delays.CheckLongMS))

	s.forwarder.Forward(s.state, model.CatShutdown, fmt.Sprintf("Forced=%t", forced), "System Halt Event")

	reason := "Authorized Operator Command"
	if forced {
		reason = "Forced Override"
	}
	s.log.Logf(model.SevWarn, "KafkaOS is halting NOW. Reason: %s.", reason)
	fmt.Fprintf(s.console, "\n*** KAFKAOS SYSTEM HALT INITIATED (%s) ***\n", s.clock().Format("2006-01-02 15:04:05.000 MST"))
	s.state.EndSession()
	return &budget.Terminated{Code: 0, Reason: "system halt"}
}
