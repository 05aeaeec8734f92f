package shell

import (
	"fmt"

	"github.com/kafkaos/kafkaos/internal/model"
	"github.com/kafkaos/kafkaos/internal/verify"
)

// handleStatus prints the system status report. Even asking how the system
// is doing requires a compliance flag, a purpose code, and verification.
func (s *Shell) handleStatus(args Args, positional []string) error {
	if !s.state.Authenticated {
		s.log.Logf(model.SevError, "Operation requires authentication. Use 'klogin'.")
		return nil
	}

	if err := s.budget.Check(s.state, "System Status Query"); err != nil {
		return err
	}

	if res := s.mandate.Evaluate(s.state, model.ClearanceSystemInfo); !res.Allowed {
		s.log.Logf(model.SevWarn, "System status query blocked by current operational mandate.")
		return nil
	}

	if !args.Has("compliance-check", "c") {
		s.log.Logf(model.SevError, "Procedural error: 'kstatus' requires '--compliance-check' or '-c' flag.")
		return nil
	}
	purpose := args.Get("p", "purpose")
	if purpose != s.cfg.PurposeStatus {
		s.log.Logf(model.SevError, "Procedural error: Requires '-p %s' or '--purpose=%s'. Found: '%s'.", s.cfg.PurposeStatus, s.cfg.PurposeStatus, purpose)
		return nil
	}

	out, err := s.verifier.Verify(s.state, verify.Request{
		Command:         "kstatus -c",
		RequiresPurpose: true,
		PurposeCode:     s.cfg.PurposeStatus,
	})
	if err != nil {
		return err
	}
	if !out.OK {
		s.log.Logf(model.SevWarn, "Command aborted due to failed intent verification.")
		return nil
	}

	s.log.Logf(model.SevInfo, "Initiating System Status Verification Protocol...")
	ok, ref := s.checks.Run("Core System Module Health & Compliance Scan", msDur(s.cfg.Delays.CheckMediumMS))
	if !ok {
		s.log.Logf(model.SevError, "System Status check failed during compliance scan.")
		return nil
	}

	s.friction.Apply(s.state, "Status Report Generation")

	authStatus := "INACTIVE"
	user := "N/A"
	if s.state.Authenticated {
		authStatus = "ACTIVE"
		user = s.state.Identity
	}
	elapsed := 0.0
	if !s.state.SessionStart.IsZero() {
		elapsed = s.clock().Sub(s.state.SessionStart).Seconds()
	}

	c := s.console
	fmt.Fprintln(c, "\n--- KafkaOS System Status Report ---")
	fmt.Fprintf(c, "  Node ID          : %s\n", s.cfg.NodeID)
	fmt.Fprintf(c, "  Location         : %s\n", s.cfg.Location)
	fmt.Fprintf(c, "  Version          : %s\n", s.cfg.Version)
	fmt.Fprintf(c, "  Kernel Status    : Nominal\n")
	fmt.Fprintf(c, "  Auth Status      : %s (User: %s)\n", authStatus, user)
	fmt.Fprintf(c, "  Audit Backlog    : %d items\n", s.state.Backlog)
	fmt.Fprintf(c, "  Session Uptime   : %.1fs / %ds (Mandate: %s)\n", elapsed, s.cfg.QuantumSeconds, s.cfg.QuantumMandate)
	fmt.Fprintf(c, "  Compliance Check : Passed (Ref: %s)\n", ref)
	fmt.Fprintln(c, "----------------------------------")
	fmt.Fprintln(c)

	s.log.Logf(model.SevInfo, "System Status Report generated successfully.")
	s.forwarder.Forward(s.state, model.CatStatusQuery, ref, "System Status Query (-c)")
	return nil
}
