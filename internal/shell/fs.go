package shell

import (
	"fmt"

	"github.com/kafkaos/kafkaos/internal/model"
	"github.com/kafkaos/kafkaos/internal/verify"
)

// handleLS lists a simulated directory. The required --view-mode depends on
// the current minute's parity, and the purpose code is mandatory.
func (s *Shell) handleLS(args Args, positional []string) error {
	if !s.state.Authenticated {
		s.log.Logf(model.SevError, "Operation requires authentication. Use 'klogin'.")
		return nil
	}

	if err := s.budget.Check(s.state, "Filesystem Operation (kls)"); err != nil {
		return err
	}

	if res := s.mandate.Evaluate(s.state, model.ClearanceFilesystem); !res.Allowed {
		s.log.Logf(model.SevWarn, "Filesystem operation blocked by current operational mandate.")
		return nil
	}

	target := s.state.Cwd
	if len(positional) > 0 {
		target = positional[0]
	}

	// Required mode flips with the minute: audit on even minutes.
	minute := s.clock().Minute()
	expectedMode := "standard"
	if minute%2 == 0 {
		expectedMode = "audit"
	}
	providedMode := args.Get("view-mode")
	if providedMode != expectedMode {
		s.log.Logf(model.SevError, "Procedural error: Required '--view-mode=%s' for current temporal context (Minute: %d). Found: '%s'. Command rejected.", expectedMode, minute, providedMode)
		return nil
	}

	purpose := args.Get("p", "purpose")
	if purpose != s.cfg.PurposeFS {
		s.log.Logf(model.SevError, "Procedural error: Requires '-p %s' or '--purpose=%s'. Found: '%s'. Command rejected.", s.cfg.PurposeFS, s.cfg.PurposeFS, purpose)
		return nil
	}

	out, err := s.verifier.Verify(s.state, verify.Request{
		Command:         fmt.Sprintf("kls %s --view-mode=%s", target, expectedMode),
		RequiresPurpose: true,
		PurposeCode:     s.cfg.PurposeFS,
	})
	if err != nil {
		return err
	}
	if !out.OK {
		s.log.Logf(model.SevWarn, "Command aborted due to failed intent verification.")
		return nil
	}

	s.log.Logf(model.SevInfo, "Querying directory manifest for '%s' (Mode: %s)...", target, expectedMode)
	ok, ref := s.checks.Run("Filesystem Index Scan & ACL Check", msDur(s.cfg.Delays.CheckMediumMS))
	if !ok {
		s.log.Logf(model.SevError, "Directory manifest query failed for '%s'. Check permissions or path.", target)
		return nil
	}

	s.printListing(target, expectedMode, ref)
	s.log.Logf(model.SevInfo, "Directory manifest query completed.")
	s.forwarder.Forward(s.state, model.CatFSAccess, fmt.Sprintf("kls:%s:%s", target, expectedMode), "Directory List Event")
	return nil
}

func (s *Shell) printListing(target, mode, ref string) {
	c := s.console
	rule := "-----------------------------------------------------------------------------------------------------"
	fmt.Fprintf(c, "\nDirectory Listing: %s (Mode: %s, Ref: %s)\n", target, mode, ref)
	fmt.Fprintln(c, "Permissions  Owner       Group       Size      Modified           Name                     KafkaRef")
	fmt.Fprintln(c, rule)
	fmt.Fprintln(c, "-rw-r--r--  SysAdmin    SysAuditor  10248   2025-04-10 11:30   report-Q1-final.doc      FS-DOC-001")
	fmt.Fprintln(c, "-rw-------  SysAdmin    SysAuditor  512340  2025-04-15 09:15   compliance_audit.log     FS-LOG-44B")
	fmt.Fprintln(c, "-rwxr-xr-x  SysAdmin    SysOperator 15360   2025-03-01 16:00   secure_comm_client.app   FS-APP-901")
	fmt.Fprintln(c, "-r--------  SysAdmin    SecReviewer 8192    2025-04-14 18:05   data_packet_MSG-XYZ789   FS-DATA-XYZ")
	if mode == "audit" {
		ts := s.clock().Format("2006-01-02 15:04")
		fmt.Fprintf(c, "-rw-------  SysAdmin    SysAuditor   980    %s   .kls_audit_trail         FS-AUD-KLS\n", ts)
	}
	fmt.Fprintln(c, rule)
	fmt.Fprintln(c)
}
