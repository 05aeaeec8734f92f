package shell

import (
	"fmt"
	"strings"

	"github.com/kafkaos/kafkaos/internal/model"
)

var bootModules = []string{
	"kauth (Authentication Services)",
	"kfs (Filesystem Interface Layer)",
	"kproc (Process Execution Subsystem)",
	"kstatus (System Health Monitor)",
	"khalt (Termination Control)",
	"koversight (Compliance & Oversight Engine)",
}

// Boot runs the boot sequence: banner, module loads, integrity and
// compliance checks, and the BOOT forwarding event.
func (s *Shell) Boot() {
	rule := strings.Repeat("=", 70)
	ts := s.clock().Format("2006-01-02 15:04:05.000")

	fmt.Fprintln(s.console, rule)
	fmt.Fprintf(s.console, "Booting %s...\n", s.cfg.OSName)
	fmt.Fprintf(s.console, "Node Identifier: %s\n", s.cfg.NodeID)
	fmt.Fprintf(s.console, "Operational Sector: %s\n", s.cfg.Location)
	fmt.Fprintf(s.console, "System Timestamp: %s\n", ts)
	fmt.Fprintf(s.console, "Kernel Build: %s\n", s.cfg.Version)
	fmt.Fprintln(s.console, rule)

	s.log.Logf(model.SevSystem, "Boot sequence started.")
	s.checks.Run("Core Kernel Module Integrity Verification", msDur(s.cfg.Delays.CheckMediumMS))
	for _, mod := range bootModules {
		s.log.Logf(model.SevInfo, "Loading Module: %s...", mod)
		if s.sleep != nil {
			s.sleep(msDur(s.cfg.Delays.CheckShortMS))
		}
	}
	s.checks.Run("Initializing Audit & Compliance Subsystems (RCCS)", msDur(s.cfg.Delays.CheckShortMS))
	s.checks.Run("Final Compliance Scan against Mandate Delta-Fragmented", msDur(s.cfg.Delays.CheckLongMS))
	s.log.Logf(model.SevInfo, "Applying session temporal constraints via %s", s.cfg.QuantumMandate)
	s.forwarder.Forward(s.state, model.CatBoot, s.cfg.Version, "System Boot Event")
	s.log.Logf(model.SevSystem, "System boot sequence complete. Awaiting user authentication.")

	fmt.Fprintln(s.console, rule)
	fmt.Fprintf(s.console, "Welcome to %s on %s.\n", s.cfg.OSName, s.cfg.NodeID)
	fmt.Fprintf(s.console, "System time: %s. Location: %s.\n", ts, s.cfg.Location)
	fmt.Fprintf(s.console, "NOTICE: Session duration limited to %ds (%s).\n", s.cfg.QuantumSeconds, s.cfg.QuantumMandate)
	fmt.Fprintln(s.console, "Type 'klogin' to authenticate or 'help' for commands.")
	fmt.Fprintln(s.console, rule)
	fmt.Fprintln(s.console)
}
