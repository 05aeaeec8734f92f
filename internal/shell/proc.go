package shell

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/kafkaos/kafkaos/internal/model"
	"github.com/kafkaos/kafkaos/internal/session"
	"github.com/kafkaos/kafkaos/internal/verify"
)

// secureCommClient gets a dedicated purpose code and a mandatory packet id.
const secureCommClient = "secure_comm_client.app"

// handleExec simulates a program launch via kexec or ./program. Execution
// demands the full verification protocol including re-authentication.
func (s *Shell) handleExec(args Args, positional []string) error {
	if !s.state.Authenticated {
		s.log.Logf(model.SevError, "Operation requires authentication. Use 'klogin'.")
		return nil
	}

	if err := s.budget.Check(s.state, "Process Execution (kexec)"); err != nil {
		return err
	}

	if res := s.mandate.Evaluate(s.state, model.ClearanceProcessExec); !res.Allowed {
		s.log.Logf(model.SevWarn, "Process execution blocked by current operational mandate.")
		return nil
	}

	if len(positional) == 0 {
		s.log.Logf(model.SevError, "Command error: Program path/name required for 'kexec' or './'.")
		return nil
	}

	programPath := strings.TrimPrefix(positional[0], "./")
	programName := programPath
	if i := strings.LastIndex(programPath, "/"); i >= 0 {
		programName = programPath[i+1:]
	}
	execArgs := positional[1:]

	purpose := args.Get("p", "purpose")
	if purpose == "" {
		s.log.Logf(model.SevError, "Procedural error: Execution requires purpose code via '-p <CODE>' or '--purpose=<CODE>'.")
		return nil
	}

	isSecureComm := programName == secureCommClient
	expectedPurpose := s.cfg.PurposeProc
	if isSecureComm {
		expectedPurpose = s.cfg.PurposeSecureComm
	}
	if purpose != expectedPurpose {
		s.log.Logf(model.SevError, "Procedural error: Incorrect purpose code '%s'. Expected '%s' for '%s'.", purpose, expectedPurpose, programName)
		return nil
	}

	packetID := ""
	if isSecureComm {
		packetID = args.Get("packet-id")
		if packetID == "" {
			s.log.Logf(model.SevError, "Procedural error: Running '%s' requires '--packet-id=<MSG_ID>'.", programName)
			return nil
		}
	}

	out, err := s.verifier.Verify(s.state, verify.Request{
		Command:         "kexec " + programPath,
		RequiresPurpose: true,
		PurposeCode:     expectedPurpose,
		RequiresReauth:  true,
	})
	if err != nil {
		return err
	}
	if !out.OK {
		s.log.Logf(model.SevWarn, "Command aborted due to failed intent verification.")
		return nil
	}

	s.log.Logf(model.SevInfo, "PEAD: Authorizing execution request for '%s' (Purpose: %s)...", programPath, purpose)
	ok, ref := s.checks.Run("Process Launch & Resource Allocation Check for "+programName, msDur(s.cfg.Delays.CheckLongMS))
	if !ok {
		s.log.Logf(model.SevError, "PEAD: Failed to launch program '%s'. Authorization denied. Ref: %s", programName, ref)
		s.forwarder.Forward(s.state, model.CatCmdExec, fmt.Sprintf("kexec:%s:FAIL", programName), "Process Execution Result")
		return nil
	}

	pid := 1000 + rand.IntN(9000)
	s.log.Logf(model.SevInfo, "Program '%s' launched successfully. PID: %d. Ref: %s", programName, pid, ref)
	s.forwarder.Forward(s.state, model.CatProcLaunch, fmt.Sprintf("kexec:%s:PID=%d", programName, pid), "Process Launch Event")

	if s.sleep != nil {
		s.sleep(msDur(s.cfg.Delays.CheckShortMS))
	}
	if isSecureComm {
		s.printSecureComm(pid, ref, packetID)
	} else {
		s.printProgramOutput(pid, programName, execArgs)
	}
	s.log.Logf(model.SevInfo, "Program '%s' (PID: %d) execution sequence finished.", programName, pid)
	s.forwarder.Forward(s.state, model.CatCmdExec, fmt.Sprintf("kexec:%s:PID=%d:OK", programName, pid), "Process Execution Result")
	return nil
}

func (s *Shell) printSecureComm(pid int, ref, packetID string) {
	s.log.Logf(model.SevInfo, "Secure Client (%d): Attempting to access secure data packet '%s'...", pid, packetID)
	if s.sleep != nil {
		s.sleep(msDur(s.cfg.Delays.CheckMediumMS))
	}
	c := s.console
	fmt.Fprintf(c, "\n--- Secure Comm Client (PID: %d, Ref: %s) ---\n", pid, ref)
	fmt.Fprintf(c, "  Accessing Data Packet: %s\n", packetID)
	fmt.Fprintln(c, "  Subject: URGENT: Compliance Sub-Directive 481-C(ii) Reconciliation")
	fmt.Fprintln(c, "  Content: [ENCRYPTED CONTENT DISPLAYED - Refer to KOS-SDVP-1 for details]")
	fmt.Fprintf(c, "  Timestamp: %s\n", s.clock().Format("2006-01-02 15:04:05.000 MST"))
	fmt.Fprintln(c, "------------------------------------------------------------------")
	fmt.Fprintln(c)
	s.log.Logf(model.SevInfo, "Secure Client (%d): Data packet '%s' access logged.", pid, packetID)
}

func (s *Shell) printProgramOutput(pid int, programName string, execArgs []string) {
	c := s.console
	fmt.Fprintf(c, "\n--- Program Output (PID: %d, Name: %s) ---\n", pid, programName)
	fmt.Fprintf(c, "  Simulated execution with args: %v\n", execArgs)
	fmt.Fprintln(c, "  Status: Execution completed nominally.")
	fmt.Fprintf(c, "  Output Stream Ref: %s\n", session.ShortRef(8))
	fmt.Fprintln(c, "----------------------------------------------------------")
	fmt.Fprintln(c)
}
