// Package reject implements the circular rejection protocol for commands
// the system refuses to recognize. The protocol is a dead end: it runs its
// bounded challenge cycles to completion and always terminates in the same
// accusatory failure. There is no success exit, and none may be added.
package reject

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/kafkaos/kafkaos/internal/audit"
	"github.com/kafkaos/kafkaos/internal/budget"
	"github.com/kafkaos/kafkaos/internal/checks"
	"github.com/kafkaos/kafkaos/internal/friction"
	"github.com/kafkaos/kafkaos/internal/klog"
	"github.com/kafkaos/kafkaos/internal/model"
	"github.com/kafkaos/kafkaos/internal/session"
)

// PromptFunc reads one line of user input for the given prompt.
type PromptFunc func(prompt string) (string, error)

// Reasons is the catalog of pretextual rejection grounds, drawn uniformly.
var Reasons = []string{
	"Command execution conflicts with Temporal Mandate subsection 4(gamma).",
	"Insufficient Justification Quotient (JQ) for requested operation.",
	"Potential resource contention flagged by Predictive Allocation Subsystem (PAS).",
	"Command signature deviates from registered KOS-native secure execution profile.",
	"Pending Compliance Audit prohibits non-KafkaOS native commands at this time.",
	"Operation deemed 'Non-Essential' under Resource Conservation Directive RC-9.",
	"Command string contains patterns identified as 'Anomalous User Behavior'.",
	"Cross-referencing with User Profile Mandate UPM-11b revealed non-compliance.",
}

// nativeRejected lists common foreign commands recognized as such, so the
// denial can name them a "non-native command attempt" rather than noise.
var nativeRejected = map[string]bool{
	"cd": true, "pwd": true, "mkdir": true, "rmdir": true, "rm": true,
	"cp": true, "mv": true, "cat": true, "less": true, "more": true,
	"head": true, "tail": true, "grep": true, "find": true, "ps": true,
	"kill": true, "top": true, "df": true, "du": true, "chmod": true,
	"chown": true, "ssh": true, "scp": true, "wget": true, "curl": true,
	"ping": true, "ifconfig": true, "ip": true, "netstat": true,
	"sudo": true, "su": true, "man": true, "apt": true, "yum": true,
	"dnf": true, "nano": true, "vim": true, "emacs": true,
}

// IsKnownForeign reports whether the command is a recognized foreign
// (non-KOS) command as opposed to arbitrary noise.
func IsKnownForeign(command string) bool {
	return nativeRejected[strings.ToLower(command)]
}

// Protocol runs the circular rejection sequence.
type Protocol struct {
	log       *klog.Logger
	console   io.Writer
	budget    *budget.Enforcer
	friction  *friction.Model
	checks    *checks.Runner
	forwarder *audit.Forwarder
	prompt    PromptFunc
	pick      func(n int) int
	sleep     func(time.Duration)
	maxCycles int
	shortD    time.Duration
	mediumD   time.Duration
}

// New creates a Protocol. pick selects the rejection reason index and
// defaults to a uniform draw when nil; sleep may be nil.
func New(log *klog.Logger, console io.Writer, b *budget.Enforcer, fr *friction.Model, ck *checks.Runner, fwd *audit.Forwarder, prompt PromptFunc, maxCycles int, shortD, mediumD time.Duration, pick func(n int) int, sleep func(time.Duration)) *Protocol {
	if pick == nil {
		pick = rand.IntN
	}
	return &Protocol{
		log: log, console: console, budget: b, friction: fr, checks: ck,
		forwarder: fwd, prompt: prompt, pick: pick, sleep: sleep,
		maxCycles: maxCycles, shortD: shortD, mediumD: mediumD,
	}
}

// RejectAndChallenge denies a command and drags the user through the full
// verification cycle count. It never results in command execution; a nil
// return means the protocol ran to its terminal failure and the command
// loop may continue. The only non-nil errors are *budget.Terminated and
// prompt failures.
func (p *Protocol) RejectAndChallenge(st *session.State, command, originalLine string) error {
	if IsKnownForeign(command) {
		p.log.Logf(model.SevWarn, "Detected non-native command attempt: '%s'. Initiating Rejection Protocol RP-LNX-1.", command)
	} else {
		p.log.Logf(model.SevWarn, "Unrecognized instruction: '%s'. Initiating Rejection Protocol RP-LNX-1.", command)
	}
	if err := p.budget.Check(st, "Non-Native Command Rejection"); err != nil {
		return err
	}

	reason := Reasons[p.pick(len(Reasons))]
	p.log.Logf(model.SevError, "COMMAND REJECTED: %s (Ref: REJ-%s)", reason, session.ShortRef(6))
	p.friction.Apply(st, "Non-Native Command Handling")

	p.log.Logf(model.SevWarn, "Initiating Mandatory Verification Cycle VMC-Circular-01 to clarify user intent.")

	for cycle := 1; cycle <= p.maxCycles; cycle++ {
		p.log.Logf(model.SevInfo, "Verification Cycle %d of %d commencing.", cycle, p.maxCycles)
		if err := p.budget.Check(st, fmt.Sprintf("Circular Verification Cycle %d", cycle)); err != nil {
			return err
		}

		// Step A: demand a verbatim retype. A mismatch does not end the
		// cycle; it only escalates scrutiny.
		retype, err := p.prompt(fmt.Sprintf("Cycle %d: Re-enter the exact command line attempted ('%s...') for log correlation", cycle, clip(originalLine, 20)))
		if err != nil {
			return err
		}
		if retype != originalLine {
			p.log.Logf(model.SevError, "Verification Failed: Discrepancy in command line re-confirmation. Potential obfuscation detected.")
			p.log.Logf(model.SevWarn, "Logging discrepancy. Continuing verification under elevated scrutiny.")
		} else {
			p.log.Logf(model.SevInfo, "Command line re-confirmation logged for correlation.")
			p.checks.Run("Log Correlation Subroutine", p.shortD)
		}

		// Step B: demand a justification code. A syntactically valid code
		// is still always semantically invalid.
		justification, err := p.prompt(fmt.Sprintf("Cycle %d: Provide Level Gamma Justification Code (Format: GJC-XXXX-YYYY)", cycle))
		if err != nil {
			return err
		}
		if !validCodeFormat(justification) {
			p.log.Logf(model.SevError, "Verification Failed: Invalid Level Gamma Justification Code format.")
		} else {
			p.log.Logf(model.SevInfo, "Justification Code format accepted. Validating against CAAM...")
			if p.sleep != nil {
				p.sleep(p.mediumD)
			}
			p.log.Logf(model.SevError, "Verification Failed: Provided Justification Code not found in Command Allowable Actions Matrix (CAAM) for this context.")
		}

		p.log.Logf(model.SevWarn, "Discrepancy detected during Verification Cycle %d. User intent remains unverified.", cycle)
		p.friction.Apply(st, fmt.Sprintf("Verification Cycle %d Failure", cycle))
		if cycle < p.maxCycles {
			p.log.Logf(model.SevWarn, "Re-initiating verification cycle due to persistent inconsistencies.")
			if p.sleep != nil {
				p.sleep(p.shortD)
			}
		} else {
			p.log.Logf(model.SevWarn, "Maximum verification cycles reached.")
		}
	}

	p.log.Logf(model.SevFatal, "CIRCULAR VERIFICATION FAILED.")
	p.log.Logf(model.SevSecurity, "User input consistently failed validation protocols across multiple cycles.")
	p.log.Logf(model.SevSecurity, "Analysis suggests patterns inconsistent with standard operational procedures.")
	p.log.Logf(model.SevSecurity, "User veracity assessment: NEGATIVE. Subject exhibits patterns indicative of untruthfulness or intentional obfuscation.")

	identity := st.Identity
	if identity == "" {
		identity = "UNKNOWN"
	}
	fmt.Fprintf(p.console, "\n*** KAFKAOS SECURITY ALERT: Verification Failure for command '%s'. Suspected misrepresentation. ***\n", command)
	fmt.Fprintf(p.console, "*** Your actions have been logged and reported to Security Incident Reporting. Reference: SIR-%s ***\n\n", session.ShortRef(8))
	p.forwarder.Forward(st, model.CatSecurityIncident, "CMD:"+command+":VERIF_FAIL",
		fmt.Sprintf("Failed Circular Verification for Non-Native Command '%s' - User '%s'", command, identity))
	p.log.Logf(model.SevError, "Non-native command execution definitively denied.")
	return nil
}

// validCodeFormat checks the GJC-XXXX-YYYY shape. Syntax only; semantic
// validation is unconditionally a failure.
func validCodeFormat(code string) bool {
	return strings.HasPrefix(code, "GJC-") && len(strings.Split(code, "-")) == 3
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
