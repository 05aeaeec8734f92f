// Package verify implements the intent verification protocol: the
// multi-step challenge every privileged command must clear before it runs.
// The sequence is terminal on first failure: a failed step aborts the
// command with no later step attempted.
package verify

import (
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

// StepState is the tri-state outcome of one protocol step.
type StepState int

const (
	StepSkipped StepState = iota
	StepPassed
	StepFailed
)

// Request describes the verification a command demands.
type Request struct {
	Command         string
	RequiresPurpose bool
	PurposeCode     string
	RequiresReauth  bool
}

// Outcome reports the per-step results of one protocol run. OK is the
// conjunction of all required steps.
type Outcome struct {
	Confirmation StepState
	Purpose      StepState
	Reauth       StepState
	OK           bool
	FailReason   string
}

// Protocol runs the intent verification sequence.
type Protocol struct {
	log       *klog.Logger
	budget    *budget.Enforcer
	friction  *friction.Model
	checks    *checks.Runner
	forwarder *audit.Forwarder
	prompt    PromptFunc
	phrase    string
	shortD    time.Duration
	mediumD   time.Duration
}

// New creates a Protocol. phrase is the exact confirmation phrase demanded
// in step one.
func New(log *klog.Logger, b *budget.Enforcer, fr *friction.Model, ck *checks.Runner, fwd *audit.Forwarder, prompt PromptFunc, phrase string, shortD, mediumD time.Duration) *Protocol {
	return &Protocol{
		log: log, budget: b, friction: fr, checks: ck, forwarder: fwd,
		prompt: prompt, phrase: phrase, shortD: shortD, mediumD: mediumD,
	}
}

// Verify runs the protocol for one command. A non-nil error is either a
// *budget.Terminated or a prompt failure and must be propagated; a nil
// error with Outcome.OK == false means the command is aborted with the
// session state otherwise unchanged.
func (p *Protocol) Verify(st *session.State, req Request) (Outcome, error) {
	var out Outcome
	p.log.Logf(model.SevInfo, "PROC_VERIFY: Initiating Intent Verification Protocol for '%s'.", req.Command)

	if err := p.budget.Check(st, "Intent Verification for "+req.Command); err != nil {
		return out, err
	}
	p.friction.Apply(st, "Intent Verification Start")

	// Step 1: confirmation phrase, exact match required.
	confirm, err := p.prompt("Verify intent for '" + req.Command + "'. Type EXACTLY '" + p.phrase + "'")
	if err != nil {
		return out, err
	}
	if confirm != p.phrase {
		p.log.Logf(model.SevError, "PROC_VERIFY: Failed - Incorrect or incomplete confirmation phrase.")
		out.Confirmation = StepFailed
		out.FailReason = "confirmation phrase mismatch"
		return out, nil
	}
	out.Confirmation = StepPassed
	p.log.Logf(model.SevInfo, "PROC_VERIFY: Confirmation phrase validated.")
	p.checks.Run("Intent Confirmation Logging", p.shortD)

	// Step 2: purpose code validation.
	if req.RequiresPurpose {
		if err := p.budget.Check(st, "Purpose Code for "+req.Command); err != nil {
			return out, err
		}
		p.log.Logf(model.SevInfo, "PROC_VERIFY: Validating provided Purpose Code '%s' against JCAS.", req.PurposeCode)
		ok, ref := p.checks.Run("Purpose Code Validation Against Mandate Matrix", p.mediumD)
		if !ok {
			p.log.Logf(model.SevError, "PROC_VERIFY: Failed - Purpose code validation failed.")
			out.Purpose = StepFailed
			out.FailReason = "purpose code validation failed"
			return out, nil
		}
		out.Purpose = StepPassed
		p.log.Logf(model.SevInfo, "PROC_VERIFY: Purpose Code validation successful (Ref: %s).", ref)
		p.forwarder.Forward(st, model.CatPurposeValidation, req.Command+"-"+req.PurposeCode, "Purpose Code Audit")
	}

	// Step 3: secondary authentication.
	if req.RequiresReauth && st.Authenticated {
		if err := p.budget.Check(st, "Re-authentication for "+req.Command); err != nil {
			return out, err
		}
		p.log.Logf(model.SevWarn, "PROC_VERIFY: Secondary authentication challenge required via PAMV.")
		reauth, err := p.prompt("Re-enter primary User ID ('" + st.Identity + "') to confirm identity")
		if err != nil {
			return out, err
		}
		if reauth != st.Identity {
			p.log.Logf(model.SevError, "PROC_VERIFY: Failed - Secondary authentication identity mismatch.")
			p.forwarder.Forward(st, model.CatReAuth, req.Command+"-FAIL", "Re-Authentication Failure")
			out.Reauth = StepFailed
			out.FailReason = "re-authentication identity mismatch"
			return out, nil
		}
		out.Reauth = StepPassed
		p.log.Logf(model.SevInfo, "PROC_VERIFY: Secondary authentication successful.")
		p.checks.Run("Re-authentication PAM Credential Check", p.mediumD)
		p.forwarder.Forward(st, model.CatReAuth, req.Command+"-OK", "Re-Authentication Success")
	}

	p.friction.Apply(st, "Intent Verification Complete")

	p.log.Logf(model.SevInfo, "PROC_VERIFY: Intent Verification Protocol for '%s' completed successfully.", req.Command)
	p.forwarder.Forward(st, model.CatCmdIntent, req.Command+"-"+session.ShortRef(4), "Command Intent Verification Complete")
	out.OK = true
	return out, nil
}
