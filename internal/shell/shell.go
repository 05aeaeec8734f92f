// Package shell owns the interactive session: the prompt loop, the command
// table, and the handlers that thread every privileged command through the
// budget, mandate, verification, and audit machinery.
package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kafkaos/kafkaos/internal/audit"
	"github.com/kafkaos/kafkaos/internal/budget"
	"github.com/kafkaos/kafkaos/internal/checks"
	"github.com/kafkaos/kafkaos/internal/config"
	"github.com/kafkaos/kafkaos/internal/friction"
	"github.com/kafkaos/kafkaos/internal/klog"
	"github.com/kafkaos/kafkaos/internal/mandate"
	"github.com/kafkaos/kafkaos/internal/model"
	"github.com/kafkaos/kafkaos/internal/reject"
	"github.com/kafkaos/kafkaos/internal/session"
	"github.com/kafkaos/kafkaos/internal/verify"
)

// Options wires a Shell's collaborators.
type Options struct {
	Config    *config.Config
	Log       *klog.Logger
	Console   io.Writer
	Input     Input
	State     *session.State
	Budget    *budget.Enforcer
	Mandate   *mandate.Evaluator
	Friction  *friction.Model
	Checks    *checks.Runner
	Forwarder *audit.Forwarder
	Clock     func() time.Time
	Sleep     func(time.Duration)
}

// Shell is the interactive session driver. One Shell owns one State for the
// process lifetime; commands run strictly sequentially.
type Shell struct {
	cfg       *config.Config
	log       *klog.Logger
	console   io.Writer
	input     Input
	state     *session.State
	budget    *budget.Enforcer
	mandate   *mandate.Evaluator
	friction  *friction.Model
	checks    *checks.Runner
	forwarder *audit.Forwarder
	verifier  *verify.Protocol
	rejector  *reject.Protocol
	clock     func() time.Time
	sleep     func(time.Duration)
	nodeShort string
}

type handler func(s *Shell, args Args, positional []string) error

// commands maps recognized command tokens to handlers. "./" stands for any
// ./program invocation.
var commands = map[string]handler{
	"klogin":   (*Shell).handleLogin,
	"klogout":  (*Shell).handleLogout,
	"kls":      (*Shell).handleLS,
	"ls":       (*Shell).handleLS,
	"kexec":    (*Shell).handleExec,
	"./":       (*Shell).handleExec,
	"kstatus":  (*Shell).handleStatus,
	"khalt":    (*Shell).handleHalt,
	"shutdown": (*Shell).handleHalt,
	"exit":     (*Shell).handleHalt,
	"help":     (*Shell).handleHelp,
}

// mandateExempt lists commands that skip the dispatch-level mandate check:
// locking users out of login, help, or shutdown would wedge the session.
var mandateExempt = map[string]bool{
	"klogin":   true,
	"help":     true,
	"khalt":    true,
	"shutdown": true,
	"exit":     true,
}

// New creates a Shell. The verification and rejection protocols are built
// here so their prompts route through the shell's input pacing.
func New(opts Options) *Shell {
	s := &Shell{
		cfg:       opts.Config,
		log:       opts.Log,
		console:   opts.Console,
		input:     opts.Input,
		state:     opts.State,
		budget:    opts.Budget,
		mandate:   opts.Mandate,
		friction:  opts.Friction,
		checks:    opts.Checks,
		forwarder: opts.Forwarder,
		clock:     opts.Clock,
		sleep:     opts.Sleep,
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	s.nodeShort = nodeShort(s.cfg.NodeID)

	d := s.cfg.Delays
	s.verifier = verify.New(s.log, s.budget, s.friction, s.checks, s.forwarder,
		s.PromptLine, s.cfg.ConfirmationPhrase,
		msDur(d.CheckShortMS), msDur(d.CheckMediumMS))
	s.rejector = reject.New(s.log, s.console, s.budget, s.friction, s.checks, s.forwarder,
		s.PromptLine, s.cfg.MaxRejectCycles,
		msDur(d.CheckShortMS), msDur(d.CheckMediumMS), nil, s.sleep)
	return s
}

func msDur(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }

// nodeShort derives the prompt host part from the node identifier:
// "KOS-NODE-AZMESA-MOD-01" becomes "azmesa".
func nodeShort(nodeID string) string {
	parts := strings.Split(nodeID, "-")
	if len(parts) > 2 {
		return strings.ToLower(parts[2])
	}
	return strings.ToLower(nodeID)
}

// PromptLine reads one line for an engine challenge prompt. Used as the
// PromptFunc of the verification and rejection protocols.
func (s *Shell) PromptLine(text string) (string, error) {
	line, err := s.input.Line(" > " + text + ": ")
	if err != nil {
		return "", err
	}
	s.logInput(line)
	return strings.TrimSpace(line), nil
}

func (s *Shell) logInput(line string) {
	display := line
	if len(display) > 40 {
		display = display[:40] + "..."
	}
	s.log.Logf(model.SevDebug, "Input detected: '%s'. Parsing...", display)
	if s.sleep != nil {
		s.sleep(msDur(s.cfg.Delays.InputProcMS))
	}
}

// prompt builds the session prompt from the current state.
func (s *Shell) prompt() string {
	user := s.state.Identity
	if user == "" {
		user = "unauthenticated"
	}
	pending := ""
	if s.state.Backlog > 0 {
		pending = fmt.Sprintf("{REV:%d}", s.state.Backlog)
	}
	return fmt.Sprintf("[%s@%s %s%s]$ ", user, s.nodeShort, s.state.Cwd, pending)
}

// Run drives the command loop until the session terminates. The returned
// error is always a *budget.Terminated carrying the process exit status.
func (s *Shell) Run() error {
	for {
		if err := s.budget.Check(s.state, "Idle State"); err != nil {
			return err
		}

		line, err := s.input.Line(s.prompt())
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Logf(model.SevFatal, "EOF detected. Initiating emergency halt.")
				return s.halt(true)
			}
			s.log.Logf(model.SevError, "Input failure: %v", err)
			return &budget.Terminated{Code: 1, Reason: "input source failed"}
		}
		s.logInput(line)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := s.dispatch(line); err != nil {
			var term *budget.Terminated
			if errors.As(err, &term) {
				return err
			}
			if errors.Is(err, io.EOF) {
				s.log.Logf(model.SevFatal, "EOF detected. Initiating emergency halt.")
				return s.halt(true)
			}
			s.log.Logf(model.SevError, "Runtime error during command execution: %v", err)
			fmt.Fprintf(s.console, "*** Error executing command. Consult system logs. ***\n")
		}
	}
}

// dispatch routes one command line through budget, mandate, handler, and
// audit in that order. Unrecognized commands funnel into the rejection
// protocol and never execute.
func (s *Shell) dispatch(line string) error {
	parts := strings.Fields(line)
	name := parts[0]

	var h handler
	var args Args
	var positional []string

	if strings.HasPrefix(name, "./") {
		h = commands["./"]
		args, positional = ParseArgs(parts)
	} else {
		name = strings.ToLower(name)
		h = commands[name]
		args, positional = ParseArgs(parts[1:])
	}

	s.state.LastCommandRef = session.CommandRef()
	s.log.Logf(model.SevCmd, "Processing command: '%s', Ref: %s", parts[0], s.state.LastCommandRef)

	if h == nil {
		return s.rejector.RejectAndChallenge(s.state, name, line)
	}

	if !mandateExempt[name] {
		if res := s.mandate.Evaluate(s.state, model.ClearanceStandard); !res.Allowed {
			s.log.Logf(model.SevWarn, "Command '%s' blocked by operational mandate (%s).", parts[0], res.ReasonCode)
			return nil
		}
	}

	if err := h(s, args, positional); err != nil {
		return err
	}
	s.log.Logf(model.SevCmd, "Command '%s' processing complete (Ref: %s).", parts[0], s.state.LastCommandRef)
	return nil
}
