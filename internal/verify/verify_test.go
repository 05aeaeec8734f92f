package verify

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kafkaos/kafkaos/internal/audit"
	"github.com/kafkaos/kafkaos/internal/budget"
	"github.com/kafkaos/kafkaos/internal/checks"
	"github.com/kafkaos/kafkaos/internal/friction"
	"github.com/kafkaos/kafkaos/internal/klog"
	"github.com/kafkaos/kafkaos/internal/session"
)

const phrase = "I_ACKNOWLEDGE_AND_COMPLY_WITH_ALL_PROTOCOLS"

// script returns prompt answers in order and fails the test on overrun.
func script(t *testing.T, answers ...string) PromptFunc {
	i := 0
	return func(prompt string) (string, error) {
		if i >= len(answers) {
			t.Fatalf("unexpected prompt %q after %d answers", prompt, len(answers))
		}
		a := answers[i]
		i++
		return a, nil
	}
}

type fixture struct {
	protocol *Protocol
	buf      *strings.Builder
	state    *session.State
}

func newFixture(t *testing.T, prompt PromptFunc, outcome func(string) bool) *fixture {
	var buf strings.Builder
	log := klog.New(&buf, "node")
	b := budget.New(log, &buf, 180*time.Second, "mandate", nil)
	fr := friction.New(log, 5, 0, nil)
	ck := checks.New(log, nil, outcome)
	fwd := audit.NewForwarder(log, nil, 0, nil)
	p := New(log, b, fr, ck, fwd, prompt, phrase, 0, 0)
	return &fixture{protocol: p, buf: &buf, state: session.New()}
}

func (f *fixture) forwarded(category string) int {
	return strings.Count(f.buf.String(), "KOS-FWD-"+category+"-")
}

func TestConfirmationMismatchShortCircuits(t *testing.T) {
	f := newFixture(t, script(t, "yes"), nil)

	out, err := f.protocol.Verify(f.state, Request{
		Command:         "kls /home/user",
		RequiresPurpose: true,
		PurposeCode:     "FS-QUERY-7701",
		RequiresReauth:  true,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.OK || out.Confirmation != StepFailed {
		t.Errorf("wrong phrase must fail step one, got %+v", out)
	}
	if out.Purpose != StepSkipped || out.Reauth != StepSkipped {
		t.Errorf("later steps must not run, got %+v", out)
	}
	if f.state.Backlog != 0 {
		t.Errorf("no forwarding events expected, backlog = %d", f.state.Backlog)
	}
}

func TestPurposeValidationFailureStopsProtocol(t *testing.T) {
	forced := func(name string) bool {
		return !strings.Contains(name, "Purpose Code")
	}
	f := newFixture(t, script(t, phrase), forced)
	f.state.BeginSession("operator7", time.Now())

	out, err := f.protocol.Verify(f.state, Request{
		Command:         "kstatus -c",
		RequiresPurpose: true,
		PurposeCode:     "SYS-HEALTH-0101",
		RequiresReauth:  true,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.OK || out.Purpose != StepFailed {
		t.Errorf("purpose failure must abort, got %+v", out)
	}
	if f.forwarded("RE_AUTH") != 0 || f.forwarded("CMD_INTENT") != 0 {
		t.Error("no re-auth or completion events may follow a purpose failure")
	}
}

func TestReauthMismatchForwardsFailure(t *testing.T) {
	f := newFixture(t, script(t, phrase, "impostor"), nil)
	f.state.BeginSession("operator7", time.Now())

	out, err := f.protocol.Verify(f.state, Request{
		Command:        "kexec /bin/report",
		RequiresReauth: true,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.OK || out.Reauth != StepFailed {
		t.Errorf("identity mismatch must fail, got %+v", out)
	}
	if f.forwarded("RE_AUTH") != 1 {
		t.Errorf("RE_AUTH failure events = %d, want 1", f.forwarded("RE_AUTH"))
	}
	if f.forwarded("CMD_INTENT") != 0 {
		t.Error("no completion event after a failed step")
	}
}

func TestFullProtocolPasses(t *testing.T) {
	f := newFixture(t, script(t, phrase, "operator7"), nil)
	f.state.BeginSession("operator7", time.Now())

	out, err := f.protocol.Verify(f.state, Request{
		Command:         "kexec secure_comm_client.app",
		RequiresPurpose: true,
		PurposeCode:     "SEC-DATA-9901",
		RequiresReauth:  true,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.OK {
		t.Fatalf("expected success, got %+v", out)
	}
	if out.Confirmation != StepPassed || out.Purpose != StepPassed || out.Reauth != StepPassed {
		t.Errorf("all steps should pass, got %+v", out)
	}
	for _, cat := range []string{"PURPOSE_VALIDATION", "RE_AUTH", "CMD_INTENT"} {
		if f.forwarded(cat) != 1 {
			t.Errorf("%s events = %d, want 1", cat, f.forwarded(cat))
		}
	}
	if f.state.Backlog != 3 {
		t.Errorf("backlog = %d, want 3", f.state.Backlog)
	}
}

func TestReauthSkippedWhenUnauthenticated(t *testing.T) {
	// Only the confirmation prompt may be issued.
	f := newFixture(t, script(t, phrase), nil)

	out, err := f.protocol.Verify(f.state, Request{
		Command:        "khalt (authenticated)",
		RequiresReauth: true,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.OK || out.Reauth != StepSkipped {
		t.Errorf("re-auth must be skipped without a session, got %+v", out)
	}
}

func TestBudgetExhaustionPropagates(t *testing.T) {
	var buf strings.Builder
	log := klog.New(&buf, "node")
	start := time.Now().Add(-10 * time.Minute)
	b := budget.New(log, &buf, 180*time.Second, "mandate", nil)
	fr := friction.New(log, 5, 0, nil)
	ck := checks.New(log, nil, nil)
	fwd := audit.NewForwarder(log, nil, 0, nil)
	p := New(log, b, fr, ck, fwd, script(t), phrase, 0, 0)

	st := session.New()
	st.BeginSession("operator7", start)

	_, err := p.Verify(st, Request{Command: "kls"})

	var term *budget.Terminated
	if !errors.As(err, &term) {
		t.Fatalf("expected *budget.Terminated, got %v", err)
	}
}
