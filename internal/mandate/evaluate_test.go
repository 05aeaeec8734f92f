package mandate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kafkaos/kafkaos/internal/audit"
	"github.com/kafkaos/kafkaos/internal/friction"
	"github.com/kafkaos/kafkaos/internal/klog"
	"github.com/kafkaos/kafkaos/internal/model"
	"github.com/kafkaos/kafkaos/internal/session"
)

// seqSource returns a fixed sequence of draws, then repeats the last one.
type seqSource struct {
	draws []float64
	i     int
}

func (s *seqSource) Draw() float64 {
	if s.i < len(s.draws)-1 {
		v := s.draws[s.i]
		s.i++
		return v
	}
	return s.draws[len(s.draws)-1]
}

// tuesdayAt returns a clock pinned to a Tuesday at the given minute.
// 2025-04-15 is a Tuesday.
func tuesdayAt(minute int) func() time.Time {
	t := time.Date(2025, 4, 15, 10, minute, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func newEvaluator(clock func() time.Time, src Source) (*Evaluator, *strings.Builder) {
	var buf strings.Builder
	log := klog.New(&buf, "node")
	fr := friction.New(log, 5, 0, nil)
	fwd := audit.NewForwarder(log, nil, 0, nil)
	return New(log, DefaultParams(), fr, fwd, clock, src), &buf
}

func TestFilesystemPrimeMinuteDenies(t *testing.T) {
	// Draws that would pass rules 2 and 3; rule 1 must deny on its own.
	e, _ := newEvaluator(tuesdayAt(7), &seqSource{draws: []float64{0.99}})
	st := session.New()

	res := e.Evaluate(st, model.ClearanceFilesystem)

	if res.Allowed {
		t.Fatal("minute 7 is prime; filesystem access on the designated day must be denied")
	}
	if res.ReasonCode != model.ReasonFSPrimeMinute {
		t.Errorf("reason = %q, want %q", res.ReasonCode, model.ReasonFSPrimeMinute)
	}
	if st.Backlog != 1 {
		t.Errorf("denial must forward exactly one lockout event, backlog = %d", st.Backlog)
	}
}

func TestFilesystemCompositeMinuteAllows(t *testing.T) {
	e, _ := newEvaluator(tuesdayAt(4), &seqSource{draws: []float64{0.99}})

	res := e.Evaluate(session.New(), model.ClearanceFilesystem)

	if !res.Allowed {
		t.Errorf("minute 4 is not prime; denied with %q", res.ReasonCode)
	}
}

func TestPrimeMinuteRuleIgnoresOtherClearances(t *testing.T) {
	e, _ := newEvaluator(tuesdayAt(7), &seqSource{draws: []float64{0.99}})

	res := e.Evaluate(session.New(), model.ClearanceProcessExec)

	if !res.Allowed {
		t.Errorf("prime-minute rule must only gate FILESYSTEM, denied with %q", res.ReasonCode)
	}
}

func TestBacklogLockout(t *testing.T) {
	e, _ := newEvaluator(tuesdayAt(4), &seqSource{draws: []float64{0.1, 0.99}})
	st := session.New()
	st.Backlog = 11

	res := e.Evaluate(st, model.ClearanceStandard)

	if res.Allowed || res.ReasonCode != model.ReasonBacklogLock {
		t.Errorf("draw 0.1 < 0.2 with backlog 11 must deny, got %+v", res)
	}
	if st.Backlog != 12 {
		t.Errorf("denial must grow the backlog, got %d", st.Backlog)
	}
}

func TestBacklogRuleNotEngagedAtThreshold(t *testing.T) {
	// Backlog exactly at the threshold: rule 2 stays out, and the first
	// draw belongs to the spot check.
	e, _ := newEvaluator(tuesdayAt(4), &seqSource{draws: []float64{0.1}})
	st := session.New()
	st.Backlog = 10

	res := e.Evaluate(st, model.ClearanceStandard)

	if !res.Allowed {
		t.Errorf("backlog 10 must not engage the lockout rule, got %+v", res)
	}
}

func TestSpotCheckDenies(t *testing.T) {
	e, _ := newEvaluator(tuesdayAt(4), &seqSource{draws: []float64{0.01}})

	res := e.Evaluate(session.New(), model.ClearanceSystemInfo)

	if res.Allowed || res.ReasonCode != model.ReasonSpotCheckFailed {
		t.Errorf("draw 0.01 < 0.05 must fail the spot check, got %+v", res)
	}
}

// Identical state, differing draws: decisions differ. Non-determinism is by
// design and must not be smoothed over with caching.
func TestEvaluationsAreIndependent(t *testing.T) {
	clock := tuesdayAt(4)
	st := session.New()

	deny, _ := newEvaluator(clock, &seqSource{draws: []float64{0.01}})
	allow, _ := newEvaluator(clock, &seqSource{draws: []float64{0.99}})

	if res := deny.Evaluate(st, model.ClearanceStandard); res.Allowed {
		t.Error("first evaluator must deny")
	}
	st.Backlog = 0
	if res := allow.Evaluate(st, model.ClearanceStandard); !res.Allowed {
		t.Error("second evaluator must allow")
	}
}

func TestIsPrime(t *testing.T) {
	primes := map[int]bool{
		0: false, 1: false, 2: true, 3: true, 4: false, 5: true,
		7: true, 9: false, 11: true, 25: false, 31: true, 49: false, 59: true,
	}
	for n, want := range primes {
		if got := isPrime(n); got != want {
			t.Errorf("isPrime(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestLoadParamsOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mandate.yaml")
	if err := os.WriteFile(path, []byte("spot_check_chance: 0\nbacklog_lockout_threshold: 3\n"), 0600); err != nil {
		t.Fatal(err)
	}

	p, err := LoadParams(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.SpotCheckChance != 0 || p.BacklogLockoutThreshold != 3 {
		t.Errorf("overlay not applied: %+v", p)
	}
	if p.FilesystemDay != time.Tuesday {
		t.Errorf("untouched field changed: %v", p.FilesystemDay)
	}
}

func TestReloadSwapsParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mandate.yaml")
	if err := os.WriteFile(path, []byte("spot_check_chance: 0.5\n"), 0600); err != nil {
		t.Fatal(err)
	}

	e, _ := newEvaluator(tuesdayAt(4), &seqSource{draws: []float64{0.99}})
	if err := e.Reload(path); err != nil {
		t.Fatal(err)
	}
	if got := e.Params().SpotCheckChance; got != 0.5 {
		t.Errorf("spot check chance = %v, want 0.5", got)
	}
}
