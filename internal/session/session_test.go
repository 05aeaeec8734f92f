package session

import (
	"strings"
	"testing"
	"time"
)

func TestBeginEndSession(t *testing.T) {
	s := New()
	if s.Authenticated || s.Identity != "" || !s.SessionStart.IsZero() {
		t.Fatal("fresh state must be unauthenticated with no start instant")
	}

	now := time.Now()
	s.BeginSession("operator7", now)
	if !s.Authenticated || s.Identity != "operator7" {
		t.Error("BeginSession did not set identity")
	}
	if !s.SessionStart.Equal(now) {
		t.Error("BeginSession did not anchor the session clock")
	}

	s.EndSession()
	if s.Authenticated || s.Identity != "" || !s.SessionStart.IsZero() {
		t.Error("EndSession did not clear the session")
	}
}

func TestCommandRefShape(t *testing.T) {
	ref := CommandRef()
	if !strings.HasPrefix(ref, "CMD-") || len(ref) != len("CMD-")+6 {
		t.Errorf("ref = %q, want CMD-XXXXXX", ref)
	}
	if ref == CommandRef() {
		t.Error("consecutive refs must differ")
	}
}

func TestShortRefLength(t *testing.T) {
	if got := ShortRef(8); len(got) != 8 {
		t.Errorf("len = %d, want 8", len(got))
	}
	if got := ShortRef(100); len(got) != 36 {
		t.Errorf("oversized n must clamp to UUID length, got %d", len(got))
	}
}
