// Package session holds the mutable per-session state record. There is one
// State per process, owned by the dispatch loop; every engine component
// borrows it for the duration of a single call.
package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// State is the single session record. Authenticated is true iff Identity is
// set; SessionStart anchors every time-budget computation and is zero before
// authentication. Backlog only ever grows; the audit queue is never drained.
type State struct {
	Identity       string
	Authenticated  bool
	SessionStart   time.Time
	Backlog        int
	LastCommandRef string
	Cwd            string
}

// New returns a fresh, unauthenticated session state.
func New() *State {
	return &State{Cwd: "/home/user"}
}

// BeginSession records a successful authentication: sets the identity and
// starts the session clock. Called exactly once per authenticated session.
func (s *State) BeginSession(identity string, now time.Time) {
	s.Identity = identity
	s.Authenticated = true
	s.SessionStart = now
}

// EndSession clears the identity and stops the session clock.
func (s *State) EndSession() {
	s.Identity = ""
	s.Authenticated = false
	s.SessionStart = time.Time{}
}

// ShortRef returns the first n characters of an uppercase UUID, used for
// correlation references in log lines and audit events.
func ShortRef(n int) string {
	id := strings.ToUpper(uuid.NewString())
	if n > len(id) {
		n = len(id)
	}
	return id[:n]
}

// CommandRef returns a fresh command correlation reference.
func CommandRef() string {
	return "CMD-" + ShortRef(6)
}
