package shell

import (
	"fmt"

	"github.com/kafkaos/kafkaos/internal/model"
)

// handleLogin runs the klogin sequence: credentials, PAM-style check, MFA
// format gate and verification, then starts the session clock.
func (s *Shell) handleLogin(args Args, positional []string) error {
	s.log.Logf(model.SevInfo, "Authentication sequence initiated via klogin.")
	if s.state.Authenticated {
		s.log.Logf(model.SevWarn, "User already authenticated. Use 'klogout' first.")
		return nil
	}

	if err := s.budget.Check(s.state, "Authentication"); err != nil {
		return err
	}

	identity, err := s.PromptLine("Username")
	if err != nil {
		return err
	}
	if identity == "" {
		s.log.Logf(model.SevError, "Authentication failed: Null username provided.")
		return nil
	}
	if len(identity) < s.cfg.MinIdentityLength {
		s.log.Logf(model.SevError, "Authentication failed: User ID below minimum length (%d).", s.cfg.MinIdentityLength)
		return nil
	}

	// The password itself is never checked; the ritual is the point.
	if _, err := s.input.Secret(fmt.Sprintf(" > Password for %s: ", identity)); err != nil {
		return err
	}

	s.log.Logf(model.SevInfo, "Performing credential validation via PAMV...")
	ok, ref := s.checks.Run("PAM Credential Check", msDur(s.cfg.Delays.CheckLongMS))
	if !ok {
		s.log.Logf(model.SevError, "Authentication failed: Primary credential validation failed (PAM Ref: %s).", ref)
		return nil
	}

	if err := s.budget.Check(s.state, "Authentication - MFA Check"); err != nil {
		return err
	}
	mfa, err := s.input.Secret(" > Enter 6-digit MFA Token (Ref: Directive MFA-KOS-2A): ")
	if err != nil {
		return err
	}
	if !validMFA(mfa) {
		s.log.Logf(model.SevError, "Authentication failed: Invalid MFA token format.")
		return nil
	}

	s.log.Logf(model.SevInfo, "MFA token format validated. Verifying...")
	ok, ref = s.checks.Run("MFA Token Verification", msDur(s.cfg.Delays.CheckMediumMS))
	if !ok {
		s.log.Logf(model.SevError, "Authentication failed: MFA Token validation failure (Ref: %s).", ref)
		return nil
	}

	s.state.BeginSession(identity, s.clock())
	s.log.Logf(model.SevSecurity, "User '%s' authenticated successfully via klogin. Session timer initiated (%ds limit).", identity, s.cfg.QuantumSeconds)
	s.forwarder.Forward(s.state, model.CatAuth, identity, "Successful Authentication Event (klogin)")
	return nil
}

func validMFA(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// handleLogout tears the session down after a confirmation challenge.
func (s *Shell) handleLogout(args Args, positional []string) error {
	if !s.state.Authenticated {
		s.log.Logf(model.SevWarn, "No active session found to terminate.")
		return nil
	}

	identity := s.state.Identity
	s.log.Logf(model.SevInfo, "Initiating logout sequence for user '%s'.", identity)

	confirm, err := s.PromptLine("Confirm logout? Type 'TERMINATE_SESSION'")
	if err != nil {
		return err
	}
	if confirm != "TERMINATE_SESSION" {
		s.log.Logf(model.SevWarn, "Logout aborted by user.")
		return nil
	}

	s.checks.Run("Session Teardown and Credential Purge", msDur(s.cfg.Delays.CheckShortMS))
	s.forwarder.Forward(s.state, model.CatAuth, identity, "User Logout Event (klogout)")
	s.log.Logf(model.SevInfo, "User '%s' session terminated.", identity)
	s.state.EndSession()
	return nil
}
