package shell

import "fmt"

func (s *Shell) handleHelp(args Args, positional []string) error {
	c := s.console
	fmt.Fprintln(c, "\n--- KafkaOS Simulated Command Help ---")
	fmt.Fprintln(c, "  klogin                  - Initiate user authentication sequence.")
	fmt.Fprintln(c, "  klogout                 - Terminate current user session.")
	fmt.Fprintln(c, "  kls | ls [path] --view-mode=<mode> -p <purpose_code>")
	fmt.Fprintln(c, "                          - List directory contents. Mode ('standard'/'audit') depends on current minute.")
	fmt.Fprintf(c, "                            Requires purpose code: %s\n", s.cfg.PurposeFS)
	fmt.Fprintln(c, "  kexec | ./<prog> [args...] -p <purpose_code> [--packet-id=<id>]")
	fmt.Fprintln(c, "                          - Execute a program simulation.")
	fmt.Fprintf(c, "                            Requires standard purpose: %s\n", s.cfg.PurposeProc)
	fmt.Fprintf(c, "                            Secure client purpose: %s (requires --packet-id)\n", s.cfg.PurposeSecureComm)
	fmt.Fprintf(c, "  kstatus -c | --compliance-check -p %s\n", s.cfg.PurposeStatus)
	fmt.Fprintln(c, "                          - Display system status (mandatory flags/purpose).")
	fmt.Fprintln(c, "  khalt | shutdown [--force | -f] [--auth-code=<CODE>]")
	fmt.Fprintln(c, "                          - Initiate system halt (requires time-sensitive auth code unless forced).")
	fmt.Fprintln(c, "  exit                    - Alias for shutdown.")
	fmt.Fprintln(c, "  help                    - Display this message.")
	fmt.Fprintln(c, "--------------------------------------")
	fmt.Fprintln(c)
	return nil
}
