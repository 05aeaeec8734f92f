package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kafkaos/kafkaos/internal/audit"
	"github.com/kafkaos/kafkaos/internal/budget"
	"github.com/kafkaos/kafkaos/internal/checks"
	"github.com/kafkaos/kafkaos/internal/config"
	"github.com/kafkaos/kafkaos/internal/friction"
	"github.com/kafkaos/kafkaos/internal/klog"
	"github.com/kafkaos/kafkaos/internal/mandate"
	"github.com/kafkaos/kafkaos/internal/session"
	"github.com/kafkaos/kafkaos/internal/shell"
)

var (
	runConfig   string
	runRules    string
	runAuditLog string
	runNoDelay  bool
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runConfig, "config", "", "Path to node config YAML")
	runCmd.Flags().StringVar(&runRules, "rules", "", "Path to mandate rule parameters YAML (hot-reloaded)")
	runCmd.Flags().StringVar(&runAuditLog, "audit-log", "", "Path to hash-chained audit log JSONL file")
	runCmd.Flags().BoolVar(&runNoDelay, "no-delay", false, "Disable artificial processing delays")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Boot a KafkaOS node and start the interactive session",
	Long:  "Boots the node, then reads commands from the terminal until the session\nquantum expires or the operator completes the shutdown protocol.",
	RunE:  runSession,
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(runConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	params, err := mandate.LoadParams(runRules)
	if err != nil {
		return fmt.Errorf("failed to load mandate params: %w", err)
	}

	sleep := shell.Jitter()
	if runNoDelay {
		sleep = func(time.Duration) {}
	}

	d := cfg.Delays
	msgPace := func() { sleep(time.Duration(d.MessageMS) * time.Millisecond) }
	log := klog.New(os.Stdout, cfg.NodeID, klog.WithPace(msgPace))

	var chain *audit.Chain
	if runAuditLog != "" {
		chain, err = audit.OpenChain(runAuditLog)
		if err != nil {
			return fmt.Errorf("failed to open audit log: %w", err)
		}
		defer chain.Close()
	}

	st := session.New()
	forwarder := audit.NewForwarder(log, chain, time.Duration(d.ForwardingMS)*time.Millisecond, sleep)
	fr := friction.New(log, cfg.FrictionThreshold, time.Duration(d.CheckMediumMS)*time.Millisecond, sleep)
	ck := checks.New(log, sleep, nil)
	enforcer := budget.New(log, os.Stdout, cfg.Quantum(), cfg.QuantumMandate, time.Now)
	evaluator := mandate.New(log, params, fr, forwarder, time.Now, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if runRules != "" {
		reloader, rerr := mandate.NewReloader(evaluator, runRules, log)
		if rerr != nil {
			fmt.Fprintf(os.Stderr, "warning: rule hot-reload disabled: %v\n", rerr)
		} else {
			go reloader.Run(ctx)
		}
	}

	sh := shell.New(shell.Options{
		Config:    cfg,
		Log:       log,
		Console:   os.Stdout,
		Input:     shell.NewTermInput(os.Stdin, os.Stdout),
		State:     st,
		Budget:    enforcer,
		Mandate:   evaluator,
		Friction:  fr,
		Checks:    ck,
		Forwarder: forwarder,
		Clock:     time.Now,
		Sleep:     sleep,
	})

	// SIGINT does not end the session. Only the shutdown protocol does.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT)
	go func() {
		for range sigCh {
			fmt.Fprintln(os.Stdout, "\nSIGINT suppressed. Use 'khalt' to initiate the shutdown protocol.")
		}
	}()

	sh.Boot()
	if err := sh.Run(); err != nil {
		var term *budget.Terminated
		if errors.As(err, &term) {
			if chain != nil {
				chain.Close()
			}
			os.Exit(term.Code)
		}
		return err
	}
	return nil
}
