package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hervehildenbrand/gmtu/internal/config"
	"github.com/hervehildenbrand/gmtu/internal/display"
	"github.com/hervehildenbrand/gmtu/internal/export"
	"github.com/hervehildenbrand/gmtu/internal/iface"
	"github.com/hervehildenbrand/gmtu/pkg/report"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Options holds the parsed CLI flags.
type Options struct {
	ConfigFile string
	Interface  string
	Floor      int
	Ceiling    int
	Overhead   int
	Timeout    time.Duration
	Mechanism  string
	Apply      bool
	Yes        bool
	Simple     bool
	NoColor    bool
	Output     string
	Format     string
	LogLevel   string
	Verbose    bool
	DryRun     bool
}

// NewRootCmd creates and returns the root cobra command.
func NewRootCmd(r *runner) *cobra.Command {
	var opts Options
	var cfg *config.Config

	cmd := &cobra.Command{
		Use:   "gmtu [target]",
		Short: "Path MTU discovery tool",
		Long: `gmtu finds the largest packet that crosses the path to a target without
fragmentation, by binary search over ICMP echo requests with the Don't Fragment
bit set. The discovered MTU can optionally be applied to a local interface.

The target defaults to ` + config.DefaultTarget + `.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr(), opts.LogLevel, opts.Verbose)
			display.SetColor(!opts.NoColor)
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = buildConfig(cmd, &opts, args)
			if err != nil {
				return err
			}

			if opts.Yes && !opts.Apply {
				return fmt.Errorf("--yes requires --apply")
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.DryRun {
				// Just validate args and return
				return nil
			}

			return runDiscover(cmd, r, &opts, cfg)
		},
	}

	// Flag defaults only show in help; the config file wins unless a flag is set.
	defaults := config.DefaultConfig()

	// Search flags
	cmd.Flags().StringVarP(&opts.Interface, "interface", "i", "", "Interface to apply the MTU to")
	cmd.Flags().IntVar(&opts.Floor, "floor", defaults.Floor, "Smallest payload size to consider")
	cmd.Flags().IntVar(&opts.Ceiling, "ceiling", defaults.Ceiling, "Largest payload size to consider")
	cmd.Flags().IntVar(&opts.Overhead, "overhead", defaults.Overhead, "Header bytes added to the payload to get the MTU")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", defaults.Timeout, "Per-probe timeout")
	cmd.Flags().StringVar(&opts.Mechanism, "mechanism", defaults.Mechanism, "Probe mechanism: command|socket")

	// Apply flags
	cmd.Flags().BoolVar(&opts.Apply, "apply", false, "Set the discovered MTU on an interface")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Do not ask for confirmation before applying")

	// Display flags
	cmd.Flags().BoolVar(&opts.Simple, "simple", false, "Simple output (no TUI)")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "Disable colors")

	// Export flags
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Export to file (json/csv/txt)")
	cmd.Flags().StringVar(&opts.Format, "format", "", "Explicit export format")

	// Other flags
	cmd.Flags().StringVar(&opts.ConfigFile, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Verbose output")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Validate args without probing")

	return cmd
}

// buildConfig layers the config file, explicitly set flags and the target
// argument, in that order, and validates the result.
func buildConfig(cmd *cobra.Command, opts *Options, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.ConfigFile != "" {
		loaded, err := config.Load(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("interface") {
		cfg.Interface = opts.Interface
	}
	if flags.Changed("floor") {
		cfg.Floor = opts.Floor
	}
	if flags.Changed("ceiling") {
		cfg.Ceiling = opts.Ceiling
	}
	if flags.Changed("overhead") {
		cfg.Overhead = opts.Overhead
	}
	if flags.Changed("timeout") {
		cfg.Timeout = opts.Timeout
	}
	if flags.Changed("mechanism") {
		cfg.Mechanism = opts.Mechanism
	}
	if flags.Changed("output") {
		cfg.Output = opts.Output
	}
	if flags.Changed("format") {
		cfg.Format = opts.Format
	}
	if len(args) > 0 {
		cfg.Target = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runDiscover executes the discovery based on configuration.
func runDiscover(cmd *cobra.Command, r *runner, opts *Options, cfg *config.Config) error {
	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	s, err := r.prepare(cfg)
	if err != nil {
		return err
	}

	interactive := r.isTerminal()
	var cancelled bool
	if opts.Simple || !interactive {
		err = runSimple(ctx, cmd.OutOrStdout(), s, opts.Verbose)
	} else {
		cancelled, err = runWithTUI(ctx, cancel, s)
	}

	if cancelled || (err != nil && ctx.Err() != nil) {
		fmt.Fprintln(cmd.OutOrStdout(), "\nDiscovery interrupted")
		return nil
	}

	if err == nil && opts.Apply {
		if applyErr := applyMTU(cmd, r, opts, cfg, s.report, interactive); applyErr != nil {
			logrus.WithError(applyErr).Debug("apply failed")
			err = applyErr
		}
	}

	// Export if output file specified
	if cfg.Output != "" {
		if exportErr := export.ExportToFile(cfg.Output, export.Format(cfg.Format), s.report); exportErr != nil {
			return fmt.Errorf("failed to export: %w", exportErr)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Results exported to %s\n", cfg.Output)
	}

	return err
}

// runSimple runs the search with one text line per probe.
func runSimple(ctx context.Context, w io.Writer, s *session, verbose bool) error {
	renderer := display.NewSimpleRenderer()
	renderer.ShowDiagnostic = verbose

	renderer.RenderHeader(w, s.report)

	err := s.run(ctx, func(p report.Probe) {
		fmt.Fprintln(w, renderer.RenderProbe(p))
	})
	if err != nil && ctx.Err() != nil {
		return err
	}

	renderer.RenderResult(w, s.report)
	return err
}

// runWithTUI runs the search in the background while the TUI shows progress.
func runWithTUI(ctx context.Context, cancel context.CancelFunc, s *session) (bool, error) {
	probeChan := make(chan report.Probe, 100)
	doneChan := make(chan *report.Report, 1)
	errChan := make(chan error, 1)

	go func() {
		err := s.run(ctx, func(p report.Probe) {
			probeChan <- p
		})
		close(probeChan)
		doneChan <- s.report
		close(doneChan)
		errChan <- err
	}()

	cancelled, tuiErr := display.RunTUI(s.report.Target, s.report.TargetIP,
		s.cfg.Floor, s.cfg.Ceiling, probeChan, doneChan, cancel)
	if tuiErr != nil {
		cancel()
		<-errChan
		return false, fmt.Errorf("TUI error: %w", tuiErr)
	}

	return cancelled, <-errChan
}

// applyMTU sets the discovered MTU on the chosen interface after confirmation.
func applyMTU(cmd *cobra.Command, r *runner, opts *Options, cfg *config.Config, rep *report.Report, interactive bool) error {
	out := cmd.OutOrStdout()
	in := bufio.NewReader(cmd.InOrStdin())
	mgr := r.manager()

	name := cfg.Interface
	if name == "" {
		ifaces, err := mgr.List()
		if err != nil {
			return fmt.Errorf("failed to list interfaces: %w", err)
		}
		candidates := applyCandidates(ifaces)

		var chosen iface.Interface
		if interactive && !opts.Simple {
			chosen, err = display.RunPicker(candidates, rep.MTU)
		} else {
			chosen, err = display.PromptInterface(in, out, candidates, rep.MTU)
		}
		if errors.Is(err, display.ErrSelectionCancelled) {
			fmt.Fprintln(out, "MTU not changed")
			return nil
		}
		if err != nil {
			return err
		}
		name = chosen.Name
	}

	if !opts.Yes {
		ok, err := display.Confirm(in, out, fmt.Sprintf("Set MTU of %s to %d?", name, rep.MTU))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "MTU not changed")
			return nil
		}
	}

	prev, err := iface.Apply(mgr, name, rep.MTU)
	if err != nil {
		return err
	}
	rep.SetApplied(name, prev)

	if prev == rep.MTU {
		fmt.Fprintf(out, "%s already has MTU %d\n", name, rep.MTU)
	} else {
		fmt.Fprintf(out, "MTU of %s set to %d (was %d)\n", name, rep.MTU, prev)
	}
	return nil
}

// applyCandidates drops loopback interfaces, which never carry the path.
func applyCandidates(ifaces []iface.Interface) []iface.Interface {
	out := make([]iface.Interface, 0, len(ifaces))
	for _, i := range ifaces {
		if !i.Loopback {
			out = append(out, i)
		}
	}
	return out
}
