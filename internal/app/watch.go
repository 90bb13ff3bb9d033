package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/revibe/internal/watcher"
)

// minWatchInterval is the shortest accepted --interval.
const minWatchInterval = 30 * time.Second

var (
	watchInterval time.Duration
	watchNotify   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-scan periodically and alert on regressions",
	Long: `Scan path once for a baseline, then re-scan at every interval and print
an alert when the health score or risk level moves, a smell crosses into
the high range, duplicate groups grow, or more sensitive functions lack
error handling.

Examples:
  revibe watch                    # check every 10m (ctrl-c to stop)
  revibe watch --interval 2m      # check every 2 minutes
  revibe watch --notify -q        # desktop notifications only`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Check interval (default: watch.interval from config, 10m)")
	watchCmd.Flags().BoolVar(&watchNotify, "notify", false, "Send desktop notifications for alerts")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	interval := e.cfg.Watch.Interval
	if cmd.Flags().Changed("interval") {
		interval = watchInterval
	}
	if interval < minWatchInterval {
		return fmt.Errorf("interval must be at least %s, got %s", minWatchInterval, interval)
	}

	out := cmd.OutOrStdout()
	alertFn := func(a watcher.Alert) {
		if watchNotify {
			_ = watcher.Notify(a)
		}
		if !flagQuiet {
			printAlert(out, a)
		}
	}

	// Periodic scans log stage progress only with --verbose.
	opts := e.pipelineOptions()
	if !flagVerbose {
		opts.Logger = opts.Logger.Level(zerolog.WarnLevel)
	}
	w := watcher.New(rootArg(args), interval, opts, alertFn)
	for _, a := range w.Check(cmd.Context()) {
		alertFn(a)
	}
	base := w.Previous()
	if base == nil {
		return fmt.Errorf("initial scan of %s failed", rootArg(args))
	}
	if !flagQuiet {
		fmt.Fprintf(out, "revibe watching %s (checking every %s)\n", rootArg(args), interval)
		fmt.Fprintf(out, "[%s] %s Baseline: health %d/100 (%s), %d files, %d duplicate groups\n",
			time.Now().Format("15:04:05"), checkMark(),
			base.HealthScore, base.Risk, base.SourceFiles, base.DuplicateGroups)
	}

	err = w.Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		if !flagQuiet {
			fmt.Fprintln(out, "\nStopped.")
		}
		return nil
	}
	return err
}

func printAlert(w io.Writer, a watcher.Alert) {
	fmt.Fprintf(w, "[%s] %s %s\n", a.Time.Format("15:04:05"), alertIcon(a.Level), a.Title)
	if a.Message != "" {
		fmt.Fprintf(w, "         %s\n", a.Message)
	}
}

// alertIcon returns the terminal indicator for an alert level.
func alertIcon(level string) string {
	switch level {
	case watcher.LevelCritical:
		return "\U0001F534"
	case watcher.LevelWarning:
		return "⚠️"
	case watcher.LevelInfo:
		return checkMark()
	default:
		return " "
	}
}

func checkMark() string {
	return "✓"
}
