// Package app contains the Cobra command tree for revibe.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/revibe/internal/config"
	"github.com/blackwell-systems/revibe/internal/logging"
	"github.com/blackwell-systems/revibe/internal/output"
	"github.com/blackwell-systems/revibe/internal/pipeline"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagQuiet   bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "revibe",
	Short: "Codebase health scanner and AI fix planner",
	Long: `revibe scans a source tree without executing it, scores its health from
0 to 100, flags patterns common in AI-generated code, and writes
prioritized, copy-paste fix prompts for AI coding assistants.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "revibe", appVersion)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Use a subcommand:")
		fmt.Fprintln(w, "  scan      Scan a codebase and report its health")
		fmt.Fprintln(w, "  fix       Print the prioritized fix plan")
		fmt.Fprintln(w, "  track     Record a snapshot and compare against history")
		fmt.Fprintln(w, "  watch     Re-scan periodically and alert on regressions")
		fmt.Fprintln(w, "  mcp       Serve scan tools over MCP stdio")
		return nil
	},
}

// Execute is the entry point called from main. An interrupt cancels the
// command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/revibe/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress and terminal output")
}

// env is the state every command starts from.
type env struct {
	cfg   *config.Config
	log   zerolog.Logger
	plain bool
}

// setup loads configuration, decides on colour for the command's stdout and
// installs the logger on its stderr.
func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	color := output.ShouldColor(cmd.OutOrStdout(), flagNoColor, cfg.Output.Color)
	output.SetNoColor(!color)

	logger := logging.Setup(logging.Options{
		Verbose: flagVerbose,
		Quiet:   flagQuiet,
		NoColor: !color,
		Out:     cmd.ErrOrStderr(),
	})
	return &env{cfg: cfg, log: logger, plain: !color}, nil
}

func (e *env) pipelineOptions() pipeline.Options {
	return pipeline.OptionsFromConfig(e.cfg, appVersion, e.log)
}

// rootArg returns the path argument, defaulting to the working directory.
func rootArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}
