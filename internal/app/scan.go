package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/revibe/internal/config"
	"github.com/blackwell-systems/revibe/internal/fixer"
	"github.com/blackwell-systems/revibe/internal/pipeline"
	"github.com/blackwell-systems/revibe/internal/report"
	"github.com/blackwell-systems/revibe/internal/store"
)

// Names of the files scan writes into the output directory.
const (
	FixesFileName       = "REVIBE_FIXES.md"
	CursorRulesFileName = ".cursorrules"
	ClaudeNotesFileName = "REVIBE_CLAUDE.md"
)

var (
	scanFlagHTML        bool
	scanFlagYAML        bool
	scanFlagFix         bool
	scanFlagCursor      bool
	scanFlagClaude      bool
	scanFlagAll         bool
	scanFlagOutput      string
	scanFlagIgnore      []string
	scanFlagNoGitignore bool
	scanFlagWorkers     int
	scanFlagTrack       bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a codebase and report its health",
	Long: `Scan walks the source files under path (default: the current directory),
measures size, structure and duplication, scores eight AI code smells and
prints a health report with the top fixes.

Examples:
  revibe scan                       # terminal report for the current directory
  revibe scan ./app --fix           # also write REVIBE_FIXES.md
  revibe scan --all -o reports      # HTML report and every fix file into reports/
  revibe scan --json -q > out.json  # machine-readable report only`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanFlagHTML, "html", false, "Write an HTML report ("+report.HTMLFileName+")")
	scanCmd.Flags().BoolVar(&scanFlagYAML, "yaml", false, "Print the report as YAML")
	scanCmd.Flags().BoolVar(&scanFlagFix, "fix", false, "Write "+FixesFileName+" with copy-paste AI fix instructions")
	scanCmd.Flags().BoolVar(&scanFlagCursor, "cursor", false, "Write "+CursorRulesFileName+" with fix priorities")
	scanCmd.Flags().BoolVar(&scanFlagClaude, "claude", false, "Write "+ClaudeNotesFileName+" with health notes")
	scanCmd.Flags().BoolVar(&scanFlagAll, "all", false, "Write the HTML report and every fix file")
	scanCmd.Flags().StringVarP(&scanFlagOutput, "output", "o", "", "Directory for generated files (default: the scanned root)")
	scanCmd.Flags().StringSliceVar(&scanFlagIgnore, "ignore", nil, "Additional directory names to ignore (comma-separated)")
	scanCmd.Flags().BoolVar(&scanFlagNoGitignore, "no-gitignore", false, "Do not honour .gitignore")
	scanCmd.Flags().IntVar(&scanFlagWorkers, "workers", 0, "Files analyzed in parallel (default: one per CPU)")
	scanCmd.Flags().BoolVar(&scanFlagTrack, "track", false, "Also record the scan in the history database")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	applyScanFlags(e.cfg)

	root := rootArg(args)
	res, err := pipeline.Run(cmd.Context(), root, e.pipelineOptions())
	if errors.Is(err, pipeline.ErrNoSourceFiles) {
		e.log.Warn().Str("root", root).Msg("no source files found in this directory")
		return nil
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !flagQuiet && !flagJSON && !scanFlagYAML {
		report.WriteTerminal(out, res, appVersion, e.plain)
	}
	if flagJSON {
		if err := report.WriteJSON(out, report.Build(res, appVersion)); err != nil {
			return fmt.Errorf("writing JSON report: %w", err)
		}
	}
	if scanFlagYAML {
		if err := report.WriteYAML(out, report.Build(res, appVersion)); err != nil {
			return fmt.Errorf("writing YAML report: %w", err)
		}
	}

	outDir := scanFlagOutput
	if outDir == "" {
		outDir = e.cfg.Output.Dir
	}
	if outDir == "" {
		outDir = res.Root
	}
	if err := writeGenerated(e, outDir, res, selectedFiles(scanFlagAll)); err != nil {
		return err
	}

	if scanFlagTrack {
		if err := recordSnapshot(e, "scan", res); err != nil {
			return err
		}
	}
	return nil
}

// applyScanFlags folds command-line overrides into cfg.
func applyScanFlags(cfg *config.Config) {
	cfg.IgnoreDirs = append(cfg.IgnoreDirs, scanFlagIgnore...)
	if scanFlagNoGitignore {
		cfg.UseGitignore = false
	}
	if scanFlagWorkers > 0 {
		cfg.Workers = scanFlagWorkers
	}
}

// generated is one file scan can write.
type generated struct {
	name   string
	label  string
	render func(w io.Writer, res *pipeline.Result) error
}

var (
	htmlFile = generated{report.HTMLFileName, "HTML report", func(w io.Writer, res *pipeline.Result) error {
		return report.WriteHTML(w, res, appVersion)
	}}
	fixesFile = generated{FixesFileName, "fix instructions", func(w io.Writer, res *pipeline.Result) error {
		_, err := io.WriteString(w, fixer.RenderMarkdown(res.Plan))
		return err
	}}
	cursorFile = generated{CursorRulesFileName, "cursor rules", func(w io.Writer, res *pipeline.Result) error {
		_, err := io.WriteString(w, fixer.RenderCursorRules(res.Plan))
		return err
	}}
	claudeFile = generated{ClaudeNotesFileName, "claude notes", func(w io.Writer, res *pipeline.Result) error {
		_, err := io.WriteString(w, fixer.RenderClaudeMD(res.Plan))
		return err
	}}
)

// selectedFiles returns the files the flags ask for; all selects every one.
func selectedFiles(all bool) []generated {
	var files []generated
	if scanFlagHTML || all {
		files = append(files, htmlFile)
	}
	if scanFlagFix || all {
		files = append(files, fixesFile)
	}
	if scanFlagCursor || all {
		files = append(files, cursorFile)
	}
	if scanFlagClaude || all {
		files = append(files, claudeFile)
	}
	return files
}

// writeGenerated renders each file into dir. A file that fails to write is
// logged and skipped; only failing to create dir is returned.
func writeGenerated(e *env, dir string, res *pipeline.Result, files []generated) error {
	if len(files) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, g := range files {
		path := filepath.Join(dir, g.name)
		var buf bytes.Buffer
		if err := g.render(&buf, res); err != nil {
			e.log.Error().Err(err).Str("path", path).Msgf("failed to render %s", g.label)
			continue
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			e.log.Error().Err(err).Str("path", path).Msgf("failed to write %s", g.label)
			continue
		}
		e.log.Info().Str("path", path).Msgf("wrote %s", g.label)
	}
	return nil
}

// recordSnapshot stores res in the history database.
func recordSnapshot(e *env, command string, res *pipeline.Result) error {
	db, err := store.Open(e.cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	snap, err := db.Record(command, appVersion, res)
	if err != nil {
		return fmt.Errorf("recording snapshot: %w", err)
	}
	e.log.Info().Int64("snapshot", snap.ID).Str("db", e.cfg.DBPath).Msg("snapshot recorded")
	return nil
}
