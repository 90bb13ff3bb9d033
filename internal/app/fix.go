package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/revibe/internal/fixer"
	"github.com/blackwell-systems/revibe/internal/pipeline"
)

// Fix plan formats accepted by --format.
var fixFormats = []string{"markdown", "cursor", "claude", "json"}

var (
	fixFlagFormat string
	fixFlagOutput string
)

var fixCmd = &cobra.Command{
	Use:   "fix [path]",
	Short: "Print the prioritized fix plan",
	Long: `Scan path (default: the current directory) and print its fix plan. Each fix
carries a ready-to-paste prompt for an AI coding assistant and a way to
verify the result.

Formats:
  markdown   the same content scan --fix writes to ` + FixesFileName + `
  cursor     rules for ` + CursorRulesFileName + `
  claude     health notes for CLAUDE.md
  json       the plan as JSON`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().StringVar(&fixFlagFormat, "format", "markdown", "Output format: "+strings.Join(fixFormats, ", "))
	fixCmd.Flags().StringVarP(&fixFlagOutput, "output", "o", "", "Write the plan to this file instead of stdout")
	rootCmd.AddCommand(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(fixFlagFormat)
	if flagJSON {
		format = "json"
	}
	if !validFixFormat(format) {
		return fmt.Errorf("unknown format %q (want one of %s)", fixFlagFormat, strings.Join(fixFormats, ", "))
	}

	e, err := setup(cmd)
	if err != nil {
		return err
	}

	res, err := pipeline.Run(cmd.Context(), rootArg(args), e.pipelineOptions())
	if errors.Is(err, pipeline.ErrNoSourceFiles) {
		e.log.Warn().Msg("no source files found in this directory")
		return nil
	}
	if err != nil {
		return err
	}

	if fixFlagOutput == "" {
		return writePlan(cmd.OutOrStdout(), res.Plan, format)
	}
	f, err := os.Create(fixFlagOutput)
	if err != nil {
		return fmt.Errorf("creating %s: %w", fixFlagOutput, err)
	}
	if err := writePlan(f, res.Plan, format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	e.log.Info().Str("path", fixFlagOutput).Int("fixes", len(res.Plan.Fixes)).Msg("wrote fix plan")
	return nil
}

func validFixFormat(format string) bool {
	for _, f := range fixFormats {
		if f == format {
			return true
		}
	}
	return false
}

// writePlan renders plan in format. Text formats end with a newline.
func writePlan(w io.Writer, plan *fixer.Plan, format string) error {
	var text string
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case "cursor":
		text = fixer.RenderCursorRules(plan)
	case "claude":
		text = fixer.RenderClaudeMD(plan)
	default:
		text = fixer.RenderMarkdown(plan)
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(w, text)
	return err
}
