package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/revibe/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [default-path]",
	Short: "Serve scan tools over MCP stdio",
	Long: `Start a Model Context Protocol stdio server so an AI assistant can scan
codebases during a session. Every tool takes an optional {"path": ...}
argument that defaults to default-path or the working directory:

  get_health_summary  Health score, risk, line counts and smell scores
  get_fix_plan        Prioritized fixes with prompts
  get_smells          The eight AI smell results with evidence
  get_duplicates      Exact and near-duplicate file groups

Add to your MCP client configuration:
  {"mcpServers":{"revibe":{"command":"revibe","args":["mcp"]}}}`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	srv := mcp.NewServer(e.pipelineOptions(), appVersion, rootArg(args))
	return srv.Run(cmd.Context(), os.Stdin, cmd.OutOrStdout())
}
