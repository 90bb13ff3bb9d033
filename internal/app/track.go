package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/revibe/internal/output"
	"github.com/blackwell-systems/revibe/internal/pipeline"
	"github.com/blackwell-systems/revibe/internal/store"
)

var (
	trackCompare int
	trackHistory int
)

var trackCmd = &cobra.Command{
	Use:   "track [path]",
	Short: "Record a snapshot and compare against history",
	Long: `Scan path, store a snapshot of its metrics and fix plan in the history
database, and compare against an earlier snapshot of the same root with
trend arrows.

Examples:
  revibe track                 # compare against the previous snapshot
  revibe track --compare 3     # compare against the third most recent
  revibe track --history 5     # metric table across the last 5 snapshots`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().IntVar(&trackCompare, "compare", 1, "Compare against Nth previous snapshot (1 = most recent)")
	trackCmd.Flags().IntVar(&trackHistory, "history", 0, "Show metric trends across N most recent snapshots")
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
	if trackCompare < 1 {
		return fmt.Errorf("--compare must be at least 1, got %d", trackCompare)
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

	db, err := store.Open(e.cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	current, err := db.Record("track", appVersion, res)
	if err != nil {
		return fmt.Errorf("recording snapshot: %w", err)
	}

	out := cmd.OutOrStdout()
	if trackHistory > 0 {
		entries, err := loadHistory(db, res.Root, trackHistory)
		if err != nil {
			return err
		}
		if flagJSON {
			return writeJSON(out, map[string]any{"history": entries})
		}
		renderHistory(out, entries)
		return nil
	}

	// The new snapshot is the most recent, so the Nth previous one sits at
	// offset N+1.
	prev, err := db.GetSnapshotN(res.Root, trackCompare+1)
	if err != nil {
		return fmt.Errorf("loading previous snapshot: %w", err)
	}
	var diff *store.SnapshotDiff
	if prev != nil {
		if diff, err = db.Diff(prev, current); err != nil {
			return err
		}
	}

	if flagJSON {
		result := map[string]any{"snapshot": current}
		if diff != nil {
			result["diff"] = diff
		}
		return writeJSON(out, result)
	}
	renderTrackOutput(out, current, diff)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// metricLabels are the display names of the stored metrics.
var metricLabels = map[string]string{
	"health_score":        "Health Score",
	"source_loc":          "Source LOC",
	"test_loc":            "Test LOC",
	"test_to_code_ratio":  "Test Ratio",
	"total_functions":     "Functions",
	"total_classes":       "Classes",
	"duplicate_groups":    "Duplicate Groups",
	"long_functions":      "Long Functions",
	"sensitive_unhandled": "Unprotected Sensitive",
	"todos":               "TODOs",
	"estimated_defects":   "Est. Defects",
	"feature_count":       "Features",
}

func metricLabel(name string) string {
	if l, ok := metricLabels[name]; ok {
		return l
	}
	if smell, ok := strings.CutPrefix(name, "smell."); ok {
		return "Smell: " + smell
	}
	return name
}

// formatMetric prints ratios and smell scores with two decimals and counts
// without.
func formatMetric(name string, v float64) string {
	if name == "test_to_code_ratio" || strings.HasPrefix(name, "smell.") {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.0f", v)
}

func renderTrackOutput(w io.Writer, current *store.Snapshot, diff *store.SnapshotDiff) {
	fmt.Fprintln(w, output.Section("Track: Snapshot Comparison"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, " Snapshot #%d of %s taken at %s\n", current.ID, current.Root, current.TakenAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, " Health %d/100 (%s)\n\n", current.HealthScore, current.RiskLevel)

	if diff == nil {
		fmt.Fprintln(w, " First snapshot recorded. Run 'revibe track' again later to see trends.")
		return
	}

	fmt.Fprintf(w, " Comparing against snapshot #%d (%s)\n\n",
		diff.Previous.ID, diff.Previous.TakenAt.Format("2006-01-02 15:04:05"))

	tbl := output.NewTable("Metric", "Previous", "Current", "Delta", "Trend")
	for _, d := range diff.Deltas {
		tbl.AddRow(
			metricLabel(d.Name),
			formatMetric(d.Name, d.Previous),
			formatMetric(d.Name, d.Current),
			fmt.Sprintf("%+.2f", d.Delta),
			output.TrendArrow(d.Delta, store.HigherIsBetter(d.Name)),
		)
	}
	tbl.Fprint(w)
}

// historyEntry is one snapshot with its metrics.
type historyEntry struct {
	Snapshot store.Snapshot          `json:"snapshot"`
	Metrics  []store.AggregateMetric `json:"metrics"`
}

// loadHistory returns up to n snapshots of root, oldest first.
func loadHistory(db *store.DB, root string, n int) ([]historyEntry, error) {
	snapshots, err := db.GetRecentSnapshots(root, n)
	if err != nil {
		return nil, fmt.Errorf("loading snapshots: %w", err)
	}

	entries := make([]historyEntry, len(snapshots))
	for i, s := range snapshots {
		ms, err := db.GetAggregateMetrics(s.ID)
		if err != nil {
			return nil, fmt.Errorf("loading metrics for snapshot #%d: %w", s.ID, err)
		}
		entries[len(snapshots)-1-i] = historyEntry{Snapshot: s, Metrics: ms}
	}
	return entries, nil
}

// renderHistory shows a metric-by-snapshot table with a first-to-last trend.
func renderHistory(w io.Writer, entries []historyEntry) {
	fmt.Fprintln(w, output.Section("Track: Metric History"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, " Showing %d most recent snapshots\n\n", len(entries))

	headers := []string{"Metric"}
	values := make([]map[string]float64, len(entries))
	for i, e := range entries {
		headers = append(headers, fmt.Sprintf("#%d %s", e.Snapshot.ID, e.Snapshot.TakenAt.Format("Jan 02")))
		values[i] = make(map[string]float64, len(e.Metrics))
		for _, m := range e.Metrics {
			values[i][m.MetricName] = m.MetricValue
		}
	}
	headers = append(headers, "Trend")
	tbl := output.NewTable(headers...)

	for _, name := range store.MetricNames {
		row := []string{metricLabel(name)}
		for _, v := range values {
			row = append(row, formatMetric(name, v[name]))
		}
		trend := ""
		if len(values) >= 2 {
			delta := values[len(values)-1][name] - values[0][name]
			trend = output.TrendArrow(delta, store.HigherIsBetter(name))
		}
		tbl.AddRow(append(row, trend)...)
	}
	tbl.Fprint(w)
}
