package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/revibe/internal/fixer"
	"github.com/blackwell-systems/revibe/internal/metrics"
	"github.com/blackwell-systems/revibe/internal/output"
	"github.com/blackwell-systems/revibe/internal/pipeline"
	"github.com/blackwell-systems/revibe/internal/smells"
)

const topFixes = 3

var riskEmoji = map[metrics.RiskLevel]string{
	metrics.RiskLow:      "🟢",
	metrics.RiskModerate: "🟡",
	metrics.RiskElevated: "🟠",
	metrics.RiskHigh:     "🔴",
	metrics.RiskCritical: "🔴",
}

// RiskEmoji returns the marker for a risk tier.
func RiskEmoji(r metrics.RiskLevel) string {
	if e, ok := riskEmoji[r]; ok {
		return e
	}
	return "⚪"
}

type statRow struct {
	label, value, note string
}

func stats(m *metrics.CodebaseMetrics) []statRow {
	pct := m.TestToCodeRatio * 100
	status := ""
	switch {
	case pct < 50:
		status = "⚠️"
	case pct >= 80:
		status = "✅"
	}

	rows := []statRow{
		{"Source Code:", output.Thousands(m.SourceLOC) + " lines", fmt.Sprintf("(%d files)", m.SourceFiles)},
		{"Test Code:", output.Thousands(m.TestLOC) + " lines", fmt.Sprintf("(%d files)", m.TestFiles)},
		{"Test Ratio:", fmt.Sprintf("%.1f%%", pct), status + " (target: ≥80%)"},
		{"Est. Defects:", fmt.Sprintf("~%d bugs", m.EstimatedDefects), "hiding in your code"},
		{"Features:", fmt.Sprintf("%d", m.FeatureCount), fmt.Sprintf("(%s interaction paths)", output.Thousands(m.FeatureInteractions()))},
	}
	if n := len(m.DuplicateGroups); n > 0 {
		rows = append(rows, statRow{"Duplicates:", fmt.Sprintf("%d groups", n), "(redundant code)"})
	}
	if n := m.SmellScores.CountAbove(0.5); n > 0 {
		rows = append(rows, statRow{"AI Smells:", fmt.Sprintf("%d of %d", n, int(smells.NumKinds)), "detected"})
	}
	return rows
}

// WriteTerminal prints the human summary of res. Plain mode avoids styling
// and draws the health box with fixed box characters.
func WriteTerminal(w io.Writer, res *pipeline.Result, version string, plain bool) {
	if plain {
		writePlain(w, res, version)
		return
	}
	writeStyled(w, res, version)
}

func writeStyled(w io.Writer, res *pipeline.Result, version string) {
	m := res.Metrics
	risk := output.RiskStyle(m.RiskLevel)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s — Scan Complete\n\n", output.StyleHeader.Render("🔍 Revibe v"+version))

	body := output.StyleBold.Render(fmt.Sprintf("Health Score: %d / 100", m.HealthScore)) + "\n" +
		risk.Render(fmt.Sprintf("Risk Level:   %s %s", RiskEmoji(m.RiskLevel), m.RiskLevel))
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(output.RiskColor(m.RiskLevel)).
		Padding(0, 1).
		Width(38).
		Render(output.StyleMuted.Render("Codebase Health") + "\n" + body)
	fmt.Fprintln(w, panel)
	fmt.Fprintln(w)

	label := lipgloss.NewStyle().Width(14)
	value := lipgloss.NewStyle().Bold(true).Width(16)
	for _, r := range stats(m) {
		fmt.Fprintf(w, "  %s  %s  %s\n", output.StyleMuted.Render(label.Render(r.label)), value.Render(r.value), r.note)
	}
	fmt.Fprintln(w)

	if res.Plan != nil && len(res.Plan.Fixes) > 0 {
		fmt.Fprintln(w, output.StyleBold.Render("Top Fixes:"))
		for _, fix := range res.Plan.Fixes[:min(len(res.Plan.Fixes), topFixes)] {
			fmt.Fprintf(w, "  %s %s  %s\n", fix.Priority.Emoji(), priorityStyle(fix.Priority).Render(fix.Priority.String()), fix.Title)
		}
		fmt.Fprintln(w)
	}

	hint := func(cmd, what string) string {
		return output.StyleMuted.Render("Run ") + output.StyleBold.Render(cmd) + output.StyleMuted.Render(" "+what)
	}
	fmt.Fprintln(w, hint("revibe scan . --fix", "to generate copy-paste fix instructions"))
	fmt.Fprintln(w, hint("revibe scan . --html", "for a detailed visual report"))
	fmt.Fprintln(w)
}

func priorityStyle(p fixer.Priority) lipgloss.Style {
	switch p {
	case fixer.PriorityCritical:
		return output.StyleError.Bold(true)
	case fixer.PriorityHigh:
		return output.StyleOrange.Bold(true)
	case fixer.PriorityMedium:
		return output.StyleWarning.Bold(true)
	default:
		return output.StyleSuccess.Bold(true)
	}
}

func writePlain(w io.Writer, res *pipeline.Result, version string) {
	m := res.Metrics
	var b strings.Builder

	fmt.Fprintf(&b, "\n🔍 Revibe v%s — Scan Complete\n\n", version)
	b.WriteString("╭─────────────────────────────────────╮\n")
	fmt.Fprintf(&b, "│     Health Score: %3d / 100          │\n", m.HealthScore)
	fmt.Fprintf(&b, "│     Risk Level:   %s %-12s   │\n", RiskEmoji(m.RiskLevel), m.RiskLevel)
	b.WriteString("╰─────────────────────────────────────╯\n\n")

	for _, r := range stats(m) {
		fmt.Fprintf(&b, "  %-16s%s %s\n", r.label, r.value, r.note)
	}
	b.WriteString("\n")

	if res.Plan != nil && len(res.Plan.Fixes) > 0 {
		b.WriteString("  Top Fixes:\n")
		for _, fix := range res.Plan.Fixes[:min(len(res.Plan.Fixes), topFixes)] {
			fmt.Fprintf(&b, "  %s %-8s  %s\n", fix.Priority.Emoji(), fix.Priority, fix.Title)
		}
		b.WriteString("\n")
	}

	b.WriteString("  Run `revibe scan . --fix` to generate copy-paste fix instructions\n")
	b.WriteString("  Run `revibe scan . --html` for a detailed visual report\n\n")
	io.WriteString(w, b.String())
}
