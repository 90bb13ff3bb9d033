package fixer

import (
	"fmt"
	"strings"
)

const maxListedFiles = 5

var priorityEmoji = map[Priority]string{
	PriorityCritical: "🔴",
	PriorityHigh:     "🟠",
	PriorityMedium:   "🟡",
	PriorityLow:      "🟢",
}

// Emoji returns the marker used for p in markdown output.
func (p Priority) Emoji() string {
	if e, ok := priorityEmoji[p]; ok {
		return e
	}
	return "⚪"
}

// RenderMarkdown renders plan as a markdown document with one fenced prompt
// per fix.
func RenderMarkdown(plan *Plan) string {
	var b strings.Builder
	lines := func(ss ...string) {
		for _, s := range ss {
			b.WriteString(s)
			b.WriteByte('\n')
		}
	}

	lines(
		"# Revibe Fix Instructions",
		fmt.Sprintf("> Generated by Revibe v%s on %s", plan.Version, plan.date()),
		fmt.Sprintf("> Codebase: %s | Health Score: %d/100 (%s RISK)", plan.CodebasePath, plan.HealthScore, plan.RiskLevel),
		"> Copy any section below into Cursor, Claude, or your AI coding tool.",
		"",
	)

	if len(plan.Fixes) == 0 {
		b.WriteString("✅ **No critical fixes needed!** Your codebase looks healthy.")
		return b.String()
	}

	for i, fix := range plan.Fixes {
		lines(
			fmt.Sprintf("## %s %s: %s", fix.Priority.Emoji(), fix.Priority, fix.Title),
			"",
			fix.Description,
			"",
		)

		if len(fix.AffectedFiles) > 0 {
			lines("**Affected files:**")
			for _, f := range fix.AffectedFiles[:min(len(fix.AffectedFiles), maxListedFiles)] {
				lines(fmt.Sprintf("- `%s`", f))
			}
			if extra := len(fix.AffectedFiles) - maxListedFiles; extra > 0 {
				lines(fmt.Sprintf("- ... and %d more", extra))
			}
			lines("")
		}

		lines(
			fmt.Sprintf("### Prompt %d: %s", i+1, fix.Title),
			"```",
			fix.Prompt,
			"```",
			"",
		)

		if fix.Verification != "" {
			lines(fmt.Sprintf("**Verification:** %s", fix.Verification), "")
		}
		lines("---", "")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// RenderCursorRules renders plan as a .cursorrules file.
func RenderCursorRules(plan *Plan) string {
	out := []string{
		"# Revibe Rules — Generated " + plan.date(),
		fmt.Sprintf("# Health Score: %d/100 — %s RISK", plan.HealthScore, plan.RiskLevel),
		"",
		"## Priority fixes for this codebase:",
		"",
	}

	for _, fix := range plan.Fixes[:min(len(plan.Fixes), 5)] {
		switch fix.Priority {
		case PriorityCritical:
			out = append(out, fmt.Sprintf("- ALWAYS %s before adding new features", strings.ToLower(fix.Title)))
		case PriorityHigh:
			out = append(out, fmt.Sprintf("- PREFER fixing %s over adding new code", strings.ToLower(fix.Title)))
		default:
			out = append(out, "- CONSIDER addressing: "+fix.Title)
		}
	}

	out = append(out, "", "## General rules:", "")
	if plan.HealthScore < 60 {
		out = append(out,
			"- DO NOT add new features until existing issues are fixed",
			"- ALWAYS write tests for new functions",
			"- ALWAYS add error handling to new functions",
		)
	} else {
		out = append(out,
			"- PREFER writing tests alongside new code",
			"- PREFER small, focused functions over large ones",
		)
	}
	out = append(out,
		"- NEVER create duplicate files — check if similar code exists",
		"- PREFER consolidating into existing files over creating new ones",
	)
	return strings.Join(out, "\n")
}

// RenderClaudeMD renders a short code health section for a CLAUDE.md file.
func RenderClaudeMD(plan *Plan) string {
	out := []string{
		"## Code Health Notes (Revibe)",
		"",
		fmt.Sprintf("Health score: %d/100 (%s risk). Key issues:", plan.HealthScore, plan.RiskLevel),
		"",
	}

	for _, fix := range plan.Fixes[:min(len(plan.Fixes), 5)] {
		summary, _, _ := strings.Cut(fix.Description, ".")
		out = append(out, fmt.Sprintf("- **%s**: %s.", fix.Title, summary))
	}
	if len(plan.Fixes) == 0 {
		out = append(out, "- ✅ No critical issues detected")
	}

	out = append(out, "", fmt.Sprintf("_Generated by Revibe v%s on %s_", plan.Version, plan.date()))
	return strings.Join(out, "\n")
}
