package fixer

import (
	"time"

	"github.com/blackwell-systems/revibe/internal/metrics"
)

// rule inspects the metrics and returns a fix, or nil when it does not apply.
type rule func(m *metrics.CodebaseMetrics) *Fix

// Planner evaluates the fix rules in a fixed order.
type Planner struct {
	version string
	now     func() time.Time
	rules   []rule
}

// NewPlanner returns a Planner that stamps plans with version.
func NewPlanner(version string) *Planner {
	return &Planner{
		version: version,
		now:     time.Now,
		rules: []rule{
			testCoverageRule,
			sensitiveRule,
			duplicateRule,
			longFunctionRule,
			smellRule,
			todoRule,
			sizeRule,
		},
	}
}

// Plan builds the fix plan for the codebase at root. Every rule that fires
// contributes one fix, in rule order. An empty plan is valid.
func (p *Planner) Plan(root string, m *metrics.CodebaseMetrics) *Plan {
	plan := &Plan{
		Fixes:        []Fix{},
		CodebasePath: root,
		HealthScore:  m.HealthScore,
		RiskLevel:    m.RiskLevel,
		GeneratedAt:  p.now(),
		Version:      p.version,
	}
	for _, r := range p.rules {
		if fix := r(m); fix != nil {
			plan.Fixes = append(plan.Fixes, *fix)
		}
	}
	return plan
}
