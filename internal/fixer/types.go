// Package fixer turns scan metrics into a prioritized plan of copy-paste
// prompts for AI coding assistants, and renders that plan as markdown,
// editor rules or a CLAUDE.md section.
package fixer

import (
	"fmt"
	"strings"
	"time"

	"github.com/blackwell-systems/revibe/internal/metrics"
)

// Priority is the urgency tier of a fix. Lower values are more urgent.
type Priority int

const (
	PriorityCritical Priority = iota + 1
	PriorityHigh
	PriorityMedium
	PriorityLow
)

func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "CRITICAL"
	case PriorityHigh:
		return "HIGH"
	case PriorityMedium:
		return "MEDIUM"
	case PriorityLow:
		return "LOW"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// ParsePriority reads a tier name, case-insensitively.
func ParsePriority(s string) (Priority, error) {
	for p := PriorityCritical; p <= PriorityLow; p++ {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown priority %q", s)
}

// MarshalText encodes the tier name.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a tier name.
func (p *Priority) UnmarshalText(text []byte) error {
	v, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Fix is one recommendation with a ready-to-paste prompt.
type Fix struct {
	Priority      Priority `json:"priority" yaml:"priority"`
	Title         string   `json:"title" yaml:"title"`
	Description   string   `json:"description" yaml:"description"`
	Prompt        string   `json:"prompt" yaml:"prompt"`
	AffectedFiles []string `json:"affected_files" yaml:"affected_files"`
	Verification  string   `json:"verification" yaml:"verification"`
}

// Plan is the ordered fix list for one scan.
type Plan struct {
	Fixes        []Fix             `json:"fixes" yaml:"fixes"`
	CodebasePath string            `json:"codebase_path" yaml:"codebase_path"`
	HealthScore  int               `json:"health_score" yaml:"health_score"`
	RiskLevel    metrics.RiskLevel `json:"risk_level" yaml:"risk_level"`
	GeneratedAt  time.Time         `json:"generated_at" yaml:"generated_at"`
	Version      string            `json:"version" yaml:"version"`
}

// ByPriority returns the fixes at priority p, in plan order.
func (p *Plan) ByPriority(pr Priority) []Fix {
	var out []Fix
	for _, f := range p.Fixes {
		if f.Priority == pr {
			out = append(out, f)
		}
	}
	return out
}

func (p *Plan) date() string {
	return p.GeneratedAt.Format("2006-01-02")
}
