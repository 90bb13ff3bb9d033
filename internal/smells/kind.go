// Package smells scores a codebase against eight heuristics that are common
// in machine-generated code. Every score is in [0, 1].
package smells

import (
	"encoding/json"
	"fmt"
)

// Kind identifies one smell detector. The order of the constants is the
// order detectors run and are reported in.
type Kind int

const (
	ExcessiveComments Kind = iota
	VerboseNaming
	BoilerplateHeavy
	InconsistentPatterns
	DeadCodeIndicators
	OverEngineering
	MissingErrorHandling
	CopyPasteArtifacts

	// NumKinds is the number of detectors.
	NumKinds
)

var kindNames = [NumKinds]string{
	"excessive_comments",
	"verbose_naming",
	"boilerplate_heavy",
	"inconsistent_patterns",
	"dead_code_indicators",
	"over_engineering",
	"missing_error_handling",
	"copy_paste_artifacts",
}

var kindDescriptions = [NumKinds]string{
	"High ratio of comments to code (AI tends to over-explain)",
	"Overly long function/variable names (> 35 characters)",
	"Many imports relative to actual functions",
	"Mixed naming conventions (camelCase vs snake_case)",
	"Same function defined in multiple files",
	"Too many classes relative to codebase size",
	"Functions without try/catch or error handling",
	"Repeated string patterns across files",
}

// String returns the snake_case name used in reports and storage.
func (k Kind) String() string {
	if k < 0 || k >= NumKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Description returns the fixed human-readable explanation of the smell.
func (k Kind) Description() string {
	if k < 0 || k >= NumKinds {
		return ""
	}
	return kindDescriptions[k]
}

// ParseKind maps a snake_case name back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Kinds returns every Kind in detector order.
func Kinds() []Kind {
	out := make([]Kind, NumKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Descriptions maps each smell name to its description.
func Descriptions() map[string]string {
	out := make(map[string]string, NumKinds)
	for k := range NumKinds {
		out[k.String()] = k.Description()
	}
	return out
}

// Scores holds one score per Kind.
type Scores [NumKinds]float64

// Get returns the score for k.
func (s Scores) Get(k Kind) float64 {
	return s[k]
}

// Map returns the scores keyed by smell name.
func (s Scores) Map() map[string]float64 {
	out := make(map[string]float64, NumKinds)
	for k := range NumKinds {
		out[k.String()] = s[k]
	}
	return out
}

// CountAbove returns how many scores are strictly greater than threshold.
func (s Scores) CountAbove(threshold float64) int {
	n := 0
	for _, v := range s {
		if v > threshold {
			n++
		}
	}
	return n
}

// CountAtLeast returns how many scores are greater than or equal to
// threshold.
func (s Scores) CountAtLeast(threshold float64) int {
	n := 0
	for _, v := range s {
		if v >= threshold {
			n++
		}
	}
	return n
}

// MarshalJSON encodes the scores as an object keyed by smell name.
func (s Scores) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

// UnmarshalJSON decodes an object keyed by smell name. Unknown names are
// ignored.
func (s *Scores) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = Scores{}
	for name, v := range m {
		if k, ok := ParseKind(name); ok {
			s[k] = v
		}
	}
	return nil
}

// Result is the outcome of one detector.
type Result struct {
	Kind        Kind     `json:"-" yaml:"-"`
	Name        string   `json:"name" yaml:"name"`
	Score       float64  `json:"score" yaml:"score"`
	Description string   `json:"description" yaml:"description"`
	Details     []string `json:"details" yaml:"details"`
}

// Report holds every detector's result, indexed by Kind.
type Report [NumKinds]Result

// Scores extracts the scores from r.
func (r Report) Scores() Scores {
	var s Scores
	for k := range NumKinds {
		s[k] = r[k].Score
	}
	return s
}
