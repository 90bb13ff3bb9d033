package metrics

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RiskLevel is the tier derived from a health score. Higher values are
// worse; the zero value means no score has been computed.
type RiskLevel int

const (
	RiskUnknown RiskLevel = iota
	RiskLow
	RiskModerate
	RiskElevated
	RiskHigh
	RiskCritical
)

// Health score floors for each tier.
const (
	lowFloor      = 80
	moderateFloor = 60
	elevatedFloor = 40
	highFloor     = 20
)

func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "LOW"
	case RiskModerate:
		return "MODERATE"
	case RiskElevated:
		return "ELEVATED"
	case RiskHigh:
		return "HIGH"
	case RiskCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParseRisk reads a tier name, case-insensitively.
func ParseRisk(s string) (RiskLevel, error) {
	for r := RiskUnknown; r <= RiskCritical; r++ {
		if strings.EqualFold(s, r.String()) {
			return r, nil
		}
	}
	return RiskUnknown, fmt.Errorf("unknown risk level %q", s)
}

// MarshalJSON encodes the tier name.
func (r RiskLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a tier name.
func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseRisk(s)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// MarshalYAML encodes the tier name.
func (r RiskLevel) MarshalYAML() (any, error) {
	return r.String(), nil
}

// RiskFor maps a health score to its tier.
func RiskFor(score int) RiskLevel {
	switch {
	case score >= lowFloor:
		return RiskLow
	case score >= moderateFloor:
		return RiskModerate
	case score >= elevatedFloor:
		return RiskElevated
	case score >= highFloor:
		return RiskHigh
	default:
		return RiskCritical
	}
}
