package watcher

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/revibe/internal/metrics"
	"github.com/blackwell-systems/revibe/internal/smells"
)

// HealthDropCritical is the score drop that escalates a regression to
// critical.
const HealthDropCritical = 10

// Compare detects notable changes between two scans and returns alerts,
// critical first.
func Compare(prev, curr *WatchState) []Alert {
	var alerts []Alert

	alerts = append(alerts, compareCritical(prev, curr)...)
	alerts = append(alerts, compareWarning(prev, curr)...)
	alerts = append(alerts, compareInfo(prev, curr)...)

	return alerts
}

func compareCritical(prev, curr *WatchState) []Alert {
	var alerts []Alert
	now := time.Now()

	if worse(prev.Risk, curr.Risk) {
		alerts = append(alerts, Alert{
			Level:   LevelCritical,
			Title:   fmt.Sprintf("Risk level raised to %s", curr.Risk),
			Message: fmt.Sprintf("Risk went from %s to %s (health %d -> %d)", prev.Risk, curr.Risk, prev.HealthScore, curr.HealthScore),
			Time:    now,
		})
	}

	if drop := prev.HealthScore - curr.HealthScore; drop >= HealthDropCritical {
		alerts = append(alerts, Alert{
			Level:   LevelCritical,
			Title:   "Health score dropped sharply",
			Message: fmt.Sprintf("Health fell %d points, from %d to %d", drop, prev.HealthScore, curr.HealthScore),
			Time:    now,
		})
	}

	return alerts
}

func compareWarning(prev, curr *WatchState) []Alert {
	var alerts []Alert
	now := time.Now()

	if drop := prev.HealthScore - curr.HealthScore; drop > 0 && drop < HealthDropCritical {
		alerts = append(alerts, Alert{
			Level:   LevelWarning,
			Title:   "Health score dropped",
			Message: fmt.Sprintf("Health fell from %d to %d", prev.HealthScore, curr.HealthScore),
			Time:    now,
		})
	}

	for _, k := range smells.Kinds() {
		before, after := prev.SmellScores.Get(k), curr.SmellScores.Get(k)
		if before < metrics.SmellHigh && after >= metrics.SmellHigh {
			alerts = append(alerts, Alert{
				Level:   LevelWarning,
				Title:   fmt.Sprintf("AI smell: %s", k),
				Message: fmt.Sprintf("Score rose from %.0f%% to %.0f%%", before*100, after*100),
				Time:    now,
			})
		}
	}

	if curr.DuplicateGroups > prev.DuplicateGroups {
		alerts = append(alerts, Alert{
			Level:   LevelWarning,
			Title:   "New duplicate code",
			Message: fmt.Sprintf("Duplicate groups increased from %d to %d", prev.DuplicateGroups, curr.DuplicateGroups),
			Time:    now,
		})
	}

	if curr.SensitiveUnhandled > prev.SensitiveUnhandled {
		alerts = append(alerts, Alert{
			Level:   LevelWarning,
			Title:   "Unprotected sensitive code",
			Message: fmt.Sprintf("Sensitive functions without error handling increased from %d to %d", prev.SensitiveUnhandled, curr.SensitiveUnhandled),
			Time:    now,
		})
	}

	return alerts
}

func compareInfo(prev, curr *WatchState) []Alert {
	var alerts []Alert

	if curr.HealthScore > prev.HealthScore {
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   "Health score improved",
			Message: fmt.Sprintf("Health rose from %d to %d (%s)", prev.HealthScore, curr.HealthScore, curr.Risk),
			Time:    time.Now(),
		})
	}

	return alerts
}

// worse reports whether the tier moved towards critical. An unknown previous
// tier never counts.
func worse(prev, curr metrics.RiskLevel) bool {
	return prev != metrics.RiskUnknown && curr > prev
}
