package store

import (
	"fmt"

	"github.com/blackwell-systems/revibe/internal/metrics"
	"github.com/blackwell-systems/revibe/internal/pipeline"
	"github.com/blackwell-systems/revibe/internal/smells"
)

// MetricNames lists the stored metrics in display order.
var MetricNames = func() []string {
	names := []string{
		"health_score",
		"source_loc",
		"test_loc",
		"test_to_code_ratio",
		"total_functions",
		"total_classes",
		"duplicate_groups",
		"long_functions",
		"sensitive_unhandled",
		"todos",
		"estimated_defects",
		"feature_count",
	}
	for _, k := range smells.Kinds() {
		names = append(names, "smell."+k.String())
	}
	return names
}()

// higherIsBetter lists the metrics that improve as they grow. Every other
// metric improves as it shrinks.
var higherIsBetter = map[string]bool{
	"health_score":       true,
	"test_loc":           true,
	"test_to_code_ratio": true,
}

// HigherIsBetter reports whether an increase in name is an improvement.
func HigherIsBetter(name string) bool {
	return higherIsBetter[name]
}

// MetricsFor flattens m into the stored metric set.
func MetricsFor(m *metrics.CodebaseMetrics) map[string]float64 {
	out := map[string]float64{
		"health_score":        float64(m.HealthScore),
		"source_loc":          float64(m.SourceLOC),
		"test_loc":            float64(m.TestLOC),
		"test_to_code_ratio":  m.TestToCodeRatio,
		"total_functions":     float64(m.TotalFunctions),
		"total_classes":       float64(m.TotalClasses),
		"duplicate_groups":    float64(len(m.DuplicateGroups)),
		"long_functions":      float64(len(m.LongFunctions)),
		"sensitive_unhandled": float64(len(m.SensitiveUnhandled)),
		"todos":               float64(len(m.Todos)),
		"estimated_defects":   float64(m.EstimatedDefects),
		"feature_count":       float64(m.FeatureCount),
	}
	for _, k := range smells.Kinds() {
		out["smell."+k.String()] = m.SmellScores.Get(k)
	}
	return out
}

// Record stores res as a new snapshot with its metrics and fixes. Either
// everything is written or nothing is.
func (db *DB) Record(command, version string, res *pipeline.Result) (*Snapshot, error) {
	snap := &Snapshot{
		TakenAt:     res.StartedAt,
		Command:     command,
		Version:     version,
		ScanID:      res.ScanID,
		Root:        res.Root,
		HealthScore: res.Metrics.HealthScore,
		RiskLevel:   res.Metrics.RiskLevel.String(),
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := createSnapshot(tx, snap); err != nil {
		return nil, fmt.Errorf("creating snapshot: %w", err)
	}

	values := MetricsFor(res.Metrics)
	for _, name := range MetricNames {
		if err := insertAggregateMetric(tx, snap.ID, name, values[name], ""); err != nil {
			return nil, fmt.Errorf("inserting metric %s: %w", name, err)
		}
	}

	if res.Plan != nil {
		for _, f := range res.Plan.Fixes {
			row := &FixRow{
				SnapshotID:    snap.ID,
				Priority:      f.Priority.String(),
				Title:         f.Title,
				AffectedCount: len(f.AffectedFiles),
			}
			if err := insertFix(tx, row); err != nil {
				return nil, fmt.Errorf("inserting fix: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing snapshot: %w", err)
	}
	return snap, nil
}

// ComputeDeltas compares two sets of aggregate metrics. Metrics missing
// from prev are compared against zero.
func ComputeDeltas(prev, curr []AggregateMetric) []MetricDelta {
	prevMap := make(map[string]float64, len(prev))
	for _, m := range prev {
		prevMap[m.MetricName] = m.MetricValue
	}

	deltas := make([]MetricDelta, 0, len(curr))
	for _, m := range curr {
		prevVal := prevMap[m.MetricName]
		delta := m.MetricValue - prevVal

		direction := Unchanged
		if delta != 0 {
			if (delta > 0) == HigherIsBetter(m.MetricName) {
				direction = Improved
			} else {
				direction = Regressed
			}
		}

		deltas = append(deltas, MetricDelta{
			Name:      m.MetricName,
			Previous:  prevVal,
			Current:   m.MetricValue,
			Delta:     delta,
			Direction: direction,
		})
	}
	return deltas
}

// Diff loads the metrics of two snapshots and compares them.
func (db *DB) Diff(prev, curr *Snapshot) (*SnapshotDiff, error) {
	prevMetrics, err := db.GetAggregateMetrics(prev.ID)
	if err != nil {
		return nil, fmt.Errorf("loading previous metrics: %w", err)
	}
	currMetrics, err := db.GetAggregateMetrics(curr.ID)
	if err != nil {
		return nil, fmt.Errorf("loading current metrics: %w", err)
	}
	return &SnapshotDiff{
		Previous: prev,
		Current:  curr,
		Deltas:   ComputeDeltas(prevMetrics, currMetrics),
	}, nil
}
