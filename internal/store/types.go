// Package store provides SQLite-backed scan history for revibe.
package store

import "time"

// Snapshot is one recorded scan of a codebase root.
type Snapshot struct {
	ID          int64     `json:"id"`
	TakenAt     time.Time `json:"taken_at"`
	Command     string    `json:"command"`
	Version     string    `json:"version"`
	ScanID      string    `json:"scan_id"`
	Root        string    `json:"root"`
	HealthScore int       `json:"health_score"`
	RiskLevel   string    `json:"risk_level"`
}

// AggregateMetric represents a named metric value within a snapshot.
type AggregateMetric struct {
	ID          int64   `json:"id"`
	SnapshotID  int64   `json:"snapshot_id"`
	MetricName  string  `json:"metric_name"`
	MetricValue float64 `json:"metric_value"`
	Detail      string  `json:"detail,omitempty"`
}

// FixRow is a fix recorded with a snapshot.
type FixRow struct {
	ID            int64  `json:"id"`
	SnapshotID    int64  `json:"snapshot_id"`
	Priority      string `json:"priority"`
	Title         string `json:"title"`
	AffectedCount int    `json:"affected_count"`
}

// SnapshotDiff represents the comparison between two snapshots.
type SnapshotDiff struct {
	Previous *Snapshot     `json:"previous"`
	Current  *Snapshot     `json:"current"`
	Deltas   []MetricDelta `json:"deltas"`
}

// Direction labels for a MetricDelta.
const (
	Improved  = "improved"
	Regressed = "regressed"
	Unchanged = "unchanged"
)

// MetricDelta represents the change in a single metric between snapshots.
type MetricDelta struct {
	Name      string  `json:"name"`
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"`
}
