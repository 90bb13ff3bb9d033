package store

import (
	"database/sql"
	"errors"
	"time"
)

const snapshotColumns = "id, taken_at, command, version, scan_id, root, health_score, risk_level"

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// CreateSnapshot inserts s and returns its ID. A zero TakenAt is set to now.
func (db *DB) CreateSnapshot(s *Snapshot) (int64, error) {
	return createSnapshot(db.conn, s)
}

func createSnapshot(ex execer, s *Snapshot) (int64, error) {
	if s.TakenAt.IsZero() {
		s.TakenAt = time.Now()
	}
	result, err := ex.Exec(
		`INSERT INTO snapshots (taken_at, command, version, scan_id, root, health_score, risk_level)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.TakenAt.UTC().Format(time.RFC3339), s.Command, s.Version, s.ScanID, s.Root, s.HealthScore, s.RiskLevel,
	)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	s.ID = id
	return id, nil
}

// GetSnapshot returns a snapshot by ID, or nil if it does not exist.
func (db *DB) GetSnapshot(id int64) (*Snapshot, error) {
	row := db.conn.QueryRow("SELECT "+snapshotColumns+" FROM snapshots WHERE id = ?", id)
	return scanSnapshot(row)
}

// GetLatestSnapshot returns the most recent snapshot of root, or nil.
func (db *DB) GetLatestSnapshot(root string) (*Snapshot, error) {
	return db.GetSnapshotN(root, 1)
}

// GetSnapshotN returns the Nth most recent snapshot of root (1 = latest,
// 2 = previous, etc.), or nil if there are fewer than n.
func (db *DB) GetSnapshotN(root string, n int) (*Snapshot, error) {
	if n < 1 {
		return nil, nil
	}
	row := db.conn.QueryRow(
		"SELECT "+snapshotColumns+" FROM snapshots WHERE root = ? ORDER BY id DESC LIMIT 1 OFFSET ?",
		root, n-1,
	)
	return scanSnapshot(row)
}

// GetRecentSnapshots returns up to n snapshots of root, newest first.
func (db *DB) GetRecentSnapshots(root string, n int) ([]Snapshot, error) {
	rows, err := db.conn.Query(
		"SELECT "+snapshotColumns+" FROM snapshots WHERE root = ? ORDER BY id DESC LIMIT ?",
		root, n,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*Snapshot, error) {
	var s Snapshot
	var takenAt string
	err := row.Scan(&s.ID, &takenAt, &s.Command, &s.Version, &s.ScanID, &s.Root, &s.HealthScore, &s.RiskLevel)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
	return &s, nil
}

// InsertAggregateMetric inserts an aggregate metric for a snapshot.
func (db *DB) InsertAggregateMetric(snapshotID int64, name string, value float64, detail string) error {
	return insertAggregateMetric(db.conn, snapshotID, name, value, detail)
}

func insertAggregateMetric(ex execer, snapshotID int64, name string, value float64, detail string) error {
	_, err := ex.Exec(
		"INSERT INTO aggregate_metrics (snapshot_id, metric_name, metric_value, detail) VALUES (?, ?, ?, ?)",
		snapshotID, name, value, detail,
	)
	return err
}

// GetAggregateMetrics returns all aggregate metrics for a snapshot in
// insertion order.
func (db *DB) GetAggregateMetrics(snapshotID int64) ([]AggregateMetric, error) {
	rows, err := db.conn.Query(
		"SELECT id, snapshot_id, metric_name, metric_value, detail FROM aggregate_metrics WHERE snapshot_id = ? ORDER BY id",
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var metrics []AggregateMetric
	for rows.Next() {
		var m AggregateMetric
		var detail sql.NullString
		if err := rows.Scan(&m.ID, &m.SnapshotID, &m.MetricName, &m.MetricValue, &detail); err != nil {
			return nil, err
		}
		m.Detail = detail.String
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// InsertFix records a fix for a snapshot.
func (db *DB) InsertFix(f *FixRow) error {
	return insertFix(db.conn, f)
}

func insertFix(ex execer, f *FixRow) error {
	_, err := ex.Exec(
		"INSERT INTO fixes (snapshot_id, priority, title, affected_count) VALUES (?, ?, ?, ?)",
		f.SnapshotID, f.Priority, f.Title, f.AffectedCount,
	)
	return err
}

// GetFixes returns the fixes recorded for a snapshot in plan order.
func (db *DB) GetFixes(snapshotID int64) ([]FixRow, error) {
	rows, err := db.conn.Query(
		"SELECT id, snapshot_id, priority, title, affected_count FROM fixes WHERE snapshot_id = ? ORDER BY id",
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var fixes []FixRow
	for rows.Next() {
		var f FixRow
		if err := rows.Scan(&f.ID, &f.SnapshotID, &f.Priority, &f.Title, &f.AffectedCount); err != nil {
			return nil, err
		}
		fixes = append(fixes, f)
	}
	return fixes, rows.Err()
}
