// Package watcher re-scans a codebase at a regular interval and emits alerts
// when its health regresses or recovers.
package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/blackwell-systems/revibe/internal/metrics"
	"github.com/blackwell-systems/revibe/internal/pipeline"
	"github.com/blackwell-systems/revibe/internal/smells"
)

// Alert levels.
const (
	LevelInfo     = "info"
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

// WatchState captures the numbers of one scan that alerts are computed from.
type WatchState struct {
	Timestamp   time.Time
	ScanID      string
	HealthScore int
	Risk        metrics.RiskLevel
	SmellScores smells.Scores

	SourceFiles        int
	DuplicateGroups    int
	SensitiveUnhandled int
	LongFunctions      int
	Todos              int
}

// StateFrom reduces a scan result to a WatchState.
func StateFrom(res *pipeline.Result) *WatchState {
	m := res.Metrics
	return &WatchState{
		Timestamp:          res.StartedAt,
		ScanID:             res.ScanID,
		HealthScore:        m.HealthScore,
		Risk:               m.RiskLevel,
		SmellScores:        m.SmellScores,
		SourceFiles:        m.SourceFiles,
		DuplicateGroups:    len(m.DuplicateGroups),
		SensitiveUnhandled: len(m.SensitiveUnhandled),
		LongFunctions:      len(m.LongFunctions),
		Todos:              len(m.Todos),
	}
}

// Alert represents a notable change between two scans.
type Alert struct {
	Level   string // "info", "warning", "critical"
	Title   string
	Message string
	Time    time.Time
}

// ScanFunc runs one scan of root.
type ScanFunc func(ctx context.Context, root string, opts pipeline.Options) (*pipeline.Result, error)

// Watcher re-scans root at a regular interval and emits alerts when notable
// changes are detected.
type Watcher struct {
	root          string
	interval      time.Duration
	opts          pipeline.Options
	scan          ScanFunc
	previous      *WatchState
	alertFn       func(Alert)     // callback for emitting alerts
	lastAlertKeys map[string]bool // dedup: suppress repeated identical alerts
}

// New creates a Watcher for root that scans with pipeline.Run.
func New(root string, interval time.Duration, opts pipeline.Options, alertFn func(Alert)) *Watcher {
	return &Watcher{
		root:          root,
		interval:      interval,
		opts:          opts,
		scan:          pipeline.Run,
		alertFn:       alertFn,
		lastAlertKeys: make(map[string]bool),
	}
}

// Previous returns the state of the last successful scan, or nil.
func (w *Watcher) Previous() *WatchState {
	return w.previous
}

// Run takes an initial snapshot unless a previous Check already recorded
// one, then checks at every interval. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w.previous == nil {
		initial, err := w.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("initial scan: %w", err)
		}
		w.previous = initial
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, a := range w.Check(ctx) {
				if w.alertFn != nil {
					w.alertFn(a)
				}
			}
		}
	}
}

// Check re-scans, compares against the previous state and returns any
// alerts. An alert identical to one raised by the previous check is
// suppressed. A failed scan leaves the previous state in place.
func (w *Watcher) Check(ctx context.Context) []Alert {
	curr, err := w.Snapshot(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return w.dedup([]Alert{{
			Level:   LevelWarning,
			Title:   "Scan failed",
			Message: fmt.Sprintf("Could not scan %s: %v", w.root, err),
			Time:    time.Now(),
		}})
	}

	var raw []Alert
	if w.previous != nil {
		raw = Compare(w.previous, curr)
	}
	w.previous = curr
	return w.dedup(raw)
}

func (w *Watcher) dedup(raw []Alert) []Alert {
	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.Level + ":" + a.Title + ":" + a.Message
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = currentKeys
	return alerts
}

// Snapshot scans the root and reduces the result to a WatchState.
func (w *Watcher) Snapshot(ctx context.Context) (*WatchState, error) {
	res, err := w.scan(ctx, w.root, w.opts)
	if err != nil {
		return nil, err
	}
	return StateFrom(res), nil
}
