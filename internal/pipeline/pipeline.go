// Package pipeline runs a full scan: discovery, per-file analysis, smell
// detection, duplicate detection, aggregation and fix planning.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/blackwell-systems/revibe/internal/analyzer"
	"github.com/blackwell-systems/revibe/internal/config"
	"github.com/blackwell-systems/revibe/internal/duplicates"
	"github.com/blackwell-systems/revibe/internal/fixer"
	"github.com/blackwell-systems/revibe/internal/metrics"
	"github.com/blackwell-systems/revibe/internal/patterns"
	"github.com/blackwell-systems/revibe/internal/scanner"
	"github.com/blackwell-systems/revibe/internal/smells"
)

// ErrNoSourceFiles is returned when discovery finds nothing to analyze.
var ErrNoSourceFiles = errors.New("no source files found")

// Options configures a scan.
type Options struct {
	Scanner       scanner.Options
	Analyzer      analyzer.Options
	NearThreshold float64
	Version       string

	// Metrics is used as given; only the zero value selects
	// metrics.DefaultConfig().
	Metrics metrics.Config

	// Logger receives stage progress. The zero value discards it.
	Logger zerolog.Logger
}

// OptionsFromConfig maps cfg onto scan options. Zero workers means one per
// CPU.
func OptionsFromConfig(cfg *config.Config, version string, logger zerolog.Logger) Options {
	ao := cfg.AnalyzerOptions()
	if ao.Workers <= 0 {
		ao.Workers = runtime.GOMAXPROCS(0)
	}
	return Options{
		Scanner:       cfg.ScannerOptions(),
		Analyzer:      ao,
		NearThreshold: cfg.NearDuplicateThreshold,
		Metrics:       cfg.MetricsConfig(),
		Version:       version,
		Logger:        logger,
	}
}

// Result holds every intermediate product of one scan.
type Result struct {
	ScanID    string
	Root      string
	StartedAt time.Time
	Duration  time.Duration

	Files      []scanner.SourceFile
	Analyses   []*analyzer.FileAnalysis
	Smells     smells.Report
	Duplicates []duplicates.Group
	Metrics    *metrics.CodebaseMetrics
	Plan       *fixer.Plan
}

// Run scans root. It fails on an invalid root, when no source files are
// found, and when ctx is cancelled. Per-file read failures are logged at
// debug and leave the file out.
func Run(ctx context.Context, root string, opts Options) (*Result, error) {
	log := opts.Logger
	started := time.Now()

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}
	threshold := opts.NearThreshold
	if threshold <= 0 {
		threshold = duplicates.DefaultThreshold
	}
	mcfg := opts.Metrics
	if mcfg == (metrics.Config{}) {
		mcfg = metrics.DefaultConfig()
	}

	res := &Result{ScanID: uuid.NewString(), Root: abs, StartedAt: started}
	log = log.With().Str("scan_id", res.ScanID).Logger()

	log.Info().Str("root", abs).Msg("discovering files")
	files, err := scanner.Scan(abs, opts.Scanner)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", abs, ErrNoSourceFiles)
	}
	res.Files = files
	langs := scanner.LanguageBreakdown(files)
	log.Info().Int("files", len(files)).Int("languages", len(langs)).Msg("found source files")

	aopts := opts.Analyzer
	onSkip := aopts.OnSkip
	aopts.OnSkip = func(f scanner.SourceFile, err error) {
		log.Debug().Str("path", f.RelPath).Err(err).Msg("skipping file")
		if onSkip != nil {
			onSkip(f, err)
		}
	}

	stage := time.Now()
	log.Info().Int("workers", aopts.Workers).Msg("analyzing files")
	res.Analyses, err = analyzer.New(patterns.Default(), aopts).AnalyzeAll(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("analyzing files: %w", err)
	}
	log.Debug().Int("analyzed", len(res.Analyses)).Dur("took", time.Since(stage)).Msg("analysis done")

	log.Info().Msg("detecting code smells")
	res.Smells = smells.DetectAll(res.Analyses)

	log.Info().Msg("finding duplicates")
	res.Duplicates = duplicates.FindAll(res.Analyses, threshold)

	log.Info().Msg("calculating health score")
	res.Metrics = metrics.Aggregate(files, res.Analyses, res.Smells.Scores(), res.Duplicates, mcfg)
	res.Plan = fixer.NewPlanner(opts.Version).Plan(abs, res.Metrics)

	res.Duration = time.Since(started)
	log.Info().
		Int("health_score", res.Metrics.HealthScore).
		Str("risk", res.Metrics.RiskLevel.String()).
		Int("fixes", len(res.Plan.Fixes)).
		Dur("took", res.Duration).
		Msg("scan complete")
	return res, nil
}
