package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/revibe/internal/config"
	"github.com/blackwell-systems/revibe/internal/metrics"
	"github.com/blackwell-systems/revibe/internal/scanner"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

const paymentSource = `import os

def process_payment(amount):
    total = amount * 2
    return total

def refund(amount):
    return -amount
`

func TestRun_EndToEnd(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/pay.py", paymentSource)
	writeFile(t, root, "src/copy.py", paymentSource)
	writeFile(t, root, "node_modules/x/index.js", "module.exports = 1\n")

	var logs bytes.Buffer
	opts := OptionsFromConfig(config.Default(), "9.9.9", zerolog.New(&logs))

	res, err := Run(context.Background(), root, opts)
	require.NoError(t, err)

	assert.NotEmpty(t, res.ScanID)
	assert.Len(t, res.Files, 2)
	assert.Len(t, res.Analyses, 2)
	assert.Equal(t, 2, res.Metrics.SourceFiles)
	require.Len(t, res.Duplicates, 1)
	assert.True(t, res.Duplicates[0].Exact)
	assert.Equal(t, []string{"src/copy.py", "src/pay.py"}, res.Duplicates[0].Files)

	require.NotNil(t, res.Plan)
	assert.Equal(t, "9.9.9", res.Plan.Version)
	assert.Equal(t, res.Metrics.HealthScore, res.Plan.HealthScore)
	assert.NotEmpty(t, res.Plan.Fixes)

	for _, stage := range []string{"discovering files", "analyzing files", "detecting code smells", "finding duplicates", "calculating health score"} {
		assert.Contains(t, logs.String(), stage)
	}
}

func TestRun_MetricsConfigHonoured(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/pay.py", paymentSource)

	opts := Options{Metrics: metrics.Config{BaseDefectDensity: 10, AIGenerated: false}}
	res, err := Run(context.Background(), root, opts)
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.Metrics.DefectDensity)

	res, err = Run(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.InDelta(t, metrics.DefaultBaseDefectDensity*metrics.AIDefectMultiplier, res.Metrics.DefectDensity, 1e-9)
}

func TestRun_NoSourceFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "README.md", "# nothing here\n")

	_, err := Run(context.Background(), root, Options{})
	assert.True(t, errors.Is(err, ErrNoSourceFiles), "got %v", err)
}

func TestRun_MissingRoot(t *testing.T) {
	_, err := Run(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{})
	assert.True(t, errors.Is(err, scanner.ErrNotExist), "got %v", err)
}

func TestRun_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, root, Options{})
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestRun_SkippedFileReported(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ok.go", "package ok\n")
	writeFile(t, root, "blob.go", "package blob\x00\n")

	var skipped []string
	opts := Options{}
	opts.Analyzer.OnSkip = func(f scanner.SourceFile, err error) {
		skipped = append(skipped, f.RelPath)
	}

	res, err := Run(context.Background(), root, opts)
	require.NoError(t, err)
	assert.Len(t, res.Files, 2)
	assert.Len(t, res.Analyses, 1)
	assert.Equal(t, []string{"blob.go"}, skipped)
	assert.True(t, strings.HasSuffix(res.Root, filepath.Base(root)))
}
