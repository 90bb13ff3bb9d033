package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/blackwell-systems/revibe/internal/duplicates"
	"github.com/blackwell-systems/revibe/internal/fixer"
	"github.com/blackwell-systems/revibe/internal/metrics"
	"github.com/blackwell-systems/revibe/internal/pipeline"
	"github.com/blackwell-systems/revibe/internal/smells"
)

// HealthSummaryResult is the headline numbers of one scan.
type HealthSummaryResult struct {
	Root   string `json:"root"`
	ScanID string `json:"scan_id"`
	metrics.Summary
}

// SmellsResult holds all eight detector results in report order.
type SmellsResult struct {
	Root   string          `json:"root"`
	Smells []smells.Result `json:"smells"`
}

// DuplicatesResult holds the duplicate groups of one scan.
type DuplicatesResult struct {
	Root       string             `json:"root"`
	Duplicates []duplicates.Group `json:"duplicates"`
}

var pathSchema = json.RawMessage(`{"type":"object","properties":{"path":{"type":"string","description":"Directory to scan (default: the server's working directory)"}},"additionalProperties":false}`)

func addTools(s *Server) {
	s.registerTool(toolDef{
		Name:        "get_health_summary",
		Description: "Health score, risk level, line counts, AI smell scores and defect estimate for a codebase.",
		InputSchema: pathSchema,
		Handler:     s.handleGetHealthSummary,
	})
	s.registerTool(toolDef{
		Name:        "get_fix_plan",
		Description: "Prioritized fixes with ready-to-use prompts for an AI coding assistant.",
		InputSchema: pathSchema,
		Handler:     s.handleGetFixPlan,
	})
	s.registerTool(toolDef{
		Name:        "get_smells",
		Description: "Scores and evidence for the eight AI code smell detectors.",
		InputSchema: pathSchema,
		Handler:     s.handleGetSmells,
	})
	s.registerTool(toolDef{
		Name:        "get_duplicates",
		Description: "Groups of exact and near-duplicate files.",
		InputSchema: pathSchema,
		Handler:     s.handleGetDuplicates,
	})
}

// scanArgs parses {"path": ...} and runs a scan of it.
func (s *Server) scanArgs(ctx context.Context, args json.RawMessage) (*pipeline.Result, error) {
	var params struct {
		Path string `json:"path"`
	}
	if len(args) > 0 && string(args) != "null" {
		if err := json.Unmarshal(args, &params); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
	}
	if params.Path == "" {
		params.Path = s.defaultRoot
	}
	return s.scan(ctx, params.Path, s.opts)
}

func (s *Server) handleGetHealthSummary(ctx context.Context, args json.RawMessage) (any, error) {
	res, err := s.scanArgs(ctx, args)
	if err != nil {
		return nil, err
	}
	return HealthSummaryResult{Root: res.Root, ScanID: res.ScanID, Summary: res.Metrics.Summary()}, nil
}

func (s *Server) handleGetFixPlan(ctx context.Context, args json.RawMessage) (any, error) {
	res, err := s.scanArgs(ctx, args)
	if err != nil {
		return nil, err
	}
	if res.Plan == nil {
		return &fixer.Plan{Fixes: []fixer.Fix{}, CodebasePath: res.Root}, nil
	}
	return res.Plan, nil
}

func (s *Server) handleGetSmells(ctx context.Context, args json.RawMessage) (any, error) {
	res, err := s.scanArgs(ctx, args)
	if err != nil {
		return nil, err
	}
	return SmellsResult{Root: res.Root, Smells: res.Smells[:]}, nil
}

func (s *Server) handleGetDuplicates(ctx context.Context, args json.RawMessage) (any, error) {
	res, err := s.scanArgs(ctx, args)
	if err != nil {
		return nil, err
	}
	groups := res.Duplicates
	if groups == nil {
		groups = []duplicates.Group{}
	}
	return DuplicatesResult{Root: res.Root, Duplicates: groups}, nil
}
