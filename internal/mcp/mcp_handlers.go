package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/udithaR/Alitheia-Core/core"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.LedgerManager
}

// scoreConfig applies the shared project and score_mode arguments.
func (h *toolHandler) scoreConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("project", ""); p != "" {
		cfg.Project = p
	}
	if m := request.GetString("score_mode", ""); m != "" {
		mode := schema.ScoringMode(m)
		if _, ok := schema.ValidScoringModes[mode]; !ok {
			return nil, fmt.Errorf("invalid score mode %q", m)
		}
		cfg.ScoreMode = mode
	}
	return cfg, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetDeveloperScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	developer := request.GetString("developer", "")
	if developer == "" {
		return mcp.NewToolResultError("developer is required"), nil
	}
	cfg, err := h.scoreConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	scores, _, err := core.GetScoreResults(ctx, cfg, h.mgr, []string{developer})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}
	return jsonResult(scores[0])
}

func (h *toolHandler) handleListScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.scoreConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	scores, _, err := core.GetScoreResults(ctx, cfg, h.mgr, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}
	return jsonResult(scores)
}

func (h *toolHandler) handleGetWeights(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weights, err := h.mgr.GetLedger().Weights(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read weights: %v", err)), nil
	}
	if weights == nil {
		weights = []schema.Weight{}
	}
	return jsonResult(weights)
}

func (h *toolHandler) handleCheckTouched(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("resource_id", "")
	if id == "" {
		return mcp.NewToolResultError("resource_id is required"), nil
	}
	category := schema.ActionCategory(request.GetString("category", ""))
	project := h.baseCfg.Project
	if p := request.GetString("project", ""); p != "" {
		project = p
	}

	results, err := core.GetTouchedResults(ctx, h.mgr, project, []string{id}, category)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("touched check failed: %v", err)), nil
	}
	return jsonResult(results[0])
}

func (h *toolHandler) handleRunScoring(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid repo_path: %v", err)), nil
		}
		cfg.RepoPath = abs
		cfg.Project = filepath.Base(abs)
	}
	if p := request.GetString("project", ""); p != "" {
		cfg.Project = p
	}
	if cfg.RepoPath == "" {
		return mcp.NewToolResultError("repo_path is required"), nil
	}

	report, err := core.GetRunResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("run failed: %v", err)), nil
	}
	return jsonResult(report)
}
