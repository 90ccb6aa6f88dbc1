// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/udithaR/Alitheia-Core/internal/contract"
)

// NewMCPServer initializes and configures the contribution MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.LedgerManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Contribution Scoring Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_developer_score ---
	s.AddTool(mcp.NewTool("get_developer_score",
		mcp.WithDescription("Compute the contribution score of one developer from the ledger."),
		mcp.WithString("developer", mcp.Description("Developer identity as recorded in the ledger (usually an email)."), mcp.Required()),
		mcp.WithString("project", mcp.Description("Project whose evaluation mark decides if the score is computed.")),
		mcp.WithString("score_mode", mcp.Description("Scoring mode. Defaults to 'flat'."), mcp.Enum("flat", "weighted")),
	), h.handleGetDeveloperScore)

	// --- 2. Tool: list_scores ---
	s.AddTool(mcp.NewTool("list_scores",
		mcp.WithDescription("List the contribution scores of every developer, highest first."),
		mcp.WithString("project", mcp.Description("Project whose evaluation mark decides if scores are computed.")),
		mcp.WithString("score_mode", mcp.Description("Scoring mode."), mcp.Enum("flat", "weighted")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleListScores)

	// --- 3. Tool: get_weights ---
	s.AddTool(mcp.NewTool("get_weights",
		mcp.WithDescription("Return the calibrated category and action type weights."),
	), h.handleGetWeights)

	// --- 4. Tool: check_touched ---
	s.AddTool(mcp.NewTool("check_touched",
		mcp.WithDescription("Check whether any recorded action references a resource."),
		mcp.WithString("resource_id", mcp.Description("Resource id such as 'commit:<hash>', 'msg:<id>' or 'bug:<id>'."), mcp.Required()),
		mcp.WithString("category", mcp.Description("Category override (C, B or M); inferred from the id when empty."), mcp.Enum("C", "B", "M")),
		mcp.WithString("project", mcp.Description("Project whose actions are checked (defaults to the configured project).")),
	), h.handleCheckTouched)

	// --- 5. Tool: run_scoring ---
	s.AddTool(mcp.NewTool("run_scoring",
		mcp.WithDescription("Classify the unseen commits of a repository and record their actions."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to the configured repository).")),
		mcp.WithString("project", mcp.Description("Project name (defaults to the repository directory name).")),
	), h.handleRunScoring)

	return s
}

// StartMCPServer starts the contribution MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.LedgerManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
