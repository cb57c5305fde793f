package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/TitaniumShinobi/vvault-sub002/internal/errors"
	"github.com/TitaniumShinobi/vvault-sub002/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	runner *ops.Runner
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(runner *ops.Runner) *Handlers {
	return &Handlers{runner: runner}
}

// Request types for each tool

// SyncRequest represents the arguments for capsule_sync.
type SyncRequest struct {
	EntityID string `json:"entity_id"`
	DryRun   bool   `json:"dry_run,omitempty"`
}

// SyncAllRequest represents the arguments for capsule_sync_all.
type SyncAllRequest struct {
	DryRun bool `json:"dry_run,omitempty"`
}

// FetchRequest represents the arguments for capsule_fetch.
type FetchRequest struct {
	EntityID string `json:"entity_id"`
}

// InjectRequest represents the arguments for capsule_inject.
type InjectRequest struct {
	EntityID    string `json:"entity_id"`
	MaxSessions int    `json:"max_sessions,omitempty"`
}

// DedupeRequest represents the arguments for capsule_dedupe.
type DedupeRequest struct {
	EntityID string `json:"entity_id"`
	DryRun   bool   `json:"dry_run,omitempty"`
}

// ManifestRequest represents the arguments for entity_manifest.
type ManifestRequest struct {
	EntityID string `json:"entity_id"`
}

// Handler implementations

// HandleSync handles the capsule_sync tool call.
func (h *Handlers) HandleSync(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SyncRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.runner.Sync(ctx, ops.SyncInput{
		EntityID: input.EntityID,
		DryRun:   input.DryRun,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSyncAll handles the capsule_sync_all tool call.
func (h *Handlers) HandleSyncAll(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SyncAllRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.runner.SyncAll(ctx, input.DryRun)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFetch handles the capsule_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.runner.Fetch(ctx, ops.FetchInput{EntityID: input.EntityID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleInject handles the capsule_inject tool call.
func (h *Handlers) HandleInject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[InjectRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.runner.Inject(ctx, ops.InjectInput{
		EntityID:    input.EntityID,
		MaxSessions: input.MaxSessions,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDedupe handles the capsule_dedupe tool call.
func (h *Handlers) HandleDedupe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DedupeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.runner.Dedupe(ctx, ops.DedupeInput{
		EntityID: input.EntityID,
		DryRun:   input.DryRun,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleManifest handles the entity_manifest tool call.
func (h *Handlers) HandleManifest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ManifestRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.runner.Manifest(ctx, ops.ManifestInput{EntityID: input.EntityID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if vErr, ok := err.(*errors.VaultError); ok {
		errorObj := map[string]any{
			"code":    vErr.Code,
			"message": vErr.Message,
			"status":  vErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if vErr.Code != errors.ErrInternal && vErr.Details != nil {
			errorObj["details"] = vErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
