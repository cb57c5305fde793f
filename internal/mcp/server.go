package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/TitaniumShinobi/vvault-sub002/internal/config"
	"github.com/TitaniumShinobi/vvault-sub002/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"capsule_sync": {
		def:     syncToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSync },
	},
	"capsule_sync_all": {
		def:     syncAllToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSyncAll },
	},
	"capsule_fetch": {
		def:     fetchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFetch },
	},
	"capsule_inject": {
		def:     injectToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleInject },
	},
	"capsule_dedupe": {
		def:     dedupeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDedupe },
	},
	"entity_manifest": {
		def:     manifestToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleManifest },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with vvault tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(runner *ops.Runner, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"vvault",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(runner)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(runner *ops.Runner, cfg *config.Config, version string) error {
	s := NewServer(runner, cfg, version)
	return server.ServeStdio(s)
}
