package mcp

import "github.com/mark3labs/mcp-go/mcp"

var syncToolDef = mcp.NewTool("capsule_sync",
	mcp.WithDescription("Sync an entity's transcript records into its capsule: deduplicate, parse, and merge. Idempotent; rerunning with the same records adds nothing."),
	mcp.WithString("entity_id",
		mcp.Required(),
		mcp.Description("Entity whose records to sync"),
	),
	mcp.WithBoolean("dry_run",
		mcp.Description("Compute the merge without deleting duplicates or writing the capsule"),
	),
)

var syncAllToolDef = mcp.NewTool("capsule_sync_all",
	mcp.WithDescription("Sync every entity in the store. A failed entity is reported and does not block the others."),
	mcp.WithBoolean("dry_run",
		mcp.Description("Compute merges without writing anything"),
	),
)

var fetchToolDef = mcp.NewTool("capsule_fetch",
	mcp.WithDescription("Fetch the stored capsule for an entity. Returns NOT_FOUND for an entity that has never been synced."),
	mcp.WithString("entity_id",
		mcp.Required(),
		mcp.Description("Entity whose capsule to fetch"),
	),
)

var injectToolDef = mcp.NewTool("capsule_inject",
	mcp.WithDescription("Project an entity's capsule into a bounded injection payload and validate it. The payload is omitted when validation fails."),
	mcp.WithString("entity_id",
		mcp.Required(),
		mcp.Description("Entity whose capsule to project"),
	),
	mcp.WithNumber("max_sessions",
		mcp.Description("Override the configured session window (most recent sessions kept)"),
	),
)

var dedupeToolDef = mcp.NewTool("capsule_dedupe",
	mcp.WithDescription("Remove duplicate records for an entity, keeping one copy per canonical path."),
	mcp.WithString("entity_id",
		mcp.Required(),
		mcp.Description("Entity whose records to deduplicate"),
	),
	mcp.WithBoolean("dry_run",
		mcp.Description("Report the removal plan without deleting anything"),
	),
)

var manifestToolDef = mcp.NewTool("entity_manifest",
	mcp.WithDescription("Classify every record an entity holds and return the index with a type distribution."),
	mcp.WithString("entity_id",
		mcp.Required(),
		mcp.Description("Entity whose records to index"),
	),
)
