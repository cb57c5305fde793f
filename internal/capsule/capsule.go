// Package capsule holds the durable per-entity summary document and the
// merge rules that keep it append-only and idempotent.
package capsule

import (
	"encoding/json"
	"fmt"
)

// SchemaVersion is the capsule document schema tag.
const SchemaVersion = 1

// Vibe is the emotional/register tag assigned to a session.
type Vibe string

const (
	VibeWarm       Vibe = "warm"
	VibePlayful    Vibe = "playful"
	VibeTense      Vibe = "tense"
	VibeReflective Vibe = "reflective"
	VibeTechnical  Vibe = "technical"
	VibeNeutral    Vibe = "neutral"
)

// SessionEntry is one parsed unit of conversational history.
// EntryID is derived, never user-supplied, and stable across re-runs for the
// same logical source.
type SessionEntry struct {
	EntryID string `json:"entry_id"`

	// EstimatedDate is ISO formatted (YYYY-MM-DD), so lexicographic order
	// is date order.
	EstimatedDate string `json:"estimated_date"`

	// Confidence qualifies the date estimate: "high", "medium", or "low".
	Confidence string `json:"confidence"`

	Topics          []string `json:"topics,omitempty"`
	Vibe            Vibe     `json:"vibe"`
	ContinuityHooks []string `json:"continuity_hooks,omitempty"`
	ExchangeCount   int      `json:"exchange_count"`
	SourceRecordID  string   `json:"source_record_id,omitempty"`
	FirstExchange   string   `json:"first_exchange,omitempty"`
	LastExchange    string   `json:"last_exchange,omitempty"`
}

// DateRange is the earliest/latest estimated date over a capsule's sessions.
type DateRange struct {
	Earliest string `json:"earliest,omitempty"`
	Latest   string `json:"latest,omitempty"`
}

// Summary holds the aggregates recomputed from Sessions on every merge.
// It is a pure function of the session list, never hand-edited.
type Summary struct {
	TotalSessions  int          `json:"total_sessions"`
	TotalExchanges int          `json:"total_exchanges"`
	DateRange      DateRange    `json:"date_range"`
	TopicSet       []string     `json:"topic_set,omitempty"`
	VibeHistogram  map[Vibe]int `json:"vibe_histogram,omitempty"`
	HooksSample    []string     `json:"hooks_sample,omitempty"`
	Sources        []string     `json:"sources,omitempty"`
}

// SyncStats records the outcome of the most recent merge.
type SyncStats struct {
	Added          int `json:"added"`
	AlreadyPresent int `json:"already_present"`
}

// Capsule is the durable summary document, one per entity. Sessions are
// append-only keyed by EntryID and kept sorted by EstimatedDate ascending.
type Capsule struct {
	EntityID     string         `json:"entity_id"`
	Version      int            `json:"version"`
	CreatedAt    int64          `json:"created_at"`
	LastSyncedAt int64          `json:"last_synced_at"`
	Sessions     []SessionEntry `json:"sessions"`
	Summary      Summary        `json:"summary"`
	SyncStats    SyncStats      `json:"sync_stats"`
}

// New creates an empty capsule for an entity.
func New(entityID string, now int64) *Capsule {
	return &Capsule{
		EntityID:  entityID,
		Version:   SchemaVersion,
		CreatedAt: now,
	}
}

// Encode serializes the capsule to canonical indented JSON, the format
// persisted in the record store.
func (c *Capsule) Encode() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode capsule: %w", err)
	}
	return string(data), nil
}

// Decode parses a stored capsule document. This is a structured parse only:
// stored content is data, never evaluated.
func Decode(content string) (*Capsule, error) {
	var c Capsule
	if err := json.Unmarshal([]byte(content), &c); err != nil {
		return nil, fmt.Errorf("decode capsule: %w", err)
	}
	if c.EntityID == "" {
		return nil, fmt.Errorf("decode capsule: missing entity_id")
	}
	return &c, nil
}
