// Package inject projects a capsule into the bounded, validated payload
// consumed at runtime.
package inject

import (
	"sort"

	"github.com/TitaniumShinobi/vvault-sub002/internal/capsule"
)

// Schema is the payload schema tag checked by the validator.
const Schema = "vvault.capsule.injection/v1"

// DefaultMaxSessions bounds the projection window when the caller passes 0.
const DefaultMaxSessions = 50

// TopicCount is one ranked topic in the projected profile.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// Profile holds aggregate stats computed over the projected window only.
type Profile struct {
	TotalSessions  int                  `json:"total_sessions"`
	TotalExchanges int                  `json:"total_exchanges"`
	DateRange      capsule.DateRange    `json:"date_range"`
	TopTopics      []TopicCount         `json:"top_topics,omitempty"`
	VibeHistogram  map[capsule.Vibe]int `json:"vibe_histogram,omitempty"`
}

// Metadata notes whether the projection truncated the session list.
type Metadata struct {
	Truncated     bool `json:"truncated"`
	OriginalCount int  `json:"original_count"`
}

// Payload is the derived, read-only view of a capsule.
type Payload struct {
	Schema          string                 `json:"schema"`
	Version         int                    `json:"version"`
	EntityID        string                 `json:"entity_id"`
	GeneratedAt     int64                  `json:"generated_at"`
	Profile         Profile                `json:"profile"`
	ContinuityHooks []string               `json:"continuity_hooks,omitempty"`
	Sessions        []capsule.SessionEntry `json:"sessions"`
	Metadata        Metadata               `json:"metadata"`
}

// Project returns the most recent maxSessions entries by date with
// aggregates computed only over that window. maxHooks caps the deduplicated
// hook list; structural equality is the dedup key.
func Project(c *capsule.Capsule, maxSessions, maxHooks int, now int64) *Payload {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}

	p := &Payload{
		Schema:      Schema,
		Version:     c.Version,
		EntityID:    c.EntityID,
		GeneratedAt: now,
		Metadata:    Metadata{OriginalCount: len(c.Sessions)},
	}

	// Sessions are stored sorted ascending; the window is the tail.
	window := c.Sessions
	if len(window) > maxSessions {
		window = window[len(window)-maxSessions:]
		p.Metadata.Truncated = true
	}
	p.Sessions = append([]capsule.SessionEntry(nil), window...)

	p.Profile = windowProfile(p.Sessions)
	p.ContinuityHooks = windowHooks(p.Sessions, maxHooks)

	return p
}

// windowProfile folds aggregates over the projected window.
func windowProfile(window []capsule.SessionEntry) Profile {
	profile := Profile{
		TotalSessions: len(window),
		VibeHistogram: make(map[capsule.Vibe]int),
	}

	topicCounts := make(map[string]int)
	for _, e := range window {
		profile.TotalExchanges += e.ExchangeCount

		if e.EstimatedDate != "" {
			if profile.DateRange.Earliest == "" || e.EstimatedDate < profile.DateRange.Earliest {
				profile.DateRange.Earliest = e.EstimatedDate
			}
			if e.EstimatedDate > profile.DateRange.Latest {
				profile.DateRange.Latest = e.EstimatedDate
			}
		}

		for _, topic := range e.Topics {
			topicCounts[topic]++
		}
		if e.Vibe != "" {
			profile.VibeHistogram[e.Vibe]++
		}
	}

	profile.TopTopics = make([]TopicCount, 0, len(topicCounts))
	for topic, count := range topicCounts {
		profile.TopTopics = append(profile.TopTopics, TopicCount{Topic: topic, Count: count})
	}
	sort.Slice(profile.TopTopics, func(i, j int) bool {
		if profile.TopTopics[i].Count != profile.TopTopics[j].Count {
			return profile.TopTopics[i].Count > profile.TopTopics[j].Count
		}
		return profile.TopTopics[i].Topic < profile.TopTopics[j].Topic
	})

	if len(profile.VibeHistogram) == 0 {
		profile.VibeHistogram = nil
	}
	if len(profile.TopTopics) == 0 {
		profile.TopTopics = nil
	}

	return profile
}

// windowHooks deduplicates hooks across the window, preserving first-seen
// order, capped at maxHooks.
func windowHooks(window []capsule.SessionEntry, maxHooks int) []string {
	seen := make(map[string]bool)
	var hooks []string
	for _, e := range window {
		for _, h := range e.ContinuityHooks {
			if seen[h] {
				continue
			}
			seen[h] = true
			hooks = append(hooks, h)
			if maxHooks > 0 && len(hooks) >= maxHooks {
				return hooks
			}
		}
	}
	return hooks
}
