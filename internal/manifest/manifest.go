// Package manifest builds the classified-record index for an entity.
package manifest

import (
	"sort"

	"github.com/TitaniumShinobi/vvault-sub002/internal/record"
)

// File is one classified record in the manifest.
type File struct {
	Name        string      `json:"name"`
	Kind        record.Kind `json:"kind"`
	Version     int         `json:"version,omitempty"`
	ContentHash string      `json:"content_hash,omitempty"`
	// Fields lists the top-level keys of a structured record that parsed
	// cleanly under its kind. Empty for raw-text kinds and failed parses.
	Fields []string `json:"fields,omitempty"`
}

// Manifest is the index of classified records for an entity.
type Manifest struct {
	EntityID         string              `json:"entity_id"`
	GeneratedAt      int64               `json:"generated_at"`
	TotalFiles       int                 `json:"total_files"`
	TypeDistribution map[record.Kind]int `json:"type_distribution"`
	Files            []File              `json:"files"`
}

// Build classifies the given records and assembles the manifest. Files are
// sorted by name; versions count successive records of the same kind.
func Build(entityID string, records []record.Record, now int64) *Manifest {
	m := &Manifest{
		EntityID:         entityID,
		GeneratedAt:      now,
		TotalFiles:       len(records),
		TypeDistribution: make(map[record.Kind]int),
		Files:            make([]File, 0, len(records)),
	}

	for _, r := range records {
		kind := record.Classify(r.Name, r.Content)
		m.TypeDistribution[kind]++
		m.Files = append(m.Files, File{
			Name:        r.Name,
			Kind:        kind,
			Version:     m.TypeDistribution[kind],
			ContentHash: r.ContentHash,
			Fields:      fieldNames(record.ParseDocument(kind, r.Content)),
		})
	}

	sort.Slice(m.Files, func(i, j int) bool {
		return m.Files[i].Name < m.Files[j].Name
	})

	return m
}

// fieldNames returns the sorted top-level keys of a parsed document.
func fieldNames(doc record.Document) []string {
	if !doc.Parsed || len(doc.Fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(doc.Fields))
	for k := range doc.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
