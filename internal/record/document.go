package record

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the best-effort typed parse of a structured record.
// Parsed is false when content could not be decoded under its kind; the raw
// text is preserved either way. Parsing never fails outright: a failed
// decode produces a raw-text wrapper, not an error.
type Document struct {
	Kind   Kind
	Parsed bool
	Fields map[string]any
	Raw    string
}

// ParseDocument decodes content according to its classified kind.
// JSON kinds (blueprint, injection, manifest) decode as JSON objects; the
// overlay kind decodes as YAML. Everything else is returned as raw text.
func ParseDocument(kind Kind, content string) Document {
	doc := Document{Kind: kind, Raw: content}

	switch kind {
	case KindBlueprint, KindInjection, KindManifest, KindCanonicalAggregate:
		var fields map[string]any
		if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &fields); err == nil {
			doc.Parsed = true
			doc.Fields = fields
		}
	case KindOverlay:
		var fields map[string]any
		if err := yaml.Unmarshal([]byte(content), &fields); err == nil && len(fields) > 0 {
			doc.Parsed = true
			doc.Fields = fields
		}
	}

	return doc
}
