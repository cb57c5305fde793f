package record

import (
	"encoding/json"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind is the semantic type assigned to a record by classification.
type Kind string

const (
	KindTranscript         Kind = "transcript"
	KindCanonicalAggregate Kind = "canonical_aggregate"
	KindBlueprint          Kind = "blueprint"
	KindOverlay            Kind = "overlay"
	KindHook               Kind = "hook"
	KindInjection          Kind = "injection"
	KindManifest           Kind = "manifest"
	KindBinaryAsset        Kind = "binary_asset"
	KindUnknown            Kind = "unknown"
)

// excludedNames are known non-conversational filenames. The exclude list
// takes precedence over every pattern rule.
var excludedNames = map[string]bool{
	"readme.md":     true,
	"changelog.md":  true,
	"license":       true,
	"license.md":    true,
	".gitignore":    true,
	"index.json":    true,
	"settings.json": true,
}

// kindPatterns maps name patterns to kinds, checked in order.
// First match wins.
var kindPatterns = []struct {
	re   *regexp.Regexp
	kind Kind
}{
	{regexp.MustCompile(`(?i)/capsule$`), KindCanonicalAggregate},
	{regexp.MustCompile(`(?i)(^|/)canonical[_-]?aggregate`), KindCanonicalAggregate},
	{regexp.MustCompile(`(?i)(^|/)(transcript|chatlog|conversation|session)s?[_-]?.*\.(md|txt)$`), KindTranscript},
	{regexp.MustCompile(`(?i)(^|/)log(s)?/.*\.(md|txt)$`), KindTranscript},
	{regexp.MustCompile(`(?i)[_-]?log\.(md|txt)$`), KindTranscript},
	{regexp.MustCompile(`(?i)(^|/)blueprint.*\.json$`), KindBlueprint},
	{regexp.MustCompile(`(?i)(^|/)overlay.*\.(ya?ml)$`), KindOverlay},
	{regexp.MustCompile(`(?i)(^|/)hook.*\.(md|txt)$`), KindHook},
	{regexp.MustCompile(`(?i)(^|/)injection.*\.json$`), KindInjection},
	{regexp.MustCompile(`(?i)(^|/)manifest.*\.json$`), KindManifest},
}

// binaryExtensions are treated as binary assets regardless of content.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
	".mp3": true, ".wav": true, ".mp4": true, ".bin": true, ".zip": true,
}

// Classify maps a record's name and optional content to a Kind.
// Pure function: literal exclude list, then name patterns, then extension
// fallback, then content sniffing. Never fails; unresolvable input maps
// through sniffing defaults (JSON-like → blueprint, YAML-like → overlay,
// plain text → hook).
func Classify(name, content string) Kind {
	base := strings.ToLower(path.Base(name))
	if excludedNames[base] {
		return KindUnknown
	}

	for _, p := range kindPatterns {
		if p.re.MatchString(name) {
			return p.kind
		}
	}

	ext := strings.ToLower(path.Ext(name))
	if binaryExtensions[ext] {
		return KindBinaryAsset
	}
	switch ext {
	case ".md", ".txt":
		// Conversational content shows speaker turns; anything else
		// textual under these extensions is a hook note.
		if looksConversational(content) {
			return KindTranscript
		}
		return KindHook
	}

	return sniffKind(content)
}

// speakerLine matches a speaker-labeled turn at the start of a line.
var speakerLine = regexp.MustCompile(`(?im)^\s*(\*\*)?(user|assistant|human|ai|me|you|[A-Z][a-z]{1,15})(\*\*)?\s*[:>]`)

// looksConversational reports whether content carries at least two
// speaker-labeled turns.
func looksConversational(content string) bool {
	return len(speakerLine.FindAllStringIndex(content, 3)) >= 2
}

// sniffKind inspects content shape when the name resolves nothing.
func sniffKind(content string) Kind {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return KindUnknown
	}

	if json.Valid([]byte(trimmed)) && (trimmed[0] == '{' || trimmed[0] == '[') {
		return KindBlueprint
	}

	var doc map[string]any
	if err := yaml.Unmarshal([]byte(trimmed), &doc); err == nil && len(doc) > 0 {
		return KindOverlay
	}

	return KindHook
}
