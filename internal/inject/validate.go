package inject

import "fmt"

// ValidationResult splits structural problems into errors (the payload must
// not be published) and warnings (degraded but usable).
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Validate structurally checks a payload against the expected entity.
// Errors: wrong or missing schema tag, entity mismatch. Warnings: no
// sessions, no hooks, sessions missing an entry id or topics.
func Validate(p *Payload, expectedEntityID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if p.Schema != Schema {
		result.Errors = append(result.Errors,
			fmt.Sprintf("schema tag %q, want %q", p.Schema, Schema))
	}
	if p.EntityID != expectedEntityID {
		result.Errors = append(result.Errors,
			fmt.Sprintf("entity_id %q does not match expected %q", p.EntityID, expectedEntityID))
	}

	if len(p.Sessions) == 0 {
		result.Warnings = append(result.Warnings, "payload contains no sessions")
	}
	if len(p.ContinuityHooks) == 0 {
		result.Warnings = append(result.Warnings, "payload contains no continuity hooks")
	}

	for i, s := range p.Sessions {
		if s.EntryID == "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("session %d has no entry_id", i))
		}
		if len(s.Topics) == 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("session %d has no topics", i))
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}
