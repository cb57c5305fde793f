package session

import (
	"regexp"
	"strings"
)

const (
	maxHooks      = 8
	maxHookLength = 120
)

// hookAnchors flag sentences worth carrying forward as continuity hooks.
var hookAnchors = []string{
	"remember this",
	"remember that",
	"don't forget",
	"next time",
	"we agreed",
	"promise me",
	"inside joke",
	"our song",
	"always call",
	"from now on",
}

var sentenceRe = regexp.MustCompile(`[^.!?\n]+[.!?]?`)

// ExtractHooks collects short anchor phrases from the content: sentences
// containing a hook anchor, trimmed and bounded in count and length.
func ExtractHooks(content string) []string {
	var hooks []string
	seen := make(map[string]bool)

	for _, raw := range sentenceRe.FindAllString(content, -1) {
		sentence := strings.TrimSpace(raw)
		if sentence == "" {
			continue
		}
		lowered := strings.ToLower(sentence)

		for _, anchor := range hookAnchors {
			if !strings.Contains(lowered, anchor) {
				continue
			}
			hook := sentence
			if len(hook) > maxHookLength {
				hook = hook[:maxHookLength]
			}
			if !seen[hook] {
				seen[hook] = true
				hooks = append(hooks, hook)
			}
			break
		}

		if len(hooks) >= maxHooks {
			break
		}
	}

	return hooks
}
