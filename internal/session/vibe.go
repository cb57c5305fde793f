package session

import (
	"strings"

	"github.com/TitaniumShinobi/vvault-sub002/internal/capsule"
)

// vibeKeywords score content toward an emotional/register tag. The highest
// total wins; no hits means neutral.
var vibeKeywords = map[capsule.Vibe][]string{
	capsule.VibeWarm: {
		"love", "miss you", "proud of", "grateful", "thank you", "sweet",
		"comfort", "glad", "care about", "hug",
	},
	capsule.VibePlayful: {
		"haha", "lol", "joke", "teasing", "silly", "funny", "giggle", "lmao",
	},
	capsule.VibeTense: {
		"angry", "frustrated", "upset", "argue", "sorry", "stressed",
		"worried", "afraid", "hurt", "annoyed",
	},
	capsule.VibeReflective: {
		"remember when", "thinking about", "wonder", "looking back",
		"realized", "meant to me", "dream", "memory",
	},
	capsule.VibeTechnical: {
		"function", "server", "deploy", "config", "database", "compile",
		"debug", "script", "endpoint", "commit",
	},
}

// ClassifyVibe tags content with the dominant register.
func ClassifyVibe(content string) capsule.Vibe {
	lowered := strings.ToLower(content)

	best := capsule.VibeNeutral
	bestScore := 0
	// Deterministic iteration: check in a fixed order so ties are stable.
	for _, vibe := range []capsule.Vibe{
		capsule.VibeWarm, capsule.VibePlayful, capsule.VibeTense,
		capsule.VibeReflective, capsule.VibeTechnical,
	} {
		score := 0
		for _, kw := range vibeKeywords[vibe] {
			score += strings.Count(lowered, kw)
		}
		if score > bestScore {
			best = vibe
			bestScore = score
		}
	}

	return best
}
