package session

import (
	"regexp"
	"sort"
	"strings"
)

// maxTopics is the number of ranked topics kept per session.
const maxTopics = 5

var wordRe = regexp.MustCompile(`[a-zA-Z][a-zA-Z'-]{3,}`)

// stopwords are filtered before frequency ranking. Speaker labels are
// included so "user"/"assistant" never surface as topics.
var stopwords = map[string]bool{
	"that": true, "this": true, "with": true, "have": true, "from": true,
	"they": true, "were": true, "been": true, "their": true, "would": true,
	"there": true, "which": true, "about": true, "could": true, "should": true,
	"what": true, "when": true, "where": true, "your": true, "yeah": true,
	"just": true, "like": true, "know": true, "think": true, "really": true,
	"going": true, "okay": true, "well": true, "because": true, "right": true,
	"thing": true, "things": true, "something": true, "anything": true,
	"want": true, "wanted": true, "said": true, "says": true, "tell": true,
	"told": true, "maybe": true, "actually": true, "mean": true, "will": true,
	"more": true, "some": true, "much": true, "very": true, "here": true,
	"then": true, "them": true, "than": true, "into": true, "over": true,
	"also": true, "only": true, "even": true, "still": true, "does": true,
	"user": true, "assistant": true, "human": true,
}

// ExtractTopics returns the most frequent salient tokens in the content,
// ranked by frequency descending, ties broken alphabetically.
func ExtractTopics(content string) []string {
	counts := make(map[string]int)
	for _, w := range wordRe.FindAllString(content, -1) {
		w = strings.ToLower(w)
		if stopwords[w] {
			continue
		}
		counts[w]++
	}

	type freq struct {
		word  string
		count int
	}
	ranked := make([]freq, 0, len(counts))
	for w, c := range counts {
		if c < 2 {
			// A single mention isn't a topic.
			continue
		}
		ranked = append(ranked, freq{w, c})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].word < ranked[j].word
	})

	if len(ranked) > maxTopics {
		ranked = ranked[:maxTopics]
	}

	topics := make([]string, len(ranked))
	for i, f := range ranked {
		topics[i] = f.word
	}
	return topics
}
