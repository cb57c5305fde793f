// Package session parses raw transcript content into structured session
// entries. Every function here is pure: same content and canonical name,
// same output, so a re-run never drifts.
package session

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/TitaniumShinobi/vvault-sub002/internal/capsule"
	"github.com/TitaniumShinobi/vvault-sub002/internal/errors"
)

const maxExchangePreview = 120

// speakerTurnRe matches a speaker-labeled turn at the start of a line.
var speakerTurnRe = regexp.MustCompile(`(?m)^\s*(?:\*\*)?(?:user|assistant|human|ai|me|you|[A-Za-z][a-z]{1,15})(?:\*\*)?\s*[:>]\s*(.*)$`)

// Parse extracts one session entry from transcript content. The entry id is
// left empty; the caller derives it from the entity and canonical name.
// Empty or whitespace-only content is malformed: the caller skips the record
// and the batch continues.
func Parse(content, canonicalName, sourceRecordID string) (*capsule.SessionEntry, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.NewMalformedRecord(sourceRecordID, canonicalName, nil)
	}

	date, confidence := EstimateDate(content, canonicalName)

	entry := &capsule.SessionEntry{
		EstimatedDate:   date,
		Confidence:      confidence,
		Topics:          ExtractTopics(content),
		Vibe:            ClassifyVibe(content),
		ContinuityHooks: ExtractHooks(content),
		SourceRecordID:  sourceRecordID,
	}

	turns := speakerTurns(content)
	if len(turns) > 0 {
		entry.ExchangeCount = len(turns)
		entry.FirstExchange = preview(turns[0])
		entry.LastExchange = preview(turns[len(turns)-1])
		return entry, nil
	}

	// No speaker labels: fall back to markdown paragraph segmentation and
	// treat each paragraph as a turn.
	paragraphs := markdownParagraphs(content)
	if len(paragraphs) == 0 {
		return nil, errors.NewMalformedRecord(sourceRecordID, canonicalName, nil)
	}
	entry.ExchangeCount = len(paragraphs)
	entry.FirstExchange = preview(paragraphs[0])
	entry.LastExchange = preview(paragraphs[len(paragraphs)-1])

	return entry, nil
}

// speakerTurns returns the text of each speaker-labeled line.
func speakerTurns(content string) []string {
	matches := speakerTurnRe.FindAllStringSubmatch(content, -1)
	turns := make([]string, 0, len(matches))
	for _, m := range matches {
		turns = append(turns, strings.TrimSpace(m[1]))
	}
	return turns
}

// markdownParagraphs walks the goldmark AST and collects paragraph text.
func markdownParagraphs(content string) []string {
	source := []byte(content)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var paragraphs []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindParagraph {
			return ast.WalkContinue, nil
		}

		var sb strings.Builder
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				sb.Write(t.Segment.Value(source))
				if t.SoftLineBreak() || t.HardLineBreak() {
					sb.WriteByte(' ')
				}
			}
		}
		if s := strings.TrimSpace(sb.String()); s != "" {
			paragraphs = append(paragraphs, s)
		}
		return ast.WalkSkipChildren, nil
	})

	return paragraphs
}

func preview(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxExchangePreview {
		return s[:maxExchangePreview]
	}
	return s
}
