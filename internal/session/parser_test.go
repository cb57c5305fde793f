package session

import (
	"strings"
	"testing"

	"github.com/TitaniumShinobi/vvault-sub002/internal/capsule"
	"github.com/TitaniumShinobi/vvault-sub002/internal/errors"
)

const sampleTranscript = `# Session 2024-03-15

User: I finally got the garden planted today. Tomatoes and basil.
Assistant: That's wonderful! The garden has been such a project for you. Remember this moment next winter.
User: Haha, true. The garden took the whole weekend honestly.
Assistant: Worth it though. Gardens reward patience.
User: We agreed I'd send you a photo when the tomatoes come in.
Assistant: Don't forget the basil photos either.
`

func TestParse_SpeakerLabeledTranscript(t *testing.T) {
	entry, err := Parse(sampleTranscript, "instances/drift/garden.md", "01SRC")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if entry.ExchangeCount != 6 {
		t.Errorf("ExchangeCount = %d, want 6", entry.ExchangeCount)
	}
	if entry.EstimatedDate != "2024-03-15" {
		t.Errorf("EstimatedDate = %q, want 2024-03-15 (explicit in heading)", entry.EstimatedDate)
	}
	if entry.Confidence != ConfidenceHigh {
		t.Errorf("Confidence = %q, want high", entry.Confidence)
	}
	if entry.SourceRecordID != "01SRC" {
		t.Errorf("SourceRecordID = %q", entry.SourceRecordID)
	}
	if !strings.HasPrefix(entry.FirstExchange, "I finally got the garden") {
		t.Errorf("FirstExchange = %q", entry.FirstExchange)
	}
	if len(entry.ContinuityHooks) == 0 {
		t.Error("expected continuity hooks from anchor phrases")
	}
}

func TestParse_TopicsRanked(t *testing.T) {
	entry, err := Parse(sampleTranscript, "instances/drift/garden.md", "01SRC")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	found := false
	for _, topic := range entry.Topics {
		if topic == "garden" {
			found = true
		}
	}
	if !found {
		t.Errorf("Topics = %v, want to include %q", entry.Topics, "garden")
	}
}

func TestParse_EmptyContentMalformed(t *testing.T) {
	_, err := Parse("   \n  ", "instances/drift/empty.md", "01SRC")
	if !errors.Is(err, errors.ErrMalformedRecord) {
		t.Errorf("err = %v, want MALFORMED_RECORD", err)
	}
}

func TestParse_UnlabeledFallsBackToParagraphs(t *testing.T) {
	content := `We talked for a long while about the move to the coast.

Later the conversation drifted to music, the move playlist mostly.

It ended on a quiet note about the move date.`

	entry, err := Parse(content, "instances/drift/notes.md", "01SRC")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if entry.ExchangeCount != 3 {
		t.Errorf("ExchangeCount = %d, want 3 paragraphs", entry.ExchangeCount)
	}
	if !strings.HasPrefix(entry.FirstExchange, "We talked") {
		t.Errorf("FirstExchange = %q", entry.FirstExchange)
	}
}

func TestEstimateDate_Deterministic(t *testing.T) {
	d1, c1 := EstimateDate("no dates here at all", "instances/drift/undated.md")
	d2, c2 := EstimateDate("no dates here at all", "instances/drift/undated.md")

	if d1 != d2 {
		t.Errorf("fallback date not deterministic: %q vs %q", d1, d2)
	}
	if c1 != ConfidenceLow || c2 != ConfidenceLow {
		t.Errorf("confidence = %q/%q, want low", c1, c2)
	}
	if !strings.HasPrefix(d1, "2023") && !strings.HasPrefix(d1, "2024") {
		t.Errorf("fallback date %q outside pinned window", d1)
	}
}

func TestEstimateDate_DifferentNamesDiffer(t *testing.T) {
	d1, _ := EstimateDate("", "instances/drift/a.md")
	d2, _ := EstimateDate("", "instances/drift/b.md")
	// Not guaranteed distinct, but these particular names hash apart; the
	// point is the fallback depends on the name, not global state.
	if d1 == d2 {
		t.Logf("fallback collision for distinct names: %q", d1)
	}
}

func TestEstimateDate_CalendarAnchor(t *testing.T) {
	date, confidence := EstimateDate("we stayed up late on christmas eve", "instances/drift/holiday_chat.md")

	if !strings.HasSuffix(date, "-12-25") {
		t.Errorf("date = %q, want christmas anchor", date)
	}
	if confidence != ConfidenceMedium {
		t.Errorf("confidence = %q, want medium", confidence)
	}
}

func TestEstimateDate_LongForm(t *testing.T) {
	date, confidence := EstimateDate("It was March 5th, 2024 when we first talked.", "x.md")

	if date != "2024-03-05" {
		t.Errorf("date = %q, want 2024-03-05", date)
	}
	if confidence != ConfidenceHigh {
		t.Errorf("confidence = %q, want high", confidence)
	}
}

func TestClassifyVibe(t *testing.T) {
	tests := []struct {
		content string
		want    capsule.Vibe
	}{
		{"I love this, thank you so much, I'm so grateful", capsule.VibeWarm},
		{"haha that's silly, lol what a joke", capsule.VibePlayful},
		{"I'm so frustrated and stressed, sorry for being upset", capsule.VibeTense},
		{"we need to deploy the server and fix the database config", capsule.VibeTechnical},
		{"the weather is a thing that exists", capsule.VibeNeutral},
	}

	for _, tt := range tests {
		if got := ClassifyVibe(tt.content); got != tt.want {
			t.Errorf("ClassifyVibe(%q) = %q, want %q", tt.content, got, tt.want)
		}
	}
}

func TestExtractHooks_BoundedAndDeduplicated(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 20; i++ {
		sb.WriteString("Remember this moment forever. ")
		sb.WriteString("We agreed on pancakes every sunday. ")
	}

	hooks := ExtractHooks(sb.String())

	if len(hooks) == 0 {
		t.Fatal("expected hooks")
	}
	if len(hooks) > maxHooks {
		t.Errorf("hooks = %d, want <= %d", len(hooks), maxHooks)
	}
	seen := make(map[string]bool)
	for _, h := range hooks {
		if seen[h] {
			t.Errorf("duplicate hook %q", h)
		}
		seen[h] = true
	}
}
