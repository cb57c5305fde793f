package manifest

import (
	"testing"

	"github.com/TitaniumShinobi/vvault-sub002/internal/record"
)

func TestBuild(t *testing.T) {
	records := []record.Record{
		{Name: "transcripts/b.md", Content: "User: hi\nAssistant: hello", ContentHash: "hb"},
		{Name: "transcripts/a.md", Content: "User: hey\nAssistant: hi", ContentHash: "ha"},
		{Name: "blueprint.json", Content: `{"name":"drift"}`, ContentHash: "hc"},
	}

	m := Build("drift", records, 1000)

	if m.TotalFiles != 3 {
		t.Errorf("TotalFiles = %d, want 3", m.TotalFiles)
	}
	if m.TypeDistribution[record.KindTranscript] != 2 {
		t.Errorf("transcript count = %d, want 2", m.TypeDistribution[record.KindTranscript])
	}
	if m.TypeDistribution[record.KindBlueprint] != 1 {
		t.Errorf("blueprint count = %d, want 1", m.TypeDistribution[record.KindBlueprint])
	}

	// Files sorted by name.
	if m.Files[0].Name != "blueprint.json" {
		t.Errorf("Files[0] = %q, want blueprint.json", m.Files[0].Name)
	}
	if len(m.Files[0].Fields) != 1 || m.Files[0].Fields[0] != "name" {
		t.Errorf("Files[0].Fields = %v, want [name]", m.Files[0].Fields)
	}
	if m.Files[1].Fields != nil {
		t.Errorf("transcript Fields = %v, want nil", m.Files[1].Fields)
	}
	if m.Files[1].Name != "transcripts/a.md" || m.Files[2].Name != "transcripts/b.md" {
		t.Errorf("Files order = %v", m.Files)
	}
}

func TestBuild_Empty(t *testing.T) {
	m := Build("drift", nil, 1000)

	if m.TotalFiles != 0 {
		t.Errorf("TotalFiles = %d, want 0", m.TotalFiles)
	}
	if len(m.Files) != 0 {
		t.Errorf("Files = %v, want empty", m.Files)
	}
}
