package fallback

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/exampill/studyplanner/internal/model"
)

func TestLoadEmbedded(t *testing.T) {
	topics, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(topics) == 0 {
		t.Fatal("embedded plan has no topics")
	}
	for i, topic := range topics {
		if topic.Name == "" {
			t.Errorf("topic %d has no name", i)
		}
	}
	// HIGH topics come before MEDIUM, MEDIUM before LOW.
	last := 0
	ranks := map[model.Weightage]int{model.WeightageHigh: 0, model.WeightageMedium: 1, model.WeightageLow: 2}
	for i, topic := range topics {
		r, ok := ranks[topic.Weightage]
		if !ok {
			t.Fatalf("topic %d has unexpected weightage %s", i, topic.Weightage)
		}
		if r < last {
			t.Errorf("topic %d (%s) out of weightage order", i, topic.Name)
		}
		last = r
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	content := `topics:
  - name: Revision
    weightage: low
    estimated_hours: 2
    key_concepts: [summaries, flashcards]
  - name: Core theory
    weightage: high
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	topics, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("got %d topics, want 2", len(topics))
	}
	if topics[0].Name != "Core theory" || topics[0].Weightage != model.WeightageHigh {
		t.Errorf("topics[0] = %+v, want Core theory/HIGH first", topics[0])
	}
	if topics[1].EstimatedHours != 2 || len(topics[1].KeyConcepts) != 2 {
		t.Errorf("topics[1] = %+v", topics[1])
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("topics: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("malformed YAML should fail")
	}

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(empty, []byte("topics: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(empty); err == nil {
		t.Error("plan without topics should fail")
	}

	unnamed := filepath.Join(t.TempDir(), "unnamed.yaml")
	if err := os.WriteFile(unnamed, []byte("topics:\n  - weightage: high\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(unnamed); err == nil {
		t.Error("unnamed topic should fail")
	}
}
