package keywords

import "testing"

func TestLoadYAMLOverridesSingleCategory(t *testing.T) {
	r := NewRegistry()
	sextortionBefore := r.Size(CategorySextortion)

	data := []byte("sets:\n  spam:\n    - \"totally legit offer\"\n")
	if err := r.loadYAML(data); err != nil {
		t.Fatalf("loadYAML failed: %v", err)
	}

	if got := r.Phrases(CategorySpam); len(got) != 1 || got[0] != "totally legit offer" {
		t.Fatalf("expected overridden spam vocab, got %v", got)
	}
	if r.Size(CategorySextortion) != sextortionBefore {
		t.Fatal("unlisted category must keep its built-in vocabulary")
	}
}

func TestLoadYAMLRejectsUnknownCategory(t *testing.T) {
	r := NewRegistry()
	spamBefore := r.Size(CategorySpam)

	data := []byte("sets:\n  not_a_category:\n    - \"x\"\n  spam:\n    - \"y\"\n")
	if err := r.loadYAML(data); err == nil {
		t.Fatal("expected error for unknown category")
	}
	if r.Size(CategorySpam) != spamBefore {
		t.Fatal("failed load must not partially apply overrides")
	}
}

func TestLoadYAMLMalformed(t *testing.T) {
	r := NewRegistry()
	if err := r.loadYAML([]byte("sets: [not a map")); err == nil {
		t.Fatal("expected parse error")
	}
}
