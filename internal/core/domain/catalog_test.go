package domain

import (
	"strings"
	"testing"
)

func TestCatalogShape(t *testing.T) {
	features := Catalog()
	if len(features) != 12 {
		t.Fatalf("expected 12 features, got %d", len(features))
	}
	if features[0].ID != FeatureExecutiveSummary || features[len(features)-1].ID != FeatureSentimentAnalysis {
		t.Fatalf("unexpected catalog order: first %s, last %s", features[0].ID, features[len(features)-1].ID)
	}
	wantInput := map[FeatureID]bool{
		FeatureQAAnswer:           true,
		FeatureClauseExplanation:  true,
		FeatureDocumentComparison: true,
	}
	for _, descriptor := range features {
		if descriptor.RequiresInput != wantInput[descriptor.ID] {
			t.Fatalf("feature %s requires_input = %v", descriptor.ID, descriptor.RequiresInput)
		}
		if descriptor.RequiresInput && descriptor.InputLabel == "" {
			t.Fatalf("feature %s requires input but has no label", descriptor.ID)
		}
		if descriptor.Title == "" || descriptor.ExportBase == "" {
			t.Fatalf("feature %s missing title or export base", descriptor.ID)
		}
		if descriptor.Params.Temperature <= 0 || descriptor.Params.MaxOutputTokens <= 0 {
			t.Fatalf("feature %s has unset params: %+v", descriptor.ID, descriptor.Params)
		}
		if descriptor.Prompt == nil {
			t.Fatalf("feature %s has no prompt builder", descriptor.ID)
		}
	}
}

func TestCatalogReturnsCopy(t *testing.T) {
	features := Catalog()
	features[0].Title = "mutated"
	if Catalog()[0].Title == "mutated" {
		t.Fatalf("catalog mutable through Catalog()")
	}
}

func TestDescriptorForUnknown(t *testing.T) {
	if _, err := DescriptorFor("word-count"); !IsKind(err, ErrFeatureNotFound) {
		t.Fatalf("expected feature not found, got %v", err)
	}
}

func TestDescriptorParams(t *testing.T) {
	checks := map[FeatureID]EngineParams{
		FeatureExecutiveSummary: {Temperature: 0.7, MaxOutputTokens: 250},
		FeatureQAAnswer:         {Temperature: 0.5, MaxOutputTokens: 300},
		FeatureEntityExtraction: {Temperature: 0.3, MaxOutputTokens: 700},
		FeatureGlossary:         {Temperature: 0.3, MaxOutputTokens: 800},
	}
	for id, want := range checks {
		descriptor, err := DescriptorFor(id)
		if err != nil {
			t.Fatalf("DescriptorFor(%s) error = %v", id, err)
		}
		if descriptor.Params != want {
			t.Fatalf("feature %s params = %+v, want %+v", id, descriptor.Params, want)
		}
	}
}

func TestPromptsEmbedPersonaAndDocument(t *testing.T) {
	const doc = "THE AGREEMENT TEXT"
	const persona = "You are a stern auditor."
	for _, descriptor := range Catalog() {
		prompt := descriptor.Prompt(doc, persona, "sample input")
		if !strings.HasPrefix(prompt, persona) {
			t.Fatalf("feature %s prompt does not start with persona", descriptor.ID)
		}
		if descriptor.ID == FeatureClauseExplanation {
			if strings.Contains(prompt, doc) {
				t.Fatalf("clause explanation must embed only the clause, not the document")
			}
			continue
		}
		if !strings.Contains(prompt, doc) {
			t.Fatalf("feature %s prompt does not embed the document", descriptor.ID)
		}
	}
}

func TestQAAnswerPrompt(t *testing.T) {
	descriptor, err := DescriptorFor(FeatureQAAnswer)
	if err != nil {
		t.Fatalf("DescriptorFor() error = %v", err)
	}
	prompt := descriptor.Prompt("the lease text", "P", "Who pays the deposit?")
	if !strings.Contains(prompt, `User's Question: "Who pays the deposit?"`) {
		t.Fatalf("question not quoted in prompt: %q", prompt)
	}
	if !strings.HasSuffix(prompt, "Answer:") {
		t.Fatalf("prompt missing answer cue: %q", prompt)
	}
}

func TestDocumentComparisonPrompt(t *testing.T) {
	descriptor, err := DescriptorFor(FeatureDocumentComparison)
	if err != nil {
		t.Fatalf("DescriptorFor() error = %v", err)
	}
	prompt := descriptor.Prompt("first agreement body", "P", "second agreement body")
	if !strings.Contains(prompt, "first agreement body") || !strings.Contains(prompt, "second agreement body") {
		t.Fatalf("comparison prompt missing a document: %q", prompt)
	}
}

func TestClauseCandidates(t *testing.T) {
	long := strings.Repeat("clause text ", 6)
	text := "Short line.\n\n   " + long + "   \ntiny\n" + long + "second"
	got := ClauseCandidates(text)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %q", len(got), got)
	}
	if got[0] != strings.TrimSpace(long) {
		t.Fatalf("candidate not trimmed: %q", got[0])
	}
}

func TestClauseCandidatesCountRunes(t *testing.T) {
	if got := ClauseCandidates(strings.Repeat("ä", 51)); len(got) != 1 {
		t.Fatalf("51 runes should qualify, got %d candidates", len(got))
	}
	if got := ClauseCandidates(strings.Repeat("ä", 50)); len(got) != 0 {
		t.Fatalf("50 runes should not qualify, got %d candidates", len(got))
	}
}
