package domain

import (
	"errors"
	"strings"
	"testing"
)

func newLoadedSession(text string) *Session {
	s := NewSession("sess-1", "")
	s.ApplyDocument("contract.pdf", TypePDF, ModePlain, text, nil)
	return s
}

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession("sess-1", "")
	if s.Persona() != DefaultPersona {
		t.Fatalf("expected default persona, got %q", s.Persona())
	}
	if doc := s.Document(); doc.Status != DocumentNone || doc.Version != 0 {
		t.Fatalf("unexpected initial document: %+v", doc)
	}
	snap := s.Snapshot()
	if len(snap.Results) != len(Catalog()) {
		t.Fatalf("expected %d result slots, got %d", len(Catalog()), len(snap.Results))
	}
	for id, result := range snap.Results {
		if result.Status != FeatureEmpty {
			t.Fatalf("slot %s not empty: %+v", id, result)
		}
	}
}

func TestHasSource(t *testing.T) {
	s := NewSession("sess-1", "")
	if s.HasSource("contract.pdf") {
		t.Fatalf("empty session should not report a source")
	}
	s.ApplyDocument("contract.pdf", TypePDF, ModePlain, "text", nil)
	if !s.HasSource("contract.pdf") {
		t.Fatalf("loaded source not reported")
	}
	if s.HasSource("other.pdf") {
		t.Fatalf("unrelated source reported")
	}
}

func TestApplyDocumentResetsSlots(t *testing.T) {
	s := newLoadedSession("first document text")
	run, err := s.BeginFeatureRun(FeatureExecutiveSummary, "")
	if err != nil {
		t.Fatalf("BeginFeatureRun() error = %v", err)
	}
	if _, applied := s.CompleteFeatureRun(run, "summary of first", nil); !applied {
		t.Fatalf("expected run to apply")
	}
	if err := s.SetInput(FeatureQAAnswer, "who signs?"); err != nil {
		t.Fatalf("SetInput() error = %v", err)
	}

	doc := s.ApplyDocument("other.txt", TypeTXT, ModePlain, "second document text", nil)
	if doc.Version != 2 {
		t.Fatalf("expected version 2 after second load, got %d", doc.Version)
	}
	snap := s.Snapshot()
	for id, result := range snap.Results {
		if result.Status != FeatureEmpty {
			t.Fatalf("slot %s survived document change: %+v", id, result)
		}
	}
	if len(snap.Inputs) != 0 {
		t.Fatalf("inputs survived document change: %+v", snap.Inputs)
	}
}

func TestApplyDocumentRecordsFailure(t *testing.T) {
	s := NewSession("sess-1", "")
	doc := s.ApplyDocument("scan.pdf", TypePDF, ModePlain, "", errors.New("no text layer found"))
	if doc.Status != DocumentFailed {
		t.Fatalf("expected failed status, got %s", doc.Status)
	}
	if doc.Text != "" {
		t.Fatalf("failed load must not carry text, got %q", doc.Text)
	}
	if doc.FailureDetail != "no text layer found" {
		t.Fatalf("unexpected failure detail: %q", doc.FailureDetail)
	}
	if !s.HasSource("scan.pdf") {
		t.Fatalf("failed load should still occupy the session")
	}
	if _, err := s.BeginFeatureRun(FeatureExecutiveSummary, ""); !IsKind(err, ErrPreconditionViolation) {
		t.Fatalf("expected precondition violation on failed document, got %v", err)
	}
}

func TestClearKeepsPersona(t *testing.T) {
	s := newLoadedSession("text")
	s.SetPersona("You are a contracts paralegal.")
	doc := s.Clear()
	if doc.Status != DocumentNone {
		t.Fatalf("expected cleared document, got %s", doc.Status)
	}
	if doc.Version != 2 {
		t.Fatalf("clear must advance the version, got %d", doc.Version)
	}
	if s.HasSource("contract.pdf") {
		t.Fatalf("cleared session still reports a source")
	}
	if s.Persona() != "You are a contracts paralegal." {
		t.Fatalf("persona lost on clear: %q", s.Persona())
	}
	snap := s.Snapshot()
	for id, result := range snap.Results {
		if result.Status != FeatureEmpty {
			t.Fatalf("slot %s survived clear: %+v", id, result)
		}
	}
}

func TestSetPersonaBlankFallsBack(t *testing.T) {
	s := NewSession("sess-1", "custom persona")
	if s.Persona() != "custom persona" {
		t.Fatalf("constructor persona not applied: %q", s.Persona())
	}
	if got := s.SetPersona("   "); got != DefaultPersona {
		t.Fatalf("blank persona should fall back to default, got %q", got)
	}
}

func TestBeginFeatureRunRequiresDocument(t *testing.T) {
	s := NewSession("sess-1", "")
	if _, err := s.BeginFeatureRun(FeatureKeyTakeaways, ""); !IsKind(err, ErrPreconditionViolation) {
		t.Fatalf("expected precondition violation, got %v", err)
	}
}

func TestBeginFeatureRunUnknownFeature(t *testing.T) {
	s := newLoadedSession("text")
	if _, err := s.BeginFeatureRun("word-count", ""); !IsKind(err, ErrFeatureNotFound) {
		t.Fatalf("expected feature not found, got %v", err)
	}
}

func TestBeginFeatureRunInputHandling(t *testing.T) {
	s := newLoadedSession("the document body")
	if _, err := s.BeginFeatureRun(FeatureQAAnswer, ""); !IsKind(err, ErrPreconditionViolation) {
		t.Fatalf("expected missing question to violate preconditions, got %v", err)
	}

	if err := s.SetInput(FeatureQAAnswer, "Who is the lessor?"); err != nil {
		t.Fatalf("SetInput() error = %v", err)
	}
	run, err := s.BeginFeatureRun(FeatureQAAnswer, "")
	if err != nil {
		t.Fatalf("BeginFeatureRun() error = %v", err)
	}
	if !strings.HasPrefix(run.Prompt, DefaultPersona) {
		t.Fatalf("prompt does not start with persona: %q", run.Prompt)
	}
	if !strings.Contains(run.Prompt, "the document body") {
		t.Fatalf("prompt does not embed the document: %q", run.Prompt)
	}
	if !strings.Contains(run.Prompt, `User's Question: "Who is the lessor?"`) {
		t.Fatalf("prompt does not embed the staged question: %q", run.Prompt)
	}

	run, err = s.BeginFeatureRun(FeatureQAAnswer, "What is the term?")
	if err != nil {
		t.Fatalf("BeginFeatureRun() with override error = %v", err)
	}
	if !strings.Contains(run.Prompt, `User's Question: "What is the term?"`) {
		t.Fatalf("override input not used: %q", run.Prompt)
	}

	if _, err := s.BeginFeatureRun(FeatureExecutiveSummary, "unexpected"); !IsKind(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for override on plain feature, got %v", err)
	}
}

func TestSetInputValidation(t *testing.T) {
	s := NewSession("sess-1", "")
	if err := s.SetInput(FeatureGlossary, "x"); !IsKind(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for non-input feature, got %v", err)
	}
	if err := s.SetInput("word-count", "x"); !IsKind(err, ErrFeatureNotFound) {
		t.Fatalf("expected feature not found, got %v", err)
	}
}

func TestCompleteFeatureRunWritesSlot(t *testing.T) {
	s := newLoadedSession("text")
	run, err := s.BeginFeatureRun(FeatureExecutiveSummary, "")
	if err != nil {
		t.Fatalf("BeginFeatureRun() error = %v", err)
	}
	result, applied := s.CompleteFeatureRun(run, "the summary", nil)
	if !applied {
		t.Fatalf("expected run to apply")
	}
	if result.Status != FeatureReady || result.Content != "the summary" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.GeneratedAt.IsZero() {
		t.Fatalf("result missing timestamp")
	}
	stored, err := s.Result(FeatureExecutiveSummary)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if stored.Content != "the summary" {
		t.Fatalf("stored slot mismatch: %+v", stored)
	}
	other, err := s.Result(FeatureKeyTakeaways)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if other.Status != FeatureEmpty {
		t.Fatalf("unrelated slot changed: %+v", other)
	}
}

func TestCompleteFeatureRunDiscardsStaleVersion(t *testing.T) {
	s := newLoadedSession("first text")
	run, err := s.BeginFeatureRun(FeatureExecutiveSummary, "")
	if err != nil {
		t.Fatalf("BeginFeatureRun() error = %v", err)
	}
	s.ApplyDocument("other.txt", TypeTXT, ModePlain, "second text", nil)
	if _, applied := s.CompleteFeatureRun(run, "stale summary", nil); applied {
		t.Fatalf("stale run must be discarded after a new load")
	}
	result, err := s.Result(FeatureExecutiveSummary)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if result.Status != FeatureEmpty {
		t.Fatalf("stale result landed in slot: %+v", result)
	}

	run, err = s.BeginFeatureRun(FeatureExecutiveSummary, "")
	if err != nil {
		t.Fatalf("BeginFeatureRun() error = %v", err)
	}
	s.Clear()
	if _, applied := s.CompleteFeatureRun(run, "stale summary", nil); applied {
		t.Fatalf("stale run must be discarded after clear")
	}
}

func TestCompleteFeatureRunFailureClearsContent(t *testing.T) {
	s := newLoadedSession("text")
	run, err := s.BeginFeatureRun(FeatureExecutiveSummary, "")
	if err != nil {
		t.Fatalf("BeginFeatureRun() error = %v", err)
	}
	if _, applied := s.CompleteFeatureRun(run, "good summary", nil); !applied {
		t.Fatalf("expected first run to apply")
	}

	run, err = s.BeginFeatureRun(FeatureExecutiveSummary, "")
	if err != nil {
		t.Fatalf("BeginFeatureRun() error = %v", err)
	}
	result, applied := s.CompleteFeatureRun(run, "", errors.New("engine exploded"))
	if !applied {
		t.Fatalf("expected failed run to apply")
	}
	if result.Status != FeatureError {
		t.Fatalf("expected error status, got %s", result.Status)
	}
	if result.Content != "" {
		t.Fatalf("failed run must not keep stale content, got %q", result.Content)
	}
	if result.ErrorDetail != "engine exploded" {
		t.Fatalf("unexpected error detail: %q", result.ErrorDetail)
	}
}

func TestResultUnknownFeature(t *testing.T) {
	s := NewSession("sess-1", "")
	if _, err := s.Result("word-count"); !IsKind(err, ErrFeatureNotFound) {
		t.Fatalf("expected feature not found, got %v", err)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	s := newLoadedSession("text")
	snap := s.Snapshot()
	snap.Results[FeatureExecutiveSummary] = FeatureResult{Status: FeatureReady, Content: "hacked"}
	stored, err := s.Result(FeatureExecutiveSummary)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if stored.Status != FeatureEmpty {
		t.Fatalf("snapshot mutation leaked into session: %+v", stored)
	}
}
