package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

type artifactRendererFake struct {
	err     error
	formats []domain.ExportFormat
	titles  []string
}

func (f *artifactRendererFake) Render(content, title string, format domain.ExportFormat) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.formats = append(f.formats, format)
	f.titles = append(f.titles, title)
	return []byte(title + ": " + content), nil
}

type workbookRendererFake struct {
	err error
}

func (f *workbookRendererFake) RenderWorkbook(domain.SessionSnapshot) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("workbook"), nil
}

func seedReadyResult(repo *sessionRepoFake, id string, feature domain.FeatureID, content string) *domain.Session {
	session := seedLoadedSession(repo, id, "body")
	run, err := session.BeginFeatureRun(feature, "")
	if err != nil {
		panic(err)
	}
	session.CompleteFeatureRun(run, content, nil)
	return session
}

func TestExportFeature(t *testing.T) {
	repo := newSessionRepoFake()
	seedReadyResult(repo, "sess-1", domain.FeatureExecutiveSummary, "the summary")
	renderer := &artifactRendererFake{}
	recorder := &recorderFake{}
	uc := NewExportUseCase(repo, renderer, &workbookRendererFake{}, recorder)

	artifact, err := uc.ExportFeature(context.Background(), "sess-1", domain.FeatureExecutiveSummary, domain.FormatTXT)
	if err != nil {
		t.Fatalf("ExportFeature() error = %v", err)
	}
	if artifact.Filename != "executive_summary.txt" {
		t.Fatalf("unexpected filename: %q", artifact.Filename)
	}
	if !strings.HasPrefix(artifact.ContentType, "text/plain") {
		t.Fatalf("unexpected content type: %q", artifact.ContentType)
	}
	if string(artifact.Data) != "Executive Summary: the summary" {
		t.Fatalf("unexpected data: %q", artifact.Data)
	}
	if len(recorder.exports) != 1 || recorder.exports[0] != "txt" {
		t.Fatalf("export not recorded: %v", recorder.exports)
	}

	artifact, err = uc.ExportFeature(context.Background(), "sess-1", domain.FeatureExecutiveSummary, domain.FormatPDF)
	if err != nil {
		t.Fatalf("ExportFeature() pdf error = %v", err)
	}
	if artifact.Filename != "executive_summary.pdf" || artifact.ContentType != "application/pdf" {
		t.Fatalf("unexpected pdf artifact: %q %q", artifact.Filename, artifact.ContentType)
	}
}

func TestExportFeatureNotReady(t *testing.T) {
	repo := newSessionRepoFake()
	seedLoadedSession(repo, "sess-1", "body")
	uc := NewExportUseCase(repo, &artifactRendererFake{}, &workbookRendererFake{}, &recorderFake{})

	if _, err := uc.ExportFeature(context.Background(), "sess-1", domain.FeatureExecutiveSummary, domain.FormatTXT); !domain.IsKind(err, domain.ErrPreconditionViolation) {
		t.Fatalf("expected precondition violation for empty slot, got %v", err)
	}
	if _, err := uc.ExportFeature(context.Background(), "sess-1", "word-count", domain.FormatTXT); !domain.IsKind(err, domain.ErrFeatureNotFound) {
		t.Fatalf("expected feature not found, got %v", err)
	}
	if _, err := uc.ExportFeature(context.Background(), "missing", domain.FeatureExecutiveSummary, domain.FormatTXT); !domain.IsKind(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
}

func TestExportWorkbook(t *testing.T) {
	repo := newSessionRepoFake()
	seedReadyResult(repo, "sess-1", domain.FeatureKeyTakeaways, "takeaways")
	recorder := &recorderFake{}
	uc := NewExportUseCase(repo, &artifactRendererFake{}, &workbookRendererFake{}, recorder)

	artifact, err := uc.ExportWorkbook(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("ExportWorkbook() error = %v", err)
	}
	if artifact.Filename != "legal_doc_insights.xlsx" {
		t.Fatalf("unexpected filename: %q", artifact.Filename)
	}
	if len(recorder.exports) != 1 || recorder.exports[0] != "xlsx" {
		t.Fatalf("export not recorded: %v", recorder.exports)
	}

	seedSession(repo, "empty-sess")
	if _, err := uc.ExportWorkbook(context.Background(), "empty-sess"); !domain.IsKind(err, domain.ErrPreconditionViolation) {
		t.Fatalf("expected precondition violation without results, got %v", err)
	}
}
