package ports

import (
	"context"
	"time"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

// SessionRepository stores live session aggregates. Get returns
// domain.ErrSessionNotFound for unknown or expired ids.
type SessionRepository interface {
	Put(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Delete(ctx context.Context, sessionID string) error
	Count(ctx context.Context) (int, error)
}

// TextExtractor turns an uploaded file into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, declaredType domain.DocumentType, mode domain.ExtractionMode) (string, error)
}

// InsightEngine generates feature content from a prompt. The system
// instruction carries the session persona.
type InsightEngine interface {
	Generate(ctx context.Context, systemInstruction, userPrompt string, params domain.EngineParams) (string, error)
}

// ArtifactRenderer renders one result into a downloadable file body.
type ArtifactRenderer interface {
	Render(content, title string, format domain.ExportFormat) ([]byte, error)
}

// WorkbookRenderer renders every ready result of a session into a spreadsheet.
type WorkbookRenderer interface {
	RenderWorkbook(snapshot domain.SessionSnapshot) ([]byte, error)
}

// EventPublisher emits session activity for downstream consumers. Publishing
// is best effort and must not fail the originating operation.
type EventPublisher interface {
	PublishDocumentLoaded(ctx context.Context, event domain.DocumentLoadedEvent) error
	PublishFeatureCompleted(ctx context.Context, event domain.FeatureCompletedEvent) error
	Close()
}

// ArtifactStore persists rendered artifacts outside the request path.
type ArtifactStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// InsightRecorder collects operational metrics from the use cases.
type InsightRecorder interface {
	RecordDocumentLoad(status, mode string)
	RecordFeatureRun(feature, status string, duration time.Duration)
	RecordStaleDiscard(feature string)
	RecordExportDownload(format string)
	SetActiveSessions(count int)
}
