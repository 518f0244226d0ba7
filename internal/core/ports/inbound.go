package ports

import (
	"context"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

// SessionManager is the inbound contract for session lifecycle and settings.
type SessionManager interface {
	Create(ctx context.Context) (domain.SessionSnapshot, error)
	Get(ctx context.Context, sessionID string) (domain.SessionSnapshot, error)
	Delete(ctx context.Context, sessionID string) error
	SetPersona(ctx context.Context, sessionID, persona string) (string, error)
	SetFeatureInput(ctx context.Context, sessionID string, feature domain.FeatureID, input string) error
}

// DocumentLoader is the inbound contract for loading and clearing session documents.
type DocumentLoader interface {
	Load(ctx context.Context, sessionID string, upload domain.Upload) (domain.Document, error)
	Clear(ctx context.Context, sessionID string) (domain.Document, error)
}

// FeatureRunner is the inbound contract for executing analysis features.
type FeatureRunner interface {
	Run(ctx context.Context, sessionID string, feature domain.FeatureID, input string) (domain.FeatureResult, error)
	Result(ctx context.Context, sessionID string, feature domain.FeatureID) (domain.FeatureResult, error)
}

// InsightExporter is the inbound contract for downloading results as files.
type InsightExporter interface {
	ExportFeature(ctx context.Context, sessionID string, feature domain.FeatureID, format domain.ExportFormat) (domain.Artifact, error)
	ExportWorkbook(ctx context.Context, sessionID string) (domain.Artifact, error)
}
