package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
	"github.com/kirillkom/legal-doc-assistant/internal/core/ports"
)

// LoadDocumentUseCase orchestrates document loading: upload validation, text
// extraction, and the atomic session swap.
type LoadDocumentUseCase struct {
	repo      ports.SessionRepository
	extractor ports.TextExtractor
	events    ports.EventPublisher
	recorder  ports.InsightRecorder
}

func NewLoadDocumentUseCase(repo ports.SessionRepository, extractor ports.TextExtractor, events ports.EventPublisher, recorder ports.InsightRecorder) *LoadDocumentUseCase {
	return &LoadDocumentUseCase{repo: repo, extractor: extractor, events: events, recorder: recorder}
}

// Load runs one load attempt. An extraction failure is not returned as an
// error: it becomes the session's document state, visible in the returned
// Document. Only invalid uploads and unknown sessions fail the call.
// Re-loading the source that is already current is a no-op unless forced.
func (uc *LoadDocumentUseCase) Load(ctx context.Context, sessionID string, upload domain.Upload) (domain.Document, error) {
	if err := validateUpload(upload); err != nil {
		return domain.Document{}, err
	}
	session, err := uc.repo.Get(ctx, sessionID)
	if err != nil {
		return domain.Document{}, err
	}
	if !upload.Force && session.HasSource(upload.SourceID) {
		return session.Document(), nil
	}

	text, extractErr := uc.extractor.Extract(ctx, upload.Data, upload.DeclaredType, upload.Mode)
	doc := session.ApplyDocument(upload.SourceID, upload.DeclaredType, upload.Mode, text, extractErr)
	if err := uc.repo.Put(ctx, session); err != nil {
		return domain.Document{}, err
	}

	uc.recorder.RecordDocumentLoad(string(doc.Status), string(doc.Mode))
	uc.publishLoaded(ctx, sessionID, doc)
	return doc, nil
}

// Clear removes the current document and resets every result slot.
func (uc *LoadDocumentUseCase) Clear(ctx context.Context, sessionID string) (domain.Document, error) {
	session, err := uc.repo.Get(ctx, sessionID)
	if err != nil {
		return domain.Document{}, err
	}
	doc := session.Clear()
	if err := uc.repo.Put(ctx, session); err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}

func validateUpload(upload domain.Upload) error {
	if upload.SourceID == "" {
		return domain.WrapError(domain.ErrInvalidInput, "validate upload", errors.New("missing source id"))
	}
	if len(upload.Data) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, "validate upload", errors.New("empty file"))
	}
	if upload.Mode == domain.ModeOCR && upload.DeclaredType != domain.TypePDF {
		return domain.WrapError(domain.ErrInvalidInput, "validate upload", fmt.Errorf("ocr extraction not supported for %s files", upload.DeclaredType))
	}
	return nil
}

func (uc *LoadDocumentUseCase) publishLoaded(ctx context.Context, sessionID string, doc domain.Document) {
	if uc.events == nil {
		return
	}
	event := domain.DocumentLoadedEvent{
		SessionID: sessionID,
		SourceID:  doc.SourceID,
		Version:   doc.Version,
		Status:    doc.Status,
		Mode:      doc.Mode,
		At:        doc.LoadedAt,
	}
	if err := uc.events.PublishDocumentLoaded(ctx, event); err != nil {
		slog.Warn("event_publish_failed", "event", "document_loaded", "session_id", sessionID, "error", err)
	}
}
