package extractor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

// Backend extracts text for one document type and extraction mode.
type Backend interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

type backendKey struct {
	docType domain.DocumentType
	mode    domain.ExtractionMode
}

// Service routes an upload to the matching backend and normalizes failures
// into the extraction error kind.
type Service struct {
	backends map[backendKey]Backend
}

func NewService() *Service {
	return &Service{backends: make(map[backendKey]Backend)}
}

func (s *Service) Register(docType domain.DocumentType, mode domain.ExtractionMode, backend Backend) {
	s.backends[backendKey{docType: docType, mode: mode}] = backend
}

func (s *Service) Extract(ctx context.Context, data []byte, declaredType domain.DocumentType, mode domain.ExtractionMode) (string, error) {
	backend, ok := s.backends[backendKey{docType: declaredType, mode: mode}]
	if !ok {
		return "", domain.WrapError(domain.ErrInvalidInput, "select extractor", fmt.Errorf("no extractor for %s/%s", declaredType, mode))
	}
	text, err := backend.Extract(ctx, data)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "extract text", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.WrapError(domain.ErrExtractionFailed, "extract text", errors.New("empty extracted text"))
	}
	return text, nil
}
