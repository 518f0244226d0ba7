package export

import (
	"fmt"

	"github.com/kirillkom/legal-doc-assistant/internal/core/domain"
)

// Backend turns generated insight text into the bytes of one export format.
type Backend interface {
	Render(content, title string) ([]byte, error)
}

// Service routes renders to the backend registered for the requested format.
type Service struct {
	backends map[domain.ExportFormat]Backend
}

func NewService() *Service {
	return &Service{backends: make(map[domain.ExportFormat]Backend)}
}

func (s *Service) Register(format domain.ExportFormat, backend Backend) {
	s.backends[format] = backend
}

func (s *Service) Render(content, title string, format domain.ExportFormat) ([]byte, error) {
	backend, ok := s.backends[format]
	if !ok {
		return nil, domain.WrapError(domain.ErrInvalidInput, "select renderer",
			fmt.Errorf("no renderer for format %q", format))
	}
	data, err := backend.Render(content, title)
	if err != nil {
		return nil, domain.WrapError(domain.ErrEngineFailed, "render artifact", err)
	}
	return data, nil
}
