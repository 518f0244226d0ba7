package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

type DocumentStatus string

const (
	DocumentNone   DocumentStatus = "none"
	DocumentReady  DocumentStatus = "ready"
	DocumentFailed DocumentStatus = "failed"
)

type DocumentType string

const (
	TypePDF  DocumentType = "pdf"
	TypeDOCX DocumentType = "docx"
	TypeTXT  DocumentType = "txt"
	TypeHTML DocumentType = "html"
)

type ExtractionMode string

const (
	ModePlain ExtractionMode = "plain"
	ModeOCR   ExtractionMode = "ocr"
)

// Document is the currently loaded source text plus its identity and version.
// SourceID only answers "is this a new upload"; Version drives the stale-write
// guard and keeps increasing across loads and clears.
type Document struct {
	SourceID      string         `json:"source_id,omitempty"`
	Text          string         `json:"text,omitempty"`
	Version       uint64         `json:"version"`
	Status        DocumentStatus `json:"status"`
	FailureDetail string         `json:"failure_detail,omitempty"`
	DeclaredType  DocumentType   `json:"declared_type,omitempty"`
	Mode          ExtractionMode `json:"extraction_mode,omitempty"`
	LoadedAt      time.Time      `json:"loaded_at"`
}

// Upload carries one document load request through the inbound port.
type Upload struct {
	SourceID     string
	Data         []byte
	DeclaredType DocumentType
	Mode         ExtractionMode
	Force        bool
}

func DocumentTypeFromFilename(name string) (DocumentType, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch ext {
	case "pdf":
		return TypePDF, nil
	case "docx":
		return TypeDOCX, nil
	case "txt":
		return TypeTXT, nil
	case "html", "htm":
		return TypeHTML, nil
	default:
		return "", WrapError(ErrInvalidInput, "detect document type", fmt.Errorf("unsupported file extension %q", ext))
	}
}

func ParseExtractionMode(raw string) (ExtractionMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(ModePlain):
		return ModePlain, nil
	case string(ModeOCR):
		return ModeOCR, nil
	default:
		return "", WrapError(ErrInvalidInput, "parse extraction mode", fmt.Errorf("unknown mode %q", raw))
	}
}
