package domain

import "fmt"

type ExportFormat string

const (
	FormatTXT ExportFormat = "txt"
	FormatPDF ExportFormat = "pdf"
)

// ParseExportFormat accepts the wire form of an export format. An empty value
// defaults to plain text.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch raw {
	case "", string(FormatTXT):
		return FormatTXT, nil
	case string(FormatPDF):
		return FormatPDF, nil
	default:
		return "", WrapError(ErrInvalidInput, "parse export format", fmt.Errorf("unsupported format %q", raw))
	}
}

// Artifact is a rendered download: a result exported as a file.
type Artifact struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}
