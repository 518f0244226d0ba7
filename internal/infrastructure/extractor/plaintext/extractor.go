package plaintext

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Extractor handles plain text uploads. The bytes are taken as-is after a
// UTF-8 validity check.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not valid utf-8 text")
	}
	return strings.TrimSpace(string(data)), nil
}
