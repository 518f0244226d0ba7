package htmltext

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "table": true, "section": true, "article": true,
	"header": true, "footer": true, "blockquote": true, "pre": true,
}

var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true,
}

// Extractor renders an HTML document down to its visible text. Block-level
// elements become line breaks so the document structure survives.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, data []byte) (string, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var builder strings.Builder
	collectText(root, &builder)

	var lines []string
	for _, line := range strings.Split(builder.String(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func collectText(node *html.Node, builder *strings.Builder) {
	if node.Type == html.ElementNode && skippedElements[node.Data] {
		return
	}
	if node.Type == html.TextNode {
		builder.WriteString(node.Data)
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, builder)
	}
	if node.Type == html.ElementNode && blockElements[node.Data] {
		builder.WriteString("\n")
	}
}
