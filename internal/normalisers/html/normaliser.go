package html

import (
	"context"
	"fmt"
	"os"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/normalisers/markdown"
	"github.com/custodia-labs/docchat/internal/normalisers/plaintext"
)

// Ensure Normaliser implements the interface.
var _ driven.Extractor = (*Normaliser)(nil)

// nonContent lists elements removed before conversion.
const nonContent = "script, style, noscript, svg, template, iframe, object, embed"

// Normaliser handles HTML documents.
type Normaliser struct {
	converter *md.Converter
}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{converter: md.NewConverter("", true, nil)}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{"html", "htm", "xhtml"}
}

// Extract reads the file and returns its title and body text.
func (n *Normaliser) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", domain.ErrExtraction, path, err)
	}
	return n.Convert(plaintext.Normalise(data))
}

// Convert turns an HTML document into plain text. The <title>, when
// present and not already the first line of the body, leads the text.
func (n *Normaliser) Convert(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("%w: parse html: %w", domain.ErrExtraction, err)
	}

	title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	doc.Find(nonContent).Remove()

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("%w: render body: %w", domain.ErrExtraction, err)
	}

	converted, err := n.converter.ConvertString(body)
	if err != nil {
		return "", fmt.Errorf("%w: convert html: %w", domain.ErrExtraction, err)
	}
	text := markdown.Strip(converted)

	if title != "" && !strings.HasPrefix(text, title) {
		if text == "" {
			return title, nil
		}
		return title + "\n\n" + text, nil
	}
	return text, nil
}
