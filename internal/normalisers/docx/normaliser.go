// Package docx extracts text from Word (.docx) documents.
package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Extractor = (*Normaliser)(nil)

const documentPart = "word/document.xml"

// errNoDocumentPart means the archive is not a Word document.
var errNoDocumentPart = errors.New("word/document.xml not found")

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{"docx"}
}

// Extract opens the archive and returns the text of word/document.xml,
// one line per paragraph. Table cells are included in document order.
func (n *Normaliser) Extract(_ context.Context, path string) (string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("%w: open docx %s: %w", domain.ErrExtraction, path, err)
	}
	defer reader.Close()

	text, err := extractText(&reader.Reader)
	if err != nil {
		return "", fmt.Errorf("%w: docx %s: %w", domain.ErrExtraction, path, err)
	}
	return text, nil
}

func extractText(reader *zip.Reader) (string, error) {
	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()

		return parseDocumentXML(rc)
	}
	return "", errNoDocumentPart
}

// parseDocumentXML walks the WordprocessingML token stream. Only the local
// names matter: w:t carries text, w:tab and w:br are whitespace, and the
// end of w:p closes a paragraph.
func parseDocumentXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var result, para strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				para.WriteByte('\t')
			case "br", "cr":
				para.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				line := strings.TrimRight(para.String(), " \t")
				para.Reset()
				if line == "" {
					continue
				}
				if result.Len() > 0 {
					result.WriteByte('\n')
				}
				result.WriteString(line)
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}

	return strings.TrimSpace(result.String()), nil
}
